package barberapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func writeEnvelope(t *testing.T, w http.ResponseWriter, data string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte(`{"success":true,"message":"ok","data":` + data + `}`))
	require.NoError(t, err)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, creds Credentials) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, creds, nopLogger{})
}

func TestClient_GetCompanyConfig(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/company/config", r.URL.Path)
		writeEnvelope(t, w, `{
			"company_name": "Sharp Cuts",
			"company_phone": "+1 555 0100",
			"currency": "USD",
			"booking_advance_hours": 1.5,
			"time_slot_interval": 15,
			"booking_window_days": 30,
			"working_hours": {
				"Monday": {"is_open": true, "shifts": [{"start": "09:00", "end": "13:00"}, {"start": "14:00", "end": "18:00"}]},
				"sunday": {"is_open": false, "shifts": []}
			}
		}`)
	}, Credentials{})

	cfg, err := client.GetCompanyConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Sharp Cuts", cfg.CompanyName)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 30, cfg.BookingWindowDays)
	require.NotNil(t, cfg.Policy)
	assert.Equal(t, domain.SlotPolicy{IntervalMinutes: 15, AdvanceHours: 1.5}, *cfg.Policy)
	require.NotNil(t, cfg.WorkingHours)

	monday := (*cfg.WorkingHours)[domain.Monday]
	assert.True(t, monday.IsOpen)
	assert.Equal(t, []domain.Shift{{Start: "09:00", End: "13:00"}, {Start: "14:00", End: "18:00"}}, monday.Shifts)
	assert.False(t, (*cfg.WorkingHours)[domain.Sunday].IsOpen)
}

func TestClient_GetCompanyConfig_NoPolicy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, `{"company_name": "Sharp Cuts", "time_slot_interval": 20}`)
	}, Credentials{})

	cfg, err := client.GetCompanyConfig(context.Background())
	require.NoError(t, err)

	assert.Nil(t, cfg.WorkingHours)
	require.NotNil(t, cfg.Policy)
	assert.Equal(t, 20, cfg.Policy.IntervalMinutes)
	assert.Equal(t, domain.DefaultAdvanceHours, cfg.Policy.AdvanceHours)
}

func TestClient_GetBarbers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/barbers", r.URL.Path)
		writeEnvelope(t, w, `{"barbers": [
			{"id": 7, "user": {"name": "Anna", "email": "anna@example.com"}, "profile_image_url": "https://img/anna.jpg",
			 "rating": 4.8, "specialties": ["fade"], "experience_years": 6, "bio": "Classic cuts", "hire_date": "2020-01-15"},
			{"id": "b-2"}
		]}`)
	}, Credentials{})

	roster, err := client.GetBarbers(context.Background())
	require.NoError(t, err)
	require.Len(t, roster, 2)

	assert.Equal(t, domain.Barber{
		ID:          "7",
		Name:        "Anna",
		Email:       "anna@example.com",
		Photo:       "https://img/anna.jpg",
		Rating:      4.8,
		Specialties: []string{"fade"},
		Experience:  6,
		Bio:         "Classic cuts",
		HireDate:    "2020-01-15",
	}, roster[0])

	assert.Equal(t, "b-2", roster[1].ID)
	assert.Equal(t, unknownBarberName, roster[1].Name)
	assert.Equal(t, []string{}, roster[1].Specialties)
}

func TestClient_GetServices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, `{"services": [
			{"id": 1, "name": "Haircut", "price": 25, "duration_minutes": 45, "category": "hair", "is_active": true},
			{"id": 2, "name": "Shave", "is_active": true}
		], "count": 2}`)
	}, Credentials{})

	catalog, err := client.GetServices(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Services, 2)

	shave := catalog.Services[1]
	assert.Equal(t, defaultServiceDescription, shave.Description)
	assert.Equal(t, 30, shave.DurationMinutes)
	assert.Equal(t, defaultServiceCategory, shave.Category)

	assert.Equal(t, []string{"general", "hair"}, catalog.Categories)
	assert.Len(t, catalog.ServicesByCategory["hair"], 1)
	assert.Len(t, catalog.ServicesByCategory["general"], 1)
}

func TestClient_GetOccupiedSlots(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/barbers/missing/occupied-slots" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "/api/barbers/7/occupied-slots", r.URL.Path)
		assert.Equal(t, "2026-03-02", r.URL.Query().Get("date"))
		writeEnvelope(t, w, `{"occupied_slots": [
			{"booking_id": 11, "start_time": "10:00:00", "end_time": "11:00:00", "status": "confirmed"},
			{"booking_id": 12, "start_time": "14:00", "end_time": "14:30", "status": "cancelled"}
		]}`)
	}, Credentials{})

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	occupied, err := client.GetOccupiedSlots(context.Background(), "7", date)
	require.NoError(t, err)
	assert.Equal(t, []domain.OccupiedInterval{
		{BookingID: "11", StartTime: "10:00:00", EndTime: "11:00:00", Status: domain.StatusConfirmed},
		{BookingID: "12", StartTime: "14:00", EndTime: "14:30", Status: domain.StatusCancelled},
	}, occupied)

	_, err = client.GetOccupiedSlots(context.Background(), "missing", date)
	assert.ErrorIs(t, err, ErrBarberNotFound)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantErr: ErrInvalidResponse,
		},
		{
			name: "unsuccessful envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success":false,"message":"maintenance"}`))
			},
			wantErr: ErrInvalidResponse,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			wantErr: ErrInvalidResponse,
		},
		{
			name: "unauthorized without refresh token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantErr: ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler, Credentials{})
			_, err := client.GetBarbers(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_CatalogNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, Credentials{})
	ctx := context.Background()

	_, err := client.GetCompanyConfig(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.GetBarbers(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.GetServices(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrBarberNotFound)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(srv.URL, time.Second, Credentials{}, nopLogger{})
	_, err := client.GetServices(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestClient_RefreshesTokenOnceOn401(t *testing.T) {
	var refreshes, barberCalls int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			atomic.AddInt32(&refreshes, 1)
			var req refreshRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "refresh-1", req.RefreshToken)
			_, _ = w.Write([]byte(`{"session":{"access_token":"access-2","refresh_token":"refresh-2","expires_at":1772449200}}`))
		case "/api/barbers":
			atomic.AddInt32(&barberCalls, 1)
			if r.Header.Get("Authorization") != "Bearer access-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeEnvelope(t, w, `{"barbers": []}`)
		}
	}, Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"})

	roster, err := client.GetBarbers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, roster)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes))
	assert.Equal(t, int32(2), atomic.LoadInt32(&barberCalls))
	assert.Equal(t, "access-2", client.accessToken())
}

func TestClient_RetriesOnlyOnce(t *testing.T) {
	var barberCalls int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			_, _ = w.Write([]byte(`{"token_info":{"access_token":"access-2","refresh_token":"refresh-2"}}`))
		default:
			atomic.AddInt32(&barberCalls, 1)
			w.WriteHeader(http.StatusUnauthorized)
		}
	}, Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"})

	_, err := client.GetBarbers(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(2), atomic.LoadInt32(&barberCalls))
}

func TestClient_RefreshFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"})

	_, err := client.GetCompanyConfig(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "access-1", client.accessToken())
}
