package invalidate_cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBookingService/internal/service/catalog"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeCatalog struct {
	invalidated []string
	cleared     int
	err         error
}

func (f *fakeCatalog) Invalidate(_ context.Context, resource string) error {
	if resource != catalog.ResourceBarbers && resource != catalog.ResourceServices && resource != catalog.ResourceCompanyConfig {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownResource, resource)
	}
	f.invalidated = append(f.invalidated, resource)
	return f.err
}

func (f *fakeCatalog) Clear(context.Context) error {
	f.cleared++
	return f.err
}

type fakeOccupancy struct {
	barberID string
	date     time.Time
	cleared  int
	err      error
}

func (f *fakeOccupancy) Invalidate(_ context.Context, barberID string, date time.Time) error {
	f.barberID = barberID
	f.date = date
	return f.err
}

func (f *fakeOccupancy) Clear(context.Context) error {
	f.cleared++
	return f.err
}

func serve(cat *fakeCatalog, occ *fakeOccupancy, target string) *httptest.ResponseRecorder {
	h := NewHandler(cat, occ, nopLogger{})

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/admin/cache", h.Handle).Methods(http.MethodDelete)
	r.HandleFunc("/api/v1/admin/cache/occupied/{barberId}", h.HandleOccupied).Methods(http.MethodDelete)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) InvalidateResponse {
	t.Helper()
	var body InvalidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandle_SingleResource(t *testing.T) {
	cat, occ := &fakeCatalog{}, &fakeOccupancy{}

	rec := serve(cat, occ, "/api/v1/admin/cache?resource=barbers")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"barbers"}, cat.invalidated)
	assert.Equal(t, 0, occ.cleared)
	assert.Equal(t, []string{"barbers"}, decode(t, rec).Cleared)
}

func TestHandle_Occupied(t *testing.T) {
	cat, occ := &fakeCatalog{}, &fakeOccupancy{}

	rec := serve(cat, occ, "/api/v1/admin/cache?resource=occupied")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, occ.cleared)
	assert.Empty(t, cat.invalidated)
}

func TestHandle_All(t *testing.T) {
	cat, occ := &fakeCatalog{}, &fakeOccupancy{}

	rec := serve(cat, occ, "/api/v1/admin/cache?resource=all")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, cat.cleared)
	assert.Equal(t, 1, occ.cleared)
	assert.Equal(t, []string{"company_config", "barbers", "services", "occupied"}, decode(t, rec).Cleared)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		storeErr   error
		wantStatus int
	}{
		{"missing resource", "/api/v1/admin/cache", nil, http.StatusBadRequest},
		{"unknown resource", "/api/v1/admin/cache?resource=bookings", nil, http.StatusBadRequest},
		{"store failure", "/api/v1/admin/cache?resource=services", errors.New("redis down"), http.StatusInternalServerError},
		{"store failure on all", "/api/v1/admin/cache?resource=all", errors.New("redis down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeCatalog{err: tt.storeErr}, &fakeOccupancy{err: tt.storeErr}, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleOccupied(t *testing.T) {
	occ := &fakeOccupancy{}

	rec := serve(&fakeCatalog{}, occ, "/api/v1/admin/cache/occupied/7?date=2026-03-02")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", occ.barberID)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), occ.date)
	assert.Equal(t, []string{"7:2026-03-02"}, decode(t, rec).Cleared)
}

func TestHandleOccupied_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		storeErr   error
		wantStatus int
	}{
		{"missing date", "/api/v1/admin/cache/occupied/7", nil, http.StatusBadRequest},
		{"invalid date", "/api/v1/admin/cache/occupied/7?date=tomorrow", nil, http.StatusBadRequest},
		{"store failure", "/api/v1/admin/cache/occupied/7?date=2026-03-02", errors.New("pg down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeCatalog{}, &fakeOccupancy{err: tt.storeErr}, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
