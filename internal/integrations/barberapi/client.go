package barberapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
)

const maxErrorBodyBytes = 4 << 10

// Credentials токены доступа к API; пустые значения означают анонимный доступ
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Client клиент для работы с API барбершопа
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger

	mu     sync.Mutex
	tokens Credentials
}

// NewClient создает новый экземпляр клиента API
func NewClient(baseURL string, timeout time.Duration, creds Credentials, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:    log,
		tokens: creds,
	}
}

// GetCompanyConfig получает конфигурацию компании
func (c *Client) GetCompanyConfig(ctx context.Context) (*domain.CompanyConfig, error) {
	var dto CompanyConfigDTO
	if err := c.get(ctx, "/api/company/config", nil, &dto); err != nil {
		return nil, fmt.Errorf("GetCompanyConfig: %w", err)
	}
	return dto.ToDomain(), nil
}

// GetBarbers получает список барберов
func (c *Client) GetBarbers(ctx context.Context) (domain.Roster, error) {
	var data BarbersData
	if err := c.get(ctx, "/api/barbers", nil, &data); err != nil {
		return nil, fmt.Errorf("GetBarbers: %w", err)
	}
	if data.Barbers == nil {
		return nil, fmt.Errorf("%w: GetBarbers: no barbers in response", ErrInvalidResponse)
	}
	return data.ToDomain(), nil
}

// GetServices получает каталог услуг
func (c *Client) GetServices(ctx context.Context) (*domain.ServiceCatalog, error) {
	var data ServicesData
	if err := c.get(ctx, "/api/services", nil, &data); err != nil {
		return nil, fmt.Errorf("GetServices: %w", err)
	}
	if data.Services == nil {
		return nil, fmt.Errorf("%w: GetServices: no services in response", ErrInvalidResponse)
	}
	return data.ToDomain(), nil
}

// GetOccupiedSlots получает занятые интервалы барбера на дату
func (c *Client) GetOccupiedSlots(ctx context.Context, barberID string, date time.Time) ([]domain.OccupiedInterval, error) {
	path := fmt.Sprintf("/api/barbers/%s/occupied-slots", url.PathEscape(barberID))
	query := url.Values{"date": []string{date.Format(domain.DateFormat)}}

	var data OccupiedSlotsData
	err := c.get(ctx, path, query, &data)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("GetOccupiedSlots: %w: barber_id=%s", ErrBarberNotFound, barberID)
	}
	if err != nil {
		return nil, fmt.Errorf("GetOccupiedSlots: barber_id=%s: %w", barberID, err)
	}
	return data.ToDomain(), nil
}

// get выполняет GET запрос и разбирает data из конверта ответа.
// При 401 токен обновляется и запрос повторяется один раз.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	accessToken := c.accessToken()
	resp, err := c.do(ctx, endpoint, accessToken)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.canRefresh() {
		resp.Body.Close()
		c.log.Warn("barberapi: received 401 for %s, refreshing token", path)

		if err := c.refresh(ctx, accessToken); err != nil {
			return err
		}

		resp, err = c.do(ctx, endpoint, c.accessToken())
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим конверт ответа
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if !env.Success {
		return fmt.Errorf("%w: request was not successful: %s", ErrInvalidResponse, env.Message)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: empty data", ErrInvalidResponse)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: failed to decode data: %v", ErrInvalidResponse, err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, endpoint, accessToken string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}

	return resp, nil
}

// refresh обновляет пару токенов. Если другой запрос уже обновил токен,
// пока этот ждал блокировки, повторное обновление не выполняется.
func (c *Client) refresh(ctx context.Context, rejectedToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tokens.AccessToken != rejectedToken {
		return nil
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: c.tokens.RefreshToken})
	if err != nil {
		return fmt.Errorf("%w: failed to encode refresh request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/refresh", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create refresh request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute refresh request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("barberapi: token refresh failed with status %d", resp.StatusCode)
		return fmt.Errorf("%w: token refresh failed with status %d", ErrUnauthorized, resp.StatusCode)
	}

	var data refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fmt.Errorf("%w: failed to decode refresh response: %v", ErrInvalidResponse, err)
	}

	tokens, ok := data.tokens()
	if !ok {
		return fmt.Errorf("%w: refresh response has no tokens", ErrUnauthorized)
	}

	c.tokens = Credentials{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}
	c.log.Info("barberapi: access token refreshed, expires_at=%d", tokens.ExpiresAt)
	return nil
}

func (c *Client) accessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens.AccessToken
}

func (c *Client) canRefresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens.RefreshToken != ""
}
