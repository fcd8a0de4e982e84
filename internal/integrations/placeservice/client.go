package placeservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с PlaceService (каталог заведений,
// услуг и сотрудников)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PlaceService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetPlace получает заведение по ID
func (c *Client) GetPlace(ctx context.Context, placeID int64) (*Place, error) {
	url := fmt.Sprintf("%s/internal/places/%d", c.baseURL, placeID)

	var place Place
	if err := c.getJSON(ctx, url, &place, ErrPlaceNotFound); err != nil {
		return nil, err
	}
	return &place, nil
}

// GetService получает услугу заведения по ID
func (c *Client) GetService(ctx context.Context, placeID, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/places/%d/services/%d", c.baseURL, placeID, serviceID)

	var service Service
	if err := c.getJSON(ctx, url, &service, ErrServiceNotFound); err != nil {
		return nil, err
	}
	return &service, nil
}

// GetEmployee получает сотрудника заведения по ID
func (c *Client) GetEmployee(ctx context.Context, placeID, employeeID int64) (*Employee, error) {
	url := fmt.Sprintf("%s/internal/places/%d/employees/%d", c.baseURL, placeID, employeeID)

	var employee Employee
	if err := c.getJSON(ctx, url, &employee, ErrEmployeeNotFound); err != nil {
		return nil, err
	}
	return &employee, nil
}

// getJSON выполняет GET запрос и разбирает JSON ответ
// notFound возвращается для статуса 404
func (c *Client) getJSON(ctx context.Context, url string, dst interface{}, notFound error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
