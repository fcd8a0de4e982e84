package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrInvalidResponse возвращается при некорректном ответе сервиса
	ErrInvalidResponse = errors.New("notifyservice: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifyservice: internal error")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// BookingConfirmedEvent событие успешного подтверждения записи
// Публикуется после коммита; обновление UI и кешей - забота подписчиков,
// а не движка бронирования
type BookingConfirmedEvent struct {
	BookingID    int64   `json:"bookingId"`
	PlaceID      int64   `json:"placeId"`
	CustomerID   int64   `json:"customerId"`
	EmployeeID   int64   `json:"employeeId"`
	BookingDate  string  `json:"bookingDate"`
	StartTime    string  `json:"startTime"`
	FinalTotal   float64 `json:"finalTotal"`
	PointsEarned int     `json:"pointsEarned"`
}

// Client клиент для отправки событий в NotifyService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// PublishBookingConfirmed отправляет событие подтверждения записи
func (c *Client) PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error {
	url := fmt.Sprintf("%s/internal/events/booking-confirmed", c.baseURL)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	return nil
}
