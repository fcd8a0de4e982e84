package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	getAvailability "github.com/m04kA/SMC-SalonService/internal/usecase/get_availability"
)

const (
	msgInvalidPlaceID       = "некорректный ID заведения"
	msgInvalidServiceID     = "некорректный параметр serviceId"
	msgInvalidEmployeeID    = "некорректный параметр employeeId"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgPlaceNotFound        = "заведение не найдено"
	msgServiceNotFound      = "услуга не найдена"
	msgEmployeeNotAvailable = "сотрудник не оказывает эту услугу"
	msgInvalidBookingDate   = "некорректная дата записи"
	msgInvalidParams        = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/places/{placeId}/availability
// Query params: serviceId, date (обязательные), employeeId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	placeID, err := strconv.ParseInt(vars["placeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /places/{id}/availability - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}

	serviceID, err := strconv.ParseInt(r.URL.Query().Get("serviceId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /places/{id}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	var employeeID *int64
	if raw := r.URL.Query().Get("employeeId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /places/{id}/availability - Invalid employee ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidEmployeeID)
			return
		}
		employeeID = &id
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /places/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		PlaceID:    placeID,
		ServiceID:  serviceID,
		EmployeeID: employeeID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrPlaceNotFound):
			h.logger.Warn("GET /places/{id}/availability - Place not found: place_id=%d", placeID)
			handlers.RespondNotFound(w, msgPlaceNotFound)

		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /places/{id}/availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrEmployeeNotAvailable):
			h.logger.Warn("GET /places/{id}/availability - Employee not available: place_id=%d", placeID)
			handlers.RespondBadRequest(w, msgEmployeeNotAvailable)

		case errors.Is(err, getAvailability.ErrInvalidDate):
			h.logger.Warn("GET /places/{id}/availability - Invalid booking date: place_id=%d", placeID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /places/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /places/{id}/availability - Failed: place_id=%d, error=%v", placeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /places/{id}/availability - %d slots returned: place_id=%d, service_id=%d",
		len(result.Slots), placeID, serviceID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
