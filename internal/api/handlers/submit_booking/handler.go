package submit_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	submitBooking "github.com/m04kA/SMC-SalonService/internal/usecase/submit_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateOrTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgSlotNotAvailable     = "выбранный временной слот недоступен"
	msgPlaceNotFound        = "заведение не найдено"
	msgServiceNotFound      = "услуга не найдена"
	msgEmployeeNotAvailable = "сотрудник не оказывает выбранные услуги"
	msgInvalidBookingDate   = "некорректная дата записи"
	msgInvalidInput         = "некорректные входные данные"
)

type Handler struct {
	useCase SubmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req SubmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, submitBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, place_id=%d", userID, req.PlaceID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, submitBooking.ErrPlaceNotFound):
			h.logger.Warn("POST /bookings - Place not found: place_id=%d", req.PlaceID)
			handlers.RespondNotFound(w, msgPlaceNotFound)

		case errors.Is(err, submitBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: user_id=%d, place_id=%d", userID, req.PlaceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, submitBooking.ErrEmployeeNotAvailable):
			h.logger.Warn("POST /bookings - Employee not available: user_id=%d, place_id=%d", userID, req.PlaceID)
			handlers.RespondBadRequest(w, msgEmployeeNotAvailable)

		case errors.Is(err, submitBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: user_id=%d, place_id=%d", userID, req.PlaceID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, submitBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, place_id=%d, error=%v",
				userID, req.PlaceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Повторяющиеся записи могут быть созданы частично
	status := http.StatusCreated
	if !result.Succeeded() {
		status = http.StatusConflict
	}

	h.logger.Info("POST /bookings - Booking request processed: user_id=%d, place_id=%d, instances=%d",
		userID, req.PlaceID, len(result.Instances))
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
