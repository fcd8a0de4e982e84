package request_time_off

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/timeoff"
	"github.com/m04kA/SMC-SalonService/internal/service/timeoff/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidInput       = "некорректные данные заявки"
)

type Handler struct {
	service TimeOffService
	logger  Logger
}

func NewHandler(service TimeOffService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/time-off
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /time-off - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateEntryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /time-off - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	entry, err := h.service.RequestEntry(r.Context(), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, timeoff.ErrAccessDenied):
			h.logger.Warn("POST /time-off - Access denied: user_id=%d, place_id=%d", userID, req.PlaceID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, timeoff.ErrInvalidInput):
			h.logger.Warn("POST /time-off - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /time-off - Failed to create entry: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /time-off - Entry created: entry_id=%d, employee_id=%d, user_id=%d",
		entry.ID, req.EmployeeID, userID)
	handlers.RespondJSON(w, http.StatusCreated, entry)
}
