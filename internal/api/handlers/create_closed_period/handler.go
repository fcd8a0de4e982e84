package create_closed_period

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/timeoff"
	"github.com/m04kA/SMC-SalonService/internal/service/timeoff/models"
)

const (
	msgInvalidPlaceID     = "некорректный ID заведения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidInput       = "некорректные данные периода"
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

// Handle POST /api/v1/places/{placeId}/closed-periods
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	placeID, err := strconv.ParseInt(vars["placeId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /places/{id}/closed-periods - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /places/{id}/closed-periods - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateClosedPeriodRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /places/{id}/closed-periods - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.PlaceID = placeID

	period, err := h.service.CreateClosedPeriod(r.Context(), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, timeoff.ErrAccessDenied):
			h.logger.Warn("POST /places/{id}/closed-periods - Access denied: place_id=%d, user_id=%d",
				placeID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, timeoff.ErrInvalidInput):
			h.logger.Warn("POST /places/{id}/closed-periods - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /places/{id}/closed-periods - Failed to create: place_id=%d, error=%v",
				placeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /places/{id}/closed-periods - Period created: period_id=%d, place_id=%d, user_id=%d",
		period.ID, placeID, userID)
	handlers.RespondJSON(w, http.StatusCreated, period)
}
