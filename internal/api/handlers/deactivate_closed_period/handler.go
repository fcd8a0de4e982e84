package deactivate_closed_period

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/timeoff"
)

const (
	msgInvalidPlaceID  = "некорректный ID заведения"
	msgInvalidPeriodID = "некорректный ID периода"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgNotFound        = "закрытый период не найден"
	msgForbidden       = "доступ запрещен"
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

// Handle PATCH /api/v1/places/{placeId}/closed-periods/{periodId}/deactivate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	placeID, err := strconv.ParseInt(vars["placeId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /places/{id}/closed-periods/{id}/deactivate - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}
	periodID, err := strconv.ParseInt(vars["periodId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /places/{id}/closed-periods/{id}/deactivate - Invalid period ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriodID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /places/{id}/closed-periods/{id}/deactivate - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeactivateClosedPeriod(r.Context(), periodID, placeID, userID); err != nil {
		switch {
		case errors.Is(err, timeoff.ErrEntryNotFound):
			h.logger.Warn("PATCH /places/{id}/closed-periods/{id}/deactivate - Not found: period_id=%d", periodID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, timeoff.ErrAccessDenied):
			h.logger.Warn("PATCH /places/{id}/closed-periods/{id}/deactivate - Access denied: place_id=%d, user_id=%d",
				placeID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PATCH /places/{id}/closed-periods/{id}/deactivate - Failed: period_id=%d, error=%v",
				periodID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /places/{id}/closed-periods/{id}/deactivate - Period deactivated: period_id=%d, user_id=%d",
		periodID, userID)
	w.WriteHeader(http.StatusNoContent)
}
