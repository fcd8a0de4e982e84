package get_employee_time_off

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
	msgInvalidPlaceID    = "некорректный ID заведения"
	msgInvalidEmployeeID = "некорректный ID сотрудника"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/places/{placeId}/employees/{employeeId}/time-off
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	placeID, err := strconv.ParseInt(vars["placeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /places/{id}/employees/{id}/time-off - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}
	employeeID, err := strconv.ParseInt(vars["employeeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /places/{id}/employees/{id}/time-off - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /places/{id}/employees/{id}/time-off - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.ListEntriesByEmployee(r.Context(), placeID, employeeID, userID)
	if err != nil {
		switch {
		case errors.Is(err, timeoff.ErrAccessDenied):
			h.logger.Warn("GET /places/{id}/employees/{id}/time-off - Access denied: place_id=%d, user_id=%d",
				placeID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /places/{id}/employees/{id}/time-off - Failed: employee_id=%d, error=%v",
				employeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /places/{id}/employees/{id}/time-off - %d entries returned: employee_id=%d",
		result.Total, employeeID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
