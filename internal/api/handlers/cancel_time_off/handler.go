package cancel_time_off

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
	msgInvalidEntryID = "некорректный ID заявки"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgNotFound       = "заявка не найдена"
	msgForbidden      = "доступ запрещен"
	msgCannotCancel   = "заявку нельзя отменить"
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

// Handle PATCH /api/v1/time-off/{entryId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entryID, err := strconv.ParseInt(vars["entryId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /time-off/{id}/cancel - Invalid entry ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /time-off/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	entry, err := h.service.CancelEntry(r.Context(), entryID, userID)
	if err != nil {
		switch {
		case errors.Is(err, timeoff.ErrEntryNotFound):
			h.logger.Warn("PATCH /time-off/{id}/cancel - Entry not found: entry_id=%d", entryID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, timeoff.ErrAccessDenied):
			h.logger.Warn("PATCH /time-off/{id}/cancel - Access denied: entry_id=%d, user_id=%d", entryID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, timeoff.ErrCannotCancel):
			h.logger.Warn("PATCH /time-off/{id}/cancel - Cannot cancel: entry_id=%d", entryID)
			handlers.RespondError(w, http.StatusConflict, msgCannotCancel)

		default:
			h.logger.Error("PATCH /time-off/{id}/cancel - Failed to cancel: entry_id=%d, error=%v", entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /time-off/{id}/cancel - Entry cancelled: entry_id=%d, user_id=%d", entryID, userID)
	handlers.RespondJSON(w, http.StatusOK, entry)
}
