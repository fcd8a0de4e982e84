package review_time_off

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
	msgInvalidEntryID     = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "заявка не найдена"
	msgForbidden          = "доступ запрещен"
	msgAlreadyReviewed    = "заявка уже рассмотрена"
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

// Handle PATCH /api/v1/time-off/{entryId}/review
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entryID, err := strconv.ParseInt(vars["entryId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /time-off/{id}/review - Invalid entry ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /time-off/{id}/review - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.ReviewEntryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /time-off/{id}/review - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	entry, err := h.service.ReviewEntry(r.Context(), entryID, &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, timeoff.ErrEntryNotFound):
			h.logger.Warn("PATCH /time-off/{id}/review - Entry not found: entry_id=%d", entryID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, timeoff.ErrAccessDenied):
			h.logger.Warn("PATCH /time-off/{id}/review - Access denied: entry_id=%d, user_id=%d", entryID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, timeoff.ErrAlreadyReviewed):
			h.logger.Warn("PATCH /time-off/{id}/review - Already reviewed: entry_id=%d", entryID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyReviewed)

		default:
			h.logger.Error("PATCH /time-off/{id}/review - Failed to review: entry_id=%d, error=%v", entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /time-off/{id}/review - Entry reviewed: entry_id=%d, status=%s, user_id=%d",
		entryID, entry.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, entry)
}
