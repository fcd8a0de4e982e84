package update_reward_settings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/rewards"
)

const (
	msgInvalidPlaceID = "некорректный ID салона"
	msgInvalidBody    = "некорректное тело запроса"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgForbidden      = "доступ запрещен"
)

type Handler struct {
	service RewardsService
	logger  Logger
}

func NewHandler(service RewardsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// UpdateSettingsRequest - запрос на настройку программы лояльности
type UpdateSettingsRequest struct {
	EarnRate       float64 `json:"earnRate"`
	RedemptionRate float64 `json:"redemptionRate"`
}

// SettingsResponse - настройки программы лояльности заведения
type SettingsResponse struct {
	PlaceID        int64   `json:"placeId"`
	EarnRate       float64 `json:"earnRate"`
	RedemptionRate float64 `json:"redemptionRate"`
	UpdatedAt      string  `json:"updatedAt"`
}

func fromDomainSettings(s *domain.RewardSettings) SettingsResponse {
	return SettingsResponse{
		PlaceID:        s.PlaceID,
		EarnRate:       s.EarnRate,
		RedemptionRate: s.RedemptionRate,
		UpdatedAt:      s.UpdatedAt.Format(time.RFC3339),
	}
}

// Handle PUT /api/v1/places/{placeId}/rewards/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	placeID, err := strconv.ParseInt(vars["placeId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /places/{id}/rewards/settings - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /places/{id}/rewards/settings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /places/{id}/rewards/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), placeID, userID, req.EarnRate, req.RedemptionRate)
	if err != nil {
		switch {
		case errors.Is(err, rewards.ErrInvalidSettings):
			h.logger.Warn("PUT /places/{id}/rewards/settings - Invalid settings: place_id=%d, error=%v", placeID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, rewards.ErrAccessDenied):
			h.logger.Warn("PUT /places/{id}/rewards/settings - Access denied: place_id=%d, user_id=%d", placeID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /places/{id}/rewards/settings - Failed to update settings: place_id=%d, error=%v",
				placeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /places/{id}/rewards/settings - Settings updated: place_id=%d, user_id=%d", placeID, userID)
	handlers.RespondJSON(w, http.StatusOK, fromDomainSettings(settings))
}
