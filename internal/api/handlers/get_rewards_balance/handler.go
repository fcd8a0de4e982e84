package get_rewards_balance

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
)

const (
	msgInvalidPlaceID = "некорректный ID салона"
	msgMissingUserID  = "отсутствует ID пользователя"
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

// BalanceResponse - баланс бонусных баллов пользователя в салоне
type BalanceResponse struct {
	PlaceID int64 `json:"placeId"`
	UserID  int64 `json:"userId"`
	Balance int   `json:"balance"`
}

// Handle GET /api/v1/places/{placeId}/rewards/balance
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	placeID, err := strconv.ParseInt(vars["placeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /places/{id}/rewards/balance - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /places/{id}/rewards/balance - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	balance, err := h.service.GetBalance(r.Context(), placeID, userID)
	if err != nil {
		h.logger.Error("GET /places/{id}/rewards/balance - Failed to get balance: place_id=%d, user_id=%d, error=%v",
			placeID, userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /places/{id}/rewards/balance - Balance retrieved: place_id=%d, user_id=%d, balance=%d",
		placeID, userID, balance)
	handlers.RespondJSON(w, http.StatusOK, BalanceResponse{
		PlaceID: placeID,
		UserID:  userID,
		Balance: balance,
	})
}
