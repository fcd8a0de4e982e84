package quote_price

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	quotePrice "github.com/m04kA/SMC-SalonService/internal/usecase/quote_price"
)

const (
	msgInvalidPlaceID     = "некорректный ID заведения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgPlaceNotFound      = "заведение не найдено"
	msgServiceNotFound    = "услуга не найдена"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase QuotePriceUseCase
	logger  Logger
}

func NewHandler(useCase QuotePriceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/places/{placeId}/price-quote
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	placeID, err := strconv.ParseInt(vars["placeId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /places/{id}/price-quote - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /places/{id}/price-quote - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /places/{id}/price-quote - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &quotePrice.Request{
		UserID:       userID,
		PlaceID:      placeID,
		ServiceIDs:   req.ServiceIDs,
		RedeemPoints: req.RedeemPoints,
	})
	if err != nil {
		switch {
		case errors.Is(err, quotePrice.ErrPlaceNotFound):
			h.logger.Warn("POST /places/{id}/price-quote - Place not found: place_id=%d", placeID)
			handlers.RespondNotFound(w, msgPlaceNotFound)

		case errors.Is(err, quotePrice.ErrServiceNotFound):
			h.logger.Warn("POST /places/{id}/price-quote - Service not found: place_id=%d", placeID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, quotePrice.ErrInvalidInput):
			h.logger.Warn("POST /places/{id}/price-quote - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /places/{id}/price-quote - Failed: place_id=%d, error=%v", placeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /places/{id}/price-quote - Quote computed: place_id=%d, user_id=%d, total=%.2f",
		placeID, userID, result.FinalTotal)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
