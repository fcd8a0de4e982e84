package rewards

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	rewardsRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/rewards"
	"github.com/m04kA/SMC-SalonService/internal/integrations/placeservice"
)

var (
	// ErrAccessDenied возвращается при попытке управления чужой программой
	ErrAccessDenied = errors.New("rewards: access denied")

	// ErrSettingsNotFound возвращается, когда программа лояльности не настроена
	ErrSettingsNotFound = errors.New("rewards: settings not found")

	// ErrInvalidSettings возвращается при некорректных ставках программы
	ErrInvalidSettings = errors.New("rewards: invalid settings")
)

// AdminRepository интерфейс репозитория для управления программой лояльности
type AdminRepository interface {
	GetSettings(ctx context.Context, placeID int64) (*domain.RewardSettings, error)
	UpsertSettings(ctx context.Context, settings *domain.RewardSettings) error
	GetBalance(ctx context.Context, placeID, userID int64) (int, error)
}

// PlaceServiceClient интерфейс клиента для PlaceService
type PlaceServiceClient interface {
	GetPlace(ctx context.Context, placeID int64) (*placeservice.Place, error)
}

// Admin сервис управления программой лояльности заведения
// Расчётом эффекта баллов занимается Calculator, здесь только настройки
// и просмотр баланса
type Admin struct {
	repo        AdminRepository
	placeClient PlaceServiceClient
	logger      Logger
}

// NewAdmin создает новый экземпляр сервиса управления лояльностью
func NewAdmin(repo AdminRepository, placeClient PlaceServiceClient, logger Logger) *Admin {
	return &Admin{
		repo:        repo,
		placeClient: placeClient,
		logger:      logger,
	}
}

// GetBalance возвращает баланс баллов клиента в заведении
// Клиент без единой проводки имеет нулевой баланс
func (a *Admin) GetBalance(ctx context.Context, placeID, userID int64) (int, error) {
	balance, err := a.repo.GetBalance(ctx, placeID, userID)
	if err != nil {
		a.logger.Error("Rewards: failed to get balance for place=%d, user=%d: %v", placeID, userID, err)
		return 0, fmt.Errorf("%w: failed to get balance: %v", ErrInternal, err)
	}
	return balance, nil
}

// GetSettings возвращает настройки программы лояльности заведения
func (a *Admin) GetSettings(ctx context.Context, placeID int64) (*domain.RewardSettings, error) {
	settings, err := a.repo.GetSettings(ctx, placeID)
	if err != nil {
		if errors.Is(err, rewardsRepo.ErrSettingsNotFound) {
			return nil, ErrSettingsNotFound
		}
		a.logger.Error("Rewards: failed to get settings for place=%d: %v", placeID, err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	return settings, nil
}

// UpdateSettings создает или обновляет настройки программы лояльности
// Доступно только менеджерам заведения; нулевая ставка списания
// отключает списание баллов
func (a *Admin) UpdateSettings(ctx context.Context, placeID, userID int64, earnRate, redemptionRate float64) (*domain.RewardSettings, error) {
	a.logger.Info("Rewards: updating settings for place=%d by user=%d", placeID, userID)

	if earnRate < 0 || redemptionRate < 0 {
		return nil, fmt.Errorf("%w: rates must not be negative", ErrInvalidSettings)
	}

	place, err := a.placeClient.GetPlace(ctx, placeID)
	if err != nil {
		a.logger.Error("Rewards: failed to get place id=%d: %v", placeID, err)
		return nil, fmt.Errorf("%w: failed to get place: %v", ErrInternal, err)
	}
	if !place.IsManager(userID) {
		a.logger.Warn("Rewards: user=%d is not a manager of place=%d", userID, placeID)
		return nil, ErrAccessDenied
	}

	settings := &domain.RewardSettings{
		PlaceID:        placeID,
		EarnRate:       earnRate,
		RedemptionRate: redemptionRate,
	}
	if err := a.repo.UpsertSettings(ctx, settings); err != nil {
		a.logger.Error("Rewards: failed to upsert settings for place=%d: %v", placeID, err)
		return nil, fmt.Errorf("%w: failed to upsert settings: %v", ErrInternal, err)
	}

	updated, err := a.repo.GetSettings(ctx, placeID)
	if err != nil {
		a.logger.Error("Rewards: failed to reload settings for place=%d: %v", placeID, err)
		return nil, fmt.Errorf("%w: failed to reload settings: %v", ErrInternal, err)
	}

	a.logger.Info("Rewards: settings updated for place=%d (earn=%.4f, redemption=%.4f)",
		placeID, updated.EarnRate, updated.RedemptionRate)
	return updated, nil
}
