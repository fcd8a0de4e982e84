package domain

import "time"

// RewardSettings настройки программы лояльности заведения
// Меняются только владельцем через настройки заведения
type RewardSettings struct {
	ID      int64
	PlaceID int64
	// EarnRate баллов за единицу валюты
	EarnRate float64
	// RedemptionRate стоимость одного балла в валюте при списании
	RedemptionRate float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RedemptionEnabled возвращает true, если списание баллов включено
func (s *RewardSettings) RedemptionEnabled() bool {
	return s.RedemptionRate > 0
}

// RewardsEffect дельты баллов по одной записи
// Калькулятор никогда не меняет баланс напрямую - дельты применяет
// хранилище в одной транзакции с созданием записи
type RewardsEffect struct {
	PointsEarned    int
	PointsRedeemed  int
	RedemptionValue float64
}

// LedgerEntryKind вид операции в журнале баллов
type LedgerEntryKind string

const (
	LedgerEarn   LedgerEntryKind = "earn"
	LedgerRedeem LedgerEntryKind = "redeem"
)

// LedgerEntry запись журнала баллов клиента в заведении
type LedgerEntry struct {
	ID        int64
	PlaceID   int64
	UserID    int64
	BookingID int64
	Kind      LedgerEntryKind
	Points    int
	CreatedAt time.Time
}
