package domain

// Slot grid constants
const (
	// SlotStepMinutes шаг дискретизации слотов: начала слотов выравниваются
	// по границам кратным 15 минутам от начала суток
	SlotStepMinutes = 15
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов
	MaxServicesPerBooking     = 10
	MaxRecurringInstances     = 26 // полгода еженедельных повторов
	MaxNotesLength            = 500
	MaxCancellationReasonLength = 500
	MaxTimeOffRangeDays         = 366
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы записей, занимающих слот
// Используются при расчёте доступности
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы записей, не влияющих на доступность
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
}

// PricingCampaignTypes типы кампаний, влияющие на стоимость
var PricingCampaignTypes = []CampaignType{
	CampaignPriceReduction,
	CampaignFreeService,
}
