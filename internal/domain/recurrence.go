package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RecurrenceKind вид правила повторения
type RecurrenceKind string

const (
	RecurrenceNone    RecurrenceKind = "none"
	RecurrenceWeekly  RecurrenceKind = "weekly"
	RecurrenceMonthly RecurrenceKind = "monthly"
)

var (
	// ErrUnknownRecurrence возвращается для неизвестного вида правила повторения
	// Резолвер обязан пропустить такую запись с предупреждением, а не прерывать расчёт
	ErrUnknownRecurrence = errors.New("domain: unknown recurrence kind")

	// ErrMalformedRecurrence возвращается для синтаксически некорректного правила
	ErrMalformedRecurrence = errors.New("domain: malformed recurrence pattern")
)

// RecurrencePattern правило повторения отгула или закрытого периода
// Типизированный вариант вместо произвольной карты: известные формы
// разбираются явно, неизвестные отклоняются
type RecurrencePattern struct {
	Kind       RecurrenceKind
	Weekdays   []time.Weekday // для Kind == weekly
	DayOfMonth int            // для Kind == monthly (1-31)
}

// rawRecurrence форма хранения правила в JSONB-колонке
type rawRecurrence struct {
	Kind       string `json:"kind"`
	Weekdays   []int  `json:"weekdays,omitempty"`
	DayOfMonth int    `json:"dayOfMonth,omitempty"`
}

// ParseRecurrencePattern разбирает правило из JSON
// Пустой payload трактуется как отсутствие повторения
func ParseRecurrencePattern(raw []byte) (RecurrencePattern, error) {
	if len(raw) == 0 {
		return RecurrencePattern{Kind: RecurrenceNone}, nil
	}

	var r rawRecurrence
	if err := json.Unmarshal(raw, &r); err != nil {
		return RecurrencePattern{}, fmt.Errorf("%w: %v", ErrMalformedRecurrence, err)
	}

	switch RecurrenceKind(r.Kind) {
	case RecurrenceNone, "":
		return RecurrencePattern{Kind: RecurrenceNone}, nil

	case RecurrenceWeekly:
		if len(r.Weekdays) == 0 {
			return RecurrencePattern{}, fmt.Errorf("%w: weekly pattern without weekdays", ErrMalformedRecurrence)
		}
		weekdays := make([]time.Weekday, 0, len(r.Weekdays))
		for _, wd := range r.Weekdays {
			if wd < 0 || wd > 6 {
				return RecurrencePattern{}, fmt.Errorf("%w: weekday %d out of range", ErrMalformedRecurrence, wd)
			}
			weekdays = append(weekdays, time.Weekday(wd))
		}
		return RecurrencePattern{Kind: RecurrenceWeekly, Weekdays: weekdays}, nil

	case RecurrenceMonthly:
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return RecurrencePattern{}, fmt.Errorf("%w: dayOfMonth %d out of range", ErrMalformedRecurrence, r.DayOfMonth)
		}
		return RecurrencePattern{Kind: RecurrenceMonthly, DayOfMonth: r.DayOfMonth}, nil

	default:
		return RecurrencePattern{}, fmt.Errorf("%w: %q", ErrUnknownRecurrence, r.Kind)
	}
}

// MarshalJSON сериализует правило в форму хранения
func (p RecurrencePattern) MarshalJSON() ([]byte, error) {
	r := rawRecurrence{Kind: string(p.Kind), DayOfMonth: p.DayOfMonth}
	for _, wd := range p.Weekdays {
		r.Weekdays = append(r.Weekdays, int(wd))
	}
	return json.Marshal(r)
}

// IsRecurring возвращает true, если правило задаёт повторение
func (p RecurrencePattern) IsRecurring() bool {
	return p.Kind == RecurrenceWeekly || p.Kind == RecurrenceMonthly
}

// Matches возвращает true, если дата попадает под правило повторения
func (p RecurrencePattern) Matches(date time.Time) bool {
	switch p.Kind {
	case RecurrenceWeekly:
		for _, wd := range p.Weekdays {
			if date.Weekday() == wd {
				return true
			}
		}
		return false
	case RecurrenceMonthly:
		return date.Day() == p.DayOfMonth
	default:
		return false
	}
}
