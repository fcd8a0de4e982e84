package domain

import (
	"sort"
	"time"
)

// TimeInterval represents a half-open time span [Start, End)
// Все операции чистые и не имеют побочных эффектов
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// IsValid returns true if the interval is well-formed (Start < End)
func (i TimeInterval) IsValid() bool {
	return i.Start.Before(i.End)
}

// Duration returns the length of the interval
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps returns true if two half-open intervals actually overlap
// Интервалы, которые только граничат (конец одного == начало другого), НЕ пересекаются
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains returns true if t falls within the interval
func (i TimeInterval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Intersect возвращает пересечение двух интервалов
// Второе значение false, если пересечения нет
func Intersect(a, b TimeInterval) (TimeInterval, bool) {
	if !a.Overlaps(b) {
		return TimeInterval{}, false
	}
	result := TimeInterval{Start: a.Start, End: a.End}
	if b.Start.After(result.Start) {
		result.Start = b.Start
	}
	if b.End.Before(result.End) {
		result.End = b.End
	}
	return result, true
}

// MergeIntervals объединяет пересекающиеся и смежные интервалы
// Возвращает минимальный отсортированный набор без нулевых интервалов
func MergeIntervals(intervals []TimeInterval) []TimeInterval {
	valid := make([]TimeInterval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.IsValid() {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return []TimeInterval{}
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Start.Before(valid[j].Start)
	})

	merged := make([]TimeInterval, 0, len(valid))
	current := valid[0]

	for _, iv := range valid[1:] {
		// Смежные интервалы (End == Start) тоже объединяем
		if !iv.Start.After(current.End) {
			if iv.End.After(current.End) {
				current.End = iv.End
			}
			continue
		}
		merged = append(merged, current)
		current = iv
	}
	merged = append(merged, current)

	return merged
}

// Subtract возвращает свободные подинтервалы base после вычитания blocked
// Заблокированные интервалы предварительно объединяются, результат
// отсортирован и не содержит нулевых остатков
func Subtract(base TimeInterval, blocked []TimeInterval) []TimeInterval {
	if !base.IsValid() {
		return []TimeInterval{}
	}

	merged := MergeIntervals(blocked)
	free := make([]TimeInterval, 0, len(merged)+1)
	cursor := base.Start

	for _, block := range merged {
		if !block.Overlaps(base) {
			continue
		}
		if block.Start.After(cursor) {
			free = append(free, TimeInterval{Start: cursor, End: block.Start})
		}
		if block.End.After(cursor) {
			cursor = block.End
		}
	}

	if cursor.Before(base.End) {
		free = append(free, TimeInterval{Start: cursor, End: base.End})
	}

	return free
}

// SubtractAll вычитает blocked из каждого интервала base
// Интервалы base предварительно объединяются
func SubtractAll(base []TimeInterval, blocked []TimeInterval) []TimeInterval {
	free := make([]TimeInterval, 0, len(base))
	for _, b := range MergeIntervals(base) {
		free = append(free, Subtract(b, blocked)...)
	}
	return free
}
