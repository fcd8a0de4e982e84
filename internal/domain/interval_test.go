package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// at строит момент времени внутри одного дня (UTC)
func at(hour, min int) time.Time {
	return time.Date(2025, 6, 16, hour, min, 0, 0, time.UTC)
}

func iv(startHour, startMin, endHour, endMin int) TimeInterval {
	return TimeInterval{Start: at(startHour, startMin), End: at(endHour, endMin)}
}

func TestTimeInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    TimeInterval
		b    TimeInterval
		want bool
	}{
		{
			name: "перекрывающиеся интервалы",
			a:    iv(10, 0, 12, 0),
			b:    iv(11, 0, 13, 0),
			want: true,
		},
		{
			name: "граничащие интервалы не пересекаются",
			a:    iv(10, 0, 12, 0),
			b:    iv(12, 0, 14, 0),
			want: false,
		},
		{
			name: "вложенный интервал",
			a:    iv(10, 0, 14, 0),
			b:    iv(11, 0, 12, 0),
			want: true,
		},
		{
			name: "непересекающиеся интервалы",
			a:    iv(8, 0, 9, 0),
			b:    iv(10, 0, 11, 0),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestMergeIntervals(t *testing.T) {
	tests := []struct {
		name  string
		input []TimeInterval
		want  []TimeInterval
	}{
		{
			name:  "пустой вход",
			input: nil,
			want:  []TimeInterval{},
		},
		{
			name:  "пересекающиеся объединяются",
			input: []TimeInterval{iv(10, 0, 12, 0), iv(11, 0, 13, 0)},
			want:  []TimeInterval{iv(10, 0, 13, 0)},
		},
		{
			name:  "смежные объединяются",
			input: []TimeInterval{iv(10, 0, 12, 0), iv(12, 0, 14, 0)},
			want:  []TimeInterval{iv(10, 0, 14, 0)},
		},
		{
			name:  "раздельные сохраняются и сортируются",
			input: []TimeInterval{iv(14, 0, 15, 0), iv(9, 0, 10, 0)},
			want:  []TimeInterval{iv(9, 0, 10, 0), iv(14, 0, 15, 0)},
		},
		{
			name:  "нулевые и перевернутые интервалы отбрасываются",
			input: []TimeInterval{iv(10, 0, 10, 0), iv(12, 0, 11, 0), iv(9, 0, 10, 0)},
			want:  []TimeInterval{iv(9, 0, 10, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeIntervals(tt.input))
		})
	}
}

func TestSubtract(t *testing.T) {
	tests := []struct {
		name    string
		base    TimeInterval
		blocked []TimeInterval
		want    []TimeInterval
	}{
		{
			name:    "без блокировок возвращается вся база",
			base:    iv(9, 0, 18, 0),
			blocked: nil,
			want:    []TimeInterval{iv(9, 0, 18, 0)},
		},
		{
			name:    "блокировка в середине делит базу",
			base:    iv(9, 0, 18, 0),
			blocked: []TimeInterval{iv(12, 0, 13, 0)},
			want:    []TimeInterval{iv(9, 0, 12, 0), iv(13, 0, 18, 0)},
		},
		{
			name:    "блокировка с краю не оставляет нулевого остатка",
			base:    iv(9, 0, 18, 0),
			blocked: []TimeInterval{iv(9, 0, 10, 0)},
			want:    []TimeInterval{iv(10, 0, 18, 0)},
		},
		{
			name:    "полная блокировка",
			base:    iv(9, 0, 18, 0),
			blocked: []TimeInterval{iv(8, 0, 19, 0)},
			want:    []TimeInterval{},
		},
		{
			name:    "пересекающиеся блокировки объединяются перед вычитанием",
			base:    iv(9, 0, 18, 0),
			blocked: []TimeInterval{iv(11, 0, 13, 0), iv(12, 0, 14, 0)},
			want:    []TimeInterval{iv(9, 0, 11, 0), iv(14, 0, 18, 0)},
		},
		{
			name:    "блокировка вне базы игнорируется",
			base:    iv(9, 0, 12, 0),
			blocked: []TimeInterval{iv(14, 0, 15, 0)},
			want:    []TimeInterval{iv(9, 0, 12, 0)},
		},
		{
			name:    "некорректная база дает пустой результат",
			base:    iv(12, 0, 9, 0),
			blocked: nil,
			want:    []TimeInterval{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Subtract(tt.base, tt.blocked)
			assert.Equal(t, tt.want, got)

			// Свободные интервалы не пересекаются с блокировками
			for _, free := range got {
				for _, block := range tt.blocked {
					assert.False(t, free.Overlaps(block),
						"free %v overlaps blocked %v", free, block)
				}
			}
		})
	}
}

func TestSubtractAll(t *testing.T) {
	base := []TimeInterval{iv(9, 0, 13, 0), iv(14, 0, 18, 0)}
	blocked := []TimeInterval{iv(10, 0, 11, 0), iv(15, 0, 16, 0)}

	got := SubtractAll(base, blocked)

	want := []TimeInterval{
		iv(9, 0, 10, 0),
		iv(11, 0, 13, 0),
		iv(14, 0, 15, 0),
		iv(16, 0, 18, 0),
	}
	assert.Equal(t, want, got)
}

func TestIntersect(t *testing.T) {
	got, ok := Intersect(iv(9, 0, 12, 0), iv(11, 0, 14, 0))
	require.True(t, ok)
	assert.Equal(t, iv(11, 0, 12, 0), got)

	_, ok = Intersect(iv(9, 0, 10, 0), iv(10, 0, 11, 0))
	assert.False(t, ok)
}
