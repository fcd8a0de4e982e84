package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscretizeSlots(t *testing.T) {
	tests := []struct {
		name     string
		free     []TimeInterval
		duration int
		want     []TimeInterval
	}{
		{
			name:     "ровный интервал нарезается по сетке 15 минут",
			free:     []TimeInterval{iv(10, 0, 11, 0)},
			duration: 30,
			want: []TimeInterval{
				iv(10, 0, 10, 30),
				iv(10, 15, 10, 45),
				iv(10, 30, 11, 0),
			},
		},
		{
			name:     "невыровненное начало округляется вверх до границы сетки",
			free:     []TimeInterval{iv(10, 5, 11, 0)},
			duration: 30,
			want: []TimeInterval{
				iv(10, 15, 10, 45),
				iv(10, 30, 11, 0),
			},
		},
		{
			name:     "слот не вылезает за конец интервала",
			free:     []TimeInterval{iv(10, 0, 10, 40)},
			duration: 30,
			want: []TimeInterval{
				iv(10, 0, 10, 30),
			},
		},
		{
			name:     "интервал короче услуги не дает слотов",
			free:     []TimeInterval{iv(10, 0, 10, 20)},
			duration: 30,
			want:     []TimeInterval{},
		},
		{
			name:     "нулевая длительность не дает слотов",
			free:     []TimeInterval{iv(10, 0, 12, 0)},
			duration: 0,
			want:     []TimeInterval{},
		},
		{
			name: "несколько свободных интервалов обрабатываются независимо",
			free: []TimeInterval{iv(9, 0, 9, 45), iv(16, 0, 16, 45)},
			duration: 45,
			want: []TimeInterval{
				iv(9, 0, 9, 45),
				iv(16, 0, 16, 45),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscretizeSlots(tt.free, tt.duration))
		})
	}
}
