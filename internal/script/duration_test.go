package script

import (
	"strings"
	"testing"
)

func TestEstimateSeconds(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"floor", "hi", 2.0},
		{"empty", "", 2.0},
		{"150 words", strings.TrimSpace(strings.Repeat("word ", 150)), 60.0},
		{"75 words", strings.Repeat("w ", 75), 30.0},
		{"just above floor", strings.Repeat("w ", 6), 2.4},
		{"whitespace runs", "one\t two\n\nthree   four five", 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateSeconds(tt.in)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("EstimateSeconds = %v, want %v", got, tt.want)
			}
		})
	}
}
