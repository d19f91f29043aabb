package control

import (
	"testing"

	"github.com/vietddude/occload/internal/load"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		sum  load.Summary
		want int
	}{
		{"all succeeded", load.Summary{Succeeded: 10}, ExitOK},
		{"nothing ran", load.Summary{}, ExitOK},
		{"dead lettered", load.Summary{Succeeded: 9, DeadLettered: 1}, ExitDeadLettered},
		{"cancelled", load.Summary{Succeeded: 4, Cancelled: 2}, ExitCancelled},
		{"cancelled wins over dead lettered", load.Summary{DeadLettered: 1, Cancelled: 1}, ExitCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.sum); got != tt.want {
				t.Errorf("ExitCode(%+v) = %d, want %d", tt.sum, got, tt.want)
			}
		})
	}
}
