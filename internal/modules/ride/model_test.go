package ride

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"idle to searching", StatusIdle, StatusSearching, true},
		{"searching to accepted", StatusSearching, StatusAccepted, true},
		{"searching to cancelled", StatusSearching, StatusCancelled, true},
		{"accepted to arrived", StatusAccepted, StatusArrived, true},
		{"accepted to in_progress", StatusAccepted, StatusInProgress, true},
		{"arrived to in_progress", StatusArrived, StatusInProgress, true},
		{"in_progress to completed", StatusInProgress, StatusCompleted, true},
		{"completed to idle", StatusCompleted, StatusIdle, true},
		{"cancelled to idle", StatusCancelled, StatusIdle, true},

		{"idle to accepted", StatusIdle, StatusAccepted, false},
		{"searching to in_progress", StatusSearching, StatusInProgress, false},
		{"accepted to completed", StatusAccepted, StatusCompleted, false},
		{"in_progress to cancelled", StatusInProgress, StatusCancelled, false},
		{"completed to searching", StatusCompleted, StatusSearching, false},
		{"cancelled to accepted", StatusCancelled, StatusAccepted, false},
		{"in_progress to idle", StatusInProgress, StatusIdle, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	if !Terminal(StatusCompleted) || !Terminal(StatusCancelled) {
		t.Error("completed and cancelled are terminal")
	}
	if Terminal(StatusInProgress) || Terminal(StatusIdle) {
		t.Error("in_progress and idle are not terminal")
	}
}
