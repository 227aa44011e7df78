package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextState(t *testing.T) {
	tests := []struct {
		name  string
		from  RecoveryState
		event RecoveryEvent
		want  RecoveryState
	}{
		{"first attempt passes", StateAttempt, EventPassed, StateDone},
		{"first attempt unauthorized", StateAttempt, EventUnauthorized, StateRefreshPending},
		{"refresh succeeded", StateRefreshPending, EventRefreshed, StateRetry},
		{"refresh failed", StateRefreshPending, EventRefreshFailed, StateGiveUp},
		{"replay passes", StateRetry, EventPassed, StateDone},
		{"replay fails", StateRetry, EventFailed, StateGiveUp},
		{"replay unauthorized again", StateRetry, EventUnauthorized, StateGiveUp},
		{"give up is terminal", StateGiveUp, EventRefreshed, StateGiveUp},
		{"done is terminal", StateDone, EventUnauthorized, StateDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextState(tt.from, tt.event))
		})
	}
}

func TestNextState_RefreshesAtMostOnce(t *testing.T) {
	state := StateAttempt
	refreshes := 0
	events := []RecoveryEvent{EventUnauthorized, EventRefreshed, EventUnauthorized, EventRefreshed}
	for _, e := range events {
		if state.Terminal() {
			break
		}
		if state == StateRefreshPending {
			refreshes++
		}
		state = NextState(state, e)
	}

	assert.Equal(t, StateGiveUp, state)
	assert.Equal(t, 1, refreshes)
}
