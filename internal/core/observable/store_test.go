package observable_test

import (
	"testing"

	"github.com/Nzyazin/ledgerconsole/internal/core/observable"
	"github.com/stretchr/testify/assert"
)

func TestStore_SubscribeReceivesUpdates(t *testing.T) {
	s := observable.NewStore(0)

	var seen []int
	unsubscribe := s.Subscribe(func(v int) { seen = append(seen, v) })

	s.Set(1)
	got := s.Update(func(v int) int { return v + 10 })
	unsubscribe()
	s.Set(99)

	assert.Equal(t, 11, got)
	assert.Equal(t, []int{1, 11}, seen)
	assert.Equal(t, 99, s.Get())
}
