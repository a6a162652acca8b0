package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeFiresInDueOrder(t *testing.T) {
	f := NewFake()
	var fired []string

	f.After(5*time.Second, func() { fired = append(fired, "b") })
	f.After(2*time.Second, func() { fired = append(fired, "a") })

	f.Advance(1 * time.Second)
	assert.Empty(t, fired)
	assert.Equal(t, 2, f.Pending())

	f.Advance(1 * time.Second)
	assert.Equal(t, []string{"a"}, fired)

	f.Advance(3 * time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Zero(t, f.Pending())
}

func TestFakeHonorsNestedScheduling(t *testing.T) {
	f := NewFake()
	var fired []string

	f.After(1*time.Second, func() {
		fired = append(fired, "outer")
		f.After(1*time.Second, func() { fired = append(fired, "inner") })
	})

	f.Advance(3 * time.Second)
	assert.Equal(t, []string{"outer", "inner"}, fired)
}

func TestTimersRunAsynchronously(t *testing.T) {
	done := make(chan struct{})
	New().After(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}
