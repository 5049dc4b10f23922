package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/strategy-ledger/internal/ledgertest"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	calls atomic.Int32
	fail  atomic.Bool
}

func (p *fakePinger) Ping(context.Context) error {
	p.calls.Add(1)
	if p.fail.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func TestKeepaliveWorkerPings(t *testing.T) {
	p := &fakePinger{}
	w := NewKeepaliveWorker(p, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Start()
		close(done)
	}()

	assert.Eventually(t, func() bool { return p.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	w.Stop()
	w.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestKeepaliveWorkerTracksHealth(t *testing.T) {
	p := &fakePinger{}
	w := NewKeepaliveWorker(p, time.Minute)

	w.check()
	assert.True(t, w.Healthy())

	p.fail.Store(true)
	w.check()
	assert.False(t, w.Healthy())

	p.fail.Store(false)
	w.check()
	assert.True(t, w.Healthy())
}

func TestKeepaliveWorkerAgainstStore(t *testing.T) {
	store := ledgertest.NewStore(t)
	w := NewKeepaliveWorker(store, time.Minute)

	w.check()
	assert.True(t, w.Healthy())

	_ = store.Close()
	w.check()
	assert.False(t, w.Healthy())
}

func TestNewKeepaliveWorkerDefaults(t *testing.T) {
	w := NewKeepaliveWorker(&fakePinger{}, 0)
	assert.Equal(t, 60*time.Second, w.interval)
	assert.Equal(t, 5*time.Second, w.timeout)
}
