package worker

import (
	"context"
	"log"
	"sync"
	"time"
)

// Pinger is the store handle the keepalive probes
type Pinger interface {
	Ping(ctx context.Context) error
}

// KeepaliveWorker pings the ledger store on an interval so connections the
// server dropped while idle are discarded before a request needs them
type KeepaliveWorker struct {
	store    Pinger
	interval time.Duration
	timeout  time.Duration
	stopChan chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	healthy bool
}

// NewKeepaliveWorker creates a new store keepalive worker
func NewKeepaliveWorker(store Pinger, interval time.Duration) *KeepaliveWorker {
	if interval <= 0 {
		interval = 60 * time.Second // Default 1 minute check interval
	}
	timeout := interval / 2
	if timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	return &KeepaliveWorker{
		store:    store,
		interval: interval,
		timeout:  timeout,
		stopChan: make(chan struct{}),
		healthy:  true,
	}
}

// Start begins the ping loop and blocks until Stop is called
func (w *KeepaliveWorker) Start() {
	log.Printf("[Keepalive] started with interval: %v", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopChan:
			log.Println("[Keepalive] stopped")
			return
		}
	}
}

// Stop stops the ping loop. It is safe to call more than once.
func (w *KeepaliveWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}

// Healthy reports the outcome of the most recent ping
func (w *KeepaliveWorker) Healthy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.healthy
}

// check pings once and logs state transitions only
func (w *KeepaliveWorker) check() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	err := w.store.Ping(ctx)

	w.mu.Lock()
	was := w.healthy
	w.healthy = err == nil
	w.mu.Unlock()

	switch {
	case err != nil && was:
		log.Printf("[Keepalive] store ping failed: %v", err)
	case err == nil && !was:
		log.Println("[Keepalive] store reachable again")
	}
}
