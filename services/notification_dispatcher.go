package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/kmcgarry1/workout-planner/internal/types/notification"
)

// PushProvider delivers a notification to whatever live channel is wired in
// (the websocket hub in this deployment).
type PushProvider interface {
	Push(ctx context.Context, n *notification.Notification) error
}

// NotificationDispatcher fans notifications out to the push provider through
// a small worker pool so emitters never block on delivery.
type NotificationDispatcher struct {
	mu           sync.RWMutex
	pushProvider PushProvider
	workers      int
	jobQueue     chan *notification.Notification
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

func NewNotificationDispatcher() *NotificationDispatcher {
	dispatcher := &NotificationDispatcher{
		workers:  3,
		jobQueue: make(chan *notification.Notification, 100),
		stopChan: make(chan struct{}),
	}

	dispatcher.startWorkers()

	return dispatcher
}

// SetPushProvider injects the delivery channel. Safe to call after workers
// have started; until then dispatched notifications are dropped.
func (d *NotificationDispatcher) SetPushProvider(provider PushProvider) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pushProvider = provider
}

func (d *NotificationDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case n := <-d.jobQueue:
			d.deliver(n)
		case <-d.stopChan:
			return
		}
	}
}

func (d *NotificationDispatcher) deliver(n *notification.Notification) {
	d.mu.RLock()
	provider := d.pushProvider
	d.mu.RUnlock()

	if provider == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := provider.Push(ctx, n); err != nil {
		log.Printf("Push failed for notification %s: %v", n.ID, err)
	}
}

// Dispatch queues a notification for delivery. Delivery is best-effort: if
// the queue is full the notification is dropped with a log line.
func (d *NotificationDispatcher) Dispatch(_ context.Context, n *notification.Notification) {
	select {
	case d.jobQueue <- n:
	default:
		log.Printf("Failed to queue notification %s: queue full", n.ID)
	}
}

// Stop shuts the workers down. Safe to call more than once.
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopChan)
	})
	d.wg.Wait()
}
