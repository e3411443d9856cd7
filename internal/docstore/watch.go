package docstore

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SnapshotFunc receives the full collection snapshot on every delivery.
type SnapshotFunc func(Snapshot)

// fetchFunc loads the current snapshot of a collection.
type fetchFunc func(ctx context.Context, collection string) (Snapshot, error)

// Subscription is a cancellable watch handle. The owner is responsible for
// calling Cancel on teardown.
type Subscription struct {
	collection string
	id         int
	set        *subscriptionSet
	fn         SnapshotFunc
}

// Cancel releases the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.set.remove(s.collection, s.id)
}

// subscriptionSet serializes snapshot deliveries through one dispatcher
// goroutine, which is what gives per-collection ordering. Refresh requests
// are tracked as a pending set: repeated signals for the same collection
// coalesce into one entry, and an entry stays queued until it is served.
type subscriptionSet struct {
	fetch  fetchFunc
	logger *zap.Logger

	mu      sync.Mutex
	subs    map[string]map[int]*Subscription
	nextID  int
	closed  bool
	pending []string
	queued  map[string]struct{}

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

const fetchTimeout = 10 * time.Second

func newSubscriptionSet(fetch fetchFunc, logger *zap.Logger) *subscriptionSet {
	s := &subscriptionSet{
		fetch:  fetch,
		logger: logger,
		subs:   make(map[string]map[int]*Subscription),
		queued: make(map[string]struct{}),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.dispatch()
	return s
}

func (s *subscriptionSet) add(collection string, fn SnapshotFunc) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &Subscription{set: s}
	}
	s.nextID++
	sub := &Subscription{collection: collection, id: s.nextID, set: s, fn: fn}
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]*Subscription)
	}
	s.subs[collection][sub.id] = sub
	s.signal(collection)
	return sub
}

func (s *subscriptionSet) remove(collection string, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs[collection], id)
}

func (s *subscriptionSet) notify(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if len(s.subs[collection]) == 0 {
		return
	}
	s.signal(collection)
}

// signal marks a collection for refresh; callers hold s.mu. An already
// queued collection is not re-queued: every delivery refetches the whole
// snapshot, so the one pending entry covers any number of mutations.
func (s *subscriptionSet) signal(collection string) {
	if _, ok := s.queued[collection]; !ok {
		s.queued[collection] = struct{}{}
		s.pending = append(s.pending, collection)
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriptionSet) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.subs = make(map[string]map[int]*Subscription)
	s.pending = nil
	s.queued = make(map[string]struct{})
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
}

func (s *subscriptionSet) dispatch() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
			for {
				collection, ok := s.next()
				if !ok {
					break
				}
				s.deliver(collection)
			}
		}
	}
}

func (s *subscriptionSet) next() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return "", false
	}
	collection := s.pending[0]
	s.pending = s.pending[1:]
	delete(s.queued, collection)
	return collection, true
}

func (s *subscriptionSet) deliver(collection string) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	snapshot, err := s.fetch(ctx, collection)
	cancel()
	if err != nil {
		s.logger.Warn("watch snapshot fetch failed",
			zap.String("collection", collection), zap.Error(err))
		return
	}

	s.mu.Lock()
	targets := make([]*Subscription, 0, len(s.subs[collection]))
	for _, sub := range s.subs[collection] {
		targets = append(targets, sub)
	}
	s.mu.Unlock()

	for _, sub := range targets {
		sub.fn(snapshot)
	}
}
