// Package persistence manages saved encoded queries: it builds them, stores
// them through a FilterStore and emits events for every change so callers can
// observe saves and deletions.
package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Filters is the saved-filter service. It validates and builds queries,
// delegates storage to a FilterStore and publishes FilterEvents on a typed
// event bus.
type Filters struct {
	store         FilterStore
	logger        *zap.Logger
	subscriptions map[string]*SubscriptionInfo // To store unsubscribe functions
	subMu         sync.RWMutex                 // Mutex to protect subscriptions map
	bus           *events.TypedEventBus[FilterEvent]
	now           func() time.Time
}

// NewFilters creates a new saved-filter service on top of store.
func NewFilters(store FilterStore, logger *zap.Logger) (*Filters, error) {
	if store == nil {
		return nil, fmt.Errorf("filter store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	bus, err := events.NewTypedEventBus[FilterEvent](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}
	return &Filters{
		store:         store,
		logger:        logger,
		subscriptions: make(map[string]*SubscriptionInfo),
		bus:           bus,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	}, nil
}

// Get returns the saved filter with the given name.
func (f *Filters) Get(ctx context.Context, name string) (SavedFilter, error) {
	return f.store.Get(ctx, name)
}

// List returns saved filters for a table, or every filter if table is empty.
func (f *Filters) List(ctx context.Context, table string) ([]SavedFilter, error) {
	return f.store.List(ctx, table)
}

// RegisterSubscription registers a callback for a specific filter event. It returns
// a unique ID that can be used to unregister the subscription later.
func (f *Filters) RegisterSubscription(options RegisterSubscriptionOptions) string {
	f.subMu.Lock()
	defer f.subMu.Unlock()

	callback := options.Callback
	unsubscribe := f.bus.Subscribe(string(options.Event), func(ctx context.Context, event FilterEvent) error {
		return callback(ctx, event)
	})
	id := uuid.New().String()

	data := SubscriptionInfo{
		Id:          &id,
		Event:       options.Event,
		Unsubscribe: unsubscribe,
		Label:       options.Label,
		Description: options.Description,
	}

	f.subscriptions[id] = &data
	return id
}

// UnregisterSubscription removes a subscription by its ID.
func (f *Filters) UnregisterSubscription(id string) {
	f.subMu.Lock()
	defer f.subMu.Unlock()

	if info, ok := f.subscriptions[id]; ok {
		info.Unsubscribe()
		delete(f.subscriptions, id)
	}
}

// Subscriptions returns a list of all currently active subscriptions.
func (f *Filters) Subscriptions() []SubscriptionInfo {
	f.subMu.RLock()
	defer f.subMu.RUnlock()

	subs := make([]SubscriptionInfo, 0, len(f.subscriptions))
	for _, sub := range f.subscriptions {
		subs = append(subs, *sub)
	}
	return subs
}
