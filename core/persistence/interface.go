package persistence

import (
	"context"
	"errors"
	"time"
)

// ErrFilterNotFound is returned by a FilterStore when no saved filter has the
// requested name.
var ErrFilterNotFound = errors.New("saved filter not found")

// SavedFilter is an encoded query stored under a unique name, together with
// the table it is meant to be run against.
type SavedFilter struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Table     string    `json:"table" yaml:"table"`
	Query     string    `json:"query" yaml:"query"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// FilterStore persists saved filters. Names are unique: saving a filter whose
// name already exists replaces its table and query but keeps its ID and
// creation time.
type FilterStore interface {
	// Save inserts or replaces a filter and returns the stored record.
	Save(ctx context.Context, filter SavedFilter) (SavedFilter, error)

	// Get returns the filter with the given name, or ErrFilterNotFound.
	Get(ctx context.Context, name string) (SavedFilter, error)

	// List returns saved filters ordered by name. An empty table lists every
	// filter.
	List(ctx context.Context, table string) ([]SavedFilter, error)

	// Delete removes the filter with the given name, or returns
	// ErrFilterNotFound.
	Delete(ctx context.Context, name string) error
}

// FilterEventType defines the possible event types for saved filter operations.
type FilterEventType string

const (
	FilterSaveSuccess   FilterEventType = "filter:save:success"
	FilterSaveFailed    FilterEventType = "filter:save:failed"
	FilterDeleteSuccess FilterEventType = "filter:delete:success"
	FilterDeleteFailed  FilterEventType = "filter:delete:failed"
)

// FilterEvent is emitted after a saved filter operation completes.
type FilterEvent struct {
	Type      FilterEventType `json:"type"`               // The type of event (e.g., 'filter:save:success').
	Timestamp int64           `json:"timestamp"`          // Timestamp when the event occurred (Unix milliseconds).
	Operation string          `json:"operation"`          // The operation performed ('save' or 'delete').
	Name      string          `json:"name"`               // Name of the saved filter.
	Table     string          `json:"table,omitempty"`    // Table the filter targets, when known.
	Query     string          `json:"query,omitempty"`    // Encoded query, when known.
	Error     *string         `json:"error,omitempty"`    // Error message if the operation failed.
	Duration  *int64          `json:"duration,omitempty"` // Duration of the operation in milliseconds.
}

// EventCallbackFunction handles a FilterEvent.
type EventCallbackFunction func(ctx context.Context, event FilterEvent) error

// RegisterSubscriptionOptions describes a subscription to register.
type RegisterSubscriptionOptions struct {
	Event       FilterEventType
	Label       *string
	Description *string
	Callback    EventCallbackFunction
}

// SubscriptionInfo describes a subscription configuration.
type SubscriptionInfo struct {
	Id          *string         `json:"id,omitempty"`          // The subscription ID.
	Event       FilterEventType `json:"event"`                 // The event subscribed to.
	Label       *string         `json:"label,omitempty"`       // Optional short identifier.
	Description *string         `json:"description,omitempty"` // Optional description.
	Unsubscribe func()          `json:"-"`
}
