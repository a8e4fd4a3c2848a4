package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/asaidimu/go-sysparm/core/query"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// emitEvent is a helper method to emit events
func (f *Filters) emitEvent(event FilterEvent) {
	if f.bus != nil {
		f.bus.Emit(string(event.Type), event)
	}
}

// withEventEmission runs an operation and emits its success or failure event.
func (f *Filters) withEventEmission(
	operation string,
	successEventType FilterEventType,
	failedEventType FilterEventType,
	record SavedFilter,
	fn func() (SavedFilter, error),
) (SavedFilter, error) {
	startTime := time.Now()

	result, err := fn()
	if err != nil {
		errStr := err.Error()
		f.emitEvent(createEvent(failedEventType, operation, record, &errStr, startTime))
		f.logger.Warn("Saved filter operation failed",
			zap.String("operation", operation),
			zap.String("name", record.Name),
			zap.Error(err),
		)
		return SavedFilter{}, err
	}

	f.emitEvent(createEvent(successEventType, operation, result, nil, startTime))
	return result, nil
}

// Save builds q and stores it under name for table. A builder error or an
// empty name fails the save without touching the store.
func (f *Filters) Save(ctx context.Context, name, table string, q query.Encoder) (SavedFilter, error) {
	now := f.now()
	record := SavedFilter{
		ID:        uuid.New().String(),
		Name:      name,
		Table:     table,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return f.withEventEmission("save", FilterSaveSuccess, FilterSaveFailed, record, func() (SavedFilter, error) {
		if name == "" {
			return SavedFilter{}, fmt.Errorf("saved filter name cannot be empty")
		}
		encoded, err := q.Build()
		if err != nil {
			return SavedFilter{}, fmt.Errorf("cannot save filter %s: %w", name, err)
		}
		record.Query = encoded

		saved, err := f.store.Save(ctx, record)
		if err != nil {
			return SavedFilter{}, fmt.Errorf("failed to store filter %s: %w", name, err)
		}
		f.logger.Debug("Saved filter", zap.String("name", name), zap.String("query", encoded))
		return saved, nil
	})
}

// Delete removes the saved filter with the given name.
func (f *Filters) Delete(ctx context.Context, name string) error {
	_, err := f.withEventEmission("delete", FilterDeleteSuccess, FilterDeleteFailed, SavedFilter{Name: name}, func() (SavedFilter, error) {
		existing, err := f.store.Get(ctx, name)
		if err != nil {
			return SavedFilter{}, fmt.Errorf("failed to delete filter %s: %w", name, err)
		}
		if err := f.store.Delete(ctx, name); err != nil {
			return SavedFilter{}, fmt.Errorf("failed to delete filter %s: %w", name, err)
		}
		return existing, nil
	})
	return err
}
