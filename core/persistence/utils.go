package persistence

import (
	"time"
)

func createEvent(
	eventType FilterEventType,
	operation string,
	record SavedFilter,
	err *string,
	startTime time.Time,
) FilterEvent {
	var duration *int64
	if !startTime.IsZero() {
		d := time.Since(startTime).Milliseconds()
		duration = &d
	}

	return FilterEvent{
		Type:      eventType,
		Timestamp: time.Now().UnixMilli(),
		Operation: operation,
		Name:      record.Name,
		Table:     record.Table,
		Query:     record.Query,
		Error:     err,
		Duration:  duration,
	}
}
