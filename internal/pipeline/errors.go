package pipeline

import "fmt"

// ValidationError reports why a pushed tick or order book was rejected.
// The rejected item is never enqueued; the rejection is still counted against
// the source in the quality tracker.
type ValidationError struct {
	Source string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pipeline: source %q rejected: %s", e.Source, e.Reason)
}
