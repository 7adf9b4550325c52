package pipeline

import (
	"fmt"
	"time"

	"novacrypt-core/internal/model"
)

// maxDataAge is the freshness bound: anything older is rejected as stale.
// A data-validity rule, not a concurrency timeout.
const maxDataAge = 60 * time.Second

func validateTick(tick *model.MarketTick, now time.Time) *ValidationError {
	if now.Sub(tick.Timestamp) > maxDataAge {
		return &ValidationError{Source: tick.Source, Reason: "stale data"}
	}
	if tick.Price <= 0 {
		return &ValidationError{Source: tick.Source, Reason: fmt.Sprintf("non-positive price %.8f", tick.Price)}
	}
	if tick.Volume < 0 {
		return &ValidationError{Source: tick.Source, Reason: fmt.Sprintf("negative volume %.8f", tick.Volume)}
	}
	if tick.Confidence < 0 || tick.Confidence > 1 {
		return &ValidationError{Source: tick.Source, Reason: fmt.Sprintf("confidence %.4f outside [0,1]", tick.Confidence)}
	}
	return nil
}

func validateOrderBook(book *model.OrderBookSnapshot, now time.Time) *ValidationError {
	if now.Sub(book.Timestamp) > maxDataAge {
		return &ValidationError{Source: book.Source, Reason: "stale data"}
	}
	if book.Confidence < 0 || book.Confidence > 1 {
		return &ValidationError{Source: book.Source, Reason: fmt.Sprintf("confidence %.4f outside [0,1]", book.Confidence)}
	}
	if len(book.Bids) == 0 || len(book.Asks) == 0 {
		return &ValidationError{Source: book.Source, Reason: "empty book side"}
	}

	for i, l := range book.Bids {
		if l.Price <= 0 || l.Volume <= 0 {
			return &ValidationError{Source: book.Source, Reason: fmt.Sprintf("bid level %d not positive", i)}
		}
		if i > 0 && l.Price >= book.Bids[i-1].Price {
			return &ValidationError{Source: book.Source, Reason: "bids not strictly decreasing"}
		}
	}
	for i, l := range book.Asks {
		if l.Price <= 0 || l.Volume <= 0 {
			return &ValidationError{Source: book.Source, Reason: fmt.Sprintf("ask level %d not positive", i)}
		}
		if i > 0 && l.Price <= book.Asks[i-1].Price {
			return &ValidationError{Source: book.Source, Reason: "asks not strictly increasing"}
		}
	}

	if book.BestBid() >= book.BestAsk() {
		return &ValidationError{Source: book.Source, Reason: "crossed book: best bid >= best ask"}
	}
	return nil
}
