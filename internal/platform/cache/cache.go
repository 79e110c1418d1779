package cache

import (
	"context"
	"errors"
)

// ErrMiss is returned when a key is not present in the cache.
var ErrMiss = errors.New("cache miss")

// SlotCache caches the booked slot labels for a doctor on a given date.
// Implementations must treat a miss as ErrMiss, never as an empty list, so
// callers can distinguish "nothing cached" from "nothing booked".
type SlotCache interface {
	GetBookedSlots(ctx context.Context, doctorID, date string) ([]string, error)
	SetBookedSlots(ctx context.Context, doctorID, date string, slots []string) error
	Invalidate(ctx context.Context, doctorID, date string) error
}
