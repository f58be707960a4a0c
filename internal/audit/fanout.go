package audit

import (
	"context"
	"errors"
)

// FanoutStore appends every event to each underlying store. All stores
// are attempted even when one fails; the errors are joined.
type FanoutStore struct {
	stores []Store
}

// NewFanout combines multiple sinks into one Store. Nil entries are
// skipped so callers can pass optional sinks unconditionally.
func NewFanout(stores ...Store) *FanoutStore {
	kept := make([]Store, 0, len(stores))
	for _, s := range stores {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &FanoutStore{stores: kept}
}

func (f *FanoutStore) Append(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range f.stores {
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
