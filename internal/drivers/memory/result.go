package memory

import (
	"context"

	"github.com/datashield/datashield-go/internal/models"
)

type result struct {
	async   bool
	polls   int
	apply   func() (any, error)
	err     error
	fetched bool
	value   any
}

func (r *result) IsCompleted(ctx context.Context) bool {
	if r.polls > 0 {
		r.polls--
		return false
	}
	return true
}

func (r *result) Fetch(ctx context.Context) (any, error) {
	if r.fetched {
		if r.async {
			return nil, models.NewDSError("result was already fetched")
		}
		return r.value, r.err
	}
	r.fetched = true
	if r.err != nil {
		return nil, r.err
	}
	r.value, r.err = r.apply()
	return r.value, r.err
}
