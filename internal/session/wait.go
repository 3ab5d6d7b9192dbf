package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/datashield/datashield-go/internal/models"
)

// wait polls the pending results, in connection order, until all of them
// are fetched. Connections with nothing pending are kept alive meanwhile.
// Fetch errors are recorded; values are returned per server name.
func (s *Session) wait(ctx context.Context, pending map[string]models.Result) map[string]any {
	values := make(map[string]any, len(pending))

	waitCtx := ctx
	if s.resultTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.resultTimeout)
		defer cancel()
	}

	for len(pending) > 0 {
		for _, conn := range s.conns {
			name := conn.Name()
			res, ok := pending[name]
			if !ok {
				conn.KeepAlive(ctx)
				continue
			}
			if !res.IsCompleted(ctx) {
				continue
			}
			value, err := res.Fetch(ctx)
			if err != nil {
				s.appendError(name, err)
			} else {
				values[name] = value
			}
			delete(pending, name)
		}

		if len(pending) == 0 {
			break
		}

		if err := s.pause(waitCtx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				err = fmt.Errorf("%w after %s", ErrResultTimeout, s.resultTimeout)
			}
			for name := range pending {
				s.appendError(name, err)
			}
			break
		}
	}

	return values
}
