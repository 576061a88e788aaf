package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/bizdesk/internal/logger"
	"github.com/mark3labs/bizdesk/internal/wizard"
)

const recordTimeout = 2 * time.Second

// Attach binds nav to the journal of session. An existing journal is
// replayed into nav; otherwise a start event is written. From then on every
// change nav makes is recorded. Attach reports whether it resumed.
func (s *Store) Attach(ctx context.Context, session string, nav *wizard.Navigator) (bool, error) {
	resumed := false
	st, err := s.LoadState(ctx, session)
	switch {
	case err == nil:
		if err := nav.Restore(st); err != nil {
			return false, fmt.Errorf("resuming %s: %w", session, err)
		}
		resumed = true
	case errors.Is(err, ErrNoSession):
		start := wizard.Change{Type: wizard.ChangeStart, Flow: nav.Flow().Name, To: nav.CurrentNode()}
		if err := s.Record(ctx, session, start); err != nil {
			return false, err
		}
	default:
		return false, err
	}

	nav.OnChange(func(c wizard.Change) {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := s.Record(ctx, session, c); err != nil {
			logger.Warn("journaling %s for %s: %v", c.Type, session, err)
		}
	})
	return resumed, nil
}
