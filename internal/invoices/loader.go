package invoices

import (
	"context"
	"fmt"

	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/mark3labs/bizdesk/internal/logger"
)

// DefaultPageSize is the per_page value used by Loader.
const DefaultPageSize = 100

// maxPages bounds the walk when the API reports a runaway last_page.
const maxPages = 500

// Lister is the slice of the API client the loader needs.
type Lister interface {
	ListInvoices(ctx context.Context, rc api.RequestContext, page, perPage int) (*api.InvoicePage, error)
}

// Loader fetches every invoice page.
type Loader struct {
	client   Lister
	pageSize int
}

// NewLoader returns a loader over client.
func NewLoader(client Lister) *Loader {
	return &Loader{client: client, pageSize: DefaultPageSize}
}

// WithPageSize overrides the page size.
func (l *Loader) WithPageSize(n int) *Loader {
	if n > 0 {
		l.pageSize = n
	}
	return l
}

// LoadAll walks every page. When a page fails, LoadAll returns the invoices
// loaded so far together with the error. Cancellation of ctx stops the walk
// before the next request.
func (l *Loader) LoadAll(ctx context.Context, rc api.RequestContext) ([]api.Invoice, error) {
	var all []api.Invoice
	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		p, err := l.client.ListInvoices(ctx, rc, page, l.pageSize)
		if err != nil {
			logger.Warn("loading invoices page %d: %v", page, err)
			return all, fmt.Errorf("loading invoices page %d: %w", page, err)
		}
		all = append(all, p.Data...)
		logger.Debug("loaded invoices page %d/%d (%d rows)", p.Meta.CurrentPage, p.Meta.LastPage, len(p.Data))

		if len(p.Data) == 0 || p.Meta.CurrentPage >= p.Meta.LastPage {
			return all, nil
		}
	}
	return all, nil
}
