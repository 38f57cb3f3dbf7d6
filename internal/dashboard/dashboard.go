// internal/dashboard/dashboard.go
package dashboard

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/user/datify/internal/api"
)

// Fetcher retrieves invoice data from the backend.
type Fetcher interface {
	ListInvoices(ctx context.Context) ([]api.Invoice, error)
	OverdueInvoices(ctx context.Context) ([]api.Invoice, error)
	InvoiceSummary(ctx context.Context) (*api.InvoiceSummary, error)
}

// Data is the result of one dashboard load. The three fetches are
// independent and each records its own error, so whatever resolved still
// renders; the error banner covers only the pieces that failed.
type Data struct {
	Invoices []api.Invoice
	Overdue  []api.Invoice
	Summary  *api.InvoiceSummary

	InvoicesErr error
	OverdueErr  error
	SummaryErr  error
}

// Load performs the three dashboard fetches concurrently and waits for all
// of them.
func Load(ctx context.Context, f Fetcher) *Data {
	var data Data
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data.Invoices, data.InvoicesErr = f.ListInvoices(ctx)
		return nil
	})
	g.Go(func() error {
		data.Overdue, data.OverdueErr = f.OverdueInvoices(ctx)
		return nil
	})
	g.Go(func() error {
		data.Summary, data.SummaryErr = f.InvoiceSummary(ctx)
		return nil
	})
	g.Wait()
	return &data
}

// Failed reports whether any of the fetches failed.
func (d *Data) Failed() bool {
	return d.InvoicesErr != nil || d.OverdueErr != nil || d.SummaryErr != nil
}

// ErrorBanner describes the failed fetches, one clause per failure.
// Empty when everything resolved.
func (d *Data) ErrorBanner() string {
	var parts []string
	if d.InvoicesErr != nil {
		parts = append(parts, "invoices: "+d.InvoicesErr.Error())
	}
	if d.SummaryErr != nil {
		parts = append(parts, "summary: "+d.SummaryErr.Error())
	}
	if d.OverdueErr != nil {
		parts = append(parts, "overdue invoices: "+d.OverdueErr.Error())
	}
	if len(parts) == 0 {
		return ""
	}
	return "Failed to load invoice data: " + strings.Join(parts, "; ")
}
