// internal/dashboard/format.go
package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/user/datify/internal/api"
)

// DefaultCurrency is used when an invoice carries no currency code.
const DefaultCurrency = "CZK"

// ANSI colors for status badges.
const (
	ColorGreen   = "\x1b[32m"
	ColorRed     = "\x1b[31m"
	ColorYellow  = "\x1b[33m"
	ColorGray    = "\x1b[90m"
	ColorMagenta = "\x1b[35m"
	ColorReset   = "\x1b[0m"
)

// czech renders numbers the way the backend's users read them.
var czech = message.NewPrinter(language.Czech)

// TranslateStatus maps a backend status to its display label. An absent
// status reads as Pending; unrecognized values fall back to Unknown.
func TranslateStatus(s api.InvoiceStatus) string {
	switch s {
	case api.StatusPaid:
		return "Paid"
	case api.StatusOverdue:
		return "Overdue"
	case api.StatusPending, "":
		return "Pending"
	case api.StatusCancelled:
		return "Cancelled"
	case api.StatusDisputed:
		return "Disputed"
	default:
		return "Unknown"
	}
}

// StatusColor returns the ANSI color for a status badge.
func StatusColor(s api.InvoiceStatus) string {
	switch s {
	case api.StatusPaid:
		return ColorGreen
	case api.StatusOverdue:
		return ColorRed
	case api.StatusPending:
		return ColorYellow
	case api.StatusCancelled:
		return ColorGray
	case api.StatusDisputed:
		return ColorMagenta
	default:
		return ColorGray
	}
}

// FormatCurrency renders an amount with locale-aware money formatting for
// the invoice's own currency code. Missing amounts render as "N/A", never
// as zero.
func FormatCurrency(amount *decimal.Decimal, code string) string {
	if amount == nil {
		return "N/A"
	}
	if code == "" {
		code = DefaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return amount.StringFixed(2) + " " + code
	}
	value, _ := amount.Float64()
	return czech.Sprintf("%v", currency.Symbol(unit.Amount(value)))
}

// FormatDate renders a backend date, or "N/A" when absent.
func FormatDate(d *api.Date) string {
	if d == nil || d.IsZero() {
		return "N/A"
	}
	return d.Format("02.01.2006")
}

// FormatDateTime renders a backend timestamp, or "N/A" when absent.
func FormatDateTime(d *api.DateTime) string {
	if d == nil || d.IsZero() {
		return "N/A"
	}
	return d.Format("02.01.2006 15:04")
}

// FormatConfidence renders an extraction confidence score as a rounded
// percentage.
func FormatConfidence(score *float64) string {
	if score == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d%%", int(math.Round(*score*100)))
}

// DueDatePassed reports whether the due date lies before now. This is a
// render-time visual hint only; the server-assigned status and its overdue
// subset stay authoritative for classification and tab contents.
func DueDatePassed(d *api.Date, now time.Time) bool {
	if d == nil || d.IsZero() {
		return false
	}
	return d.Before(now)
}
