// internal/api/types.go
package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DocumentID int64
type InvoiceID int64

// ParseDocumentID parses a document identifier from user input.
func ParseDocumentID(s string) (DocumentID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid document id %q", s)
	}
	return DocumentID(n), nil
}

// Document is an uploaded document as reported by the backend. Documents
// are created by the upload endpoint and never mutated client-side.
type Document struct {
	ID          DocumentID `json:"id"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"contentType,omitempty"`
	UploadedAt  DateTime   `json:"uploadedAt"`
	TextLength  int        `json:"textLength"`
}

// InvoiceStatus is the server-assigned lifecycle status of an invoice.
type InvoiceStatus string

const (
	StatusPaid      InvoiceStatus = "PAID"
	StatusOverdue   InvoiceStatus = "OVERDUE"
	StatusPending   InvoiceStatus = "PENDING"
	StatusCancelled InvoiceStatus = "CANCELLED"
	StatusDisputed  InvoiceStatus = "DISPUTED"
)

// Invoice is a record extracted from a document by the backend. All fields
// except id and currency may be absent depending on extraction quality.
type Invoice struct {
	ID                  InvoiceID        `json:"id"`
	DocumentID          DocumentID       `json:"documentId"`
	DocumentFilename    string           `json:"documentFilename,omitempty"`
	InvoiceNumber       string           `json:"invoiceNumber,omitempty"`
	VendorName          string           `json:"vendorName,omitempty"`
	VendorAddress       string           `json:"vendorAddress,omitempty"`
	InvoiceDate         *Date            `json:"invoiceDate,omitempty"`
	DueDate             *Date            `json:"dueDate,omitempty"`
	TotalAmount         *decimal.Decimal `json:"totalAmount,omitempty"`
	TaxAmount           *decimal.Decimal `json:"taxAmount,omitempty"`
	Currency            string           `json:"currency,omitempty"`
	Status              InvoiceStatus    `json:"status,omitempty"`
	Description         string           `json:"description,omitempty"`
	PurchaseOrderNumber string           `json:"purchaseOrderNumber,omitempty"`
	ExtractedAt         *DateTime        `json:"extractedAt,omitempty"`
	ConfidenceScore     *float64         `json:"confidenceScore,omitempty"`
	ExtractionNotes     string           `json:"extractionNotes,omitempty"`
}

// InvoiceSummary is the backend-computed aggregate over all invoices.
// It is fetched as a unit and never recomputed client-side.
type InvoiceSummary struct {
	TotalInvoices   int64           `json:"totalInvoices"`
	OverdueInvoices int64           `json:"overdueInvoices"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	OverdueAmount   decimal.Decimal `json:"overdueAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
}

// Answer is the response to a question. The scoped form also carries the
// document it was answered against.
type Answer struct {
	Answer           string     `json:"answer"`
	Question         string     `json:"question"`
	DocumentID       DocumentID `json:"documentId,omitempty"`
	DocumentFilename string     `json:"documentFilename,omitempty"`
}

// Date is a calendar date serialized by the backend as yyyy-mm-dd.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// dateTimeLayouts are the timestamp shapes the backend emits: local
// date-times without a zone (with or without fractional seconds) and
// RFC3339.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
}

// DateTime is a backend timestamp.
type DateTime struct {
	time.Time
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q", s)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02T15:04:05") + `"`), nil
}
