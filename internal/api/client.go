// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Client talks to the DATIFY backend REST API. Every call is a single
// request/response exchange: no retries, no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend rooted at baseURL
// (e.g. http://localhost:8080/api).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Error is a decoded backend error payload.
type Error struct {
	StatusCode int    `json:"-"`
	ErrorText  string `json:"error"`
	ErrorCode  string `json:"errorCode"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.ErrorText != "" {
		return e.ErrorText
	}
	return fmt.Sprintf("backend error (status %d)", e.StatusCode)
}

func decodeError(status int, body []byte) error {
	apiErr := &Error{StatusCode: status}
	if err := json.Unmarshal(body, apiErr); err == nil && (apiErr.Message != "" || apiErr.ErrorText != "") {
		return apiErr
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		apiErr.Message = text
	}
	return apiErr
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json", out)
}

// UploadDocument submits one file as multipart form data and returns the
// created document.
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader) (*Document, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	var doc Document
	if err := c.do(ctx, http.MethodPost, "/documents/upload", &buf, w.FormDataContentType(), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns all uploaded documents.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := c.do(ctx, http.MethodGet, "/documents", nil, "", &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetDocument returns a single document by id.
func (c *Client) GetDocument(ctx context.Context, id DocumentID) (*Document, error) {
	var doc Document
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/documents/%d", id), nil, "", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

type questionRequest struct {
	Question string `json:"question"`
}

// Ask answers a question against the whole document corpus.
func (c *Client) Ask(ctx context.Context, question string) (*Answer, error) {
	var ans Answer
	if err := c.postJSON(ctx, "/documents/ask", questionRequest{Question: question}, &ans); err != nil {
		return nil, err
	}
	return &ans, nil
}

// AskDocument answers a question against a single document.
func (c *Client) AskDocument(ctx context.Context, id DocumentID, question string) (*Answer, error) {
	var ans Answer
	path := fmt.Sprintf("/documents/%d/ask", id)
	if err := c.postJSON(ctx, path, questionRequest{Question: question}, &ans); err != nil {
		return nil, err
	}
	return &ans, nil
}

// ListInvoices returns all extracted invoices.
func (c *Client) ListInvoices(ctx context.Context) ([]Invoice, error) {
	var invoices []Invoice
	if err := c.do(ctx, http.MethodGet, "/documents/invoices", nil, "", &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// OverdueInvoices returns the backend-filtered overdue subset.
func (c *Client) OverdueInvoices(ctx context.Context) ([]Invoice, error) {
	var invoices []Invoice
	if err := c.do(ctx, http.MethodGet, "/documents/invoices/overdue", nil, "", &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// InvoiceSummary returns the aggregate invoice counters and amounts.
func (c *Client) InvoiceSummary(ctx context.Context) (*InvoiceSummary, error) {
	var summary InvoiceSummary
	if err := c.do(ctx, http.MethodGet, "/documents/invoices/summary", nil, "", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// InvoiceForDocument returns the invoice extracted from the given document.
func (c *Client) InvoiceForDocument(ctx context.Context, id DocumentID) (*Invoice, error) {
	var invoice Invoice
	path := fmt.Sprintf("/documents/%d/invoice", id)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// InvoicesByVendor returns invoices matching the given vendor name.
func (c *Client) InvoicesByVendor(ctx context.Context, vendorName string) ([]Invoice, error) {
	var invoices []Invoice
	path := "/documents/invoices/vendor/" + url.PathEscape(vendorName)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}
