package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/datify/internal/api"
	"github.com/user/datify/internal/dashboard"
)

var (
	invoicesOverdue  bool
	invoicesVendor   string
	invoicesDocument string
)

func init() {
	rootCmd.AddCommand(invoicesCmd)
	invoicesCmd.Flags().BoolVar(&invoicesOverdue, "overdue", false, "show only overdue invoices")
	invoicesCmd.Flags().StringVar(&invoicesVendor, "vendor", "", "show invoices for one vendor")
	invoicesCmd.Flags().StringVar(&invoicesDocument, "document", "", "show the invoice extracted from one document")
}

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Show the invoice dashboard",
	Args:  cobra.NoArgs,
	RunE:  runInvoices,
}

func runInvoices(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)
	client := api.NewClient(cfg.BaseURL)
	ctx := cmd.Context()

	switch {
	case invoicesDocument != "":
		id, err := api.ParseDocumentID(invoicesDocument)
		if err != nil {
			return fmt.Errorf("invalid document id: %s", invoicesDocument)
		}
		inv, err := client.InvoiceForDocument(ctx, id)
		if err != nil {
			return fmt.Errorf("invoice for document: %w", err)
		}
		printInvoiceDetail(inv)
		return nil

	case invoicesVendor != "":
		invoices, err := client.InvoicesByVendor(ctx, invoicesVendor)
		if err != nil {
			return fmt.Errorf("invoices by vendor: %w", err)
		}
		return printInvoiceTable(invoices)
	}

	data := dashboard.Load(ctx, client)
	if data.Failed() {
		fmt.Fprintln(os.Stderr, data.ErrorBanner())
	}

	if data.Summary != nil {
		s := data.Summary
		fmt.Printf("Invoices: %d (%d overdue)\n", s.TotalInvoices, s.OverdueInvoices)
		fmt.Printf("Total:    %s\n", dashboard.FormatCurrency(&s.TotalAmount, ""))
		fmt.Printf("Overdue:  %s\n", dashboard.FormatCurrency(&s.OverdueAmount, ""))
		fmt.Printf("Paid:     %s\n", dashboard.FormatCurrency(&s.PaidAmount, ""))
		fmt.Println()
	}

	invoices := data.Invoices
	if invoicesOverdue {
		invoices = data.Overdue
	}
	if invoices == nil {
		return nil
	}
	return printInvoiceTable(invoices)
}

func printInvoiceTable(invoices []api.Invoice) error {
	if len(invoices) == 0 {
		fmt.Println("No invoices found.")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tVENDOR\tDOCUMENT\tAMOUNT\tDUE\tSTATUS")
	for _, inv := range invoices {
		due := dashboard.FormatDate(inv.DueDate)
		if dashboard.DueDatePassed(inv.DueDate, now) && inv.Status != api.StatusPaid {
			due = dashboard.ColorRed + due + dashboard.ColorReset
		}
		status := dashboard.StatusColor(inv.Status) + dashboard.TranslateStatus(inv.Status) + dashboard.ColorReset
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.InvoiceNumber,
			inv.VendorName,
			inv.DocumentFilename,
			dashboard.FormatCurrency(inv.TotalAmount, inv.Currency),
			due,
			status,
		)
	}
	return w.Flush()
}

func printInvoiceDetail(inv *api.Invoice) {
	fmt.Printf("Invoice:    %s\n", inv.InvoiceNumber)
	fmt.Printf("Vendor:     %s\n", inv.VendorName)
	if inv.VendorAddress != "" {
		fmt.Printf("Address:    %s\n", inv.VendorAddress)
	}
	fmt.Printf("Document:   %s\n", inv.DocumentFilename)
	fmt.Printf("Issued:     %s\n", dashboard.FormatDate(inv.InvoiceDate))
	fmt.Printf("Due:        %s\n", dashboard.FormatDate(inv.DueDate))
	fmt.Printf("Amount:     %s\n", dashboard.FormatCurrency(inv.TotalAmount, inv.Currency))
	if inv.TaxAmount != nil {
		fmt.Printf("Tax:        %s\n", dashboard.FormatCurrency(inv.TaxAmount, inv.Currency))
	}
	fmt.Printf("Status:     %s\n", dashboard.TranslateStatus(inv.Status))
	if inv.PurchaseOrderNumber != "" {
		fmt.Printf("PO number:  %s\n", inv.PurchaseOrderNumber)
	}
	if inv.Description != "" {
		fmt.Printf("Note:       %s\n", inv.Description)
	}
	fmt.Printf("Extracted:  %s (confidence %s)\n",
		dashboard.FormatDateTime(inv.ExtractedAt),
		dashboard.FormatConfidence(inv.ConfidenceScore))
	if inv.ExtractionNotes != "" {
		fmt.Printf("Extraction: %s\n", inv.ExtractionNotes)
	}
}
