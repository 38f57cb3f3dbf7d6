package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/datify/internal/api"
	"github.com/user/datify/internal/dashboard"
)

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.AddCommand(docsListCmd, docsUploadCmd, docsShowCmd)
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage uploaded documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)
		client := api.NewClient(cfg.BaseURL)

		docs, err := client.ListDocuments(cmd.Context())
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		if len(docs) == 0 {
			fmt.Println("No documents uploaded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFILENAME\tTYPE\tTEXT\tUPLOADED")
		for _, d := range docs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
				d.ID,
				d.Filename,
				d.ContentType,
				d.TextLength,
				dashboard.FormatDateTime(&d.UploadedAt),
			)
		}
		return w.Flush()
	},
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a PDF or text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)
		a := newApp(cfg)

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}

		doc, err := a.UploadFile(cmd.Context(), args[0], info.Size(), f)
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}
		fmt.Printf("Uploaded %s (id %d)\n", doc.Filename, doc.ID)
		return nil
	},
}

var docsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)
		client := api.NewClient(cfg.BaseURL)

		id, err := api.ParseDocumentID(args[0])
		if err != nil {
			return fmt.Errorf("invalid document id: %s", args[0])
		}
		doc, err := client.GetDocument(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}

		fmt.Printf("ID:        %d\n", doc.ID)
		fmt.Printf("Filename:  %s\n", doc.Filename)
		fmt.Printf("Type:      %s\n", doc.ContentType)
		fmt.Printf("Text size: %d characters\n", doc.TextLength)
		fmt.Printf("Uploaded:  %s\n", dashboard.FormatDateTime(&doc.UploadedAt))
		return nil
	},
}
