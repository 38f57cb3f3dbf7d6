package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/datify/internal/api"
	"github.com/user/datify/internal/app"
	"github.com/user/datify/internal/chat"
)

func init() {
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about your documents interactively",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)
	a := newApp(cfg)
	ctx := cmd.Context()

	if err := a.LoadDocuments(ctx); err != nil {
		slog.Warn("could not load documents", "error", err)
	}

	fmt.Println("Datify chat. Type /help for commands, /quit to exit.")
	printLatestSystem(a.Chat)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runChatCommand(ctx, a, line); quit {
				return nil
			}
			continue
		}

		done := make(chan chat.Message, 1)
		accepted := a.Chat.Submit(ctx, line, chat.WithOnComplete(func(m chat.Message) {
			done <- m
		}))
		if !accepted {
			// Document mode without a selection is the only reachable
			// rejection here; pending submits cannot happen in a
			// blocking loop.
			fmt.Println("Select a document first: /docs to list, /select <id> to choose.")
			continue
		}
		printMessage(<-done)
	}
}

func runChatCommand(ctx context.Context, a *app.App, line string) (quit bool) {
	fields := strings.Fields(line)
	command := fields[0]
	arg := strings.TrimSpace(strings.TrimPrefix(line, command))

	switch command {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Println(`Commands:
  /mode global|document  switch question mode
  /select <id>           select a document to ask about
  /docs                  refresh and list documents
  /upload <path>         upload a PDF or text file
  /quit                  exit`)

	case "/mode":
		switch arg {
		case "global":
			a.Chat.SwitchMode(chat.ModeGlobal)
		case "document":
			a.Chat.SwitchMode(chat.ModeDocument)
		default:
			fmt.Println("Usage: /mode global|document")
			return false
		}
		printLatestSystem(a.Chat)

	case "/select":
		id, err := api.ParseDocumentID(arg)
		if err != nil {
			fmt.Println("Usage: /select <document id>")
			return false
		}
		a.SelectDocument(id)
		if _, ok := a.Catalog.Selected(); !ok {
			fmt.Println("No document with that id. Selection cleared.")
		}
		printLatestSystem(a.Chat)

	case "/docs":
		if err := a.LoadDocuments(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "Error loading documents:", err)
			return false
		}
		docs := a.Catalog.List()
		if len(docs) == 0 {
			fmt.Println("No documents uploaded yet.")
			return false
		}
		for _, d := range docs {
			fmt.Printf("  %d. %s\n", d.ID, d.Filename)
		}

	case "/upload":
		if arg == "" {
			fmt.Println("Usage: /upload <path>")
			return false
		}
		uploadAndReport(ctx, a, arg)

	default:
		fmt.Println("Unknown command. Type /help for the list.")
	}
	return false
}

func uploadAndReport(ctx context.Context, a *app.App, path string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return
	}

	doc, err := a.UploadFile(ctx, path, info.Size(), f)
	if err != nil {
		fmt.Fprintln(os.Stderr, a.Upload.Status())
		return
	}
	fmt.Printf("%s (id %d)\n", a.Upload.Status(), doc.ID)
}

func printMessage(m chat.Message) {
	switch m.Kind {
	case chat.KindError:
		fmt.Fprintln(os.Stderr, m.Text)
	default:
		fmt.Println(m.Text)
	}
}

func printLatestSystem(s *chat.Session) {
	transcript := s.Transcript()
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Kind == chat.KindSystem {
			fmt.Println(transcript[i].Text)
			return
		}
	}
}
