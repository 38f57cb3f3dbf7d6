package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/datify/internal/api"
	"github.com/user/datify/internal/app"
	"github.com/user/datify/internal/chat"
)

const maxTelegramMessage = 4096

// Adapter bridges Telegram to a document question-answering session.
type Adapter struct {
	bot *tgbotapi.BotAPI
	app *app.App
}

// New creates a Telegram adapter.
func New(token string, a *app.App) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Adapter{bot: bot, app: a}, nil
}

// Start begins long-polling for Telegram updates.
func (a *Adapter) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := a.bot.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			a.handleMessage(ctx, update.Message)
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return
		}
	}
}

func (a *Adapter) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		a.handleCommand(ctx, msg)
		return
	}

	chatID := msg.Chat.ID
	accepted := a.app.Chat.Submit(ctx, msg.Text, chat.WithOnComplete(func(m chat.Message) {
		a.sendResponse(chatID, m.Text)
	}))
	if !accepted {
		if a.app.Chat.Pending() {
			a.sendResponse(chatID, "Still working on the previous question.")
		} else {
			a.sendResponse(chatID, "Select a document first with /select, or switch to global mode with /mode global.")
		}
	}
}

func (a *Adapter) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		a.sendResponse(chatID, "Hello! I answer questions about your uploaded documents. Send me a question, or use /docs to list documents.")

	case "docs":
		if err := a.app.LoadDocuments(ctx); err != nil {
			a.sendResponse(chatID, "Error loading documents: "+err.Error())
			return
		}
		docs := a.app.Catalog.List()
		if len(docs) == 0 {
			a.sendResponse(chatID, "No documents uploaded yet.")
			return
		}
		var b strings.Builder
		b.WriteString("Documents:\n")
		for _, d := range docs {
			fmt.Fprintf(&b, "%d. %s\n", d.ID, d.Filename)
		}
		a.sendResponse(chatID, b.String())

	case "select":
		arg := strings.TrimSpace(msg.CommandArguments())
		id, err := api.ParseDocumentID(arg)
		if err != nil {
			a.sendResponse(chatID, "Usage: /select <document id>")
			return
		}
		a.app.SelectDocument(id)
		if doc, ok := a.app.Catalog.Selected(); ok {
			a.sendResponse(chatID, fmt.Sprintf("Selected %q. Questions now target this document.", doc.Filename))
		} else {
			a.sendResponse(chatID, "No document with that id. Selection cleared.")
		}

	case "mode":
		switch strings.TrimSpace(msg.CommandArguments()) {
		case "global":
			a.app.Chat.SwitchMode(chat.ModeGlobal)
			a.sendResponse(chatID, "Global mode. Questions search across all documents.")
		case "document":
			a.app.Chat.SwitchMode(chat.ModeDocument)
			a.sendResponse(chatID, "Document mode. Use /select to pick a document.")
		default:
			a.sendResponse(chatID, "Usage: /mode global|document")
		}

	case "status":
		mode := a.app.Chat.Mode()
		line := fmt.Sprintf("Mode: %s", mode)
		if doc, ok := a.app.Chat.Selected(); ok {
			line += fmt.Sprintf("\nDocument: %s", doc.Filename)
		}
		if a.app.Chat.Pending() {
			line += "\nA question is in flight."
		}
		a.sendResponse(chatID, line)

	default:
		a.sendResponse(chatID, "Unknown command. Available: /start, /docs, /select, /mode, /status")
	}
}

func (a *Adapter) sendResponse(chatID int64, text string) {
	parts := splitMessage(text)
	for _, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = "Markdown"
		if _, err := a.bot.Send(msg); err != nil {
			// Retry without markdown if it fails
			msg.ParseMode = ""
			if _, err := a.bot.Send(msg); err != nil {
				log.Printf("send message error: %v", err)
			}
		}
	}
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}
