// Package bot serves conversions through a Telegram bot
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"station-scraper/config"
	"station-scraper/converter"
)

// Telegram rejects longer text messages
const maxMessageLength = 4096

const (
	stationUsage = "Usage: /station <url>"
	lineUsage    = "Usage: /line <url> [Q-item]"
)

const helpText = "Commands:\n" +
	"/station <url> - Convert one station page\n" +
	"/line <url> [Q-item] - Convert every station of a line page\n" +
	"/help - Show this help\n\n" +
	"You can also just send a station URL."

// Converter runs one conversion request
type Converter interface {
	Convert(ctx context.Context, req converter.Request) string
}

// Bot answers station and line commands with QuickStatements
type Bot struct {
	api     *tgbotapi.BotAPI
	conv    Converter
	allowed map[int64]bool
}

// New authorizes the bot token
func New(token string, conv Converter, cfg config.TelegramConfig) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}
	slog.Info("telegram bot authorized", "account", api.Self.UserName)

	allowed := make(map[int64]bool, len(cfg.AllowedUsers))
	for _, id := range cfg.AllowedUsers {
		allowed[id] = true
	}

	return &Bot{api: api, conv: conv, allowed: allowed}, nil
}

// Run handles updates until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) authorized(userID int64) bool {
	return len(b.allowed) == 0 || b.allowed[userID]
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.authorized(msg.From.ID) {
		slog.WarnContext(ctx, "unauthorized telegram user", "user_id", msg.From.ID)
		b.send(tgbotapi.NewMessage(chatID, "Sorry, you are not authorized to use this bot."))
		return
	}

	for _, reply := range replies(ctx, b.conv, msg.Text) {
		if len(reply) > maxMessageLength {
			doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
				Name:  "quickstatements.txt",
				Bytes: []byte(reply),
			})
			b.send(doc)
			continue
		}
		b.send(tgbotapi.NewMessage(chatID, reply))
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		slog.Warn("failed to send telegram message", "err", err)
	}
}

// replies computes the answer to one message text
func replies(ctx context.Context, conv Converter, text string) []string {
	command, req, usage := parseMessage(text)
	if usage != "" {
		return []string{usage}
	}

	switch command {
	case "start", "help":
		return []string{helpText}
	case "station", "line":
		slog.InfoContext(ctx, "telegram conversion", "command", command, "line_url", req.LineURL, "station_url", req.StationURL)
		result := conv.Convert(ctx, req)
		if strings.TrimSpace(result) == "" {
			return []string{"Nothing to convert."}
		}
		return []string{result}
	default:
		return []string{fmt.Sprintf("Unknown command /%s\n\n%s", command, helpText)}
	}
}

// parseMessage reads "/station <url>", "/line <url> [Q-item]" or a bare URL.
// A non-empty usage is the reply for a command with the wrong arguments.
func parseMessage(text string) (command string, req converter.Request, usage string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "help", req, ""
	}

	if !strings.HasPrefix(fields[0], "/") {
		return "station", converter.Request{StationURL: fields[0]}, ""
	}

	command = strings.TrimPrefix(fields[0], "/")
	if i := strings.Index(command, "@"); i >= 0 {
		command = command[:i]
	}
	args := fields[1:]

	switch command {
	case "station":
		if len(args) != 1 {
			return command, req, stationUsage
		}
		return command, converter.Request{StationURL: args[0]}, ""
	case "line":
		if len(args) < 1 || len(args) > 2 {
			return command, req, lineUsage
		}
		req.LineURL = args[0]
		if len(args) == 2 {
			req.LineID = args[1]
		}
		return command, req, ""
	default:
		return command, req, ""
	}
}
