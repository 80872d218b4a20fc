// Package bot implements the Telegram command surface and the
// notification sender used by the poller.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"blive_bot/internal/bilibili"
	"blive_bot/internal/config"
	"blive_bot/internal/poller"
	"blive_bot/internal/storage"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// cycleRunner triggers one poll cycle on demand (the /check command).
type cycleRunner interface {
	RunCycle(ctx context.Context) []poller.TransitionEvent
}

// Bot is the Telegram bot that handles admin commands and sends notifications.
type Bot struct {
	api    telegramAPI
	store  storage.Storage
	client *bilibili.Client
	cfg    *config.Config
	log    *slog.Logger
	cycler cycleRunner
}

// New creates a Bot with the given Telegram token, storage, platform
// client and config.
func New(token string, store storage.Storage, client *bilibili.Client, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:    api,
		store:  store,
		client: client,
		cfg:    cfg,
		log:    log,
	}, nil
}

// SetCycler attaches the poller used by /check. Without it the command
// reports that on-demand checks are unavailable.
func (b *Bot) SetCycler(c cycleRunner) {
	b.cycler = c
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	b.registerCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if !b.cfg.IsUserAllowed(update.Message.From.ID) {
				b.reply(update.Message.Chat.ID, "Access denied.")
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

// SendPhoto sends a caption with a photo to the given chat; a nil
// photo degrades to a plain text message and a non-empty liveURL is
// attached as a watch-link button. This is the poller's Notifier
// implementation.
func (b *Bot) SendPhoto(chatID int64, caption string, photo []byte, liveURL string) error {
	var markup *tgbotapi.InlineKeyboardMarkup
	if liveURL != "" {
		m := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("Watch live", liveURL),
			),
		)
		markup = &m
	}

	var msg tgbotapi.Chattable
	if photo == nil {
		m := tgbotapi.NewMessage(chatID, caption)
		m.DisableWebPagePreview = true
		if markup != nil {
			m.ReplyMarkup = *markup
		}
		msg = m
	} else {
		m := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "cover.jpg", Bytes: photo})
		m.Caption = caption
		if markup != nil {
			m.ReplyMarkup = *markup
		}
		msg = m
	}
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}
	return nil
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

// registerCommands publishes the command list to Telegram clients.
func (b *Bot) registerCommands() {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "about this bot"},
		tgbotapi.BotCommand{Command: "add", Description: "track a live room"},
		tgbotapi.BotCommand{Command: "rm", Description: "stop tracking a room"},
		tgbotapi.BotCommand{Command: "ls", Description: "list tracked rooms"},
		tgbotapi.BotCommand{Command: "silent", Description: "toggle muting for a room"},
		tgbotapi.BotCommand{Command: "check", Description: "poll all rooms now"},
	)
	if _, err := b.api.Request(cmds); err != nil {
		b.log.Error("register commands", "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case "add":
		b.handleAdd(ctx, chatID, args)
	case "rm":
		b.handleRemove(ctx, chatID, args)
	case "ls":
		b.handleList(ctx, chatID)
	case "silent":
		b.handleSilent(ctx, chatID, args)
	case "check":
		b.handleCheck(ctx, chatID)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}
