package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wires the Telegram long-polling update stream to the dispatcher.
type Bot struct {
	api        *tgbotapi.BotAPI
	dispatcher *Dispatcher
}

func New(token string, dispatcher *Dispatcher) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram session: %w", err)
	}
	return &Bot{api: api, dispatcher: dispatcher}, nil
}

// API exposes the underlying client so the transport can double as the
// message sink and the webhook registrar.
func (b *Bot) API() *tgbotapi.BotAPI {
	return b.api
}

// Start begins long polling for updates. Call Stop to end the stream.
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	go func() {
		for update := range updates {
			b.HandleUpdate(update)
		}
	}()

	log.Printf("telegram bot is running as @%s", b.api.Self.UserName)
	return nil
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// HandleUpdate routes one Telegram update into the dispatcher. Edited
// messages count the same as new ones; everything else is ignored.
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		msg = update.EditedMessage
	}
	if msg == nil || msg.Text == "" || (msg.From != nil && msg.From.IsBot) {
		return
	}
	if err := b.dispatcher.HandleMessage(context.Background(), msg.Chat.ID, msg.Text); err != nil {
		log.Printf("failed to handle message in chat %d: %v", msg.Chat.ID, err)
	}
}

// RegisterWebhook switches the bot to webhook delivery. Telegram stops
// serving getUpdates once a webhook is set, so polling must not be
// started alongside this.
func (b *Bot) RegisterWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}
	return nil
}

// TelegramSink adapts the Telegram client to the Sink interface.
type TelegramSink struct {
	api *tgbotapi.BotAPI
}

func NewTelegramSink(api *tgbotapi.BotAPI) *TelegramSink {
	return &TelegramSink{api: api}
}

func (s *TelegramSink) Send(chatID int64, text string) error {
	_, err := s.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
