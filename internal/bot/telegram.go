package bot

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/logger"
	"go.uber.org/zap"
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot long-polls Telegram and answers each command message with the
// processor's reply. Updates are handled concurrently.
type Bot struct {
	api         API
	processor   *Processor
	log         *zap.Logger
	pollTimeout time.Duration
	wg          sync.WaitGroup
}

func NewBot(api API, processor *Processor, log *zap.Logger, pollTimeout time.Duration) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		api:         api,
		processor:   processor,
		log:         log,
		pollTimeout: pollTimeout,
	}
}

// Run polls until ctx is cancelled or the update channel closes, then
// waits for in-flight commands to finish.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(b.pollTimeout / time.Second)

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()
	defer b.api.StopReceivingUpdates()

	b.log.Info("polling for updates", zap.Duration("timeout", b.pollTimeout))
	for {
		select {
		case <-ctx.Done():
			b.log.Info("stopping bot")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				// commands already received finish even during shutdown
				b.handleUpdate(context.WithoutCancel(ctx), update)
			}()
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}

	ctx, log := logger.WithRequestID(ctx, b.log.With(
		zap.Int64("chat_id", msg.Chat.ID),
		zap.String("command", msg.Command()),
	), uuid.New().String())

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling command", zap.Any("panic", r), zap.Stack("stack"))
			b.reply(log, msg, persistFailedText)
		}
	}()

	reply, ok := b.processor.Handle(ctx, msg.Text)
	if !ok {
		log.Debug("ignoring unknown command")
		return
	}
	if b.reply(log, msg, reply) {
		log.Info("command handled")
	}
}

func (b *Bot) reply(log *zap.Logger, msg *tgbotapi.Message, text string) bool {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if _, err := b.api.Send(out); err != nil {
		log.Error("failed to send reply", zap.Error(err))
		return false
	}
	return true
}

var _ API = (*tgbotapi.BotAPI)(nil)
