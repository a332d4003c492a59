package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"sync"

	"pizza-telegram/config"
	"pizza-telegram/conversation"
	"pizza-telegram/models"
	"pizza-telegram/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramAPI is the part of *tgbotapi.BotAPI the bot uses.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Conversations applies events to chat sessions; *conversation.Dispatcher.
type Conversations interface {
	Handle(ctx context.Context, chatID int64, ev conversation.Event) (conversation.Transition, error)
	ValidatePayment(ctx context.Context, chatID int64, payload string) error
}

// Backend receives paid orders.
type Backend interface {
	CreateCustomer(ctx context.Context, c models.Customer) error
	SaveOrder(ctx context.Context, o models.Order) error
	ClearCart(ctx context.Context, key string) error
}

type Bot struct {
	api     telegramAPI
	cfg     *config.Config
	conv    Conversations
	backend Backend
	admin   int64
	workers int
	retry   retry.Policy
}

func New(cfg *config.Config, conv Conversations, backend Backend) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return newBot(api, cfg, conv, backend), nil
}

func newBot(api telegramAPI, cfg *config.Config, conv Conversations, backend Backend) *Bot {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Bot{
		api:     api,
		cfg:     cfg,
		conv:    conv,
		backend: backend,
		admin:   cfg.Telegram.AdminID,
		workers: workers,
		retry:   retry.Once,
	}
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "start", Description: "Меню"},
			{Command: "cancel", Description: "Завершить разговор"},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

// Start long-polls Telegram until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.setBotCommands(); err != nil {
		log.Printf("set bot commands failed: %v", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()
	b.serve(ctx, updates)
	return nil
}

func shardOf(chatID int64, n int) int {
	return int(uint64(chatID) % uint64(n))
}

// serve fans updates out to workers by chat so one chat's updates stay in
// order. It returns once updates is closed and the workers have drained.
func (b *Bot) serve(ctx context.Context, updates <-chan tgbotapi.Update) {
	// in-flight updates finish even after shutdown starts
	ctx = context.WithoutCancel(ctx)

	shards := make([]chan tgbotapi.Update, b.workers)
	var wg sync.WaitGroup
	for i := range shards {
		shards[i] = make(chan tgbotapi.Update, 64)
		wg.Add(1)
		go func(in <-chan tgbotapi.Update) {
			defer wg.Done()
			for u := range in {
				b.handleUpdate(ctx, u)
			}
		}(shards[i])
	}

	for u := range updates {
		chatID := chatOf(u)
		if chatID == 0 {
			continue
		}
		shards[shardOf(chatID, len(shards))] <- u
	}
	for _, ch := range shards {
		close(ch)
	}
	wg.Wait()
}

func (b *Bot) handleUpdate(ctx context.Context, u tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ALERT panic handling update_id=%d: %v\n%s", u.UpdateID, r, debug.Stack())
		}
	}()
	switch {
	case u.PreCheckoutQuery != nil:
		b.handlePreCheckout(ctx, u.PreCheckoutQuery)
	case u.CallbackQuery != nil:
		b.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil:
		b.handleMessage(ctx, u.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	if command(msg.Text) == "stats" && msg.From != nil {
		b.handleStats(ctx, chatID, msg.From.ID, msg.Text)
		return
	}
	ev, ok := messageEvent(msg)
	if !ok {
		return
	}
	tr, err := b.conv.Handle(ctx, chatID, ev)
	b.finish(ctx, chatID, ev, tr, err)
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil {
		b.answer(cq.ID, "")
		return
	}
	chatID := cq.Message.Chat.ID
	ev, ok := callbackEvent(cq.Data, cq.Message.MessageID)
	if !ok {
		b.answer(cq.ID, "")
		return
	}
	tr, err := b.conv.Handle(ctx, chatID, ev)
	// every callback is answered, ignored ones included
	b.answer(cq.ID, toastText(tr.Toast))
	b.finish(ctx, chatID, ev, tr, err)
}

// finish renders a transition. A paid order is always rendered and handed
// off, even when the session could not be saved afterwards.
func (b *Bot) finish(ctx context.Context, chatID int64, ev conversation.Event, tr conversation.Transition, err error) {
	if err != nil {
		if tr.Order == nil {
			b.reportError(chatID, ev, err)
			return
		}
		log.Printf("save session after payment failed chat_id=%d order_id=%s: %v", chatID, tr.Order.ID, err)
	}
	if tr.Order != nil {
		b.handOff(ctx, *tr.Order)
	}
	for _, r := range tr.Replies {
		b.render(ctx, chatID, r)
	}
}

func (b *Bot) reportError(chatID int64, ev conversation.Event, err error) {
	switch {
	case ev.Kind == conversation.EventPaymentConfirmed:
		// the provider has already charged the customer
		log.Printf("ALERT payment not finalized chat_id=%d charge_id=%s: %v", chatID, ev.ChargeID, err)
		b.alertAdmin(fmt.Sprintf("Оплата без заказа: chat_id=%d charge_id=%s\n%v", chatID, ev.ChargeID, err))
		b.send(chatID, textPaymentProblem)
	case errors.Is(err, conversation.ErrConfigurationFault):
		log.Printf("ALERT configuration fault chat_id=%d event=%s: %v", chatID, ev.Kind, err)
		b.alertAdmin(fmt.Sprintf("Ошибка конфигурации: %v", err))
		b.send(chatID, textUnavailable)
	case errors.Is(err, conversation.ErrValidation):
		log.Printf("rejected event chat_id=%d event=%s: %v", chatID, ev.Kind, err)
	case errors.Is(err, conversation.ErrPaymentMismatch):
		log.Printf("payment mismatch chat_id=%d event=%s: %v", chatID, ev.Kind, err)
	default:
		log.Printf("handle event failed chat_id=%d event=%s: %v", chatID, ev.Kind, err)
		b.send(chatID, textTryAgain)
	}
}

func (b *Bot) alertAdmin(text string) {
	if b.admin == 0 {
		return
	}
	b.send(b.admin, text)
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("answer callback failed: %v", err)
	}
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

func (b *Bot) sendWithInline(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		log.Printf("delete message failed chat_id=%d message_id=%d: %v", chatID, messageID, err)
	}
}

func notModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not modified")
}
