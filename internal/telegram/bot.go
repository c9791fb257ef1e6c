package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/minkhantzaw/vpnshop-backend/internal/config"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
)

// Services bundles everything the chat surface talks to.
type Services struct {
	Users        *services.UserService
	Balance      *services.BalanceService
	Plans        *services.PlanService
	Inventory    *services.InventoryService
	Payments     *services.PaymentService
	Entitlements *services.EntitlementService
	Topups       *services.TopupService
	Methods      *services.PaymentMethodService
	Contacts     *services.ContactService
}

// Bot is the Telegram storefront: customers check balances, top up and buy
// packages; the operator reviews payments and watches stock from the same
// chat.
type Bot struct {
	api *bot.Bot
	cfg *config.Config
	svc Services
}

func New(cfg *config.Config, svc Services) (*Bot, error) {
	tb := &Bot{cfg: cfg, svc: svc}

	api, err := bot.New(cfg.BotToken, bot.WithDefaultHandler(tb.onDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	tb.api = api

	api.RegisterHandler(bot.HandlerTypeMessageText, "start", bot.MatchTypeCommand, tb.onStart)
	api.RegisterHandler(bot.HandlerTypeMessageText, "help", bot.MatchTypeCommand, tb.onHelp)

	// Admin-only commands
	api.RegisterHandler(bot.HandlerTypeMessageText, "admin", bot.MatchTypeCommand, tb.onAdminHelp)
	api.RegisterHandler(bot.HandlerTypeMessageText, "checkkeys", bot.MatchTypeCommand, tb.onCheckKeys)
	api.RegisterHandler(bot.HandlerTypeMessageText, "lowkeys", bot.MatchTypeCommand, tb.onLowKeys)
	api.RegisterHandler(bot.HandlerTypeMessageText, "keystats", bot.MatchTypeCommand, tb.onKeyStats)
	api.RegisterHandler(bot.HandlerTypeMessageText, "expiredkeys", bot.MatchTypeCommand, tb.onExpiredKeys)
	api.RegisterHandler(bot.HandlerTypeMessageText, "expiringkeys", bot.MatchTypeCommand, tb.onExpiringKeys)
	api.RegisterHandler(bot.HandlerTypeMessageText, "cleanupkeys", bot.MatchTypeCommand, tb.onCleanupKeys)

	// Main menu buttons
	api.RegisterHandler(bot.HandlerTypeMessageText, btnBalance, bot.MatchTypeExact, tb.onBalance)
	api.RegisterHandler(bot.HandlerTypeMessageText, btnTopup, bot.MatchTypeExact, tb.onTopup)
	api.RegisterHandler(bot.HandlerTypeMessageText, btnBuyKey, bot.MatchTypeExact, tb.onBuyPlans)
	api.RegisterHandler(bot.HandlerTypeMessageText, btnMyPlans, bot.MatchTypeExact, tb.onMyPlans)
	api.RegisterHandler(bot.HandlerTypeMessageText, btnQitoKey, bot.MatchTypeExact, tb.onQitoPlans)
	api.RegisterHandler(bot.HandlerTypeMessageText, btnContact, bot.MatchTypeExact, tb.onContact)

	// Inline keyboard callbacks
	api.RegisterHandler(bot.HandlerTypeCallbackQueryData, "topup_", bot.MatchTypePrefix, tb.onTopupSelected)
	api.RegisterHandler(bot.HandlerTypeCallbackQueryData, "buy_plan_", bot.MatchTypePrefix, tb.onBuyPlanSelected)
	api.RegisterHandler(bot.HandlerTypeCallbackQueryData, "confirm_purchase_", bot.MatchTypePrefix, tb.onConfirmPurchase)
	api.RegisterHandler(bot.HandlerTypeCallbackQueryData, "cancel_purchase", bot.MatchTypeExact, tb.onCancelPurchase)
	api.RegisterHandler(bot.HandlerTypeCallbackQueryData, "qito_plan_", bot.MatchTypePrefix, tb.onQitoPlanSelected)
	api.RegisterHandler(bot.HandlerTypeCallbackQueryData, "confirm_qito_purchase_", bot.MatchTypePrefix, tb.onConfirmQitoPurchase)
	api.RegisterHandler(bot.HandlerTypeCallbackQueryData, "cancel_qito_purchase", bot.MatchTypeExact, tb.onCancelQitoPurchase)
	api.RegisterHandler(bot.HandlerTypeCallbackQueryData, "admin_approve_", bot.MatchTypePrefix, tb.onAdminApprove)
	api.RegisterHandler(bot.HandlerTypeCallbackQueryData, "admin_deny_", bot.MatchTypePrefix, tb.onAdminDeny)

	// Payment proof photos
	api.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil && len(update.Message.Photo) > 0
	}, tb.onPaymentProof)

	return tb, nil
}

// Start runs long polling until ctx is cancelled.
func (t *Bot) Start(ctx context.Context) {
	slog.Info("telegram bot starting")
	t.api.Start(ctx)
}

// send delivers text with the main menu attached. Delivery failures are
// logged, never fatal.
func (t *Bot) send(ctx context.Context, chatID int64, text string) {
	t.sendWithMarkup(ctx, chatID, text, mainMenu())
}

func (t *Bot) sendWithMarkup(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := t.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		slog.Error("telegram send failed", "chat_id", chatID, "error", err)
	}
}

func (t *Bot) answer(ctx context.Context, callbackID, text string) {
	_, err := t.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		slog.Error("answer callback failed", "error", err)
	}
}

// deleteMessage removes an inline keyboard message after a choice is made.
// Telegram refuses deletes on old messages; that is fine to ignore.
func (t *Bot) deleteMessage(ctx context.Context, chatID int64, messageID int) {
	_, err := t.api.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		slog.Warn("could not delete message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}

func (t *Bot) isAdmin(userID int64) bool {
	return t.cfg.AdminTelegramID != 0 && userID == t.cfg.AdminTelegramID
}

// callbackChat extracts the chat behind a callback query. Inaccessible
// messages fall back to the sender's private chat.
func callbackChat(update *models.Update) (int64, int) {
	if update.CallbackQuery.Message.Message != nil {
		m := update.CallbackQuery.Message.Message
		return m.Chat.ID, m.ID
	}
	return update.CallbackQuery.From.ID, 0
}

func (t *Bot) ensureUser(update *models.Update) {
	var from *models.User
	switch {
	case update.Message != nil:
		from = update.Message.From
	case update.CallbackQuery != nil:
		from = &update.CallbackQuery.From
	}
	if from == nil {
		return
	}
	if _, _, err := t.svc.Users.EnsureExists(from.ID, from.Username, from.FirstName, from.LastName); err != nil {
		slog.Error("failed to ensure user", "telegram_id", from.ID, "error", err)
	}
}
