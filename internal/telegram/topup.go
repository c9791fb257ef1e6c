package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
)

// onTopupSelected opens a pending payment for the chosen amount and shows
// the operator's payment methods. The payment stays pending until the user
// sends a proof screenshot and the admin approves it.
func (t *Bot) onTopupSelected(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	cb := update.CallbackQuery
	chatID, messageID := callbackChat(update)

	credits, err := strconv.Atoi(strings.TrimPrefix(cb.Data, "topup_"))
	if err != nil {
		t.answer(ctx, cb.ID, "Topup option not found!")
		return
	}
	option, err := t.svc.Topups.FindByCredits(credits)
	if err != nil {
		t.answer(ctx, cb.ID, "Topup option not found!")
		t.send(ctx, chatID, "❌ Topup option not available. Please try again.")
		return
	}

	t.answer(ctx, cb.ID, fmt.Sprintf("Top-up %d credits selected!", credits))
	if messageID != 0 {
		t.deleteMessage(ctx, chatID, messageID)
	}

	payment, err := t.svc.Payments.Create(cb.From.ID, option.Credits, option.PriceMMK)
	if err != nil {
		slog.Error("failed to create pending payment", "user_id", cb.From.ID, "error", err)
		t.send(ctx, chatID, "❌ Could not start your top-up. Please try again.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💳 Payment Details\n\nAmount: %d Credits\nPrice: %d MMK\n\n", option.Credits, option.PriceMMK))
	methods, err := t.svc.Methods.ListActive()
	if err == nil && len(methods) > 0 {
		sb.WriteString("Available payment methods:\n")
		for _, m := range methods {
			sb.WriteString("• " + m.Name + "\n")
			if m.Description != "" {
				sb.WriteString("  " + m.Description + "\n")
			}
		}
	}
	sb.WriteString(fmt.Sprintf("\nTo complete your payment:\n"+
		"1. Transfer the amount using one of the methods above\n"+
		"2. Send a screenshot of the transfer here\n"+
		"3. Wait for admin approval; credits are added once approved\n\n"+
		"Payment ID: #%d", payment.ID))
	t.send(ctx, chatID, sb.String())
}

// onPaymentProof attaches an incoming photo to the user's most recent
// pending payment and forwards it to the admin for review.
func (t *Bot) onPaymentProof(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	msg := update.Message
	photo := msg.Photo[len(msg.Photo)-1]

	payment, err := t.svc.Payments.LatestPending(msg.From.ID)
	if errors.Is(err, services.ErrNotFound) {
		t.send(ctx, msg.Chat.ID, "❌ No pending payment found. Please select a top-up option first, then send your payment proof.")
		return
	}
	if err != nil {
		slog.Error("failed to look up pending payment", "user_id", msg.From.ID, "error", err)
		t.send(ctx, msg.Chat.ID, "❌ Something went wrong. Please try again.")
		return
	}

	if err := t.svc.Payments.AttachProof(payment.ID, photo.FileID); err != nil {
		slog.Error("failed to attach payment proof", "payment_id", payment.ID, "error", err)
		t.send(ctx, msg.Chat.ID, "❌ Could not save your payment proof. Please try again.")
		return
	}

	t.send(ctx, msg.Chat.ID, fmt.Sprintf("✅ Payment proof received, please wait for approval!\n\nPayment ID: #%d\nAmount: %d Credits",
		payment.ID, payment.Credits))

	if t.cfg.AdminTelegramID == 0 {
		slog.Warn("admin telegram id not set, payment proof unreviewed", "payment_id", payment.ID)
		return
	}
	caption := fmt.Sprintf("🔔 New Payment Proof Received\n\n"+
		"Payment ID: #%d\n"+
		"User: %s %s\nUsername: @%s\nUser ID: %d\n"+
		"Amount: %d Credits (%d MMK)\n\n"+
		"Please review and approve or deny the payment.",
		payment.ID, msg.From.FirstName, msg.From.LastName, orNone(msg.From.Username), msg.From.ID,
		payment.Credits, payment.PriceMMK)
	_, err = t.api.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      t.cfg.AdminTelegramID,
		Photo:       &models.InputFileString{Data: photo.FileID},
		Caption:     caption,
		ReplyMarkup: adminReviewKeyboard(payment.ID),
	})
	if err != nil {
		slog.Error("failed to forward payment proof to admin", "payment_id", payment.ID, "error", err)
	}
}

func (t *Bot) onAdminApprove(ctx context.Context, _ *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if !t.isAdmin(cb.From.ID) {
		t.answer(ctx, cb.ID, "Unauthorized!")
		return
	}
	paymentID, ok := callbackID(cb.Data, "admin_approve_")
	if !ok {
		t.answer(ctx, cb.ID, "Payment not found!")
		return
	}

	payment, err := t.svc.Payments.Approve(paymentID)
	switch {
	case errors.Is(err, services.ErrAlreadyProcessed):
		t.answer(ctx, cb.ID, "Payment already processed!")
		return
	case errors.Is(err, services.ErrNotFound):
		t.answer(ctx, cb.ID, "Payment not found!")
		return
	case err != nil:
		slog.Error("payment approval failed", "payment_id", paymentID, "error", err)
		t.answer(ctx, cb.ID, "Approval failed!")
		return
	}

	t.send(ctx, payment.UserID, fmt.Sprintf("✅ Payment Approved!\n\n"+
		"Payment ID: #%d\n"+
		"Credits Added: %d\n"+
		"Amount Paid: %d MMK\n\n"+
		"Use '%s' to check your new balance.\n\n"+
		"❤️ Thank you for your purchase!",
		payment.ID, payment.Credits, payment.PriceMMK, btnBalance))

	t.answer(ctx, cb.ID, fmt.Sprintf("Payment #%d approved!", payment.ID))
	t.notifyAdmin(ctx, fmt.Sprintf("✅ Payment #%d approved, %d credits added to user %d.",
		payment.ID, payment.Credits, payment.UserID))
}

func (t *Bot) onAdminDeny(ctx context.Context, _ *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if !t.isAdmin(cb.From.ID) {
		t.answer(ctx, cb.ID, "Unauthorized!")
		return
	}
	paymentID, ok := callbackID(cb.Data, "admin_deny_")
	if !ok {
		t.answer(ctx, cb.ID, "Payment not found!")
		return
	}

	payment, err := t.svc.Payments.Deny(paymentID)
	switch {
	case errors.Is(err, services.ErrAlreadyProcessed):
		t.answer(ctx, cb.ID, "Payment already processed!")
		return
	case errors.Is(err, services.ErrNotFound):
		t.answer(ctx, cb.ID, "Payment not found!")
		return
	case err != nil:
		slog.Error("payment denial failed", "payment_id", paymentID, "error", err)
		t.answer(ctx, cb.ID, "Denial failed!")
		return
	}

	t.send(ctx, payment.UserID, fmt.Sprintf("❌ Payment Denied\n\n"+
		"Payment ID: #%d\n"+
		"Amount: %d Credits (%d MMK)\n\n"+
		"Your payment was denied. Contact support if you believe this is an error.\n"+
		"You can try again with a clearer payment proof.",
		payment.ID, payment.Credits, payment.PriceMMK))

	t.answer(ctx, cb.ID, fmt.Sprintf("Payment #%d denied!", payment.ID))
	t.notifyAdmin(ctx, fmt.Sprintf("❌ Payment #%d has been denied.", payment.ID))
}
