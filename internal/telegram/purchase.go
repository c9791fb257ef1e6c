package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
)

func callbackID(data, prefix string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimPrefix(data, prefix), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// onBuyPlanSelected shows the purchase confirmation for a key-pool package.
// Balance and stock are checked here for a friendly message; the purchase
// itself re-checks both atomically.
func (t *Bot) onBuyPlanSelected(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	cb := update.CallbackQuery
	chatID, messageID := callbackChat(update)

	planID, ok := callbackID(cb.Data, "buy_plan_")
	if !ok {
		t.answer(ctx, cb.ID, "Package not found!")
		return
	}
	plan, err := t.svc.Plans.Get(planID)
	if err != nil || !plan.IsActive {
		t.answer(ctx, cb.ID, "Package not found!")
		t.send(ctx, chatID, "❌ Package not found. Please try again.")
		return
	}

	credits, err := t.svc.Balance.Get(cb.From.ID)
	if err != nil {
		t.answer(ctx, cb.ID, "Something went wrong!")
		return
	}
	if credits < plan.CreditsRequired {
		t.answer(ctx, cb.ID, "Insufficient balance!")
		t.send(ctx, chatID, fmt.Sprintf("❌ Insufficient balance!\n\nYou need %d credits but only have %d.\n\nUse '%s' to add more credits.",
			plan.CreditsRequired, credits, btnTopup))
		return
	}
	stock, err := t.svc.Inventory.AvailableCount(plan.ID)
	if err != nil || stock == 0 {
		t.answer(ctx, cb.ID, "No keys available!")
		t.send(ctx, chatID, fmt.Sprintf("❌ Sorry, no keys are available for %s right now. Please try again later.", plan.Name))
		return
	}

	if messageID != 0 {
		t.deleteMessage(ctx, chatID, messageID)
	}
	text := fmt.Sprintf("🛒 Confirm Purchase\n\n"+
		"• Package ID: %d\n"+
		"• Package: %s\n"+
		"• Description: %s\n"+
		"• Duration: %d days\n"+
		"• Cost: %d Credits\n\n"+
		"Your balance: %d Credits\n"+
		"Keys available: %d\n\n"+
		"Please confirm your purchase:",
		plan.DisplayNumber, plan.Name, orNone(plan.Description), plan.DurationDays, plan.CreditsRequired, credits, stock)
	t.answer(ctx, cb.ID, "Please confirm your purchase")
	t.sendWithMarkup(ctx, chatID, text,
		confirmKeyboard("✅ Confirm", fmt.Sprintf("confirm_purchase_%d", plan.ID), "cancel_purchase"))
}

func (t *Bot) onConfirmPurchase(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	cb := update.CallbackQuery
	chatID, messageID := callbackChat(update)

	planID, ok := callbackID(cb.Data, "confirm_purchase_")
	if !ok {
		t.answer(ctx, cb.ID, "Package not found!")
		return
	}

	result, err := t.svc.Entitlements.PurchaseStatic(cb.From.ID, planID)
	switch {
	case errors.Is(err, services.ErrInsufficientBalance):
		t.answer(ctx, cb.ID, "Insufficient balance!")
		t.send(ctx, chatID, "❌ Sorry, you don't have enough credits. Please top up your account.")
		return
	case errors.Is(err, services.ErrStockExhausted):
		t.answer(ctx, cb.ID, "No keys available!")
		t.send(ctx, chatID, "❌ Sorry, this package just sold out. Please try again later.")
		return
	case errors.Is(err, services.ErrNotFound):
		t.answer(ctx, cb.ID, "Package not found!")
		t.send(ctx, chatID, "❌ Package not found. Please try again.")
		return
	case err != nil:
		t.answer(ctx, cb.ID, "Error processing purchase!")
		t.send(ctx, chatID, "❌ Error processing your purchase. Please try again.")
		return
	}

	if messageID != 0 {
		t.deleteMessage(ctx, chatID, messageID)
	}
	plan := result.Plan
	text := fmt.Sprintf("✅ Purchase Successful!\n\n"+
		"Package ID: %d\n"+
		"Package: %s\n"+
		"Duration: %d days\n"+
		"Cost: %d Credits\n\n"+
		"Your VPN Key ⬇️\n\n%s",
		plan.DisplayNumber, plan.Name, plan.DurationDays, plan.CreditsRequired, result.KeyValue)
	t.answer(ctx, cb.ID, "Purchase successful!")
	t.send(ctx, chatID, text)

	t.notifyAdmin(ctx, fmt.Sprintf("🔔 New Plan Purchase\n\n"+
		"User: %s %s\nUsername: @%s\nUser ID: %d\n"+
		"Package: %s\nVPN Key: %s\nCredits Used: %d",
		cb.From.FirstName, cb.From.LastName, orNone(cb.From.Username), cb.From.ID,
		plan.Name, result.KeyValue, plan.CreditsRequired))
	t.notifyLowStock(ctx)
}

func (t *Bot) onCancelPurchase(ctx context.Context, _ *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	chatID, messageID := callbackChat(update)
	if messageID != 0 {
		t.deleteMessage(ctx, chatID, messageID)
	}
	t.answer(ctx, cb.ID, "Purchase cancelled")
	t.send(ctx, chatID, "❌ Purchase cancelled. You can browse other packages any time.")
}

func (t *Bot) onQitoPlanSelected(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	cb := update.CallbackQuery
	chatID, messageID := callbackChat(update)

	planID, ok := callbackID(cb.Data, "qito_plan_")
	if !ok {
		t.answer(ctx, cb.ID, "QITO package not found!")
		return
	}
	plan, err := t.svc.Plans.Get(planID)
	if err != nil || !plan.IsActive || !plan.IsDynamic() {
		t.answer(ctx, cb.ID, "QITO package not found!")
		t.send(ctx, chatID, "❌ QITO package not found. Please try again.")
		return
	}

	credits, err := t.svc.Balance.Get(cb.From.ID)
	if err != nil {
		t.answer(ctx, cb.ID, "Something went wrong!")
		return
	}
	if credits < plan.CreditsRequired {
		t.answer(ctx, cb.ID, "Insufficient balance!")
		t.send(ctx, chatID, fmt.Sprintf("❌ Insufficient balance!\n\nYou need %d credits but only have %d.\n\nUse '%s' to add more credits.",
			plan.CreditsRequired, credits, btnTopup))
		return
	}

	if messageID != 0 {
		t.deleteMessage(ctx, chatID, messageID)
	}
	text := fmt.Sprintf("🗝 Confirm QITO Purchase\n\n"+
		"• Package ID: %d\n"+
		"• Package: %s\n"+
		"• Description: %s\n"+
		"• Duration: %d days\n"+
		"• Devices: %d\n"+
		"• Cost: %d Credits\n\n"+
		"Your balance: %d Credits\n\n"+
		"QITO packages are subscription based; no separate key is needed.\n\n"+
		"Please confirm your purchase:",
		plan.DisplayNumber, plan.Name, orNone(plan.Description), plan.DurationDays, plan.DeviceLimit, plan.CreditsRequired, credits)
	t.answer(ctx, cb.ID, "Please confirm your purchase")
	t.sendWithMarkup(ctx, chatID, text,
		confirmKeyboard("✅ Confirm QITO Purchase", fmt.Sprintf("confirm_qito_purchase_%d", plan.ID), "cancel_qito_purchase"))
}

func (t *Bot) onConfirmQitoPurchase(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	cb := update.CallbackQuery
	chatID, messageID := callbackChat(update)

	planID, ok := callbackID(cb.Data, "confirm_qito_purchase_")
	if !ok {
		t.answer(ctx, cb.ID, "QITO package not found!")
		return
	}

	result, err := t.svc.Entitlements.PurchaseDynamic(ctx, cb.From.ID, planID)
	switch {
	case errors.Is(err, services.ErrInsufficientBalance):
		t.answer(ctx, cb.ID, "Insufficient balance!")
		t.send(ctx, chatID, "❌ Sorry, you don't have enough credits. Please top up your account.")
		return
	case errors.Is(err, services.ErrIssuerUnavailable):
		t.answer(ctx, cb.ID, "Service unavailable!")
		t.send(ctx, chatID, "❌ The QITO service is temporarily unavailable. Please try again later.")
		return
	case errors.Is(err, services.ErrNotFound):
		t.answer(ctx, cb.ID, "QITO package not found!")
		t.send(ctx, chatID, "❌ QITO package not found. Please try again.")
		return
	case err != nil:
		t.answer(ctx, cb.ID, "Error processing purchase!")
		t.send(ctx, chatID, "❌ Error processing your purchase. Please try again.")
		return
	}

	if messageID != 0 {
		t.deleteMessage(ctx, chatID, messageID)
	}
	plan := result.Plan
	expiry := ""
	if result.Entitlement.ExpiryDate != nil {
		expiry = result.Entitlement.ExpiryDate.Format("2006-01-02")
	}
	text := fmt.Sprintf("✅ QITO Purchase Successful!\n\n"+
		"Package ID: %d\n"+
		"Package: %s\n"+
		"Duration: %d days\n"+
		"Devices: up to %d\n"+
		"Cost: %d Credits\n"+
		"Expires: %s\n\n"+
		"Your QITO Account ⬇️\n\n"+
		"Username: %s\nPassword: %s",
		plan.DisplayNumber, plan.Name, plan.DurationDays, plan.DeviceLimit, plan.CreditsRequired, expiry,
		result.Username, result.Password)
	t.answer(ctx, cb.ID, "QITO purchase successful!")
	t.send(ctx, chatID, text)

	t.notifyAdmin(ctx, fmt.Sprintf("🔔 New QITO Purchase\n\n"+
		"User: %s %s\nUsername: @%s\nUser ID: %d\n"+
		"Package: %s\nDevices: %d\nDuration: %d days\nExpires: %s\n"+
		"Credits Used: %d\nQITO Username: %s",
		cb.From.FirstName, cb.From.LastName, orNone(cb.From.Username), cb.From.ID,
		plan.Name, plan.DeviceLimit, plan.DurationDays, expiry,
		plan.CreditsRequired, result.Username))
}

func (t *Bot) onCancelQitoPurchase(ctx context.Context, _ *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	chatID, messageID := callbackChat(update)
	if messageID != 0 {
		t.deleteMessage(ctx, chatID, messageID)
	}
	t.answer(ctx, cb.ID, "QITO purchase cancelled")
	t.send(ctx, chatID, "❌ QITO purchase cancelled. You can browse other packages any time.")
}

func orNone(s string) string {
	if s == "" {
		return "Not set"
	}
	return s
}
