package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"
	smodels "github.com/minkhantzaw/vpnshop-backend/internal/models"
)

// Main menu button labels. These double as the match patterns for the
// message handlers, so they must stay in sync with the registrations.
const (
	btnBalance = "👤 My Credits"
	btnTopup   = "💳 Top Up"
	btnBuyKey  = "🔑 Buy VPN Key"
	btnMyPlans = "📋 My Packages"
	btnContact = "📞 Contact"
	btnQitoKey = "🗝 QITO Key"
)

func mainMenu() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: btnBalance}, {Text: btnTopup}},
			{{Text: btnBuyKey}, {Text: btnMyPlans}},
			{{Text: btnQitoKey}, {Text: btnContact}},
		},
		ResizeKeyboard: true,
	}
}

func topupKeyboard(options []smodels.TopupOption) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(options))
	for _, opt := range options {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("💎 %d Credits - %d MMK", opt.Credits, opt.PriceMMK),
			CallbackData: fmt.Sprintf("topup_%d", opt.Credits),
		}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func planKeyboard(plans []smodels.Plan, prefix string) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("%d. %s - %d Credits", p.DisplayNumber, p.Name, p.CreditsRequired),
			CallbackData: fmt.Sprintf("%s%d", prefix, p.ID),
		}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func confirmKeyboard(confirmText, confirmData, cancelData string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: confirmText, CallbackData: confirmData},
			{Text: "❌ Cancel", CallbackData: cancelData},
		}},
	}
}

func adminReviewKeyboard(paymentID uint) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "✅ Approve", CallbackData: fmt.Sprintf("admin_approve_%d", paymentID)},
			{Text: "❌ Deny", CallbackData: fmt.Sprintf("admin_deny_%d", paymentID)},
		}},
	}
}
