package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (t *Bot) onStart(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	name := update.Message.From.FirstName
	text := fmt.Sprintf("Welcome, %s! 👋\n\n"+
		"This is the VPN key shop. Check your credits, top up, and buy packages right here.\n\n"+
		"Choose an option below:", name)
	t.send(ctx, update.Message.Chat.ID, text)
}

func (t *Bot) onHelp(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	text := "Available commands:\n\n" +
		"/start - Show the main menu\n" +
		"/help - Show this help\n\n" +
		"Menu buttons:\n" +
		btnBalance + " - Check your credit balance\n" +
		btnTopup + " - Add credits to your account\n" +
		btnBuyKey + " - Buy a VPN key package\n" +
		btnMyPlans + " - View your active packages\n" +
		btnQitoKey + " - Buy a QITO subscription package\n" +
		btnContact + " - Contact the operator"
	t.send(ctx, update.Message.Chat.ID, text)
}

func (t *Bot) onDefault(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	t.ensureUser(update)
	text := fmt.Sprintf("Hello %s! 👋\n\nUse /start to see the main menu or /help for available commands.",
		update.Message.From.FirstName)
	t.send(ctx, update.Message.Chat.ID, text)
}

func (t *Bot) onBalance(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	credits, err := t.svc.Balance.Get(update.Message.From.ID)
	if err != nil {
		t.send(ctx, update.Message.Chat.ID, "❌ Could not load your balance. Please try again.")
		return
	}
	text := fmt.Sprintf("👤 Your Account\n\nBalance: %d Credits\n\nUse '%s' to add more credits.", credits, btnTopup)
	t.send(ctx, update.Message.Chat.ID, text)
}

func (t *Bot) onTopup(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	options, err := t.svc.Topups.ListActive()
	if err != nil || len(options) == 0 {
		t.send(ctx, update.Message.Chat.ID, "❌ No top-up options are available right now. Please try again later.")
		return
	}
	text := "💳 Top Up Credits\n\nChoose an amount below. After paying, send a screenshot of your transfer as proof."
	t.sendWithMarkup(ctx, update.Message.Chat.ID, text, topupKeyboard(options))
}

func (t *Bot) onBuyPlans(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	plans, err := t.svc.Plans.ListActiveStatic()
	if err != nil || len(plans) == 0 {
		t.send(ctx, update.Message.Chat.ID, "❌ No packages are available right now. Please check back later.")
		return
	}
	var sb strings.Builder
	sb.WriteString("🔑 Available Packages\n\n")
	for _, p := range plans {
		sb.WriteString(fmt.Sprintf("%d. %s\n", p.DisplayNumber, p.Name))
		if p.Description != "" {
			sb.WriteString("   " + p.Description + "\n")
		}
		sb.WriteString(fmt.Sprintf("   %d days - %d Credits\n\n", p.DurationDays, p.CreditsRequired))
	}
	sb.WriteString("Select a package to buy:")
	t.sendWithMarkup(ctx, update.Message.Chat.ID, sb.String(), planKeyboard(plans, "buy_plan_"))
}

func (t *Bot) onQitoPlans(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	plans, err := t.svc.Plans.ListActiveDynamic()
	if err != nil || len(plans) == 0 {
		t.send(ctx, update.Message.Chat.ID, "❌ No QITO packages are available right now. Please check back later.")
		return
	}
	var sb strings.Builder
	sb.WriteString("🗝 QITO Packages\n\n" +
		"QITO packages are subscription based. You get a username and password instead of a key.\n\n")
	for _, p := range plans {
		sb.WriteString(fmt.Sprintf("%d. %s\n", p.DisplayNumber, p.Name))
		if p.Description != "" {
			sb.WriteString("   " + p.Description + "\n")
		}
		sb.WriteString(fmt.Sprintf("   %d days, up to %d devices - %d Credits\n\n", p.DurationDays, p.DeviceLimit, p.CreditsRequired))
	}
	sb.WriteString("Select a package to buy:")
	t.sendWithMarkup(ctx, update.Message.Chat.ID, sb.String(), planKeyboard(plans, "qito_plan_"))
}

func (t *Bot) onMyPlans(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	list, err := t.svc.Entitlements.ListForUser(update.Message.From.ID)
	if err != nil {
		t.send(ctx, update.Message.Chat.ID, "❌ Could not load your packages. Please try again.")
		return
	}
	if len(list) == 0 {
		t.send(ctx, update.Message.Chat.ID, "📋 You have no packages yet.\n\nUse '"+btnBuyKey+"' or '"+btnQitoKey+"' to buy one.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Your Packages\n\n")
	now := time.Now()
	for _, e := range list {
		sb.WriteString("• " + e.PlanName + "\n")
		if e.KeyValue != "" {
			sb.WriteString("  Key: " + e.KeyValue + "\n")
		} else if e.Credential != "" {
			if user, pass, ok := strings.Cut(e.Credential, "|"); ok {
				sb.WriteString("  Username: " + user + "\n  Password: " + pass + "\n")
			}
		}
		if e.ExpiryDate != nil {
			days := int(e.ExpiryDate.Sub(now).Hours() / 24)
			if days < 0 {
				sb.WriteString("  ⚠️ Expired\n")
			} else {
				sb.WriteString(fmt.Sprintf("  Expires: %s (%d days left)\n", e.ExpiryDate.Format("2006-01-02"), days))
			}
		}
		sb.WriteString("\n")
	}
	t.send(ctx, update.Message.Chat.ID, sb.String())
}

func (t *Bot) onContact(ctx context.Context, _ *bot.Bot, update *models.Update) {
	t.ensureUser(update)
	contacts, err := t.svc.Contacts.ListActive()
	if err != nil || len(contacts) == 0 {
		t.send(ctx, update.Message.Chat.ID, "📞 Contact the operator through the admin panel.")
		return
	}
	var sb strings.Builder
	sb.WriteString("📞 Contact Us\n\n")
	for _, c := range contacts {
		sb.WriteString(fmt.Sprintf("%s: %s\n", c.ContactType, c.ContactValue))
	}
	t.send(ctx, update.Message.Chat.ID, sb.String())
}
