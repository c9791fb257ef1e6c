package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// notifyAdmin sends text to the operator's private chat if one is configured.
func (t *Bot) notifyAdmin(ctx context.Context, text string) {
	if t.cfg.AdminTelegramID == 0 {
		return
	}
	_, err := t.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: t.cfg.AdminTelegramID,
		Text:   text,
	})
	if err != nil {
		slog.Error("admin notification failed", "error", err)
	}
}

// notifyLowStock alerts the operator when any active plan drops below the
// configured key threshold. Called after successful static purchases.
func (t *Bot) notifyLowStock(ctx context.Context) {
	low, err := t.svc.Inventory.LowStock(t.cfg.LowStockThreshold)
	if err != nil {
		slog.Error("low stock check failed", "error", err)
		return
	}
	if len(low) == 0 {
		return
	}
	var sb strings.Builder
	sb.WriteString("⚠️ Low Key Stock Alert\n\n")
	for _, p := range low {
		sb.WriteString(fmt.Sprintf("• %s: %d keys left\n", p.PlanName, p.AvailableKeys))
	}
	sb.WriteString(fmt.Sprintf("\nThreshold: %d keys. Please add more keys soon.", t.cfg.LowStockThreshold))
	t.notifyAdmin(ctx, sb.String())
}

// requireAdmin replies with a refusal for non-admin senders.
func (t *Bot) requireAdmin(ctx context.Context, update *models.Update) bool {
	if t.isAdmin(update.Message.From.ID) {
		return true
	}
	t.send(ctx, update.Message.Chat.ID, "❌ Unauthorized access.")
	return false
}

func (t *Bot) onAdminHelp(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if !t.requireAdmin(ctx, update) {
		return
	}
	text := "🔧 Admin Commands\n\n" +
		"/checkkeys - Key availability per package\n" +
		"/lowkeys - Packages below the stock threshold\n" +
		"/keystats - Full key pool statistics\n" +
		"/expiredkeys - Reclaim expired packages and their keys\n" +
		"/expiringkeys - Packages expiring within 3 days\n" +
		"/cleanupkeys - Delete keys no package references"
	t.send(ctx, update.Message.Chat.ID, text)
}

func (t *Bot) onCheckKeys(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if !t.requireAdmin(ctx, update) {
		return
	}
	plans, err := t.svc.Plans.ListActive()
	if err != nil {
		t.send(ctx, update.Message.Chat.ID, "❌ Could not load packages.")
		return
	}
	if len(plans) == 0 {
		t.send(ctx, update.Message.Chat.ID, "No active packages configured.")
		return
	}
	var sb strings.Builder
	sb.WriteString("🔑 Key Availability\n\n")
	for _, p := range plans {
		if p.IsDynamic() {
			sb.WriteString(fmt.Sprintf("• %s: issued on demand\n", p.Name))
			continue
		}
		count, err := t.svc.Inventory.AvailableCount(p.ID)
		if err != nil {
			continue
		}
		marker := "✅"
		if count < int64(t.cfg.LowStockThreshold) {
			marker = "⚠️"
		}
		sb.WriteString(fmt.Sprintf("%s %s: %d keys\n", marker, p.Name, count))
	}
	t.send(ctx, update.Message.Chat.ID, sb.String())
}

func (t *Bot) onLowKeys(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if !t.requireAdmin(ctx, update) {
		return
	}
	low, err := t.svc.Inventory.LowStock(t.cfg.LowStockThreshold)
	if err != nil {
		t.send(ctx, update.Message.Chat.ID, "❌ Could not check stock levels.")
		return
	}
	if len(low) == 0 {
		t.send(ctx, update.Message.Chat.ID, fmt.Sprintf("✅ All packages have at least %d keys.", t.cfg.LowStockThreshold))
		return
	}
	var sb strings.Builder
	sb.WriteString("⚠️ Low Stock Packages\n\n")
	for _, p := range low {
		sb.WriteString(fmt.Sprintf("• %s: %d keys left\n", p.PlanName, p.AvailableKeys))
	}
	t.send(ctx, update.Message.Chat.ID, sb.String())
}

func (t *Bot) onKeyStats(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if !t.requireAdmin(ctx, update) {
		return
	}
	perPlan, global, err := t.svc.Inventory.Statistics()
	if err != nil {
		t.send(ctx, update.Message.Chat.ID, "❌ Could not load statistics.")
		return
	}
	var sb strings.Builder
	sb.WriteString("📊 Key Statistics\n\n")
	for _, p := range perPlan {
		sb.WriteString(fmt.Sprintf("• %s: %d total, %d available, %d used\n",
			p.PlanName, p.TotalKeys, p.AvailableKeys, p.UsedKeys))
	}
	sb.WriteString(fmt.Sprintf("\nTotals across %d active packages:\n%d keys, %d available, %d used",
		global.ActivePlans, global.TotalKeys, global.AvailableKeys, global.UsedKeys))
	t.send(ctx, update.Message.Chat.ID, sb.String())
}

func (t *Bot) onExpiredKeys(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if !t.requireAdmin(ctx, update) {
		return
	}
	removed, details, err := t.svc.Inventory.ReclaimExpired()
	if err != nil {
		t.send(ctx, update.Message.Chat.ID, "❌ Expired package cleanup failed.")
		return
	}
	if removed == 0 {
		t.send(ctx, update.Message.Chat.ID, "✅ No expired packages found.")
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🧹 Removed %d expired packages:\n\n", removed))
	for _, d := range details {
		expiry := "unknown"
		if d.ExpiryDate != nil {
			expiry = d.ExpiryDate.Format("2006-01-02")
		}
		sb.WriteString(fmt.Sprintf("• User %d, %s, expired %s\n", d.UserID, d.PlanName, expiry))
	}
	t.send(ctx, update.Message.Chat.ID, sb.String())
}

func (t *Bot) onExpiringKeys(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if !t.requireAdmin(ctx, update) {
		return
	}
	list, err := t.svc.Inventory.ExpiringSoon(3)
	if err != nil {
		t.send(ctx, update.Message.Chat.ID, "❌ Could not check expiring packages.")
		return
	}
	if len(list) == 0 {
		t.send(ctx, update.Message.Chat.ID, "✅ No packages expiring within 3 days.")
		return
	}
	var sb strings.Builder
	sb.WriteString("⏰ Packages Expiring Soon\n\n")
	for _, e := range list {
		expiry := "unknown"
		if e.ExpiryDate != nil {
			expiry = e.ExpiryDate.Format("2006-01-02")
		}
		sb.WriteString(fmt.Sprintf("• %s (@%s, ID %d): %s expires %s\n",
			e.FirstName, orNone(e.Username), e.UserID, e.PlanName, expiry))
	}
	t.send(ctx, update.Message.Chat.ID, sb.String())
}

func (t *Bot) onCleanupKeys(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if !t.requireAdmin(ctx, update) {
		return
	}
	removed, keys, err := t.svc.Inventory.ReclaimOrphans()
	if err != nil {
		t.send(ctx, update.Message.Chat.ID, "❌ Orphaned key cleanup failed.")
		return
	}
	if removed == 0 {
		t.send(ctx, update.Message.Chat.ID, "✅ No orphaned keys found.")
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🧹 Deleted %d orphaned keys:\n\n", removed))
	for _, k := range keys {
		sb.WriteString("• " + k.KeyValue + "\n")
	}
	t.send(ctx, update.Message.Chat.ID, sb.String())
}
