package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minkhantzaw/vpnshop-backend/internal/services"
)

// Notifier delivers sweep reports to the operator. Satisfied by the Telegram
// bot; a no-op is used when no chat is configured.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Result summarizes one sweep run.
type Result struct {
	ExpiredRemoved int
	ExpiredDetails []services.ReclaimDetail
	OrphansRemoved int
	ExpiringSoon   []services.ExpiringEntitlement
	Stats          services.GlobalKeyStats
}

// Sweeper runs the daily maintenance pass: reclaim expired entitlements,
// delete orphaned keys, warn about upcoming expiries and log pool totals.
type Sweeper struct {
	inventory *services.InventoryService
	notifier  Notifier
}

func New(inventory *services.InventoryService, notifier Notifier) *Sweeper {
	return &Sweeper{inventory: inventory, notifier: notifier}
}

// Run executes one full sweep. Each stage is independent; a failure in one
// stops the run so a partial pass is never reported as complete.
func (s *Sweeper) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	removed, details, err := s.inventory.ReclaimExpired()
	if err != nil {
		return nil, fmt.Errorf("expired reclaim failed: %w", err)
	}
	res.ExpiredRemoved = removed
	res.ExpiredDetails = details
	if removed > 0 {
		slog.Info("expired entitlements reclaimed", "count", removed)
		s.notify(ctx, s.expiredReport(removed, details))
	} else {
		slog.Info("no expired entitlements found")
	}

	orphans, orphanKeys, err := s.inventory.ReclaimOrphans()
	if err != nil {
		return nil, fmt.Errorf("orphan reclaim failed: %w", err)
	}
	res.OrphansRemoved = orphans
	if orphans > 0 {
		slog.Info("orphaned keys reclaimed", "count", orphans)
		for _, k := range orphanKeys {
			slog.Info("orphaned key deleted", "key", k.KeyValue, "plan_id", k.PlanID)
		}
	} else {
		slog.Info("no orphaned keys found")
	}

	expiring, err := s.inventory.ExpiringSoon(3)
	if err != nil {
		return nil, fmt.Errorf("expiring-soon check failed: %w", err)
	}
	res.ExpiringSoon = expiring
	if len(expiring) > 0 {
		slog.Info("entitlements expiring soon", "count", len(expiring))
		s.notify(ctx, s.expiringReport(expiring))
	}

	_, stats, err := s.inventory.Statistics()
	if err != nil {
		return nil, fmt.Errorf("statistics failed: %w", err)
	}
	res.Stats = stats
	slog.Info("key pool statistics",
		"active_plans", stats.ActivePlans,
		"total_keys", stats.TotalKeys,
		"used_keys", stats.UsedKeys,
		"available_keys", stats.AvailableKeys)

	return res, nil
}

func (s *Sweeper) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		slog.Error("sweep notification failed", "error", err)
	}
}

func (s *Sweeper) expiredReport(count int, details []services.ReclaimDetail) string {
	var sb strings.Builder
	sb.WriteString("🗑️ Expired Package Cleanup\n\n")
	sb.WriteString(fmt.Sprintf("Deleted %d expired packages and their keys:\n\n", count))
	for _, d := range details {
		sb.WriteString(fmt.Sprintf("• User ID: %d\n  Package: %s\n", d.UserID, d.PlanName))
		if d.KeyValue != "" {
			sb.WriteString("  Key: " + d.KeyValue + "\n")
		}
		if d.ExpiryDate != nil {
			sb.WriteString("  Expired: " + d.ExpiryDate.Format("2006-01-02") + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (s *Sweeper) expiringReport(expiring []services.ExpiringEntitlement) string {
	var sb strings.Builder
	sb.WriteString("⚠️ Packages Expiring Soon\n\n")
	sb.WriteString(fmt.Sprintf("Found %d packages expiring in the next 3 days:\n\n", len(expiring)))
	for _, e := range expiring {
		who := e.FirstName
		if e.Username != "" {
			who = "@" + e.Username
		}
		sb.WriteString(fmt.Sprintf("• %s (ID: %d)\n  Package: %s\n", who, e.UserID, e.PlanName))
		if e.ExpiryDate != nil {
			sb.WriteString("  Expires: " + e.ExpiryDate.Format("2006-01-02") + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
