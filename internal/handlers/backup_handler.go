package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/minkhantzaw/vpnshop-backend/internal/config"
	"github.com/minkhantzaw/vpnshop-backend/internal/database"
)

// BackupHandler downloads and restores the store file. Only available when
// the store runs on sqlite; postgres deployments use their own backup tooling.
type BackupHandler struct {
	cfg *config.Config
}

func NewBackupHandler(cfg *config.Config) *BackupHandler {
	return &BackupHandler{cfg: cfg}
}

func (h *BackupHandler) Download(c *fiber.Ctx) error {
	if h.cfg.DBDriver != "sqlite" {
		return badRequest(c, "Backup download is only supported for sqlite stores")
	}
	if _, err := os.Stat(h.cfg.DBPath); err != nil {
		return badRequest(c, "Store file not found")
	}
	name := fmt.Sprintf("backup_%s.db", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, name))
	return c.SendFile(h.cfg.DBPath)
}

func (h *BackupHandler) Restore(c *fiber.Ctx) error {
	if h.cfg.DBDriver != "sqlite" {
		return badRequest(c, "Restore is only supported for sqlite stores")
	}
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No backup file uploaded")
	}
	if filepath.Ext(file.Filename) != ".db" {
		return badRequest(c, "Backup must be a .db file")
	}

	src, err := file.Open()
	if err != nil {
		return badRequest(c, "Cannot read uploaded file")
	}
	defer src.Close()

	// Write next to the live store and rename into place so a failed upload
	// never leaves a truncated store behind.
	tmp := h.cfg.DBPath + ".restore"
	dst, err := os.Create(tmp)
	if err != nil {
		return fail(c, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmp)
		return fail(c, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return fail(c, err)
	}
	if err := os.Rename(tmp, h.cfg.DBPath); err != nil {
		os.Remove(tmp)
		return fail(c, err)
	}

	if err := database.Reconnect(h.cfg); err != nil {
		return fail(c, err)
	}
	slog.Info("store restored from backup", "file", file.Filename, "size", file.Size)
	return c.JSON(fiber.Map{"message": "Store restored", "file": file.Filename})
}
