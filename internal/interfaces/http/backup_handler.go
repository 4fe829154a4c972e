package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hasanq/muhasaba/internal/application/dto"
	"github.com/hasanq/muhasaba/internal/infrastructure/backup"
)

// BackupHandler exposes on-demand backups and the archive listing. Admin
// only.
type BackupHandler struct {
	svc *backup.Service
}

// NewBackupHandler builds the handler.
func NewBackupHandler(svc *backup.Service) *BackupHandler {
	return &BackupHandler{svc: svc}
}

// Create runs a backup immediately.
// POST /api/backups
func (h *BackupHandler) Create(c *fiber.Ctx) error {
	path, err := h.svc.Create(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"archive": path})
}

// List returns the existing archives, newest first.
// GET /api/backups
func (h *BackupHandler) List(c *fiber.Ctx) error {
	infos, err := h.svc.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(infos)
}

// Download streams one archive.
// GET /api/backups/:name
func (h *BackupHandler) Download(c *fiber.Ctx) error {
	path, err := h.svc.Path(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "backup not found"})
	}
	return c.Download(path)
}
