package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-drive/internal/config"
	"go-drive/internal/handler"
	"go-drive/internal/middleware"
)

type Handlers struct {
	Directory  *handler.DirectoryHandler
	Operations *handler.OperationsHandler
	Trash      *handler.TrashHandler
	Audit      *handler.AuditHandler
	Permission *handler.PermissionHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.BatchRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(authMiddleware.RequireAuth)

		api.Get("/items", h.Directory.List)
		api.Post("/folders", h.Directory.CreateFolder)
		api.Post("/files", h.Directory.RegisterFile)
		api.Post("/items/move", h.Operations.Move)

		api.Delete("/items", h.Trash.SoftDelete)
		api.Post("/items/restore", h.Trash.Restore)
		api.Get("/trash", h.Trash.List)
		api.Delete("/trash/{id}", h.Trash.PermanentDelete)
		api.Post("/trash/empty", h.Trash.EmptyTrash)

		api.Get("/permissions/me", h.Permission.Me)
		api.Get("/permissions/check", h.Permission.Check)

		api.With(authMiddleware.RequireRoles("admin", "manager")).Get("/audit", h.Audit.List)
	})

	return r
}
