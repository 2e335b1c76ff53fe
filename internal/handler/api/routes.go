// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/go-chi/chi/v5"

	"reunioncms/internal/middleware"
	"reunioncms/internal/model"
)

// Routes mounts every API and public endpoint on the given router.
// Admin routes sit behind session auth plus CSRF; tenant administration
// additionally requires the super_admin role.
func (h *Handler) Routes(r chi.Router) {
	csrf := middleware.CSRF(middleware.CSRFConfig{
		AuthKey:       []byte(h.cfg.SessionSecret),
		IsDevelopment: h.cfg.IsDevelopment(),
	})
	authn := middleware.Authenticate(h.tokens)
	publicLimit := middleware.RateLimit(10, 20)
	loginProtection := middleware.LoginProtection(middleware.DefaultLoginProtectionConfig())

	r.Get("/health", h.Health)
	r.Get("/sitemap.xml", h.Sitemap)

	// External cron trigger, authorized by shared secret instead of a
	// session. GET is accepted alongside POST because many hosted cron
	// runners can only issue GETs.
	r.Get("/api/cron/publish", h.CronPublish)
	r.Post("/api/cron/publish", h.CronPublish)

	// Public read surface plus the guestbook write endpoint.
	r.Group(func(r chi.Router) {
		r.Use(publicLimit)

		r.Get("/api/posts", h.ListPosts)
		r.Get("/api/categories", h.ListCategories)
		r.Get("/api/tags", h.ListTags)
		r.Get("/api/page-content", h.GetPageContent)

		r.Route("/api/reunion", func(r chi.Router) {
			r.Get("/classes", h.ListClasses)
			r.Get("/classes/{slug}", h.GetClass)
			r.Get("/alumni", h.SearchAlumni)
			r.Get("/gallery", h.ListGallery)
			r.Get("/guestbook", h.ListGuestbook)
			r.Post("/guestbook", h.SignGuestbook)
			r.Get("/schedule", h.ListEventSchedule)
			r.Get("/countdown", h.Countdown)
		})
	})

	// Session endpoints.
	r.Group(func(r chi.Router) {
		r.Use(csrf)
		r.With(loginProtection).Post("/api/auth/login", h.Login)
		r.With(authn).Post("/api/auth/logout", h.Logout)
		r.With(authn).Get("/api/auth/me", h.Me)
		r.With(authn).Post("/api/auth/change-password", h.ChangePassword)
	})

	// Admin surface: at least editor role.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(csrf)
		r.Use(authn)
		r.Use(middleware.RequireRole(model.RoleEditor))

		r.Get("/posts", h.AdminListPosts)
		r.Post("/posts", h.AdminUpsertPost)
		r.Get("/posts/{id}", h.AdminGetPost)
		r.Delete("/posts/{id}", h.AdminDeletePost)
		r.Post("/posts/{id}/check-links", h.CheckPostLinks)

		r.Post("/categories", h.AdminCreateCategory)
		r.Put("/categories/{id}", h.AdminUpdateCategory)
		r.Delete("/categories/{id}", h.AdminDeleteCategory)

		r.Post("/tags", h.AdminCreateTag)
		r.Put("/tags/{id}", h.AdminUpdateTag)
		r.Delete("/tags/{id}", h.AdminDeleteTag)

		r.Get("/scheduled-content", h.ListScheduledContent)
		r.Post("/scheduled-content", h.CreateScheduledContent)
		r.Put("/scheduled-content/{id}", h.UpdateScheduledContent)
		r.Delete("/scheduled-content/{id}", h.DeleteScheduledContent)

		r.Put("/page-content", h.AdminUpsertPageContent)

		r.Get("/media", h.ListMedia)
		r.Post("/media", h.UploadMedia)
		r.Delete("/media/{name}", h.DeleteMedia)

		r.Get("/seo-audit", h.SEOAudit)
		r.Get("/links", h.Links)
		r.Get("/check-link", h.CheckLink)
		r.Post("/check-link", h.CheckLink)

		r.Get("/stats", h.Stats)
		r.Get("/activity", h.Activity)
		r.Post("/activity", h.RecordActivity)

		r.Route("/reunion", func(r chi.Router) {
			r.Post("/classes", h.AdminCreateClass)
			r.Put("/classes/{id}", h.AdminUpdateClass)
			r.Delete("/classes/{id}", h.AdminDeleteClass)

			r.Post("/alumni", h.AdminCreateAlumnus)
			r.Put("/alumni/{id}", h.AdminUpdateAlumnus)
			r.Delete("/alumni/{id}", h.AdminDeleteAlumnus)

			r.Post("/gallery", h.AdminCreateGalleryImage)
			r.Delete("/gallery/{id}", h.AdminDeleteGalleryImage)

			r.Get("/guestbook", h.AdminListGuestbook)
			r.Post("/guestbook/{id}/approve", h.AdminApproveGuestbookEntry)
			r.Delete("/guestbook/{id}", h.AdminDeleteGuestbookEntry)

			r.Post("/schedule", h.AdminCreateEventItem)
			r.Put("/schedule/{id}", h.AdminUpdateEventItem)
			r.Delete("/schedule/{id}", h.AdminDeleteEventItem)
		})

		// Admin-and-above surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))

			r.Get("/users", h.ListUsers)
			r.Post("/users", h.CreateUser)
			r.Put("/users/{id}", h.UpdateUser)

			r.Get("/settings", h.ListSettings)
			r.Put("/settings/{key}", h.UpsertSetting)
			r.Delete("/settings/{key}", h.DeleteSetting)

			r.Get("/backup", h.ExportBackup)
			r.Post("/backup", h.ImportBackup)
			r.Post("/activity/purge", h.PurgeActivity)
		})

		// Platform administration: super admins only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleSuperAdmin))

			r.Get("/tenants", h.ListTenants)
			r.Post("/tenants", h.CreateTenant)
			r.Put("/tenants/{id}", h.UpdateTenant)
			r.Delete("/tenants/{id}", h.DeleteTenant)
		})
	})
}
