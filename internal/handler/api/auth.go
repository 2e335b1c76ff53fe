// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"reunioncms/internal/auth"
	"reunioncms/internal/metrics"
	"reunioncms/internal/middleware"
	"reunioncms/internal/model"
	"reunioncms/internal/scope"
	"reunioncms/internal/service"
	"reunioncms/internal/store"
	"reunioncms/internal/util"
	"reunioncms/internal/validate"
)

// maxFailedLogins is the number of failed attempts per email inside
// loginAttemptWindow after which further attempts are rejected.
const (
	maxFailedLogins    = 5
	loginAttemptWindow = 15 * time.Minute
)

// LoginRequest is the credentials payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse describes the authenticated user.
type SessionResponse struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	TenantID   *int64 `json:"tenant_id,omitempty"`
	TenantName string `json:"tenant_name,omitempty"`
}

// Login handles POST /api/auth/login. Credentials are checked against the
// users table; after maxFailedLogins failures for an email inside the
// window the endpoint answers 429 without touching the password hash.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.New().
		Required("email", req.Email).
		Required("password", req.Password).
		Err(); err != nil {
		WriteValidationError(w, err.(validate.Errors))
		return
	}

	ip := util.ClientIP(r)
	now := time.Now()

	failures, err := h.queries.CountFailedLoginAttempts(ctx, req.Email, now.Add(-loginAttemptWindow))
	if err != nil {
		WriteInternalError(w, "Failed to check login attempts")
		return
	}
	if failures >= maxFailedLogins {
		metrics.LoginAttempts.WithLabelValues("rate_limited").Inc()
		h.recordAuthActivity(ctx, scope.Access{}, model.ActivityLevelWarning,
			"auth.login_rate_limited", ip, r.UserAgent(),
			map[string]any{"email": req.Email})
		w.Header().Set("Retry-After", "900")
		WriteError(w, http.StatusTooManyRequests, "rate_limited",
			"Too many failed attempts, try again later", nil)
		return
	}

	user, err := h.queries.GetActiveUserByEmail(ctx, req.Email)
	if errors.Is(err, sql.ErrNoRows) && h.cfg.LegacyAdminEnabled() {
		user, err = h.bootstrapLegacyAdmin(ctx, req, now)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.failLogin(ctx, w, req.Email, ip, r.UserAgent(), now)
			return
		}
		WriteInternalError(w, "Login failed")
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		h.failLogin(ctx, w, req.Email, ip, r.UserAgent(), now)
		return
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, hashErr := auth.HashPassword(req.Password); hashErr == nil {
			_ = h.queries.UpdateUserPassword(ctx, user.ID, newHash, now)
		}
	}

	_ = h.queries.CreateLoginAttempt(ctx, req.Email, ip, true, now)
	_ = h.queries.UpdateUserLastLogin(ctx, user.ID, now)

	tenantName := ""
	if user.TenantID.Valid {
		if tenant, terr := h.queries.GetTenantByID(ctx, user.TenantID.Int64); terr == nil {
			tenantName = tenant.Name
		}
	}

	token, err := h.tokens.Issue(auth.IssueParams{
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		TenantID:   user.TenantID,
		TenantName: tenantName,
	}, now)
	if err != nil {
		WriteInternalError(w, "Failed to create session")
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.recordAuthActivity(ctx,
		scope.Access{UserID: user.ID, Role: user.Role, TenantID: user.TenantID},
		model.ActivityLevelInfo, "auth.login", ip, r.UserAgent(),
		map[string]any{"email": user.Email})

	http.SetCookie(w, auth.NewCookie(token, !h.cfg.IsDevelopment()))
	WriteSuccess(w, sessionResponse(user, tenantName), nil)
}

// failLogin records a failed attempt and answers 401. The response is the
// same for unknown emails and wrong passwords.
func (h *Handler) failLogin(ctx context.Context, w http.ResponseWriter, email, ip, userAgent string, now time.Time) {
	_ = h.queries.CreateLoginAttempt(ctx, email, ip, false, now)
	metrics.LoginAttempts.WithLabelValues("failure").Inc()
	h.recordAuthActivity(ctx, scope.Access{}, model.ActivityLevelWarning,
		"auth.login_failed", ip, userAgent, map[string]any{"email": email})
	WriteError(w, http.StatusUnauthorized, "invalid_credentials",
		"Invalid email or password", nil)
}

// bootstrapLegacyAdmin creates the super admin user from the legacy
// CMS_ADMIN_EMAIL/CMS_ADMIN_PASSWORD pair on first login. Later logins go
// through the users table like any other account.
func (h *Handler) bootstrapLegacyAdmin(ctx context.Context, req LoginRequest, now time.Time) (model.User, error) {
	if subtle.ConstantTimeCompare([]byte(req.Email), []byte(h.cfg.AdminEmail)) != 1 ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.AdminPassword)) != 1 {
		return model.User{}, sql.ErrNoRows
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}
	return h.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        req.Email,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         model.RoleSuperAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if access, ok := middleware.GetAccess(r); ok {
		h.recordAuthActivity(r.Context(), access, model.ActivityLevelInfo,
			"auth.logout", util.ClientIP(r), r.UserAgent(), nil)
	}
	http.SetCookie(w, auth.ClearCookie(!h.cfg.IsDevelopment()))
	WriteSuccess(w, map[string]string{"status": "logged_out"}, nil)
}

// Me handles GET /api/auth/me and returns the current session's user,
// refreshed from the database.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), access.UserID)
	if err != nil {
		WriteUnauthorized(w, "Session user no longer exists")
		return
	}

	tenantName := ""
	if claims := middleware.GetClaims(r); claims != nil {
		tenantName = claims.TenantName
	}
	WriteSuccess(w, sessionResponse(user, tenantName), nil)
}

// ChangePasswordRequest is the payload for POST /api/auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles POST /api/auth/change-password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.New().
		Required("current_password", req.CurrentPassword).
		Required("new_password", req.NewPassword).
		MinLen("new_password", req.NewPassword, validate.MinPasswordLen).
		Err(); err != nil {
		WriteValidationError(w, err.(validate.Errors))
		return
	}

	user, err := h.queries.GetUserByID(ctx, access.UserID)
	if err != nil {
		WriteUnauthorized(w, "Session user no longer exists")
		return
	}

	match, err := auth.CheckPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil || !match {
		WriteError(w, http.StatusUnauthorized, "invalid_credentials",
			"Current password is incorrect", nil)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		WriteInternalError(w, "Failed to hash password")
		return
	}
	if err := h.queries.UpdateUserPassword(ctx, user.ID, hash, time.Now()); err != nil {
		WriteInternalError(w, "Failed to update password")
		return
	}

	h.recordAuthActivity(ctx, access, model.ActivityLevelInfo,
		"auth.password_changed", util.ClientIP(r), r.UserAgent(), nil)
	WriteSuccess(w, map[string]string{"status": "password_changed"}, nil)
}

func (h *Handler) recordAuthActivity(ctx context.Context, access scope.Access, level, action, ip, userAgent string, details map[string]any) {
	if h.activity == nil {
		return
	}
	if err := h.activity.Record(ctx, service.RecordParams{
		Access:    access,
		Level:     level,
		Category:  model.ActivityCategoryAuth,
		Action:    action,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
	}); err != nil {
		h.logger.Error("failed to record auth activity", "action", action, "error", err)
	}
}

func sessionResponse(user model.User, tenantName string) SessionResponse {
	resp := SessionResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		TenantName: tenantName,
	}
	if user.TenantID.Valid {
		resp.TenantID = &user.TenantID.Int64
	}
	return resp
}
