// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds application services layered over the store:
// activity auditing and dashboard statistics.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mileusna/useragent"

	"reunioncms/internal/geoip"
	"reunioncms/internal/model"
	"reunioncms/internal/scope"
	"reunioncms/internal/store"
)

// ActivityService appends and lists audit trail entries, enriching them
// with parsed user agent data and an optional country lookup.
type ActivityService struct {
	queries *store.Queries
	geo     *geoip.Lookup
}

// NewActivityService creates an ActivityService. geo may be nil.
func NewActivityService(queries *store.Queries, geo *geoip.Lookup) *ActivityService {
	return &ActivityService{queries: queries, geo: geo}
}

// RecordParams describes one activity entry to append.
type RecordParams struct {
	Access     scope.Access
	Level      string
	Category   string
	Action     string
	EntityType string
	EntityID   int64
	Details    map[string]any
	IPAddress  string
	UserAgent  string
}

// Record appends an audit entry. The user agent is parsed into the details
// JSON; when GeoIP is available the country code is added too.
func (s *ActivityService) Record(ctx context.Context, arg RecordParams) error {
	details := make(map[string]any, len(arg.Details)+3)
	for k, v := range arg.Details {
		details[k] = v
	}

	if arg.UserAgent != "" {
		ua := useragent.Parse(arg.UserAgent)
		details["browser"] = ua.Name
		details["os"] = ua.OS
		if ua.Device != "" {
			details["device"] = ua.Device
		}
		if ua.Bot {
			details["bot"] = true
		}
	}
	if s.geo != nil && arg.IPAddress != "" {
		if country := s.geo.Country(arg.IPAddress); country != "" {
			details["country"] = country
		}
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	level := arg.Level
	if level == "" {
		level = model.ActivityLevelInfo
	}
	category := arg.Category
	if category == "" {
		category = model.ActivityCategorySystem
	}

	params := store.CreateActivityParams{
		TenantID:  arg.Access.TenantID,
		Level:     level,
		Category:  category,
		Action:    arg.Action,
		Details:   string(detailsJSON),
		IPAddress: arg.IPAddress,
		CreatedAt: time.Now().UTC(),
	}
	if arg.Access.UserID != 0 {
		params.UserID = sql.NullInt64{Int64: arg.Access.UserID, Valid: true}
	}
	if arg.EntityType != "" {
		params.EntityType = sql.NullString{String: arg.EntityType, Valid: true}
		params.EntityID = sql.NullInt64{Int64: arg.EntityID, Valid: true}
	}

	return s.queries.CreateActivity(ctx, params)
}

// ListParams filters the activity listing.
type ListParams struct {
	Access   scope.Access
	Category string
	Level    string
	Limit    int64
	Offset   int64
}

// List returns audit entries visible to the caller, newest first, with the
// total count for pagination.
func (s *ActivityService) List(ctx context.Context, arg ListParams) ([]model.Activity, int64, error) {
	limit := arg.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	params := store.ListActivityParams{
		TenantID: arg.Access.TenantFilter(),
		Limit:    limit,
		Offset:   arg.Offset,
	}
	if arg.Category != "" {
		params.Category = sql.NullString{String: arg.Category, Valid: true}
	}
	if arg.Level != "" {
		params.Level = sql.NullString{String: arg.Level, Valid: true}
	}

	entries, err := s.queries.ListActivity(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.queries.CountActivity(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
