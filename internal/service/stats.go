// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"time"

	"reunioncms/internal/scope"
	"reunioncms/internal/store"
)

// Stats is the dashboard summary.
type Stats struct {
	TotalPosts     int64 `json:"total_posts"`
	PublishedPosts int64 `json:"published_posts"`
	ScheduledPosts int64 `json:"scheduled_posts"`
	DraftPosts     int64 `json:"draft_posts"`
	Categories     int64 `json:"categories"`
	Tags           int64 `json:"tags"`
	Tenants        int64 `json:"tenants,omitempty"`
}

// StatsService computes dashboard counts scoped to the caller.
type StatsService struct {
	queries *store.Queries
}

// NewStatsService creates a StatsService.
func NewStatsService(queries *store.Queries) *StatsService {
	return &StatsService{queries: queries}
}

// Dashboard returns the content counts visible to the caller. The tenant
// count appears only for super admins.
func (s *StatsService) Dashboard(ctx context.Context, access scope.Access) (Stats, error) {
	filter := access.TenantFilter()

	counts, err := s.queries.CountPostsByState(ctx, filter, time.Now().UTC())
	if err != nil {
		return Stats{}, err
	}

	categories, err := s.queries.ListCategories(ctx, filter)
	if err != nil {
		return Stats{}, err
	}
	tags, err := s.queries.ListTags(ctx, filter)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalPosts:     counts.Total,
		PublishedPosts: counts.Published,
		ScheduledPosts: counts.Scheduled,
		DraftPosts:     counts.Draft,
		Categories:     int64(len(categories)),
		Tags:           int64(len(tags)),
	}

	if access.IsSuperAdmin() {
		tenants, err := s.queries.CountTenants(ctx)
		if err != nil {
			return Stats{}, err
		}
		stats.Tenants = tenants
	}

	return stats, nil
}
