// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the publication sweep that flips scheduled posts
// to published once their time arrives.
package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"reunioncms/internal/cache"
	"reunioncms/internal/metrics"
	"reunioncms/internal/model"
	"reunioncms/internal/store"
)

// Result summarizes one sweep run.
type Result struct {
	Published int      `json:"published"`
	Titles    []string `json:"titles"`
}

// Scheduler owns the cron loop and the sweep itself. The sweep can also be
// triggered over HTTP by the cron endpoint, so both paths share Sweep.
type Scheduler struct {
	db        *sql.DB
	cron      *cron.Cron
	logger    *slog.Logger
	cache     cache.Cache
	staleKeys []string
}

// New creates a scheduler instance.
func New(db *sql.DB, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:     db,
		cron:   cron.New(),
		logger: logger,
	}
}

// InvalidateAfterSweep registers cache keys to drop whenever a sweep
// publishes at least one post, so cached views pick up the new posts
// without waiting out their TTL.
func (s *Scheduler) InvalidateAfterSweep(c cache.Cache, keys ...string) {
	s.cache = c
	s.staleKeys = keys
}

// Start begins the cron loop, sweeping every minute.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		metrics.SweepRuns.WithLabelValues("cron").Inc()
		if _, err := s.Sweep(context.Background(), time.Now().UTC()); err != nil {
			s.logger.Error("publish sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the cron loop, waiting for a running sweep.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Sweep publishes every unpublished post whose schedule time is at or
// before now. Each post is published independently so one failure does not
// hold back the rest, and a repeated run over the same instant publishes
// nothing new.
func (s *Scheduler) Sweep(ctx context.Context, now time.Time) (Result, error) {
	queries := store.New(s.db)

	due, err := queries.ListScheduledPostsDue(ctx, now)
	if err != nil {
		return Result{}, err
	}

	result := Result{Titles: make([]string, 0, len(due))}
	if len(due) == 0 {
		return result, nil
	}

	s.logger.Info("processing scheduled posts", "count", len(due))

	for _, post := range due {
		if err := s.publishPost(ctx, queries, post, now); err != nil {
			s.logger.Error("failed to publish scheduled post",
				"post_id", post.ID,
				"post_title", post.Title,
				"error", err,
			)
			continue
		}

		result.Published++
		result.Titles = append(result.Titles, post.Title)
		metrics.SweepPublished.Inc()

		s.logger.Info("published scheduled post",
			"post_id", post.ID,
			"post_title", post.Title,
			"scheduled_at", post.ScheduledAt.Time,
		)
	}

	if result.Published > 0 && s.cache != nil {
		for _, key := range s.staleKeys {
			if err := s.cache.Delete(ctx, key); err != nil {
				s.logger.Warn("failed to invalidate cache after sweep", "key", key, "error", err)
			}
		}
	}

	return result, nil
}

func (s *Scheduler) publishPost(ctx context.Context, queries *store.Queries, post model.Post, now time.Time) error {
	if err := queries.PublishScheduledPost(ctx, post.ID, now); err != nil {
		return err
	}

	details := map[string]any{
		"post_id":      post.ID,
		"post_title":   post.Title,
		"post_slug":    post.Slug,
		"scheduled_at": post.ScheduledAt.Time.Format(time.RFC3339),
		"published_at": now.Format(time.RFC3339),
	}
	detailsJSON, _ := json.Marshal(details)

	err := queries.CreateActivity(ctx, store.CreateActivityParams{
		TenantID:   post.TenantID,
		Level:      model.ActivityLevelInfo,
		Category:   model.ActivityCategoryPost,
		Action:     "post.auto_published",
		EntityType: sql.NullString{String: "post", Valid: true},
		EntityID:   sql.NullInt64{Int64: post.ID, Valid: true},
		Details:    string(detailsJSON),
		CreatedAt:  now,
	})
	if err != nil {
		s.logger.Warn("failed to log scheduled publish", "error", err)
	}

	return nil
}
