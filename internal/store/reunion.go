// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"reunioncms/internal/model"
)

const classColumns = `id, name, slug, description, teacher_name, sort_order, created_at`

func scanClass(row interface{ Scan(...any) error }) (model.Class, error) {
	var c model.Class
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.TeacherName, &c.SortOrder, &c.CreatedAt)
	return c, err
}

// CreateClassParams holds fields for CreateClass.
type CreateClassParams struct {
	Name        string
	Slug        string
	Description sql.NullString
	TeacherName sql.NullString
	SortOrder   int64
	CreatedAt   time.Time
}

// CreateClass inserts a class and returns the stored row.
func (q *Queries) CreateClass(ctx context.Context, arg CreateClassParams) (model.Class, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO classes (name, slug, description, teacher_name, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+classColumns,
		arg.Name, arg.Slug, arg.Description, arg.TeacherName, arg.SortOrder, arg.CreatedAt)
	return scanClass(row)
}

// GetClassBySlug returns a class by slug.
func (q *Queries) GetClassBySlug(ctx context.Context, slug string) (model.Class, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+classColumns+` FROM classes WHERE slug = ?`, slug)
	return scanClass(row)
}

// ListClasses returns classes in display order.
func (q *Queries) ListClasses(ctx context.Context) ([]model.Class, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+classColumns+` FROM classes ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// UpdateClassParams holds fields for UpdateClass.
type UpdateClassParams struct {
	ID          int64
	Name        string
	Slug        string
	Description sql.NullString
	TeacherName sql.NullString
	SortOrder   int64
}

// UpdateClass updates a class and returns the stored row.
func (q *Queries) UpdateClass(ctx context.Context, arg UpdateClassParams) (model.Class, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE classes SET name = ?, slug = ?, description = ?, teacher_name = ?, sort_order = ?
		WHERE id = ?
		RETURNING `+classColumns,
		arg.Name, arg.Slug, arg.Description, arg.TeacherName, arg.SortOrder, arg.ID)
	return scanClass(row)
}

// DeleteClass removes a class. Alumni rows cascade.
func (q *Queries) DeleteClass(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM classes WHERE id = ?`, id)
	return err
}

const alumnusColumns = `id, class_id, full_name, nickname, occupation, city, avatar_url, created_at`

func scanAlumnus(row interface{ Scan(...any) error }) (model.Alumnus, error) {
	var a model.Alumnus
	err := row.Scan(&a.ID, &a.ClassID, &a.FullName, &a.Nickname, &a.Occupation, &a.City, &a.AvatarURL, &a.CreatedAt)
	return a, err
}

// CreateAlumnusParams holds fields for CreateAlumnus.
type CreateAlumnusParams struct {
	ClassID    int64
	FullName   string
	Nickname   sql.NullString
	Occupation sql.NullString
	City       sql.NullString
	AvatarURL  sql.NullString
	CreatedAt  time.Time
}

// CreateAlumnus inserts a roster entry and returns the stored row.
func (q *Queries) CreateAlumnus(ctx context.Context, arg CreateAlumnusParams) (model.Alumnus, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO alumni (class_id, full_name, nickname, occupation, city, avatar_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+alumnusColumns,
		arg.ClassID, arg.FullName, arg.Nickname, arg.Occupation, arg.City, arg.AvatarURL, arg.CreatedAt)
	return scanAlumnus(row)
}

// ListAlumniByClass returns a class roster sorted by name.
func (q *Queries) ListAlumniByClass(ctx context.Context, classID int64) ([]model.Alumnus, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+alumnusColumns+` FROM alumni WHERE class_id = ? ORDER BY full_name`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alumni []model.Alumnus
	for rows.Next() {
		a, err := scanAlumnus(rows)
		if err != nil {
			return nil, err
		}
		alumni = append(alumni, a)
	}
	return alumni, rows.Err()
}

// SearchAlumni returns roster entries whose name matches the query, across
// all classes.
func (q *Queries) SearchAlumni(ctx context.Context, query string, limit int64) ([]model.Alumnus, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+alumnusColumns+` FROM alumni
		WHERE full_name LIKE '%' || ? || '%' OR nickname LIKE '%' || ? || '%'
		ORDER BY full_name
		LIMIT ?`,
		query, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alumni []model.Alumnus
	for rows.Next() {
		a, err := scanAlumnus(rows)
		if err != nil {
			return nil, err
		}
		alumni = append(alumni, a)
	}
	return alumni, rows.Err()
}

// UpdateAlumnusParams holds fields for UpdateAlumnus.
type UpdateAlumnusParams struct {
	ID         int64
	ClassID    int64
	FullName   string
	Nickname   sql.NullString
	Occupation sql.NullString
	City       sql.NullString
	AvatarURL  sql.NullString
}

// UpdateAlumnus updates a roster entry and returns the stored row.
func (q *Queries) UpdateAlumnus(ctx context.Context, arg UpdateAlumnusParams) (model.Alumnus, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE alumni SET class_id = ?, full_name = ?, nickname = ?, occupation = ?, city = ?, avatar_url = ?
		WHERE id = ?
		RETURNING `+alumnusColumns,
		arg.ClassID, arg.FullName, arg.Nickname, arg.Occupation, arg.City, arg.AvatarURL, arg.ID)
	return scanAlumnus(row)
}

// DeleteAlumnus removes a roster entry.
func (q *Queries) DeleteAlumnus(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM alumni WHERE id = ?`, id)
	return err
}

const galleryColumns = `id, class_id, url, caption, sort_order, created_at`

func scanGalleryImage(row interface{ Scan(...any) error }) (model.GalleryImage, error) {
	var g model.GalleryImage
	err := row.Scan(&g.ID, &g.ClassID, &g.URL, &g.Caption, &g.SortOrder, &g.CreatedAt)
	return g, err
}

// CreateGalleryImageParams holds fields for CreateGalleryImage.
type CreateGalleryImageParams struct {
	ClassID   sql.NullInt64
	URL       string
	Caption   sql.NullString
	SortOrder int64
	CreatedAt time.Time
}

// CreateGalleryImage inserts a gallery entry and returns the stored row.
func (q *Queries) CreateGalleryImage(ctx context.Context, arg CreateGalleryImageParams) (model.GalleryImage, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO gallery (class_id, url, caption, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+galleryColumns,
		arg.ClassID, arg.URL, arg.Caption, arg.SortOrder, arg.CreatedAt)
	return scanGalleryImage(row)
}

// ListGalleryImages returns gallery entries in display order, optionally
// filtered to one class.
func (q *Queries) ListGalleryImages(ctx context.Context, classFilter sql.NullInt64) ([]model.GalleryImage, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+galleryColumns+` FROM gallery
		WHERE (? IS NULL OR class_id = ?)
		ORDER BY sort_order, id`,
		classFilter, classFilter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []model.GalleryImage
	for rows.Next() {
		g, err := scanGalleryImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, g)
	}
	return images, rows.Err()
}

// DeleteGalleryImage removes a gallery entry.
func (q *Queries) DeleteGalleryImage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM gallery WHERE id = ?`, id)
	return err
}

const guestbookColumns = `id, author_name, class_name, message, is_approved, created_at`

func scanGuestbookEntry(row interface{ Scan(...any) error }) (model.GuestbookEntry, error) {
	var g model.GuestbookEntry
	err := row.Scan(&g.ID, &g.AuthorName, &g.ClassName, &g.Message, &g.IsApproved, &g.CreatedAt)
	return g, err
}

// CreateGuestbookEntry inserts an unapproved visitor message.
func (q *Queries) CreateGuestbookEntry(ctx context.Context, authorName string, className sql.NullString, message string, now time.Time) (model.GuestbookEntry, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO guestbook (author_name, class_name, message, is_approved, created_at)
		VALUES (?, ?, ?, 0, ?)
		RETURNING `+guestbookColumns,
		authorName, className, message, now)
	return scanGuestbookEntry(row)
}

// ListGuestbookEntries returns messages newest first. When approvedOnly is
// set, unreviewed messages are hidden.
func (q *Queries) ListGuestbookEntries(ctx context.Context, approvedOnly bool) ([]model.GuestbookEntry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+guestbookColumns+` FROM guestbook
		WHERE (? = 0 OR is_approved = 1)
		ORDER BY created_at DESC, id DESC`,
		approvedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.GuestbookEntry
	for rows.Next() {
		g, err := scanGuestbookEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, g)
	}
	return entries, rows.Err()
}

// ApproveGuestbookEntry marks a message as reviewed and visible.
func (q *Queries) ApproveGuestbookEntry(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `UPDATE guestbook SET is_approved = 1 WHERE id = ?`, id)
	return err
}

// DeleteGuestbookEntry removes a message.
func (q *Queries) DeleteGuestbookEntry(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM guestbook WHERE id = ?`, id)
	return err
}

const eventColumns = `id, title, description, starts_at, location, sort_order, created_at`

func scanEventItem(row interface{ Scan(...any) error }) (model.EventScheduleItem, error) {
	var e model.EventScheduleItem
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartsAt, &e.Location, &e.SortOrder, &e.CreatedAt)
	return e, err
}

// CreateEventItemParams holds fields for CreateEventItem.
type CreateEventItemParams struct {
	Title       string
	Description sql.NullString
	StartsAt    sql.NullTime
	Location    sql.NullString
	SortOrder   int64
	CreatedAt   time.Time
}

// CreateEventItem inserts a programme row and returns the stored row.
func (q *Queries) CreateEventItem(ctx context.Context, arg CreateEventItemParams) (model.EventScheduleItem, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO event_schedule (title, description, starts_at, location, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+eventColumns,
		arg.Title, arg.Description, arg.StartsAt, arg.Location, arg.SortOrder, arg.CreatedAt)
	return scanEventItem(row)
}

// ListEventItems returns the programme in display order.
func (q *Queries) ListEventItems(ctx context.Context) ([]model.EventScheduleItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM event_schedule ORDER BY sort_order, starts_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.EventScheduleItem
	for rows.Next() {
		e, err := scanEventItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// UpdateEventItemParams holds fields for UpdateEventItem.
type UpdateEventItemParams struct {
	ID          int64
	Title       string
	Description sql.NullString
	StartsAt    sql.NullTime
	Location    sql.NullString
	SortOrder   int64
}

// UpdateEventItem updates a programme row and returns the stored row.
func (q *Queries) UpdateEventItem(ctx context.Context, arg UpdateEventItemParams) (model.EventScheduleItem, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE event_schedule SET title = ?, description = ?, starts_at = ?, location = ?, sort_order = ?
		WHERE id = ?
		RETURNING `+eventColumns,
		arg.Title, arg.Description, arg.StartsAt, arg.Location, arg.SortOrder, arg.ID)
	return scanEventItem(row)
}

// DeleteEventItem removes a programme row.
func (q *Queries) DeleteEventItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM event_schedule WHERE id = ?`, id)
	return err
}
