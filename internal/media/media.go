// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package media manages the uploads directory: saving images with unique
// names, thumbnail generation, listing and deletion.
package media

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
)

// Thumbnail bounds.
const (
	ThumbWidth  = 400
	ThumbHeight = 400
)

// imageExtensions is the upload whitelist.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// File describes one stored upload.
type File struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	ThumbURL   string    `json:"thumb_url,omitempty"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Store reads and writes the uploads directory.
type Store struct {
	dir string
}

// NewStore creates a media store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "thumbs"), 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// IsAllowedExtension reports whether a filename carries an accepted image
// extension.
func IsAllowedExtension(filename string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Save stores an uploaded image under a collision-free name and writes a
// thumbnail next to it. Returns the stored file description.
func (s *Store) Save(r io.Reader, originalName string) (File, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !imageExtensions[ext] {
		return File{}, fmt.Errorf("unsupported file type: %s", ext)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return File{}, fmt.Errorf("reading upload: %w", err)
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().Unix(), uuid.NewString(), ext)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return File{}, fmt.Errorf("writing upload: %w", err)
	}

	file := File{
		Name:       name,
		URL:        "/uploads/" + name,
		Size:       int64(len(data)),
		UploadedAt: time.Now().UTC(),
	}

	// Thumbnail failure is not fatal: non-decodable but whitelisted files
	// keep only the original.
	if err := s.writeThumbnail(data, name); err == nil {
		file.ThumbURL = "/uploads/thumbs/" + name
	}

	return file, nil
}

func (s *Store) writeThumbnail(data []byte, name string) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))
	thumb := imaging.Fit(img, ThumbWidth, ThumbHeight, imaging.Lanczos)
	return imaging.Save(thumb, filepath.Join(s.dir, "thumbs", name))
}

// List returns stored uploads, newest first. Dotfiles and the thumbs
// directory are skipped.
func (s *Store) List() ([]File, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading uploads dir: %w", err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		f := File{
			Name:       entry.Name(),
			URL:        "/uploads/" + entry.Name(),
			Size:       info.Size(),
			UploadedAt: info.ModTime().UTC(),
		}
		if _, err := os.Stat(filepath.Join(s.dir, "thumbs", entry.Name())); err == nil {
			f.ThumbURL = "/uploads/thumbs/" + entry.Name()
		}
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].UploadedAt.After(files[j].UploadedAt)
	})
	return files, nil
}

// Delete removes an upload and its thumbnail. The name must be a bare
// filename; anything with a path separator is rejected.
func (s *Store) Delete(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid file name: %q", name)
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("deleting upload: %w", err)
	}
	// Thumbnail may not exist.
	_ = os.Remove(filepath.Join(s.dir, "thumbs", name))
	return nil
}

// Dir returns the uploads directory path, for the static file server.
func (s *Store) Dir() string {
	return s.dir
}

// readExifOrientation returns the EXIF orientation tag, or 1 when absent.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation normalizes an image according to its EXIF orientation.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
