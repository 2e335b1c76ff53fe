// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 255), G: uint8(y % 255), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveAndList(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	file, err := s.Save(bytes.NewReader(pngBytes(t, 800, 600)), "photo.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Name, ".png"))
	assert.True(t, strings.HasPrefix(file.URL, "/uploads/"))
	assert.NotEmpty(t, file.ThumbURL, "decodable image gets a thumbnail")
	assert.Positive(t, file.Size)

	files, err := s.List()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, file.Name, files[0].Name)
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save(strings.NewReader("#!/bin/sh"), "script.sh")
	assert.Error(t, err)
}

func TestSaveUniqueNames(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	data := pngBytes(t, 10, 10)
	a, err := s.Save(bytes.NewReader(data), "same.png")
	require.NoError(t, err)
	b, err := s.Save(bytes.NewReader(data), "same.png")
	require.NoError(t, err)
	assert.NotEqual(t, a.Name, b.Name)
}

func TestDelete(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	file, err := s.Save(bytes.NewReader(pngBytes(t, 10, 10)), "gone.png")
	require.NoError(t, err)

	require.NoError(t, s.Delete(file.Name))
	files, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, files)

	assert.Error(t, s.Delete(file.Name), "second delete fails")
}

func TestDeleteRejectsPathTraversal(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Delete("../etc/passwd"))
	assert.Error(t, s.Delete(".hidden"))
	assert.Error(t, s.Delete(""))
}

func TestIsAllowedExtension(t *testing.T) {
	assert.True(t, IsAllowedExtension("a.jpg"))
	assert.True(t, IsAllowedExtension("a.WEBP"))
	assert.False(t, IsAllowedExtension("a.svg"))
	assert.False(t, IsAllowedExtension("a"))
}
