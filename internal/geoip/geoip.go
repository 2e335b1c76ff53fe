// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip provides IP-to-country lookup using the MaxMind
// GeoLite2-Country database. Lookups degrade gracefully when no database
// is configured.
package geoip

import (
	"fmt"
	"net"
	"sync"

	"github.com/oschwald/maxminddb-golang"

	"reunioncms/internal/util"
)

// Lookup resolves IP addresses to ISO country codes.
type Lookup struct {
	mu      sync.RWMutex
	db      *maxminddb.Reader
	enabled bool
}

// geoRecord matches the GeoLite2-Country database structure.
type geoRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// NewLookup creates a disabled Lookup. Call Init with a database path to
// enable it.
func NewLookup() *Lookup {
	return &Lookup{}
}

// Init loads the MaxMind database. An empty path leaves lookups disabled
// without error.
func (g *Lookup) Init(dbPath string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if dbPath == "" {
		g.enabled = false
		return nil
	}

	db, err := maxminddb.Open(dbPath)
	if err != nil {
		g.enabled = false
		return fmt.Errorf("opening GeoIP database: %w", err)
	}

	if g.db != nil {
		_ = g.db.Close()
	}
	g.db = db
	g.enabled = true
	return nil
}

// Enabled reports whether country lookups are available.
func (g *Lookup) Enabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.enabled
}

// Country returns the ISO country code for an IP address. Returns "" for
// private addresses, unparseable input, or when lookups are disabled.
func (g *Lookup) Country(ipStr string) string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.enabled || g.db == nil {
		return ""
	}

	ip := net.ParseIP(ipStr)
	if ip == nil || util.IsPrivateIP(ip) {
		return ""
	}

	var record geoRecord
	if err := g.db.Lookup(ip, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// Close releases the database handle.
func (g *Lookup) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.enabled = false
	if g.db != nil {
		err := g.db.Close()
		g.db = nil
		return err
	}
	return nil
}
