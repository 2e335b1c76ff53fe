// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package linkcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckOKViaHead(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
	}))
	defer srv.Close()

	result := NewChecker().Check(context.Background(), srv.URL)
	assert.True(t, result.OK)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.False(t, result.Redirected)
	assert.Equal(t, []string{http.MethodHead}, methods, "GET not needed when HEAD succeeds")
}

func TestCheckFallsBackToGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := NewChecker().Check(context.Background(), srv.URL)
	assert.True(t, result.OK)
	assert.Equal(t, http.StatusOK, result.Status)
}

func TestCheckReportsBrokenLink(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	result := NewChecker().Check(context.Background(), srv.URL+"/missing")
	assert.False(t, result.OK)
	assert.Equal(t, http.StatusNotFound, result.Status)
}

func TestCheckFollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	result := NewChecker().Check(context.Background(), srv.URL+"/old")
	assert.True(t, result.OK)
	assert.True(t, result.Redirected)
	assert.Equal(t, srv.URL+"/new", result.FinalURL)
}

func TestCheckUnreachableHost(t *testing.T) {
	result := NewChecker().Check(context.Background(), "http://127.0.0.1:1/nope")
	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Error)
}

func TestCheckAllStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// First URL runs before the inter-request delay; cancellation stops the rest.
	results := NewChecker().CheckAll(ctx, []string{srv.URL, srv.URL, srv.URL})
	assert.LessOrEqual(t, len(results), 1)
}

func TestCheckAllSequential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	start := time.Now()
	results := NewChecker().CheckAll(context.Background(), []string{srv.URL, srv.URL})
	require.Len(t, results, 2)
	assert.GreaterOrEqual(t, time.Since(start), requestDelay)
}
