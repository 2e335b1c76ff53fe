// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package linkcheck

import (
	"context"
	"net/http"
	"time"
)

// Checker verification settings.
const (
	RequestTimeout = 10 * time.Second
	// requestDelay spaces sequential checks so target hosts are not hammered.
	requestDelay = 200 * time.Millisecond
)

// CheckResult is the verification outcome for one URL.
type CheckResult struct {
	URL        string `json:"url"`
	OK         bool   `json:"ok"`
	Status     int    `json:"status"`
	Redirected bool   `json:"redirected"`
	FinalURL   string `json:"finalUrl"`
	Error      string `json:"error,omitempty"`
}

// Checker verifies link targets over HTTP.
type Checker struct {
	client *http.Client
}

// NewChecker creates a Checker with the standard per-request timeout.
func NewChecker() *Checker {
	return &Checker{
		client: &http.Client{Timeout: RequestTimeout},
	}
}

// Check verifies one URL. It tries HEAD first and falls back to GET, since
// some servers reject HEAD outright.
func (c *Checker) Check(ctx context.Context, rawURL string) CheckResult {
	head := c.request(ctx, http.MethodHead, rawURL)
	if head.Error == "" && head.OK {
		return head
	}
	return c.request(ctx, http.MethodGet, rawURL)
}

func (c *Checker) request(ctx context.Context, method, rawURL string) CheckResult {
	result := CheckResult{URL: rawURL, FinalURL: rawURL}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("User-Agent", "reunioncms-linkcheck/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	result.Status = resp.StatusCode
	result.OK = resp.StatusCode >= 200 && resp.StatusCode < 400
	if final := resp.Request.URL.String(); final != rawURL {
		result.Redirected = true
		result.FinalURL = final
	}
	return result
}

// CheckAll verifies URLs one at a time with a fixed delay between requests.
// It stops early when the context is canceled and returns the results
// gathered so far.
func (c *Checker) CheckAll(ctx context.Context, urls []string) []CheckResult {
	results := make([]CheckResult, 0, len(urls))
	for i, u := range urls {
		if i > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(requestDelay):
			}
		}
		if ctx.Err() != nil {
			return results
		}
		results = append(results, c.Check(ctx, u))
	}
	return results
}
