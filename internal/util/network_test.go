// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"net"
	"net/http/httptest"
	"testing"
)

func TestIsPrivateIP(t *testing.T) {
	private := []string{"10.1.2.3", "172.16.0.1", "192.168.1.1", "127.0.0.1", "169.254.1.1", "fc00::1", "::1"}
	for _, s := range private {
		if !IsPrivateIP(net.ParseIP(s)) {
			t.Errorf("IsPrivateIP(%s) = false, want true", s)
		}
	}

	public := []string{"8.8.8.8", "1.1.1.1", "93.184.216.34", "2606:4700::1111"}
	for _, s := range public {
		if IsPrivateIP(net.ParseIP(s)) {
			t.Errorf("IsPrivateIP(%s) = true, want false", s)
		}
	}

	if !IsPrivateIP(nil) {
		t.Error("IsPrivateIP(nil) = false, want true (deny by default)")
	}
}

func TestValidateCheckURL(t *testing.T) {
	valid := []string{
		"https://example.com/page",
		"http://example.com",
		"https://example.com:8443/a?b=c",
	}
	for _, u := range valid {
		if err := ValidateCheckURL(u); err != nil {
			t.Errorf("ValidateCheckURL(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{
		"ftp://example.com",
		"javascript:alert(1)",
		"http://localhost/admin",
		"http://127.0.0.1:8080",
		"http://192.168.1.1",
		"http://",
		"",
	}
	for _, u := range invalid {
		if err := ValidateCheckURL(u); err == nil {
			t.Errorf("ValidateCheckURL(%q) = nil, want error", u)
		}
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.7:4321"
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Errorf("ClientIP = %q, want 203.0.113.7", got)
	}

	r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	if got := ClientIP(r); got != "198.51.100.1" {
		t.Errorf("ClientIP with XFF = %q, want 198.51.100.1", got)
	}

	r.Header.Set("X-Real-IP", "198.51.100.2")
	if got := ClientIP(r); got != "198.51.100.2" {
		t.Errorf("ClientIP with X-Real-IP = %q, want 198.51.100.2", got)
	}
}
