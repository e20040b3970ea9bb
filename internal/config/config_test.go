package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Addr != ":4000" {
		t.Errorf("addr = %q, want :4000", cfg.Addr)
	}
	if cfg.MessageTTL != 240*time.Hour {
		t.Errorf("message ttl = %v, want 240h", cfg.MessageTTL)
	}
	if len(cfg.AllowedOrigins) == 0 {
		t.Error("expected default allowed origins")
	}
}

func TestUpdateFrom(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{
		Addr:          ":9999",
		AdminPassword: "hunter2",
	})

	if cfg.Addr != ":9999" {
		t.Errorf("addr = %q, want :9999", cfg.Addr)
	}
	if cfg.AdminPassword != "hunter2" {
		t.Errorf("admin password not overridden")
	}
	// Untouched fields keep their defaults.
	if cfg.AdminEmail != "admin@admin.com" {
		t.Errorf("admin email = %q, want default", cfg.AdminEmail)
	}
	if cfg.DatabasePath != "merichat.db" {
		t.Errorf("database path = %q, want default", cfg.DatabasePath)
	}
}

func TestSplitOrigins(t *testing.T) {
	got := splitOrigins([]string{"http://a.example, http://b.example", "http://c.example"})

	want := []string{"http://a.example", "http://b.example", "http://c.example"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
