package config

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.OpenAI.Primary.Token = "sk-test"
	cfg.ApplyDefaults()

	if cfg.Server.Port != 8081 {
		t.Fatalf("expected default port 8081, got %d", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected redis addr: %s", cfg.Redis.Addr)
	}
	if cfg.OpenAI.Primary.Model != "gpt-5-mini" {
		t.Fatalf("unexpected primary model: %s", cfg.OpenAI.Primary.Model)
	}
	if cfg.OpenAI.Fast.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected fast model: %s", cfg.OpenAI.Fast.Model)
	}
	if cfg.OpenAI.Fast.Token != "sk-test" {
		t.Fatal("fast profile should inherit the primary token")
	}
	if cfg.Bot.HistoryLimit != 10 {
		t.Fatalf("unexpected history limit: %d", cfg.Bot.HistoryLimit)
	}
	if cfg.Bot.SessionTimeout() != 24*time.Hour {
		t.Fatalf("unexpected session timeout: %v", cfg.Bot.SessionTimeout())
	}
	if cfg.Bot.ConfigTTL() != 5*time.Minute {
		t.Fatalf("unexpected config ttl: %v", cfg.Bot.ConfigTTL())
	}
}

func TestFastProfileOverridesSurvive(t *testing.T) {
	cfg := Config{}
	cfg.OpenAI.Primary.Token = "sk-primary"
	cfg.OpenAI.Fast.Token = "sk-fast"
	cfg.OpenAI.Fast.Model = "gpt-4.1-mini"
	cfg.ApplyDefaults()

	if cfg.OpenAI.Fast.Token != "sk-fast" {
		t.Fatal("explicit fast token must not be overwritten")
	}
	if cfg.OpenAI.Fast.Model != "gpt-4.1-mini" {
		t.Fatal("explicit fast model must not be overwritten")
	}
}
