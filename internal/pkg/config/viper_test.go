package config

import (
	"testing"
	"time"
)

func TestViperFromBytes(t *testing.T) {
	doc := []byte(`
server:
  port: 8080
modules:
  account:
    enabled: true
    otp_ttl_minutes: 10
    otp_resend_cooldown_seconds: 60
cors:
  origins: "https://a.example, https://b.example"
`)

	cfg, err := NewViperFromBytes("yaml", doc)
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}
	defer cfg.Close()

	if got := cfg.GetInt("server.port"); got != 8080 {
		t.Errorf("GetInt(server.port) = %d, want 8080", got)
	}

	if !cfg.GetBool("modules.account.enabled") {
		t.Error("GetBool(modules.account.enabled) = false, want true")
	}

	if got := cfg.GetMinute("modules.account.otp_ttl_minutes"); got != 10*time.Minute {
		t.Errorf("GetMinute(otp_ttl_minutes) = %v, want 10m", got)
	}

	if got := cfg.GetSecond("modules.account.otp_resend_cooldown_seconds"); got != time.Minute {
		t.Errorf("GetSecond(otp_resend_cooldown_seconds) = %v, want 1m", got)
	}

	origins := cfg.GetArray("cors.origins")
	if len(origins) != 2 || origins[0] != "https://a.example" || origins[1] != "https://b.example" {
		t.Errorf("GetArray(cors.origins) = %v", origins)
	}

	if got := cfg.GetString("missing.key"); got != "" {
		t.Errorf("GetString(missing.key) = %q, want empty", got)
	}
}
