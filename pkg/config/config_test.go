package config

import (
	"errors"
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_EMAILS", " Admin@Orchis.io, ,ops@orchis.io ")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	want := []string{"admin@orchis.io", "ops@orchis.io"}
	if !reflect.DeepEqual(cfg.AllowedEmails, want) {
		t.Errorf("allowlist mismatch: got %v want %v", cfg.AllowedEmails, want)
	}
	if cfg.IsProduction() {
		t.Error("default env should not be production")
	}
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"local default", Config{AppEnv: "local", JWTSecret: DefaultJWTSecret}, nil},
		{"production default", Config{AppEnv: "production", JWTSecret: DefaultJWTSecret}, ErrDefaultSecret},
		{"production empty", Config{AppEnv: "production"}, ErrDefaultSecret},
		{"production custom", Config{AppEnv: "production", JWTSecret: "s3cr3t-value"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
