package config

import "testing"

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.ListenAddr != ":12345" {
		t.Errorf("expected default listen address :12345, got %q", cfg.ListenAddr)
	}
	if cfg.Rows != 9 || cfg.Cols != 8 {
		t.Errorf("expected default 9x8 grid, got %dx%d", cfg.Rows, cfg.Cols)
	}
	if cfg.MaxGames != 10 {
		t.Errorf("expected default capacity 10, got %d", cfg.MaxGames)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("C4_LISTEN_ADDR", ":9999")
	t.Setenv("C4_ROWS", "6")
	t.Setenv("C4_COLS", "7")
	t.Setenv("C4_MAX_GAMES", "3")
	t.Setenv("C4_DEBUG", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("listen address override not applied: %q", cfg.ListenAddr)
	}
	if cfg.Rows != 6 || cfg.Cols != 7 {
		t.Errorf("grid override not applied: %dx%d", cfg.Rows, cfg.Cols)
	}
	if cfg.MaxGames != 3 {
		t.Errorf("capacity override not applied: %d", cfg.MaxGames)
	}
	if !cfg.Debug {
		t.Error("debug override not applied")
	}
}

func TestFromEnv_NgrokVariables(t *testing.T) {
	t.Setenv("NGROK_ENABLED", "true")
	t.Setenv("NGROK_AUTHTOKEN", "tok-123")
	t.Setenv("NGROK_DOMAIN", "c4.example.ngrok.app")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if !cfg.NgrokEnabled {
		t.Error("NGROK_ENABLED not applied")
	}
	if cfg.NgrokAuth != "tok-123" {
		t.Errorf("NGROK_AUTHTOKEN not applied: %q", cfg.NgrokAuth)
	}
	if cfg.NgrokDomain != "c4.example.ngrok.app" {
		t.Errorf("NGROK_DOMAIN not applied: %q", cfg.NgrokDomain)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("ngrok settings must not fail validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"missing listen addr", func(c *Config) { c.ListenAddr = "" }, true},
		{"too few rows", func(c *Config) { c.Rows = 3 }, true},
		{"too few cols", func(c *Config) { c.Cols = 2 }, true},
		{"oversized grid", func(c *Config) { c.Rows = 100 }, true},
		{"zero capacity", func(c *Config) { c.MaxGames = 0 }, true},
		{"minimal legal grid", func(c *Config) { c.Rows = 4; c.Cols = 4 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				ListenAddr: ":12345",
				Rows:       9,
				Cols:       8,
				MaxGames:   10,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected a validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
