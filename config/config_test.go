package config

import "testing"

func setRequired(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GOOGLE_API_KEY", "test-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.DBName != "places_db" {
		t.Errorf("expected default db name, got %q", cfg.DBName)
	}
	if cfg.UploadDir != "uploads/images" {
		t.Errorf("expected default upload dir, got %q", cfg.UploadDir)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origin default, got %v", cfg.AllowedOrigins)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"missing mongo uri", "MONGODB_URI"},
		{"missing jwt secret", "JWT_SECRET"},
		{"missing geocoding key", "GOOGLE_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, "")
			if _, err := Load(); err == nil {
				t.Errorf("expected error when %s is unset", tt.key)
			}
		})
	}
}

func TestLoad_OriginList(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, http://localhost:5173")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.AllowedOrigins[1] != "http://localhost:5173" {
		t.Errorf("origins not trimmed: %v", cfg.AllowedOrigins)
	}
}
