package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Stores: map[string]StoreConfig{
			"default": {
				SellerID:      "A2EXAMPLE",
				MarketplaceID: "ATVPDKIKX0DER",
				AccessKeyID:   "AKIAEXAMPLE",
				SecretKey:     "real-secret",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:    "no stores",
			modify:  func(c *Config) { c.Stores = nil },
			wantErr: "at least one store",
		},
		{
			name: "missing seller id",
			modify: func(c *Config) {
				s := c.Stores["default"]
				s.SellerID = ""
				c.Stores["default"] = s
			},
			wantErr: "seller_id is required",
		},
		{
			name: "missing access key",
			modify: func(c *Config) {
				s := c.Stores["default"]
				s.AccessKeyID = ""
				c.Stores["default"] = s
			},
			wantErr: "access_key_id is required",
		},
		{
			name: "placeholder secret key",
			modify: func(c *Config) {
				s := c.Stores["default"]
				s.SecretKey = "your-secret-key-here"
				c.Stores["default"] = s
			},
			wantErr: "secret_key must be set",
		},
		{
			name: "mock enabled without files",
			modify: func(c *Config) {
				c.Mock.Enabled = true
				c.Mock.Files = nil
			},
			wantErr: "mock.files must list",
		},
		{
			name:    "invalid logging level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level",
		},
		{
			name:    "invalid logging format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestStoreSelection(t *testing.T) {
	cfg := validConfig()

	store, err := cfg.Store("")
	if err != nil {
		t.Fatalf("Store(\"\") unexpected error: %v", err)
	}
	if store.SellerID != "A2EXAMPLE" {
		t.Errorf("Store(\"\") picked seller %q, want A2EXAMPLE", store.SellerID)
	}

	store, err = cfg.Store("default")
	if err != nil {
		t.Fatalf("Store(\"default\") unexpected error: %v", err)
	}
	if store.AccessKeyID != "AKIAEXAMPLE" {
		t.Errorf("Store(\"default\") picked access key %q", store.AccessKeyID)
	}

	if _, err := cfg.Store("missing"); err == nil {
		t.Error("Store(\"missing\") expected error, got nil")
	}
}

func TestStoreSelectionSingleUnnamed(t *testing.T) {
	cfg := validConfig()
	cfg.Stores = map[string]StoreConfig{
		"eu": cfg.Stores["default"],
	}

	store, err := cfg.Store("")
	if err != nil {
		t.Fatalf("Store(\"\") with one store: unexpected error: %v", err)
	}
	if store.SellerID != "A2EXAMPLE" {
		t.Errorf("Store(\"\") picked seller %q, want the sole store", store.SellerID)
	}

	cfg.Stores["us"] = cfg.Stores["eu"]
	if _, err := cfg.Store(""); err == nil {
		t.Error("Store(\"\") with two non-default stores: expected error, got nil")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `stores:
  default:
    seller_id: A2EXAMPLE
    marketplace_id: ATVPDKIKX0DER
    access_key_id: AKIAEXAMPLE
    secret_key: real-secret
mock:
  enabled: true
  dir: testdata
  files:
    - status_green.xml
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Stores["default"].MarketplaceID != "ATVPDKIKX0DER" {
		t.Errorf("marketplace_id = %q", cfg.Stores["default"].MarketplaceID)
	}
	if !cfg.Mock.Enabled {
		t.Error("mock.enabled should be true")
	}
	if cfg.Mock.Dir != "testdata" {
		t.Errorf("mock.dir = %q, want testdata", cfg.Mock.Dir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want debug (explicit value)", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("logging.format = %q, want console (default)", cfg.Logging.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() with missing file: expected error, got nil")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `stores:
  default:
    seller_id: A2EXAMPLE
    access_key_id: AKIAEXAMPLE
    secret_key: your-secret-key-here
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() with placeholder secret: expected error, got nil")
	}
}
