package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Source.Encoding != "latin-1" {
		t.Errorf("Source.Encoding = %q, want %q", cfg.Source.Encoding, "latin-1")
	}
	if cfg.Source.PreviewRows != 5 {
		t.Errorf("Source.PreviewRows = %d, want %d", cfg.Source.PreviewRows, 5)
	}
	if cfg.Export.DestDir != "." {
		t.Errorf("Export.DestDir = %q, want %q", cfg.Export.DestDir, ".")
	}
	if cfg.Export.Timeout != 5*time.Minute {
		t.Errorf("Export.Timeout = %v, want %v", cfg.Export.Timeout, 5*time.Minute)
	}
	if cfg.Export.ComputeStartBids || cfg.Export.BoilerplateEnabled {
		t.Error("export options should default to off")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("PREVIEW_ROWS", "10")
	t.Setenv("CALC_STARTBIDS", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("EXPORT_TIMEOUT", "1m30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source.PreviewRows != 10 {
		t.Errorf("Source.PreviewRows = %d, want %d", cfg.Source.PreviewRows, 10)
	}
	if !cfg.Export.ComputeStartBids {
		t.Error("Export.ComputeStartBids = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Export.Timeout != 90*time.Second {
		t.Errorf("Export.Timeout = %v, want %v", cfg.Export.Timeout, 90*time.Second)
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("PROFILE_PATH", "/etc/lotexport/auctionflex.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source.Profile != "/etc/lotexport/auctionflex.yaml" {
		t.Errorf("Source.Profile = %q, want %q", cfg.Source.Profile, "/etc/lotexport/auctionflex.yaml")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("CALC_STARTBIDS", "sometimes")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "CALC_STARTBIDS") {
		t.Fatalf("Load() error = %v, want invalid CALC_STARTBIDS", err)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("EXPORT_TARGETS", "invaluable , liveauctioneers,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"invaluable", "liveauctioneers"}
	if !reflect.DeepEqual(cfg.Export.Targets, expected) {
		t.Errorf("Export.Targets = %v, want %v", cfg.Export.Targets, expected)
	}
}

func TestLoadStruct_Required(t *testing.T) {
	var s struct {
		Key string `env:"LOTEXPORT_TEST_REQUIRED" required:"true"`
	}
	err := loadStruct(reflect.ValueOf(&s).Elem())
	if err == nil || !strings.Contains(err.Error(), "LOTEXPORT_TEST_REQUIRED") {
		t.Errorf("loadStruct() error = %v, want missing required variable", err)
	}
}

func validConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Source:  SourceConfig{Encoding: "latin-1", PreviewRows: 5},
		Export:  ExportConfig{DestDir: ".", Timeout: time.Minute},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			modify: func(*Config) {},
		},
		{
			name:    "unknown encoding",
			modify:  func(c *Config) { c.Source.Encoding = "ebcdic" },
			wantErr: "SOURCE_ENCODING",
		},
		{
			name:    "boilerplate without text",
			modify:  func(c *Config) { c.Export.BoilerplateEnabled = true },
			wantErr: "BP_CONDITION_TEXT",
		},
		{
			name: "one character boilerplate",
			modify: func(c *Config) {
				c.Export.BoilerplateEnabled = true
				c.Export.BoilerplateText = "-"
			},
		},
		{
			name: "whitespace boilerplate",
			modify: func(c *Config) {
				c.Export.BoilerplateEnabled = true
				c.Export.BoilerplateText = "   "
			},
			wantErr: "BP_CONDITION_TEXT",
		},
		{
			name:    "empty only without compute",
			modify:  func(c *Config) { c.Export.EmptyStartBidsOnly = true },
			wantErr: "CALC_EMPTY_STARTBIDS_ONLY",
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "zero preview rows",
			modify:  func(c *Config) { c.Source.PreviewRows = 0 },
			wantErr: "PREVIEW_ROWS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") || !strings.Contains(err.Error(), "LOG_FORMAT") {
		t.Errorf("Validate() error = %v, want both problems listed", err)
	}
}

func TestConfigString_HidesBoilerplate(t *testing.T) {
	cfg := validConfig()
	cfg.Export.BoilerplateEnabled = true
	cfg.Export.BoilerplateText = "Sold as is; buyer inspects."

	str := cfg.String()
	if strings.Contains(str, "buyer inspects") {
		t.Error("String() should not print the boilerplate text")
	}
	if !strings.Contains(str, "27 chars") {
		t.Errorf("String() = %q, want boilerplate length", str)
	}
}
