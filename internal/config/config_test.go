package config

import (
	"os"
	"path/filepath"
	"testing"
)

// unsetEnvForTest unsets an environment variable and registers cleanup to
// restore its original state (including distinguishing "unset" from "set to
// empty string").
func unsetEnvForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	unsetEnvForTest(t, "LMSPICK_API_URL")
	unsetEnvForTest(t, "LMSPICK_STORE_NAME")
	unsetEnvForTest(t, "LMSPICK_AUTH_CALLBACK_PORT")
	unsetEnvForTest(t, "LMSPICK_PICKER_START_PATH")
}

func TestLoad_Defaults(t *testing.T) {
	// Temporary directory without any config file
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	clearConfigEnv(t)

	cfg := Load()

	tests := []struct {
		name     string
		accessor func(*Config) interface{}
		want     interface{}
	}{
		{
			name: "default API URL",
			accessor: func(c *Config) interface{} {
				return c.APIURL()
			},
			want: DefaultAPIURL,
		},
		{
			name: "default store name",
			accessor: func(c *Config) interface{} {
				return c.StoreName()
			},
			want: "",
		},
		{
			name: "default callback port",
			accessor: func(c *Config) interface{} {
				return c.CallbackPort()
			},
			want: DefaultCallbackPort,
		},
		{
			name: "default start path",
			accessor: func(c *Config) interface{} {
				return c.StartPath()
			},
			want: DefaultStartPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.accessor(cfg)
			if got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoad_FromEnv(t *testing.T) {
	tests := []struct {
		name    string
		envVar  string
		envVal  string
		key     string
		wantStr string
		wantInt int
	}{
		{
			name:    "API URL from env",
			envVar:  "LMSPICK_API_URL",
			envVal:  "https://campus.example.edu",
			key:     "api.url",
			wantStr: "https://campus.example.edu",
		},
		{
			name:    "store name from env",
			envVar:  "LMSPICK_STORE_NAME",
			envVal:  "Campus LMS",
			key:     "store.name",
			wantStr: "Campus LMS",
		},
		{
			name:    "callback port from env",
			envVar:  "LMSPICK_AUTH_CALLBACK_PORT",
			envVal:  "8420",
			key:     "auth.callback_port",
			wantInt: 8420,
		},
		{
			name:    "start path from env",
			envVar:  "LMSPICK_PICKER_START_PATH",
			envVal:  "/2024",
			key:     "picker.start_path",
			wantStr: "/2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			t.Setenv(tt.envVar, tt.envVal)

			cfg := Load()

			if tt.wantStr != "" {
				got := cfg.GetString(tt.key)
				if got != tt.wantStr {
					t.Errorf("GetString(%q) = %q, want %q", tt.key, got, tt.wantStr)
				}
			}
			if tt.wantInt != 0 {
				got := cfg.GetInt(tt.key)
				if got != tt.wantInt {
					t.Errorf("GetInt(%q) = %d, want %d", tt.key, got, tt.wantInt)
				}
			}
		})
	}
}

func TestConfig_All(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	clearConfigEnv(t)

	cfg := Load()
	all := cfg.All()

	if all == nil {
		t.Fatal("All() returned nil")
	}

	if _, ok := all["api.url"]; !ok {
		t.Error("All() missing 'api.url' key")
	}
	if _, ok := all["picker.start_path"]; !ok {
		t.Error("All() missing 'picker.start_path' key")
	}
}

func TestConfig_Get(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	clearConfigEnv(t)

	cfg := Load()

	got := cfg.Get("api.url")
	if got == nil {
		t.Fatal("Get(\"api.url\") returned nil")
	}

	str, ok := got.(string)
	if !ok {
		t.Errorf("Get(\"api.url\") type = %T, want string", got)
	}
	if str != DefaultAPIURL {
		t.Errorf("Get(\"api.url\") = %q, want %q", str, DefaultAPIURL)
	}
}

func TestConfig_Set_PersistsToFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	clearConfigEnv(t)

	cfg := Load()

	if err := cfg.Set("store.name", "Campus LMS"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	configFile := filepath.Join(tmp, "lmspick", "config.yaml")
	if _, err := os.Stat(configFile); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	// A fresh load picks up the persisted value.
	reloaded := Load()
	if got := reloaded.StoreName(); got != "Campus LMS" {
		t.Errorf("StoreName() after reload = %q, want %q", got, "Campus LMS")
	}
}

func TestConfig_FromFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	clearConfigEnv(t)

	configDir := filepath.Join(tmp, "lmspick")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		t.Fatal(err)
	}

	yaml := "api:\n  url: https://file.example.edu\npicker:\n  start_path: /archive\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Load()

	if got := cfg.APIURL(); got != "https://file.example.edu" {
		t.Errorf("APIURL() = %q, want file value", got)
	}
	if got := cfg.StartPath(); got != "/archive" {
		t.Errorf("StartPath() = %q, want /archive", got)
	}
}

func TestConfig_EnvOverridesFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	clearConfigEnv(t)

	configDir := filepath.Join(tmp, "lmspick")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("api:\n  url: https://file.example.edu\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LMSPICK_API_URL", "https://env.example.edu")

	cfg := Load()
	if got := cfg.APIURL(); got != "https://env.example.edu" {
		t.Errorf("APIURL() = %q, want env value", got)
	}
}
