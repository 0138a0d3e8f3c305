package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWalletConfigDefaults(t *testing.T) {
	t.Setenv("HEDERA_NETWORK", "")

	config, err := LoadWalletConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Network != NetworkTestnet {
		t.Fatalf("expected testnet, got %q", config.Network)
	}
	if config.SwapWindow != DefaultSwapWindow {
		t.Fatalf("unexpected swap window: %s", config.SwapWindow)
	}
	if config.Mirror.BaseURL != MirrorBaseURL(NetworkTestnet) {
		t.Fatalf("unexpected mirror URL: %s", config.Mirror.BaseURL)
	}
}

func TestLoadWalletConfigFromFile(t *testing.T) {
	t.Setenv("HEDERA_NETWORK", "")
	path := filepath.Join(t.TempDir(), "wallet.yaml")
	content := `network: mainnet
log_level: debug
swap_window: 30m
service_fee:
  percentage_cut: 0.5
  to_address: 0.0.800
mirror:
  api_key: secret
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadWalletConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Network != NetworkMainnet {
		t.Fatalf("expected mainnet, got %q", config.Network)
	}
	if config.SwapWindow != 30*time.Minute {
		t.Fatalf("unexpected swap window: %s", config.SwapWindow)
	}
	if config.ServiceFee.PercentageCut != 0.5 || config.ServiceFee.ToAddress != "0.0.800" {
		t.Fatalf("unexpected service fee: %+v", config.ServiceFee)
	}
	if config.Mirror.BaseURL != MirrorBaseURL(NetworkMainnet) {
		t.Fatalf("unexpected mirror URL: %s", config.Mirror.BaseURL)
	}
	if config.Mirror.APIKey != "secret" {
		t.Fatalf("unexpected mirror API key: %s", config.Mirror.APIKey)
	}
}

func TestLoadWalletConfigEnvOverridesNetwork(t *testing.T) {
	t.Setenv("HEDERA_NETWORK", "previewnet")

	config, err := LoadWalletConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Network != NetworkPreviewnet {
		t.Fatalf("expected previewnet, got %q", config.Network)
	}
}

func TestLoadWalletConfigRejectsFeeWithoutCollector(t *testing.T) {
	t.Setenv("HEDERA_NETWORK", "")
	path := filepath.Join(t.TempDir(), "wallet.yaml")
	if err := os.WriteFile(path, []byte("service_fee:\n  percentage_cut: 1\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadWalletConfig(path); err == nil {
		t.Fatal("expected error for fee without collector")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if ExpandPath("~/.wallet") != filepath.Join(home, ".wallet") {
		t.Fatalf("unexpected expansion: %s", ExpandPath("~/.wallet"))
	}
	if ExpandPath("/tmp/x") != "/tmp/x" {
		t.Fatalf("absolute path should be unchanged")
	}
}
