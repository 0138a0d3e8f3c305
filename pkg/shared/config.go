package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir    = "~/.hedera-wallet"
	DefaultSwapWindow = time.Hour
	DefaultMaxFeeHbar = 2.0
)

type MirrorConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type ServiceFeeConfig struct {
	PercentageCut float64 `yaml:"percentage_cut"`
	ToAddress     string  `yaml:"to_address"`
}

// WalletConfig is the on-disk configuration of the wallet facades.
type WalletConfig struct {
	Network    string           `yaml:"network"`
	DataDir    string           `yaml:"data_dir"`
	LogLevel   string           `yaml:"log_level"`
	Mirror     MirrorConfig     `yaml:"mirror"`
	ServiceFee ServiceFeeConfig `yaml:"service_fee"`
	SwapWindow time.Duration    `yaml:"swap_window"`
	MaxFeeHbar float64          `yaml:"max_fee_hbar"`
}

// DefaultWalletConfig returns the configuration used when no file exists.
func DefaultWalletConfig() WalletConfig {
	return WalletConfig{
		Network:    NetworkTestnet,
		DataDir:    DefaultDataDir,
		LogLevel:   "info",
		SwapWindow: DefaultSwapWindow,
		MaxFeeHbar: DefaultMaxFeeHbar,
	}
}

// LoadWalletConfig reads a YAML config file over the defaults. An empty path
// or a missing file yields the defaults. HEDERA_NETWORK overrides the file.
func LoadWalletConfig(path string) (WalletConfig, error) {
	config := DefaultWalletConfig()

	if strings.TrimSpace(path) != "" {
		content, err := os.ReadFile(ExpandPath(path))
		switch {
		case err == nil:
			if err := yaml.Unmarshal(content, &config); err != nil {
				return WalletConfig{}, fmt.Errorf("failed to parse wallet config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return WalletConfig{}, fmt.Errorf("failed to read wallet config %s: %w", path, err)
		}
	}

	if network := firstNonEmptyEnv("HEDERA_NETWORK"); network != "" {
		config.Network = network
	}
	return config.normalize()
}

func (c WalletConfig) normalize() (WalletConfig, error) {
	network, err := NormalizeNetwork(c.Network)
	if err != nil {
		return WalletConfig{}, err
	}
	c.Network = network

	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = DefaultDataDir
	}
	if c.SwapWindow <= 0 {
		c.SwapWindow = DefaultSwapWindow
	}
	if c.MaxFeeHbar <= 0 {
		c.MaxFeeHbar = DefaultMaxFeeHbar
	}
	if c.ServiceFee.PercentageCut < 0 || c.ServiceFee.PercentageCut > 100 {
		return WalletConfig{}, fmt.Errorf("service fee percentage_cut must be between 0 and 100")
	}
	if c.ServiceFee.PercentageCut > 0 && strings.TrimSpace(c.ServiceFee.ToAddress) == "" {
		return WalletConfig{}, fmt.Errorf("service fee to_address is required when percentage_cut is set")
	}
	if strings.TrimSpace(c.Mirror.BaseURL) == "" {
		c.Mirror.BaseURL = MirrorBaseURL(network)
	}
	return c, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
