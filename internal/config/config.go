// =============================
// File: internal/config/config.go
// =============================
package config

import (
	"errors"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config is the application configuration, loaded from a file with
// environment overrides.
type Config struct {
	RPCList     []string `mapstructure:"rpc_list"`
	WalletsFile string   `mapstructure:"wallets_file"`
	ListenAddr  string   `mapstructure:"listen_addr"`

	JitoBundleURL    string  `mapstructure:"jito_bundle_url"`
	JitoTipAccount   string  `mapstructure:"jito_tip_account"`
	JitoTipAmountSOL float64 `mapstructure:"jito_tip_amount_sol"`
	MaxRetries       int     `mapstructure:"max_retries"`
	RetryIntervalSec int     `mapstructure:"retry_interval_sec"`

	ProgramID           string  `mapstructure:"program_id"`
	FeeAddress          string  `mapstructure:"fee_address"`
	CreationFee         float64 `mapstructure:"creation_fee"`
	TradingFee          float64 `mapstructure:"trading_fee"`
	FeePercentage       float64 `mapstructure:"fee_percentage"`
	MinSolAmount        float64 `mapstructure:"min_sol_amount"`
	MaxWalletsPerBundle int     `mapstructure:"max_wallets_per_bundle"`

	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`
}

const (
	DefaultListenAddr       = ":8080"
	DefaultMaxRetries       = 3
	DefaultRetryIntervalSec = 2
)

// Load reads the configuration file at path and applies environment
// overrides with the PUMPBUNDLER_ prefix.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"listen_addr":            DefaultListenAddr,
		"wallets_file":           "wallets.csv",
		"jito_bundle_url":        "https://mainnet.block-engine.jito.wtf/api/v1/bundles",
		"jito_tip_amount_sol":    0.00001,
		"max_retries":            DefaultMaxRetries,
		"retry_interval_sec":     DefaultRetryIntervalSec,
		"program_id":             "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P",
		"fee_address":            "CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM",
		"creation_fee":           0.05,
		"trading_fee":            0.005,
		"fee_percentage":         0.008,
		"min_sol_amount":         0.02,
		"max_wallets_per_bundle": 16,
		"log_file":               "logs/pumpbundler.log",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validate(&cfg)
}

func validate(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := checkURL(rpcURL, "http"); err != nil {
			return errors.New("invalid RPC URL protocol")
		}
	}
	if err := checkURL(cfg.JitoBundleURL, "http"); err != nil {
		return errors.New("invalid Jito bundle URL")
	}
	if cfg.MaxRetries < 1 {
		return errors.New("invalid max_retries")
	}
	if cfg.RetryIntervalSec <= 0 {
		return errors.New("invalid retry_interval_sec")
	}
	if cfg.CreationFee < 0 || cfg.TradingFee < 0 || cfg.FeePercentage < 0 {
		return errors.New("fees cannot be negative")
	}
	if cfg.MinSolAmount <= 0 {
		return errors.New("invalid min_sol_amount")
	}
	if cfg.ProgramID == "" || cfg.FeeAddress == "" {
		return errors.New("program_id and fee_address are required")
	}
	if cfg.MaxWalletsPerBundle < 1 || cfg.MaxWalletsPerBundle > 16 {
		return errors.New("invalid max_wallets_per_bundle")
	}
	return nil
}

func checkURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("PUMPBUNDLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if envRPCList := v.GetString("RPC_LIST"); envRPCList != "" {
		rpcs := strings.Split(envRPCList, ",")
		var cleanRPCs []string
		for _, rpc := range rpcs {
			clean := strings.TrimSpace(rpc)
			if clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}

	if envWallets := v.GetString("WALLETS_FILE"); envWallets != "" {
		cfg.WalletsFile = envWallets
	}

	return nil
}
