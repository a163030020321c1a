package main

import (
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultAPIHost  = "0.0.0.0"
	defaultAPIPort  = 8080
	defaultLogLevel = "info"
	defaultLogOut   = "stdout"
)

// Config holds bundlerd's full runtime configuration, loaded from flags,
// environment variables (BNDLR_-prefixed) and defaults, in that priority
// order, matching the teacher's loadConfig.
type Config struct {
	RPC RPCConfig
	API APIConfig
	Log LogConfig
}

// RPCConfig holds the upstream JSON-RPC endpoint this gateway reads from.
type RPCConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

// APIConfig holds the gateway's own HTTP listen address.
type APIConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

func loadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("rpc.endpoint", "")
	v.SetDefault("api.host", defaultAPIHost)
	v.SetDefault("api.port", defaultAPIPort)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOut)

	flag.StringP("rpc.endpoint", "r", "", "EVM JSON-RPC endpoint to read bundles from (required)")
	flag.StringP("api.host", "h", defaultAPIHost, "gateway listen host")
	flag.IntP("api.port", "p", defaultAPIPort, "gateway listen port")
	flag.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error)")
	flag.StringP("log.output", "o", defaultLogOut, "log output (stdout, stderr or filepath)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "bundlerd\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: bundlerd [flags]\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\nEnvironment variables use the BNDLR_ prefix, e.g. BNDLR_RPC_ENDPOINT.\n")
	}

	flag.CommandLine.SortFlags = false
	flag.Parse()

	v.SetEnvPrefix("BNDLR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flag.CommandLine); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.RPC.Endpoint == "" {
		return fmt.Errorf("rpc endpoint is required (use --rpc.endpoint or BNDLR_RPC_ENDPOINT)")
	}
	return nil
}
