package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	In            string
	Out           string
	BatchSize     int
	NativeWrapper string
	AlignMode     string
	Vaults        []string
	Since         uint64
	StateFile     string
	LogLevel      string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VAULTSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("out", "./data/snapshots.jsonl")
	v.SetDefault("batch-size", 500)
	v.SetDefault("align-mode", "truncate")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	since, err := ParseTimestamp(v.GetString("since"))
	if err != nil {
		return Config{}, fmt.Errorf("parse since: %w", err)
	}

	vaults, err := getStringSlice(v, "vault")
	if err != nil {
		return Config{}, fmt.Errorf("parse vault: %w", err)
	}

	cfg := Config{
		In:            v.GetString("in"),
		Out:           v.GetString("out"),
		BatchSize:     v.GetInt("batch-size"),
		NativeWrapper: strings.TrimSpace(v.GetString("native-wrapper")),
		AlignMode:     v.GetString("align-mode"),
		Vaults:        vaults,
		Since:         since,
		StateFile:     v.GetString("state-file"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}

// ParseTimestamp parses a timestamp value (unix seconds or RFC3339).
func ParseTimestamp(input string) (uint64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}

	if isNumeric(input) {
		val, err := strconv.ParseUint(input, 10, 64)
		if err != nil {
			return 0, err
		}
		return val, nil
	}

	tm, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return 0, err
	}
	return uint64(tm.Unix()), nil
}

func isNumeric(input string) bool {
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return input != ""
}

// getStringSlice reads a list from a flag, env value or config file. YAML
// turns unquoted hex like 0x1 into a number, so non-string items are rejected.
func getStringSlice(v *viper.Viper, key string) ([]string, error) {
	if !v.IsSet(key) {
		return nil, nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed), nil
	case string:
		return splitAndClean(typed), nil
	case []interface{}:
		items := make([]string, 0, len(typed))
		for i, item := range typed {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] is %T %v, quote addresses in the config file", key, i, item, item)
			}
			items = append(items, str)
		}
		return cleanStrings(items), nil
	default:
		return nil, fmt.Errorf("%s: unsupported type %T", key, val)
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
