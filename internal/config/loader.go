package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// LoaderOptions describes how configuration should be discovered.
type LoaderOptions struct {
	ConfigPaths []string
	FileName    string
	EnvPrefix   string
}

// Load returns the merged configuration from the optional config file,
// defaults, and environment variables. Environment values win over file
// values.
func Load(opts LoaderOptions) (Config, error) {
	v := viper.New()

	name := opts.FileName
	if name == "" {
		name = "diffsentry"
	}

	configFile := locateConfigFile(name, opts.ConfigPaths)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(name)
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = "DIFFSENTRY"
	}
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)

	setDefaults(v)

	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	// Expand environment variables in config values
	cfg = expandEnvVars(cfg)

	applyEnvironment(&cfg)

	return cfg, nil
}

// applyEnvironment reads the values GitHub Actions supplies directly.
// GEMINI_MODEL is applied last so a workflow can pin a model without
// shipping a config file.
func applyEnvironment(cfg *Config) {
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.EventPath = os.Getenv("GITHUB_EVENT_PATH")
	cfg.Repository = os.Getenv("GITHUB_REPOSITORY")
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Model = model
	}
}

// expandEnvVars expands ${VAR} and $VAR syntax in configuration strings.
func expandEnvVars(cfg Config) Config {
	cfg.Model = expandEnvString(cfg.Model)

	// Expand Gemini client config
	cfg.Gemini.BaseURL = expandEnvString(cfg.Gemini.BaseURL)
	cfg.Gemini.Timeout = expandEnvString(cfg.Gemini.Timeout)

	// Expand GitHub client config
	cfg.GitHub.BaseURL = expandEnvString(cfg.GitHub.BaseURL)
	cfg.GitHub.Timeout = expandEnvString(cfg.GitHub.Timeout)
	cfg.GitHub.InitialBackoff = expandEnvString(cfg.GitHub.InitialBackoff)
	cfg.GitHub.MaxBackoff = expandEnvString(cfg.GitHub.MaxBackoff)

	// Expand logging config
	cfg.Logging.Level = expandEnvString(cfg.Logging.Level)
	cfg.Logging.Format = expandEnvString(cfg.Logging.Format)

	return cfg
}

// expandEnvString replaces ${VAR} or $VAR with environment variable values.
func expandEnvString(s string) string {
	if s == "" {
		return s
	}

	// Replace ${VAR} syntax
	re := regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1] // Remove ${ and }
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Keep original if not found
	})

	// Replace $VAR syntax (without braces)
	re = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:] // Remove $
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Keep original if not found
	})

	return s
}

func locateConfigFile(name string, paths []string) string {
	searchPaths := append([]string{}, paths...)
	searchPaths = append(searchPaths, ".")
	for _, dir := range searchPaths {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name+".yaml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model", "gemini-pro-latest")

	// Gemini client defaults
	v.SetDefault("gemini.baseURL", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.timeout", "120s")
	v.SetDefault("gemini.temperature", 0.2)
	v.SetDefault("gemini.maxOutputTokens", 8192)
	v.SetDefault("gemini.useSeed", true)

	// GitHub client defaults
	v.SetDefault("github.baseURL", "https://api.github.com")
	v.SetDefault("github.timeout", "30s")
	v.SetDefault("github.maxRetries", 3)
	v.SetDefault("github.initialBackoff", "2s")
	v.SetDefault("github.maxBackoff", "32s")
	v.SetDefault("github.backoffMultiplier", 2.0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "auto")

	// Redaction defaults
	v.SetDefault("redaction.enabled", true)
}
