package logcfg

import (
	"os"

	logs "github.com/danmuck/smplog"
)

const (
	envConfigPath       = "QSVIZ_LOG_CONFIG"
	envSharedConfigPath = "SMPLOG_CONFIG"
)

// Load returns file-backed logging configuration when available, otherwise defaults.
// QSVIZ_LOG_CONFIG wins over SMPLOG_CONFIG, which wins over the local candidates.
func Load() logs.Config {
	for _, env := range []string{envConfigPath, envSharedConfigPath} {
		if path := os.Getenv(env); path != "" {
			if cfg, err := logs.ConfigFromFile(path); err == nil {
				return cfg
			}
		}
	}

	candidates := []string{
		"./smplog.config.toml",
		"./local/smplog.config.toml",
	}

	for _, path := range candidates {
		if cfg, err := logs.ConfigFromFile(path); err == nil {
			return cfg
		}
	}

	return logs.DefaultConfig()
}
