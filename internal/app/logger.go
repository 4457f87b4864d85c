package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/habitlog/habitlog/pkg/config"
	"github.com/habitlog/habitlog/pkg/observability"
)

// NewLogger builds the process logger from configuration. Close the returned
// closer on shutdown to release the rotating log file.
func NewLogger(cfg *config.Config, out io.Writer) (*slog.Logger, io.Closer) {
	if out == nil {
		out = os.Stderr
	}
	logCfg := observability.DefaultLogConfig()
	logCfg.Output = out
	logCfg.Level = cfg.LogLevel
	logCfg.Format = observability.LogFormat(cfg.LogFormat)
	logCfg.ServiceVersion = cfg.Version
	if cfg.IsDevelopment() && cfg.LogLevel == "" {
		logCfg.Level = "debug"
	}
	logCfg.File = observability.FileConfig{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   true,
	}
	return observability.NewLogger(logCfg)
}
