package initializer

import (
	"io"
	"log/slog"

	"github.com/amirasaad/bank/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type levelStyle struct {
	level  log.Level
	symbol string
	color  string
}

var levelStyles = []levelStyle{
	{log.ErrorLevel, "ERR", "#FF6B6B"},
	{log.WarnLevel, "WRN", "#EE6FF8"},
	{log.InfoLevel, "INF", "#04B575"},
	{log.DebugLevel, "DBG", "#7E57C2"},
}

// NewLogger builds the process logger on charmbracelet/log and exposes it
// through slog. cfg.Format selects "text" or "json".
func NewLogger(cfg *config.Log, w io.Writer) *slog.Logger {
	styles := log.DefaultStyles()
	for _, ls := range levelStyles {
		color := lipgloss.AdaptiveColor{Light: ls.color, Dark: ls.color}
		styles.Levels[ls.level] = lipgloss.NewStyle().
			SetString(ls.symbol).
			Bold(true).
			Padding(0, 1).
			Foreground(color)
	}
	errColor := lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(errColor)
	styles.Values["error"] = lipgloss.NewStyle().Bold(true)
	for _, key := range []string{"type", "account_id", "customer_id", "request_id"} {
		styles.Keys[key] = lipgloss.NewStyle().Foreground(lipgloss.Color("#7E57C2"))
	}

	formatter := log.TextFormatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Level <= int(log.DebugLevel),
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	logger.SetStyles(styles)

	return slog.New(logger)
}
