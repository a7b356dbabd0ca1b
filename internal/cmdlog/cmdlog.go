package cmdlog

import (
	"go.uber.org/zap"

	"postvault/internal/metrics"
)

// Run wraps one CLI command execution with usage metrics and outcome logging.
func Run(log *zap.SugaredLogger, cmd string, f func() error) error {
	metrics.IncCommandRun(cmd)
	err := f()
	if err != nil {
		metrics.IncCommandError(cmd)
		log.Errorw("command failed", "command", cmd, "error", err)
	}
	return err
}
