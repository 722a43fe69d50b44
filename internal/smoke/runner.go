package smoke

import (
	"context"
	"fmt"
	"time"

	"github.com/carltonupp/upperdine/pkg/logger"
)

// Run executes every check against cfg.BaseURL. All checks run even when
// one fails; the returned error wraps ErrCheckFailed if any did.
func Run(ctx context.Context, cfg Config, log logger.Logger) (*Report, error) {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.Nop()
	}
	report := &Report{StartTime: time.Now()}

	log.Info(ctx, "starting smoke check",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := newHTTPClient(cfg)
	for _, c := range checks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := timed(ctx, c, client, cfg)
		report.Results = append(report.Results, res)
		if res.Passed() {
			log.Info(ctx, "check passed", logger.String("check", res.Name), logger.Duration("took", res.Duration))
		} else {
			log.Error(ctx, "check failed", logger.String("check", res.Name), logger.Error(res.Err))
		}
	}
	report.Duration = time.Since(report.StartTime)

	if failed := report.Failed(); len(failed) > 0 {
		return report, fmt.Errorf("%w: %d of %d checks", ErrCheckFailed, len(failed), len(report.Results))
	}
	return report, nil
}
