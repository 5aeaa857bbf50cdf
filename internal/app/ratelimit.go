package app

import (
	"bookmark-manager/internal/common/logging"
	"bookmark-manager/internal/ratelimit"
)

// initializeRateLimiter builds the per-IP limiter for operator endpoints.
// A nil limiter means rate limiting is off.
func (app *App) initializeRateLimiter() error {
	if !app.Config.RateLimitEnabled {
		app.Logger.Info("Rate Limiting: Disabled")
		return nil
	}

	limiter, err := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerSecond: app.Config.RateLimitRPSNumber(),
		BurstSize:         app.Config.RateLimitBurstNumber(),
		Enabled:           true,
	})
	if err != nil {
		return err
	}

	app.RateLimiter = limiter
	app.Logger.Info("Rate Limiting: Enabled",
		logging.Any("requests_per_second", app.Config.RateLimitRPSNumber()),
		logging.Int("burst", app.Config.RateLimitBurstNumber()),
	)
	return nil
}
