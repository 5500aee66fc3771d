package service

import (
	"context"
	"time"

	"github.com/novelnest/novelnest-server/internal/logger"
)

// ExpiredOTPPurger deletes records whose code expired before cutoff.
type ExpiredOTPPurger interface {
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// OTPPurge periodically removes stale verification records from stores
// without native key expiry.
type OTPPurge struct {
	purger ExpiredOTPPurger
	grace  time.Duration
	logger *logger.Logger
	now    func() time.Time
}

// NewOTPPurge keeps records for grace past their expiry, so a late verify
// still reports expiry instead of a missing code.
func NewOTPPurge(purger ExpiredOTPPurger, grace time.Duration, logger *logger.Logger) *OTPPurge {
	return &OTPPurge{purger: purger, grace: grace, logger: logger, now: time.Now}
}

// RunOnce purges once and returns the number of removed records.
func (p *OTPPurge) RunOnce(ctx context.Context) (int64, error) {
	n, err := p.purger.PurgeExpired(ctx, p.now().Add(-p.grace))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		p.logger.Info("OTP purge: removed expired records", "count", n)
	}
	return n, nil
}

// Run purges every interval until ctx is done.
func (p *OTPPurge) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.RunOnce(ctx); err != nil {
				p.logger.Warn("OTP purge: failed", "error", err.Error())
			}
		}
	}
}
