package api

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Vendor rate quota: 100 requests per 5 minutes, enforced at the WAF level.
const (
	defaultQuota  = 100
	defaultPeriod = 300 * time.Second

	// pacingBuffer widens the minimum interval by 10% so clock skew between
	// client and WAF cannot push a request over the quota boundary.
	pacingBuffer = 1.1
)

// pacer spaces outbound requests evenly so the quota is never exceeded over
// any rolling window. Burst is fixed at 1: this is a pacing mechanism, not a
// token bucket that allows burst-then-stall.
type pacer struct {
	limiter  *rate.Limiter
	interval time.Duration
	log      logrus.FieldLogger
}

func newPacer(quota int, period time.Duration, log logrus.FieldLogger) *pacer {
	if quota <= 0 {
		quota = defaultQuota
	}
	if period <= 0 {
		period = defaultPeriod
	}
	interval := time.Duration(float64(period) / float64(quota) * pacingBuffer)
	return &pacer{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
		log:      log,
	}
}

// Wait blocks until the next request slot. The first request on a fresh
// pacer proceeds immediately; after that, slots open one interval apart.
func (p *pacer) Wait(ctx context.Context) error {
	res := p.limiter.Reserve()
	delay := res.Delay()
	if delay <= 0 {
		return nil
	}

	p.log.WithField("wait", delay.Round(time.Millisecond)).Debug("pacing request")

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		res.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
