// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/store/tenantcache"
)

// CacheSweepJob creates a job that purges expired tenant cache entries,
// so tenants that stop receiving traffic do not pin memory until the
// next request.
func CacheSweepJob(cache *tenantcache.Cache, logger *zap.Logger) Job {
	return Job{
		Name:     "cache-sweep",
		Interval: 1 * time.Minute,
		Run: func(ctx context.Context) error {
			if removed := cache.Sweep(); removed > 0 {
				logger.Debug("swept expired cache entries",
					zap.Int("removed", removed))
			}
			return nil
		},
	}
}
