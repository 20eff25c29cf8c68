package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"carbontrack/internal/domain"
)

// ReportCacheTTL bounds staleness between instances after a report is
// deleted on another node.
const ReportCacheTTL = 5 * time.Minute

const reportCachePrefix = "cache:report:"

// ReportCache caches generated yearly reports in Redis, keyed by
// (year, owner).
type ReportCache struct {
	client *redis.Client
}

// NewReportCache creates a new ReportCache.
func NewReportCache(client *redis.Client) *ReportCache {
	return &ReportCache{client: client}
}

func reportCacheKey(year int, ownerID string) string {
	return fmt.Sprintf("%s%s:%d", reportCachePrefix, ownerID, year)
}

// GetReport retrieves a cached report. Returns (nil, nil) on cache miss.
func (c *ReportCache) GetReport(ctx context.Context, year int, ownerID string) (*domain.YearlyReport, error) {
	data, err := c.client.Get(ctx, reportCacheKey(year, ownerID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var report domain.YearlyReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SetReport stores a report in cache.
func (c *ReportCache) SetReport(ctx context.Context, report *domain.YearlyReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, reportCacheKey(report.Year, report.OwnerID), data, ReportCacheTTL).Err()
}

// InvalidateReport removes a report from cache.
func (c *ReportCache) InvalidateReport(ctx context.Context, year int, ownerID string) error {
	return c.client.Del(ctx, reportCacheKey(year, ownerID)).Err()
}
