package cache

import "time"

const (
	minTTL = 2 * time.Second
	maxTTL = time.Minute
)

var intervalDurations = map[string]time.Duration{
	"1m":  time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"1h":  time.Hour,
	"1d":  24 * time.Hour,
	"1w":  7 * 24 * time.Hour,
	"1M":  30 * 24 * time.Hour,
}

// TTLForInterval returns how long klines of an interval may be served from cache:
// a thirtieth of the candle length, clamped to [2s, 60s]. Unknown codes get the minimum.
func TTLForInterval(interval string) time.Duration {
	d, ok := intervalDurations[interval]
	if !ok {
		return minTTL
	}
	ttl := d / 30
	if ttl < minTTL {
		return minTTL
	}
	if ttl > maxTTL {
		return maxTTL
	}
	return ttl
}
