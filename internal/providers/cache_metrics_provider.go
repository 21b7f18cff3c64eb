package providers

import (
	"dashcfg/internal/structures"
	"strings"
)

// MetricsCacheProvider counts cached probe lookups per probe, the part of the
// key before the first colon ("wifi" for "wifi:networks").
type MetricsCacheProvider struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func cacheProbe(key string) string {
	probe, _, _ := strings.Cut(key, ":")
	return probe
}

func (c *MetricsCacheProvider) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits(cacheProbe(key))
	} else {
		c.metrics.IncCacheMisses(cacheProbe(key))
	}
	return val, ok
}

func (c *MetricsCacheProvider) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

func (c *MetricsCacheProvider) Del(key string) {
	c.inner.Del(key)
}

// NewInstrumentedCacheProvider skips the wrapper when caching is off, so a
// disabled cache does not report every probe as a miss.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if !conf.Cache.Enabled {
		return inner
	}
	return &MetricsCacheProvider{
		inner:   inner,
		metrics: metrics,
	}
}
