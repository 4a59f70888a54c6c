package flags

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/openshift/runtime-summary/pkg/apis/cache"
	"github.com/openshift/runtime-summary/pkg/cache/redis"
)

// CacheFlags holds caching configuration for fetched workflow jobs.
type CacheFlags struct {
	RedisURL string
}

func NewCacheFlags() *CacheFlags {
	return &CacheFlags{}
}

func (f *CacheFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.RedisURL,
		"redis-url",
		os.Getenv("REDIS_URL"),
		"Redis URL for caching the jobs of completed workflow runs")
}

// GetCacheClient returns nil when no cache is configured.
func (f *CacheFlags) GetCacheClient() (cache.Cache, error) {
	if f.RedisURL != "" {
		return redis.NewRedisCache(f.RedisURL)
	}

	return nil, nil
}
