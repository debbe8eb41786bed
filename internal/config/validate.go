package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0")
	}

	if err := c.Catalog.validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	if c.Translator.Enabled() && c.Translator.MaxTokens <= 0 {
		return fmt.Errorf("translator.max_tokens must be > 0 (got %d)", c.Translator.MaxTokens)
	}

	if c.Cache.PopularTTL < 0 {
		return fmt.Errorf("cache.popular_ttl must be >= 0 (got %v)", c.Cache.PopularTTL)
	}

	return nil
}

func (c *CatalogConfig) validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url must be an absolute URL (got %q)", c.URL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	if c.RecommendMaxPage < 1 {
		return fmt.Errorf("recommend_max_page must be >= 1 (got %d)", c.RecommendMaxPage)
	}
	if c.RecommendFilterMaxPage < 1 || c.RecommendFilterMaxPage > c.RecommendMaxPage {
		return fmt.Errorf("recommend_filter_max_page must be in 1..%d (got %d)", c.RecommendMaxPage, c.RecommendFilterMaxPage)
	}
	if c.BreakerFailures == 0 {
		return fmt.Errorf("breaker_failures must be > 0")
	}
	return nil
}
