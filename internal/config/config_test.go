package config_test

import (
	"testing"
	"time"

	"lyyn/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := config.Defaults()
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sql", cfg.ProductStore)
	assert.Equal(t, "local", cfg.ImageStore)
	assert.Equal(t, 12, cfg.ProductsPageSize)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.False(t, cfg.RabbitMQEnabled)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PRODUCT_STORE", "mongo")
	t.Setenv("PRODUCTS_PAGE_SIZE", "24")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("RABBITMQ_ENABLED", "true")

	cfg := config.Load()
	assert.Equal(t, "mongo", cfg.ProductStore)
	assert.Equal(t, 24, cfg.ProductsPageSize)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.True(t, cfg.RabbitMQEnabled)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "postgres")
	v.Set("AWS_BUCKET", "lyyn-images")
	cfg := config.FromViper(v)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "lyyn-images", cfg.AWSBucket)
	assert.Empty(t, cfg.AppPort)
}
