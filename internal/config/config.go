package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every environment-bound setting the core needs at boot:
// API bind, analytics (columnar) DB, metadata DB, geo oracle, and the
// batching-queue thresholds.
type Config struct {
	APIHost               string
	APIPort               string
	ReadHeaderTimeout     time.Duration
	ShutdownGrace         time.Duration
	AnalyticsHost         string
	AnalyticsPort         int
	AnalyticsUser         string
	AnalyticsPass         string
	AnalyticsName         string
	MetadataHost          string
	MetadataPort          int
	MetadataUser          string
	MetadataPass          string
	MetadataName          string
	MetadataSSLMode       string
	GeoEndpoint           string
	GeoTimeout            time.Duration
	QueueFlushSize        int
	QueueFlushInterval    time.Duration
	AdminIPOverride       string
	LogLevel              string
}

// newBaseViper wires up the common environment-variable binding used for
// every settings group: upper-cased keys, no config file requirement.
func newBaseViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from the environment, applying defaults for
// the batching queue (15 events / 10s) and a 30s shutdown grace window.
func Load() (*Config, error) {
	v := newBaseViper()

	v.SetDefault("api_host", "0.0.0.0")
	v.SetDefault("api_port", "8080")
	v.SetDefault("read_header_timeout", "60s")
	v.SetDefault("shutdown_grace", "30s")

	v.SetDefault("analytics_host", "localhost")
	v.SetDefault("analytics_port", 9000)
	v.SetDefault("analytics_user", "default")
	v.SetDefault("analytics_pass", "")
	v.SetDefault("analytics_name", "trailbeacon")

	v.SetDefault("metadata_host", "localhost")
	v.SetDefault("metadata_port", 5432)
	v.SetDefault("metadata_user", "trailbeacon")
	v.SetDefault("metadata_pass", "")
	v.SetDefault("metadata_name", "trailbeacon_meta")
	v.SetDefault("metadata_sslmode", "disable")

	v.SetDefault("geo_endpoint", "http://localhost:3090")
	v.SetDefault("geo_timeout", "2s")

	v.SetDefault("queue_flush_size", 15)
	v.SetDefault("queue_flush_interval", "10s")

	v.SetDefault("log_level", "info")

	readHeaderTimeout, err := time.ParseDuration(v.GetString("read_header_timeout"))
	if err != nil {
		readHeaderTimeout = 60 * time.Second
	}

	shutdownGrace, err := time.ParseDuration(v.GetString("shutdown_grace"))
	if err != nil {
		shutdownGrace = 30 * time.Second
	}

	geoTimeout, err := time.ParseDuration(v.GetString("geo_timeout"))
	if err != nil {
		geoTimeout = 2 * time.Second
	}

	queueFlushInterval, err := time.ParseDuration(v.GetString("queue_flush_interval"))
	if err != nil {
		queueFlushInterval = 10 * time.Second
	}

	return &Config{
		APIHost:            v.GetString("api_host"),
		APIPort:            v.GetString("api_port"),
		ReadHeaderTimeout:  readHeaderTimeout,
		ShutdownGrace:      shutdownGrace,
		AnalyticsHost:      v.GetString("analytics_host"),
		AnalyticsPort:      v.GetInt("analytics_port"),
		AnalyticsUser:      v.GetString("analytics_user"),
		AnalyticsPass:      v.GetString("analytics_pass"),
		AnalyticsName:      v.GetString("analytics_name"),
		MetadataHost:       v.GetString("metadata_host"),
		MetadataPort:       v.GetInt("metadata_port"),
		MetadataUser:       v.GetString("metadata_user"),
		MetadataPass:       v.GetString("metadata_pass"),
		MetadataName:       v.GetString("metadata_name"),
		MetadataSSLMode:    v.GetString("metadata_sslmode"),
		GeoEndpoint:        v.GetString("geo_endpoint"),
		GeoTimeout:         geoTimeout,
		QueueFlushSize:     v.GetInt("queue_flush_size"),
		QueueFlushInterval: queueFlushInterval,
		LogLevel:           v.GetString("log_level"),
	}, nil
}

// ApplyIPOverride records the --ip admin flag; it is read-only after
// startup.
func (c *Config) ApplyIPOverride(ip string) {
	c.AdminIPOverride = ip
}
