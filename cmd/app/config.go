package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	// App configuration
	App AppConfig `mapstructure:"app"`

	// Metrics backend configuration
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Kubernetes configuration
	Kubernetes KubernetesConfig `mapstructure:"kubernetes"`

	// Cloud provider configuration
	Cloud CloudConfig `mapstructure:"cloud"`

	// Retry configuration
	Retry RetryConfig `mapstructure:"retry"`
}

// AppConfig holds application configuration
type AppConfig struct {
	// Component is the name of the component
	Component string `mapstructure:"component"`

	// LogLevel is the log level
	LogLevel string `mapstructure:"log_level"`
}

// MetricsConfig holds metrics backend configuration
type MetricsConfig struct {
	// BaseURL is the base URL of the metrics query API
	BaseURL string `mapstructure:"base_url"`

	// Timeout is the per-query timeout
	Timeout time.Duration `mapstructure:"timeout"`

	// Source selects where pod and node records are looked up:
	// "prometheus" (default) or "kubernetes" for the API-server fallback
	Source string `mapstructure:"source"`

	// PodInfoMetric is the series carrying pod placement labels
	PodInfoMetric string `mapstructure:"pod_info_metric"`

	// NodeInfoMetric is the series carrying node identity labels
	NodeInfoMetric string `mapstructure:"node_info_metric"`
}

// KubernetesConfig holds Kubernetes client configuration
type KubernetesConfig struct {
	// Namespace restricts pod lookups; empty means all namespaces
	Namespace string `mapstructure:"namespace"`

	// ConfigPath is the path to the kubeconfig file
	ConfigPath string `mapstructure:"config_path"`

	// MasterURL is the Kubernetes API server URL
	MasterURL string `mapstructure:"master_url"`
}

// CloudConfig holds cloud provider API configuration
type CloudConfig struct {
	// Region is the provider region queried for instance events
	Region string `mapstructure:"region"`

	// Profile is the shared credentials profile; empty uses the default chain
	Profile string `mapstructure:"profile"`

	// Timeout is the per-call timeout for provider API requests
	Timeout time.Duration `mapstructure:"timeout"`

	// PriceHistoryWindow is how far back spot price history is read
	// when enriching termination events
	PriceHistoryWindow time.Duration `mapstructure:"price_history_window"`
}

// RetryConfig holds retry policy configuration shared by all backends
type RetryConfig struct {
	// InitialInterval is the first backoff delay
	InitialInterval time.Duration `mapstructure:"initial_interval"`

	// MaxElapsedTime bounds the total time spent retrying one call
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time"`

	// MaxRetries bounds the number of retry attempts
	MaxRetries uint64 `mapstructure:"max_retries"`
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure paths and file types
	configureViper(v)

	// Read configs file
	if err := readConfigs(v); err != nil {
		return nil, err
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configs: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// configureViper sets up Viper configuration paths and types
func configureViper(v *viper.Viper) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/podtrace/")

	// Enable environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("PODTRACE")
}

// readConfigs attempts to read the configuration file
func readConfigs(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		// Only return error if it's not a "configs file not found" error
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read configs file: %w", err)
		}
		// Otherwise, continue with defaults and environment variables
	}
	return nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	// Validate metrics configuration
	if cfg.Metrics.Source != "prometheus" && cfg.Metrics.Source != "kubernetes" {
		return fmt.Errorf("metrics.source must be \"prometheus\" or \"kubernetes\"")
	}
	if cfg.Metrics.Source == "prometheus" && cfg.Metrics.BaseURL == "" {
		return fmt.Errorf("metrics.base_url is required")
	}
	if cfg.Metrics.Timeout <= 0 {
		return fmt.Errorf("metrics.timeout must be positive")
	}

	// Validate cloud configuration
	if cfg.Cloud.Region == "" {
		return fmt.Errorf("cloud.region is required")
	}
	if cfg.Cloud.Timeout <= 0 {
		return fmt.Errorf("cloud.timeout must be positive")
	}

	// Validate retry configuration
	if cfg.Retry.MaxElapsedTime <= 0 {
		return fmt.Errorf("retry.max_elapsed_time must be positive")
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.component", "podtrace")
	v.SetDefault("app.log_level", "info")

	// Metrics defaults
	v.SetDefault("metrics.base_url", "http://prometheus.monitoring.svc:9090")
	v.SetDefault("metrics.timeout", 15*time.Second)
	v.SetDefault("metrics.source", "prometheus")
	v.SetDefault("metrics.pod_info_metric", "kube_pod_info")
	v.SetDefault("metrics.node_info_metric", "kube_node_info")

	// Kubernetes defaults
	v.SetDefault("kubernetes.namespace", "")

	// Cloud defaults
	v.SetDefault("cloud.region", "ap-south-1")
	v.SetDefault("cloud.timeout", 30*time.Second)
	v.SetDefault("cloud.price_history_window", 6*time.Hour)

	// Retry defaults
	v.SetDefault("retry.initial_interval", 500*time.Millisecond)
	v.SetDefault("retry.max_elapsed_time", 30*time.Second)
	v.SetDefault("retry.max_retries", 4)
}
