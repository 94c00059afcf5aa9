package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	SendBuffer     int           `mapstructure:"send_buffer"`
	MessageRate    int           `mapstructure:"message_rate"`
	RateWindow     time.Duration `mapstructure:"rate_window"`
	Secret         string        `mapstructure:"secret"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	OriginSuffixes []string      `mapstructure:"origin_suffixes"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 3000)
	v.SetDefault("read_limit", 32768)
	v.SetDefault("send_buffer", 32)
	v.SetDefault("message_rate", 20)
	v.SetDefault("rate_window", "10s")
	v.SetDefault("allowed_origins", []string{
		"http://localhost:4200",
		"https://sorapara.netlify.app",
		"https://sorapara.online",
	})
	v.SetDefault("origin_suffixes", []string{".ngrok-free.app"})

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	// PORT wins over the file, matching how the service was deployed.
	if port := os.Getenv("PORT"); port != "" {
		v.Set("port", port)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d\n", cfg.Mode, cfg.Port)
	return &cfg, nil
}

// OriginAllowed checks an Origin header against the exact allow-list and the
// wildcard subdomain suffixes. Requests without an Origin header (same-origin
// tools, curl) are allowed.
func (c *Config) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range c.AllowedOrigins {
		if origin == o {
			return true
		}
	}
	for _, suffix := range c.OriginSuffixes {
		if strings.HasSuffix(origin, suffix) && strings.HasPrefix(origin, "https://") {
			return true
		}
	}
	return false
}
