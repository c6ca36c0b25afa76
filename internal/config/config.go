package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	HTTPAddr string

	// BasePublicURL is the shop's externally reachable base URL. The gateway
	// rejects notification URLs carrying a port, so any port is stripped
	// before callback URLs are built from this.
	BasePublicURL string

	SofortServerURL string
	SofortConfigKey string
	Currency        string

	SweepInterval time.Duration
	SweepAfter    time.Duration
}

func FromEnv() (Config, error) {
	var c Config

	c.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}

	c.BasePublicURL = strings.TrimRight(strings.TrimSpace(os.Getenv("BASE_PUBLIC_URL")), "/")
	c.SofortServerURL = strings.TrimSpace(os.Getenv("SOFORT_SERVER_URL"))
	c.SofortConfigKey = strings.TrimSpace(os.Getenv("SOFORT_CONFIG_KEY"))

	c.Currency = strings.TrimSpace(os.Getenv("SOFORT_CURRENCY"))
	if c.Currency == "" {
		c.Currency = "EUR"
	}

	c.SweepInterval = durationEnv("SWEEP_INTERVAL", 30*time.Second)
	c.SweepAfter = durationEnv("SWEEP_AFTER", 5*time.Minute)

	if c.BasePublicURL == "" {
		return c, fmt.Errorf("BASE_PUBLIC_URL is empty")
	}
	if c.SofortServerURL == "" {
		return c, fmt.Errorf("SOFORT_SERVER_URL is empty")
	}
	if c.SofortConfigKey == "" {
		return c, fmt.Errorf("SOFORT_CONFIG_KEY is empty")
	}
	return c, nil
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
