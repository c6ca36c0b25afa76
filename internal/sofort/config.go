package sofort

import "strings"

// GatewayConfig is parsed once per operation from the merchant's config key
// and is immutable for the operation's duration.
type GatewayConfig struct {
	MerchantID string
	ProjectID  string
	APIKey     string
}

// ParseConfigKey splits a "merchant:project:apikey" config key. At least three
// colon-separated fields are required; anything past the third is ignored.
func ParseConfigKey(key string) (GatewayConfig, error) {
	if strings.TrimSpace(key) == "" {
		return GatewayConfig{}, &ConfigError{Reason: "is blank"}
	}
	parts := strings.Split(key, ":")
	if len(parts) < 3 {
		return GatewayConfig{}, &ConfigError{Reason: "is invalid"}
	}
	return GatewayConfig{
		MerchantID: parts[0],
		ProjectID:  parts[1],
		APIKey:     parts[2],
	}, nil
}
