// Package binance provides a client for the Binance public market data API.
package binance

import "time"

// DefaultBaseURL is the public Binance REST endpoint.
const DefaultBaseURL = "https://api.binance.com"

// Config holds configuration for the Binance API client.
type Config struct {
	BaseURL           string        // e.g. "https://api.binance.com"
	Timeout           time.Duration // HTTP request timeout
	RequestsPerMinute int           // outbound budget; 0 disables limiting
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		Timeout:           10 * time.Second,
		RequestsPerMinute: 1200,
	}
}
