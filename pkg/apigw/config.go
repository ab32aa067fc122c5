package apigw

import "time"

// Config describes the gateway's connection settings. Fields can be
// populated from environment variables via the config package.
type Config struct {
	// BaseURL is the backend root, e.g. "https://api.theraflow.app/v1".
	BaseURL string `env:"API_BASE_URL,required"`
	// Timeout bounds every outbound call; a timed-out call is classified
	// as a network failure.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
}
