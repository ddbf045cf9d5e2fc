package assessfraudrisk

import "time"

type Config struct {
	Timeout time.Duration
	// AlertThreshold is the score at or above which a risk alert goes out.
	AlertThreshold int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        10 * time.Second,
		AlertThreshold: 60,
	}
}
