package rankprofessionals

import "time"

type Config struct {
	Timeout time.Duration
	// MaxResults caps the ranked list when the job does not ask for less.
	// Zero returns every eligible professional.
	MaxResults int
	// SourceName labels which store candidates are loaded from, for errors
	// and logs.
	SourceName string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    10 * time.Second,
		MaxResults: 20,
		SourceName: "postgres",
	}
}
