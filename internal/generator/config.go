package generator

// Config drives the mock intelligence generator.
type Config struct {
	// Seed makes results reproducible; zero seeds from the clock.
	Seed int64
}

// DefaultConfig returns a time-seeded configuration.
func DefaultConfig() Config {
	return Config{}
}
