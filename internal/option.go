package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	serveHTTP bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithHTTP controls whether the REST API server is started. Watch mode runs
// the builder and watcher without exposing HTTP.
func WithHTTP(enabled bool) Option {
	return func(a *application) {
		a.serveHTTP = enabled
	}
}
