package dsaas

import (
	"time"

	"go.uber.org/zap"
)

// clientConfig collects the Client construction settings.
type clientConfig struct {
	addrs    []string
	username string
	password string

	completionAPIKey      string
	completionBaseURL     string
	completionModel       string
	completionTemperature float32
	completionMaxTokens   int

	keyPrefix     string
	documentsPath string
	logbookPath   string
	maxCandidates int

	readinessTimeout time.Duration
	logger           *zap.Logger
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		completionModel:       "gpt-4o-mini",
		completionTemperature: 0.2,
		completionMaxTokens:   1500,
		keyPrefix:             "dsaas:",
		documentsPath:         "documents",
		logbookPath:           "logbook",
		maxCandidates:         50,
		readinessTimeout:      defaultReadinessTimeout,
		logger:                zap.NewNop(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithRedis sets the record store addresses.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithAuth sets the record store credentials.
func WithAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithCompletion sets the completion provider credentials and model.
func WithCompletion(apiKey, model string) Option {
	return func(c *clientConfig) {
		c.completionAPIKey = apiKey
		if model != "" {
			c.completionModel = model
		}
	}
}

// WithCompletionBaseURL points the completion provider at an
// OpenAI-compatible endpoint.
func WithCompletionBaseURL(baseURL string) Option {
	return func(c *clientConfig) { c.completionBaseURL = baseURL }
}

// WithKeyPrefix namespaces all store keys.
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) { c.keyPrefix = prefix }
}

// WithPaths overrides the document and logbook collection paths.
func WithPaths(documents, logbook string) Option {
	return func(c *clientConfig) {
		if documents != "" {
			c.documentsPath = documents
		}
		if logbook != "" {
			c.logbookPath = logbook
		}
	}
}

// WithMaxCandidates overrides the prompt candidate cap.
func WithMaxCandidates(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.maxCandidates = n
		}
	}
}

// WithReadinessTimeout bounds the initial store readiness wait.
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		if d > 0 {
			c.readinessTimeout = d
		}
	}
}

// WithLogger sets the client logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
