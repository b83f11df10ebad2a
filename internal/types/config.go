package types

type RunMode string

const (
	// ModeLocal runs the API server with development logging
	ModeLocal RunMode = "local"
	// ModeProduction runs the API server with JSON logging
	ModeProduction RunMode = "production"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// NumberingStrategy selects how invoice number suffixes are produced
type NumberingStrategy string

const (
	// NumberingStrategyCounter uses an atomic per tenant, type and year counter
	NumberingStrategyCounter NumberingStrategy = "counter"
	// NumberingStrategyTimestamp uses unix millis plus a random component
	NumberingStrategyTimestamp NumberingStrategy = "timestamp"
)

// CounterBackend selects where sequence counters live
type CounterBackend string

const (
	CounterBackendPostgres CounterBackend = "postgres"
	CounterBackendRedis    CounterBackend = "redis"
)

const (
	DefaultMaxNumberAttempts = 100
	DefaultTaxRate           = 18.0
)
