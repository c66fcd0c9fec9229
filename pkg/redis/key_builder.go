package redis

import "fmt"

// Key patterns
const (
	KeyRateLimit     = "ratelimit:%s" // ratelimit:{identifier}
	KeyWaitlistStats = "waitlist:stats"
	KeyReportLock    = "report:lock:%s" // report:lock:{report name}
)

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyRateLimit returns the counter key for a rate limit identifier such as
// "feedback:<user-id>"
func (kb *KeyBuilder) KeyRateLimit(identifier string) string {
	return kb.BuildKey(fmt.Sprintf(KeyRateLimit, identifier))
}

func (kb *KeyBuilder) KeyWaitlistStats() string {
	return kb.BuildKey(KeyWaitlistStats)
}

func (kb *KeyBuilder) KeyReportLock(report string) string {
	return kb.BuildKey(fmt.Sprintf(KeyReportLock, report))
}
