package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder_Environment_Prefixes(t *testing.T) {
	tests := []struct {
		name           string
		environment    string
		expectedPrefix string
	}{
		{name: "production uses prod prefix", environment: "production", expectedPrefix: "prod"},
		{name: "development uses staging prefix", environment: "development", expectedPrefix: "staging"},
		{name: "staging uses staging prefix", environment: "staging", expectedPrefix: "staging"},
		{name: "unknown defaults to prod prefix", environment: "unknown", expectedPrefix: "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.expectedPrefix, kb.GetPrefix())
		})
	}
}

func TestKeyBuilder_KeyGeneration(t *testing.T) {
	kb := NewKeyBuilder("production")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "rate limit key", got: kb.KeyRateLimit("feedback:user-1"), expected: "prod:ratelimit:feedback:user-1"},
		{name: "waitlist stats key", got: kb.KeyWaitlistStats(), expected: "prod:waitlist:stats"},
		{name: "report lock key", got: kb.KeyReportLock("daily"), expected: "prod:report:lock:daily"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestKeyBuilder_StagingIsolation(t *testing.T) {
	prod := NewKeyBuilder("production")
	staging := NewKeyBuilder("development")

	assert.NotEqual(t, prod.KeyRateLimit("survey:u"), staging.KeyRateLimit("survey:u"))
}
