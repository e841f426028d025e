package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *RetryPolicy)
		wantErr bool
	}{
		{name: "defaults", mutate: func(p *RetryPolicy) {}},
		{name: "zero retries", mutate: func(p *RetryPolicy) { p.MaxRetries = 0 }},
		{name: "too many retries", mutate: func(p *RetryPolicy) { p.MaxRetries = 11 }, wantErr: true},
		{name: "negative retries", mutate: func(p *RetryPolicy) { p.MaxRetries = -1 }, wantErr: true},
		{name: "unknown mode", mutate: func(p *RetryPolicy) { p.Mode = "linear" }, wantErr: true},
		{name: "zero delay", mutate: func(p *RetryPolicy) { p.Delay = 0 }, wantErr: true},
		{name: "max delay below delay", mutate: func(p *RetryPolicy) { p.MaxDelay = p.Delay / 2 }, wantErr: true},
		{name: "zero network timeout", mutate: func(p *RetryPolicy) { p.NetworkTimeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultRetryPolicy()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetryPolicy_ValueEquality(t *testing.T) {
	a := RetryPolicy{MaxRetries: 2, Mode: RetryModeFixed, Delay: time.Second, MaxDelay: time.Second, NetworkTimeout: time.Minute}
	b := a

	assert.Equal(t, a, b)
	assert.Equal(t, a.Key(), b.Key())

	seen := map[RetryPolicy]bool{a: true}
	assert.True(t, seen[b])

	b.MaxRetries = 3
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestParseAuthMethod(t *testing.T) {
	m, err := ParseAuthMethod("managed-identity")
	assert.NoError(t, err)
	assert.Equal(t, AuthMethodManagedIdentity, m)

	_, err = ParseAuthMethod("password")
	assert.ErrorContains(t, err, "unknown auth method")
}
