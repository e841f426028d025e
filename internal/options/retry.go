package options

import (
	"fmt"
	"time"
)

type RetryMode string

const (
	RetryModeFixed       RetryMode = "fixed"
	RetryModeExponential RetryMode = "exponential"
)

const MaxRetriesLimit = 10

// RetryPolicy configures the Azure client pipeline for a single call.
// It is a comparable value: policies with identical fields are interchangeable
// and may be used directly as map keys.
type RetryPolicy struct {
	MaxRetries     int
	Mode           RetryMode
	Delay          time.Duration
	MaxDelay       time.Duration
	NetworkTimeout time.Duration
}

// DefaultRetryPolicy matches the Azure SDK pipeline defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     3,
		Mode:           RetryModeExponential,
		Delay:          800 * time.Millisecond,
		MaxDelay:       60 * time.Second,
		NetworkTimeout: 100 * time.Second,
	}
}

func ParseRetryMode(s string) (RetryMode, error) {
	switch RetryMode(s) {
	case RetryModeFixed, RetryModeExponential:
		return RetryMode(s), nil
	default:
		return "", fmt.Errorf("invalid retry mode %q (must be fixed or exponential)", s)
	}
}

func (p RetryPolicy) Validate() error {
	if p.MaxRetries < 0 || p.MaxRetries > MaxRetriesLimit {
		return fmt.Errorf("max retries must be between 0 and %d", MaxRetriesLimit)
	}
	if _, err := ParseRetryMode(string(p.Mode)); err != nil {
		return err
	}
	if p.Delay <= 0 {
		return fmt.Errorf("retry delay must be greater than 0")
	}
	if p.MaxDelay < p.Delay {
		return fmt.Errorf("retry max delay must not be less than retry delay")
	}
	if p.NetworkTimeout <= 0 {
		return fmt.Errorf("network timeout must be greater than 0")
	}
	return nil
}

// Key renders the policy as a stable cache key component.
func (p RetryPolicy) Key() string {
	return fmt.Sprintf("%d:%s:%s:%s:%s", p.MaxRetries, p.Mode, p.Delay, p.MaxDelay, p.NetworkTimeout)
}
