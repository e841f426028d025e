// Package options holds the option names and value objects shared by every
// Azure command: subscription, tenant, authentication method and retry policy.
package options

// Flag names as they appear on the command line and as MCP tool arguments.
const (
	FlagSubscription        = "subscription"
	FlagTenant              = "tenant"
	FlagAuthMethod          = "auth-method"
	FlagResourceGroup       = "resource-group"
	FlagRetryMaxRetries     = "retry-max-retries"
	FlagRetryMode           = "retry-mode"
	FlagRetryDelay          = "retry-delay"
	FlagRetryMaxDelay       = "retry-max-delay"
	FlagRetryNetworkTimeout = "retry-network-timeout"
)
