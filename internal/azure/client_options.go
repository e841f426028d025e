package azure

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	"github.com/Azure/azure-mcp/internal/commands"
	"github.com/Azure/azure-mcp/internal/options"
	"github.com/Azure/azure-mcp/internal/version"
)

// RequestOptions carries the per-call overrides every Azure command accepts.
type RequestOptions struct {
	Tenant     string
	AuthMethod options.AuthMethod
	// Retry is nil when the caller kept the SDK defaults.
	Retry *options.RetryPolicy
}

// ClientOptions builds the ARM pipeline options for one call.
func ClientOptions(retry *options.RetryPolicy) *arm.ClientOptions {
	return &arm.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Retry: RetryOptions(retry),
			Telemetry: policy.TelemetryOptions{
				ApplicationID: version.ApplicationID(),
			},
		},
	}
}

// RetryOptions translates a retry policy into the SDK's retry settings. A nil
// policy keeps the SDK defaults.
func RetryOptions(retry *options.RetryPolicy) policy.RetryOptions {
	if retry == nil {
		return policy.RetryOptions{}
	}

	out := policy.RetryOptions{
		MaxRetries:    int32(retry.MaxRetries),
		TryTimeout:    retry.NetworkTimeout,
		RetryDelay:    retry.Delay,
		MaxRetryDelay: retry.MaxDelay,
	}
	// the SDK treats zero as "use the default"; negative disables retries
	if retry.MaxRetries == 0 {
		out.MaxRetries = -1
	}
	if retry.Mode == options.RetryModeFixed {
		out.MaxRetryDelay = retry.Delay
	}
	return out
}

// cacheSuffix separates cached listings by everything that can change the
// calling identity or the result: tenant, auth method and retry policy.
func (r RequestOptions) cacheSuffix() string {
	var s string
	if r.Tenant != "" {
		s += "_" + r.Tenant
	}
	if r.AuthMethod != "" {
		s += "_" + string(r.AuthMethod)
	}
	if r.Retry != nil {
		s += "_" + r.Retry.Key()
	}
	return s
}

// NewRequestOptions lifts the bound global command options into a request.
func NewRequestOptions(g commands.GlobalOptions) RequestOptions {
	return RequestOptions{
		Tenant:     g.Tenant,
		AuthMethod: g.AuthMethod,
		Retry:      g.RetryPolicy,
	}
}
