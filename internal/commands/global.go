package commands

import (
	"fmt"
	"time"

	"github.com/Azure/azure-mcp/internal/options"
)

const SubscriptionEnvVar = "AZURE_SUBSCRIPTION_ID"

// GlobalOptions are carried by every Azure command.
type GlobalOptions struct {
	Subscription string
	Tenant       string
	AuthMethod   options.AuthMethod
	// RetryPolicy is nil unless a retry option was provided.
	RetryPolicy *options.RetryPolicy
}

func WithTenant() Contributor {
	return WithOption(Option{
		Name:        options.FlagTenant,
		Description: "The Microsoft Entra ID tenant ID or name. This can be either the GUID identifier or the display name of your tenant.",
		Kind:        KindString,
	})
}

func WithAuthMethod() Contributor {
	return WithOption(Option{
		Name:        options.FlagAuthMethod,
		Description: "Authentication method to use for this call. Defaults to the server's configured method.",
		Kind:        KindEnum,
		Values:      options.AuthMethodNames(),
	})
}

func WithSubscription() Contributor {
	return WithOption(Option{
		Name:        options.FlagSubscription,
		Description: "The Azure subscription ID or name. This can be either the GUID identifier or the display name of the subscription.",
		Kind:        KindString,
		Required:    true,
		EnvVar:      SubscriptionEnvVar,
	})
}

func WithResourceGroup(required bool) Contributor {
	return WithOption(Option{
		Name:        options.FlagResourceGroup,
		Description: "The name of the Azure resource group. This is a logical container for Azure resources.",
		Kind:        KindString,
		Required:    required,
	})
}

// WithRetryPolicy declares the retry options and the rule tying them together.
func WithRetryPolicy() Contributor {
	defaults := options.DefaultRetryPolicy()
	return func(s *Spec) {
		s.AddOption(Option{
			Name:        options.FlagRetryMaxRetries,
			Description: "Maximum number of retry attempts for failed operations before giving up.",
			Kind:        KindInt,
			Default:     defaults.MaxRetries,
			Check: func(v any) error {
				n, _ := v.(int)
				if n < 0 || n > options.MaxRetriesLimit {
					return fmt.Errorf("must be between 0 and %d", options.MaxRetriesLimit)
				}
				return nil
			},
		})
		s.AddOption(Option{
			Name:        options.FlagRetryMode,
			Description: "Retry strategy to use. 'fixed' uses consistent delays, 'exponential' increases delay between attempts.",
			Kind:        KindEnum,
			Default:     string(defaults.Mode),
			Values:      []string{string(options.RetryModeFixed), string(options.RetryModeExponential)},
		})
		s.AddOption(Option{
			Name:        options.FlagRetryDelay,
			Description: "Initial delay in seconds between retry attempts.",
			Kind:        KindFloat,
			Default:     defaults.Delay.Seconds(),
			Check:       positiveSeconds,
		})
		s.AddOption(Option{
			Name:        options.FlagRetryMaxDelay,
			Description: "Maximum delay in seconds between retries, regardless of the retry strategy.",
			Kind:        KindFloat,
			Default:     defaults.MaxDelay.Seconds(),
			Check:       positiveSeconds,
		})
		s.AddOption(Option{
			Name:        options.FlagRetryNetworkTimeout,
			Description: "Network operation timeout in seconds. Operations taking longer than this will be cancelled.",
			Kind:        KindFloat,
			Default:     defaults.NetworkTimeout.Seconds(),
			Check:       positiveSeconds,
		})
		s.Checks = append(s.Checks, func(args *ParseResult) error {
			policy := BindRetryPolicy(args)
			if policy == nil {
				return nil
			}
			return policy.Validate()
		})
	}
}

// WithGlobalOptions declares tenant, auth method and retry policy.
func WithGlobalOptions() Contributor {
	return func(s *Spec) {
		WithTenant()(s)
		WithAuthMethod()(s)
		WithRetryPolicy()(s)
	}
}

// WithSubscriptionOptions declares the global options plus a required
// subscription.
func WithSubscriptionOptions() Contributor {
	return func(s *Spec) {
		WithSubscription()(s)
		WithGlobalOptions()(s)
	}
}

// BindGlobal reads the global options out of validated arguments.
func BindGlobal(args *ParseResult) (GlobalOptions, error) {
	g := GlobalOptions{
		Subscription: args.String(options.FlagSubscription),
		Tenant:       args.String(options.FlagTenant),
		RetryPolicy:  BindRetryPolicy(args),
	}
	if args.Has(options.FlagAuthMethod) {
		m, err := options.ParseAuthMethod(args.String(options.FlagAuthMethod))
		if err != nil {
			return GlobalOptions{}, &ValidationError{Invalid: []string{err.Error()}}
		}
		g.AuthMethod = m
	}
	return g, nil
}

// BindRetryPolicy overlays provided retry options on the SDK defaults. It
// returns nil when no retry option was given.
func BindRetryPolicy(args *ParseResult) *options.RetryPolicy {
	names := []string{
		options.FlagRetryMaxRetries,
		options.FlagRetryMode,
		options.FlagRetryDelay,
		options.FlagRetryMaxDelay,
		options.FlagRetryNetworkTimeout,
	}
	provided := false
	for _, n := range names {
		if args.Has(n) {
			provided = true
			break
		}
	}
	if !provided {
		return nil
	}

	return &options.RetryPolicy{
		MaxRetries:     args.Int(options.FlagRetryMaxRetries),
		Mode:           options.RetryMode(args.String(options.FlagRetryMode)),
		Delay:          seconds(args.Float(options.FlagRetryDelay)),
		MaxDelay:       seconds(args.Float(options.FlagRetryMaxDelay)),
		NetworkTimeout: seconds(args.Float(options.FlagRetryNetworkTimeout)),
	}
}

func positiveSeconds(v any) error {
	f, _ := v.(float64)
	if f <= 0 {
		return fmt.Errorf("must be greater than 0")
	}
	return nil
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
