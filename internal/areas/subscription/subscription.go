// Package subscription exposes the subscription listing command.
package subscription

import (
	"context"

	"github.com/Azure/azure-mcp/internal/azure"
	"github.com/Azure/azure-mcp/internal/commands"
)

// Service lists the subscriptions the caller can see.
type Service interface {
	ListSubscriptions(ctx context.Context, req azure.RequestOptions) ([]azure.Subscription, error)
}

type ListResult struct {
	Subscriptions []azure.Subscription `json:"subscriptions"`
}

func Setup(f *commands.Factory) error {
	group := commands.NewGroup("subscription", "Azure subscription operations - Commands for listing the Azure subscriptions available to the current identity.")
	if err := f.Register(group, nil); err != nil {
		return err
	}
	return f.AddCommand(group, "list", NewListCommand())
}

func NewListCommand() commands.Command {
	return commands.New(commands.Definition[commands.GlobalOptions]{
		Description: "List all Azure subscriptions accessible to your account. Optionally specify a tenant. " +
			"Results include subscription names and IDs.",
		Options: []commands.Contributor{commands.WithGlobalOptions(), commands.ReadOnly()},
		Bind:    commands.BindGlobal,
		Run: func(ctx context.Context, cc *commands.Context, opts commands.GlobalOptions) (any, error) {
			svc, err := commands.GetService[Service](cc)
			if err != nil {
				return nil, err
			}

			subs, err := svc.ListSubscriptions(ctx, azure.NewRequestOptions(opts))
			if err != nil {
				return nil, err
			}
			if len(subs) == 0 {
				return nil, nil
			}
			return ListResult{Subscriptions: subs}, nil
		},
	})
}
