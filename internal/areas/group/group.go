// Package group exposes resource group commands.
package group

import (
	"context"

	"github.com/Azure/azure-mcp/internal/azure"
	"github.com/Azure/azure-mcp/internal/commands"
)

type Service interface {
	ListResourceGroups(ctx context.Context, subscription string, req azure.RequestOptions) ([]azure.ResourceGroup, error)
}

type ListResult struct {
	Groups []azure.ResourceGroup `json:"groups"`
}

func Setup(f *commands.Factory) error {
	group := commands.NewGroup("group", "Resource group operations - Commands for listing and managing Azure resource groups in your subscriptions.")
	if err := f.Register(group, nil); err != nil {
		return err
	}
	return f.AddCommand(group, "list", NewListCommand())
}

func NewListCommand() commands.Command {
	return commands.New(commands.Definition[commands.GlobalOptions]{
		Description: "List all resource groups in a subscription. This command retrieves all resource groups available " +
			"in the specified subscription. Results include resource group names and IDs, returned as a JSON array.",
		Options: []commands.Contributor{commands.WithSubscriptionOptions(), commands.ReadOnly()},
		Bind:    commands.BindGlobal,
		Run: func(ctx context.Context, cc *commands.Context, opts commands.GlobalOptions) (any, error) {
			svc, err := commands.GetService[Service](cc)
			if err != nil {
				return nil, err
			}

			groups, err := svc.ListResourceGroups(ctx, opts.Subscription, azure.NewRequestOptions(opts))
			if err != nil {
				return nil, err
			}
			if len(groups) == 0 {
				return nil, nil
			}
			return ListResult{Groups: groups}, nil
		},
	})
}
