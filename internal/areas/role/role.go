// Package role exposes role based access control commands.
package role

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Azure/azure-mcp/internal/azure"
	"github.com/Azure/azure-mcp/internal/commands"
)

const flagScope = "scope"

type Service interface {
	ListAssignments(ctx context.Context, subscription, scope string, req azure.RequestOptions) ([]azure.RoleAssignment, error)
}

type AssignmentListOptions struct {
	commands.GlobalOptions
	Scope string
}

type AssignmentListResult struct {
	Assignments []azure.RoleAssignment `json:"assignments"`
}

func Setup(f *commands.Factory) error {
	role := commands.NewGroup("role", "Authorization operations - Commands for managing Azure role-based access control (RBAC) resources.")
	assignment := commands.NewGroup("assignment", "Role assignment operations - Commands for listing Azure RBAC role assignments.")

	if err := f.Register(role, nil); err != nil {
		return err
	}
	if err := f.Register(assignment, role); err != nil {
		return err
	}
	return f.AddCommand(assignment, "list", NewAssignmentListCommand())
}

func NewAssignmentListCommand() commands.Command {
	return commands.New(commands.Definition[AssignmentListOptions]{
		Description: "List role assignments. This command retrieves and displays all Azure RBAC role assignments " +
			"in the specified scope. Results include role definition IDs and principal IDs, returned as a JSON array.",
		Options: []commands.Contributor{
			commands.WithSubscriptionOptions(),
			commands.WithOption(commands.Option{
				Name:        flagScope,
				Description: "Scope at which the role assignment or definition applies to, e.g., /subscriptions/0b1f6471-1bf0-4dda-aec3-111122223333, /subscriptions/0b1f6471-1bf0-4dda-aec3-111122223333/resourceGroups/myGroup, or /subscriptions/0b1f6471-1bf0-4dda-aec3-111122223333/resourceGroups/myGroup/providers/Microsoft.Compute/virtualMachines/myVM.",
				Kind:        commands.KindString,
				Required:    true,
			}),
			commands.WithErrorMapper(commands.MapStatus(http.StatusForbidden, func(err error) string {
				return fmt.Sprintf("Authorization failed listing role assignments. Verify you have Microsoft.Authorization/roleAssignments/read permission at the scope. Details: %s", err)
			})),
			commands.ReadOnly(),
		},
		Bind: func(args *commands.ParseResult) (AssignmentListOptions, error) {
			g, err := commands.BindGlobal(args)
			if err != nil {
				return AssignmentListOptions{}, err
			}
			return AssignmentListOptions{GlobalOptions: g, Scope: args.String(flagScope)}, nil
		},
		Run: func(ctx context.Context, cc *commands.Context, opts AssignmentListOptions) (any, error) {
			svc, err := commands.GetService[Service](cc)
			if err != nil {
				return nil, err
			}

			assignments, err := svc.ListAssignments(ctx, opts.Subscription, opts.Scope, azure.NewRequestOptions(opts.GlobalOptions))
			if err != nil {
				return nil, err
			}
			if len(assignments) == 0 {
				return nil, nil
			}
			return AssignmentListResult{Assignments: assignments}, nil
		},
	})
}
