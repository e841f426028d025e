package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v2"
)

type RoleAssignment struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	PrincipalID      string `json:"principalId"`
	PrincipalType    string `json:"principalType,omitempty"`
	RoleDefinitionID string `json:"roleDefinitionId"`
	Scope            string `json:"scope"`
	Description      string `json:"description,omitempty"`
	Condition        string `json:"condition,omitempty"`
}

// RoleService reads role based access control assignments. Results are not
// cached: assignments change often and callers expect to see grants at once.
type RoleService struct {
	base
	subscriptions SubscriptionResolver
	list          func(ctx context.Context, subscriptionID, scope string, cred azcore.TokenCredential, opts *arm.ClientOptions) ([]RoleAssignment, error)
}

func NewRoleService(creds CredentialSource, subscriptions SubscriptionResolver) *RoleService {
	return &RoleService{
		base:          base{creds: creds},
		subscriptions: subscriptions,
		list:          listRoleAssignments,
	}
}

// ListAssignments returns the assignments that apply at scope, which must be
// a full ARM resource ID such as /subscriptions/{id}/resourceGroups/{name}.
func (s *RoleService) ListAssignments(ctx context.Context, subscription, scope string, req RequestOptions) ([]RoleAssignment, error) {
	subscriptionID, err := s.subscriptions.GetSubscriptionID(ctx, subscription, req)
	if err != nil {
		return nil, err
	}

	cred, opts, err := s.client(req)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, subscriptionID, scope, cred, opts)
}

func listRoleAssignments(ctx context.Context, subscriptionID, scope string, cred azcore.TokenCredential, opts *arm.ClientOptions) ([]RoleAssignment, error) {
	client, err := armauthorization.NewRoleAssignmentsClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, fmt.Errorf("creating role assignments client: %w", err)
	}

	var assignments []RoleAssignment
	pager := client.NewListForScopePager(scope, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing role assignments: %w", err)
		}
		for _, ra := range page.Value {
			assignments = append(assignments, toRoleAssignment(ra))
		}
	}
	return assignments, nil
}

func toRoleAssignment(ra *armauthorization.RoleAssignment) RoleAssignment {
	out := RoleAssignment{
		ID:   str(ra.ID),
		Name: str(ra.Name),
	}
	if p := ra.Properties; p != nil {
		out.PrincipalID = str(p.PrincipalID)
		out.PrincipalType = str(p.PrincipalType)
		out.RoleDefinitionID = str(p.RoleDefinitionID)
		out.Scope = str(p.Scope)
		out.Description = str(p.Description)
		out.Condition = str(p.Condition)
	}
	return out
}
