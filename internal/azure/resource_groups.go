package azure

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/Azure/azure-mcp/internal/cache"
)

const (
	ResourceGroupCacheGroup = "resourcegroup"
	resourceGroupCacheTTL   = time.Hour
)

type ResourceGroup struct {
	Name              string `json:"name"`
	ID                string `json:"id"`
	Location          string `json:"location"`
	ProvisioningState string `json:"provisioningState,omitempty"`
}

type ResourceGroupService struct {
	base
	subscriptions SubscriptionResolver
	list          func(ctx context.Context, subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) ([]ResourceGroup, error)
}

func NewResourceGroupService(creds CredentialSource, c cache.Cache, subscriptions SubscriptionResolver) *ResourceGroupService {
	return &ResourceGroupService{
		base:          base{creds: creds, cache: c},
		subscriptions: subscriptions,
		list:          listResourceGroups,
	}
}

func (s *ResourceGroupService) ListResourceGroups(ctx context.Context, subscription string, req RequestOptions) ([]ResourceGroup, error) {
	subscriptionID, err := s.subscriptions.GetSubscriptionID(ctx, subscription, req)
	if err != nil {
		return nil, err
	}

	key := "resourcegroups_" + subscriptionID + req.cacheSuffix()
	return cache.GetOrLoad(ctx, s.cache, ResourceGroupCacheGroup, key, resourceGroupCacheTTL, func(ctx context.Context) ([]ResourceGroup, error) {
		cred, opts, err := s.client(req)
		if err != nil {
			return nil, err
		}
		return s.list(ctx, subscriptionID, cred, opts)
	})
}

func listResourceGroups(ctx context.Context, subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) ([]ResourceGroup, error) {
	client, err := armresources.NewResourceGroupsClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, fmt.Errorf("creating resource groups client: %w", err)
	}

	var groups []ResourceGroup
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing resource groups: %w", err)
		}
		for _, rg := range page.Value {
			groups = append(groups, toResourceGroup(rg))
		}
	}
	return groups, nil
}

func toResourceGroup(rg *armresources.ResourceGroup) ResourceGroup {
	out := ResourceGroup{
		Name:     str(rg.Name),
		ID:       str(rg.ID),
		Location: str(rg.Location),
	}
	if rg.Properties != nil {
		out.ProvisioningState = str(rg.Properties.ProvisioningState)
	}
	return out
}
