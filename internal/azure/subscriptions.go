package azure

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/google/uuid"

	"github.com/Azure/azure-mcp/internal/cache"
)

const (
	SubscriptionCacheGroup = "subscription"
	subscriptionCacheTTL   = 12 * time.Hour
)

type Subscription struct {
	ID       string `json:"subscriptionId"`
	Name     string `json:"displayName"`
	State    string `json:"state,omitempty"`
	TenantID string `json:"tenantId,omitempty"`
}

type SubscriptionService struct {
	base
	list func(ctx context.Context, cred azcore.TokenCredential, opts *arm.ClientOptions) ([]Subscription, error)
}

func NewSubscriptionService(creds CredentialSource, c cache.Cache) *SubscriptionService {
	return &SubscriptionService{
		base: base{creds: creds, cache: c},
		list: listSubscriptions,
	}
}

// ListSubscriptions returns the subscriptions visible to the caller, sorted
// by display name.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, req RequestOptions) ([]Subscription, error) {
	key := "subscriptions" + req.cacheSuffix()
	return cache.GetOrLoad(ctx, s.cache, SubscriptionCacheGroup, key, subscriptionCacheTTL, func(ctx context.Context) ([]Subscription, error) {
		cred, opts, err := s.client(req)
		if err != nil {
			return nil, err
		}
		return s.list(ctx, cred, opts)
	})
}

// GetSubscriptionID accepts either a subscription GUID, returned unchanged,
// or a display name matched case-insensitively.
func (s *SubscriptionService) GetSubscriptionID(ctx context.Context, subscription string, req RequestOptions) (string, error) {
	if _, err := uuid.Parse(subscription); err == nil {
		return subscription, nil
	}

	subs, err := s.ListSubscriptions(ctx, req)
	if err != nil {
		return "", fmt.Errorf("resolving subscription %q: %w", subscription, err)
	}
	for _, sub := range subs {
		if strings.EqualFold(sub.Name, subscription) {
			return sub.ID, nil
		}
	}
	return "", &NotFoundError{Resource: "Subscription", Name: subscription}
}

func listSubscriptions(ctx context.Context, cred azcore.TokenCredential, opts *arm.ClientOptions) ([]Subscription, error) {
	client, err := armsubscriptions.NewClient(cred, opts)
	if err != nil {
		return nil, fmt.Errorf("creating subscriptions client: %w", err)
	}

	var subs []Subscription
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing subscriptions: %w", err)
		}
		for _, sub := range page.Value {
			subs = append(subs, toSubscription(sub))
		}
	}

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].Name < subs[j].Name
	})
	return subs, nil
}

func toSubscription(sub *armsubscriptions.Subscription) Subscription {
	return Subscription{
		ID:       str(sub.SubscriptionID),
		Name:     str(sub.DisplayName),
		State:    str(sub.State),
		TenantID: str(sub.TenantID),
	}
}
