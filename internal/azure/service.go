package azure

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"

	"github.com/Azure/azure-mcp/internal/cache"
)

// SubscriptionResolver turns a subscription ID or display name into an ID.
type SubscriptionResolver interface {
	GetSubscriptionID(ctx context.Context, subscription string, req RequestOptions) (string, error)
}

type base struct {
	creds CredentialSource
	cache cache.Cache
}

func (b base) client(req RequestOptions) (azcore.TokenCredential, *arm.ClientOptions, error) {
	cred, err := b.creds.Credential(req.Tenant, req.AuthMethod)
	if err != nil {
		return nil, nil, err
	}
	return cred, ClientOptions(req.Retry), nil
}

func str[T ~string](p *T) string {
	if p == nil {
		return ""
	}
	return string(*p)
}
