// Package azure wraps the Azure Resource Manager SDK clients used by the
// command areas. Credentials are built once per (tenant, auth method) and
// directory listings are memoized through the shared cache.
package azure

import (
	"fmt"
	"os"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/Azure/azure-mcp/internal/logger"
	"github.com/Azure/azure-mcp/internal/options"
)

// AuthConfig is the server-level identity configuration, usually read from
// the AZURE_* environment variables.
type AuthConfig struct {
	AuthMethod         options.AuthMethod
	TenantID           string
	ClientID           string
	ClientSecret       string
	FederatedTokenFile string
}

// CredentialSource hands out token credentials for a tenant. An empty tenant
// or method falls back to the server configuration.
type CredentialSource interface {
	Credential(tenant string, method options.AuthMethod) (azcore.TokenCredential, error)
}

type credentialKey struct {
	tenant string
	method options.AuthMethod
}

// Credentials builds azidentity credentials lazily and reuses them for the
// lifetime of the process.
type Credentials struct {
	config AuthConfig

	mu    sync.Mutex
	creds map[credentialKey]azcore.TokenCredential

	newCredential func(method options.AuthMethod, tenant string, cfg AuthConfig) (azcore.TokenCredential, error)
	getenv        func(string) string
}

func NewCredentials(config AuthConfig) *Credentials {
	if config.AuthMethod == "" {
		config.AuthMethod = options.AuthMethodAuto
	}
	return &Credentials{
		config:        config,
		creds:         make(map[credentialKey]azcore.TokenCredential),
		newCredential: buildCredential,
		getenv:        os.Getenv,
	}
}

func (c *Credentials) Credential(tenant string, method options.AuthMethod) (azcore.TokenCredential, error) {
	if tenant == "" {
		tenant = c.config.TenantID
	}
	if method == "" {
		method = c.config.AuthMethod
	}
	if method == options.AuthMethodAuto {
		method = c.detectAuthMethod()
	}

	key := credentialKey{tenant: tenant, method: method}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cred, ok := c.creds[key]; ok {
		return cred, nil
	}

	cred, err := c.newCredential(method, tenant, c.config)
	if err != nil {
		return nil, fmt.Errorf("creating %s credential: %w", method, err)
	}
	logger.WithFields(logger.Fields{"auth_method": method, "tenant": tenant}).Debug("created Azure credential")
	c.creds[key] = cred
	return cred, nil
}

// detectAuthMethod picks the most specific identity the environment
// provides, falling back to the default credential chain.
func (c *Credentials) detectAuthMethod() options.AuthMethod {
	cfg := c.config
	if cfg.FederatedTokenFile != "" && cfg.ClientID != "" && cfg.TenantID != "" {
		return options.AuthMethodWorkloadIdentity
	}

	if cfg.ClientSecret != "" && cfg.ClientID != "" && cfg.TenantID != "" {
		return options.AuthMethodServicePrincipal
	}

	if c.getenv("MSI_ENDPOINT") != "" || c.getenv("IDENTITY_ENDPOINT") != "" {
		return options.AuthMethodManagedIdentity
	}

	return options.AuthMethodCredential
}

func buildCredential(method options.AuthMethod, tenant string, cfg AuthConfig) (azcore.TokenCredential, error) {
	switch method {
	case options.AuthMethodCredential:
		return azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
			TenantID: tenant,
		})
	case options.AuthMethodAzureCLI:
		return azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{
			TenantID: tenant,
		})
	case options.AuthMethodManagedIdentity:
		opts := &azidentity.ManagedIdentityCredentialOptions{}
		if cfg.ClientID != "" {
			opts.ID = azidentity.ClientID(cfg.ClientID)
		}
		return azidentity.NewManagedIdentityCredential(opts)
	case options.AuthMethodWorkloadIdentity:
		if cfg.FederatedTokenFile == "" {
			return nil, fmt.Errorf("AZURE_FEDERATED_TOKEN_FILE not set")
		}
		return azidentity.NewWorkloadIdentityCredential(&azidentity.WorkloadIdentityCredentialOptions{
			ClientID:      cfg.ClientID,
			TenantID:      tenant,
			TokenFilePath: cfg.FederatedTokenFile,
		})
	case options.AuthMethodServicePrincipal:
		if cfg.ClientSecret == "" {
			return nil, fmt.Errorf("AZURE_CLIENT_SECRET not set")
		}
		return azidentity.NewClientSecretCredential(tenant, cfg.ClientID, cfg.ClientSecret, nil)
	default:
		return nil, fmt.Errorf("unknown auth method: %s (supported: %v)", method, options.AuthMethodNames())
	}
}
