package azure

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice/v2"

	"github.com/Azure/azure-mcp/internal/cache"
)

const (
	ClusterCacheGroup = "aks"
	clusterCacheTTL   = time.Hour
)

type AgentPool struct {
	Name   string `json:"name"`
	Count  int32  `json:"count"`
	VMSize string `json:"vmSize,omitempty"`
	Mode   string `json:"mode,omitempty"`
	OSType string `json:"osType,omitempty"`
}

type Cluster struct {
	Name              string      `json:"name"`
	ID                string      `json:"id"`
	Location          string      `json:"location"`
	ResourceGroup     string      `json:"resourceGroup,omitempty"`
	KubernetesVersion string      `json:"kubernetesVersion,omitempty"`
	ProvisioningState string      `json:"provisioningState,omitempty"`
	PowerState        string      `json:"powerState,omitempty"`
	DNSPrefix         string      `json:"dnsPrefix,omitempty"`
	FQDN              string      `json:"fqdn,omitempty"`
	NodeResourceGroup string      `json:"nodeResourceGroup,omitempty"`
	SKUTier           string      `json:"skuTier,omitempty"`
	AgentPools        []AgentPool `json:"agentPools,omitempty"`
}

// ClusterService reads Azure Kubernetes Service managed clusters.
type ClusterService struct {
	base
	subscriptions SubscriptionResolver
	list          func(ctx context.Context, subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) ([]Cluster, error)
	get           func(ctx context.Context, subscriptionID, resourceGroup, name string, cred azcore.TokenCredential, opts *arm.ClientOptions) (Cluster, error)
}

func NewClusterService(creds CredentialSource, c cache.Cache, subscriptions SubscriptionResolver) *ClusterService {
	return &ClusterService{
		base:          base{creds: creds, cache: c},
		subscriptions: subscriptions,
		list:          listClusters,
		get:           getCluster,
	}
}

func (s *ClusterService) ListClusters(ctx context.Context, subscription string, req RequestOptions) ([]Cluster, error) {
	subscriptionID, err := s.subscriptions.GetSubscriptionID(ctx, subscription, req)
	if err != nil {
		return nil, err
	}

	key := "clusters_" + subscriptionID + req.cacheSuffix()
	return cache.GetOrLoad(ctx, s.cache, ClusterCacheGroup, key, clusterCacheTTL, func(ctx context.Context) ([]Cluster, error) {
		cred, opts, err := s.client(req)
		if err != nil {
			return nil, err
		}
		return s.list(ctx, subscriptionID, cred, opts)
	})
}

// GetCluster reads one cluster. A missing cluster surfaces as the SDK's 404
// response error.
func (s *ClusterService) GetCluster(ctx context.Context, subscription, resourceGroup, name string, req RequestOptions) (*Cluster, error) {
	subscriptionID, err := s.subscriptions.GetSubscriptionID(ctx, subscription, req)
	if err != nil {
		return nil, err
	}

	cred, opts, err := s.client(req)
	if err != nil {
		return nil, err
	}
	cluster, err := s.get(ctx, subscriptionID, resourceGroup, name, cred, opts)
	if err != nil {
		return nil, err
	}
	return &cluster, nil
}

func listClusters(ctx context.Context, subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) ([]Cluster, error) {
	client, err := armcontainerservice.NewManagedClustersClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, fmt.Errorf("creating managed clusters client: %w", err)
	}

	var clusters []Cluster
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing managed clusters: %w", err)
		}
		for _, mc := range page.Value {
			clusters = append(clusters, toCluster(mc))
		}
	}
	return clusters, nil
}

func getCluster(ctx context.Context, subscriptionID, resourceGroup, name string, cred azcore.TokenCredential, opts *arm.ClientOptions) (Cluster, error) {
	client, err := armcontainerservice.NewManagedClustersClient(subscriptionID, cred, opts)
	if err != nil {
		return Cluster{}, fmt.Errorf("creating managed clusters client: %w", err)
	}

	resp, err := client.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return Cluster{}, err
	}
	return toCluster(&resp.ManagedCluster), nil
}

func toCluster(mc *armcontainerservice.ManagedCluster) Cluster {
	out := Cluster{
		Name:     str(mc.Name),
		ID:       str(mc.ID),
		Location: str(mc.Location),
	}
	if id, err := arm.ParseResourceID(out.ID); err == nil {
		out.ResourceGroup = id.ResourceGroupName
	}
	if mc.SKU != nil {
		out.SKUTier = str(mc.SKU.Tier)
	}

	p := mc.Properties
	if p == nil {
		return out
	}
	out.KubernetesVersion = str(p.KubernetesVersion)
	out.ProvisioningState = str(p.ProvisioningState)
	out.DNSPrefix = str(p.DNSPrefix)
	out.FQDN = str(p.Fqdn)
	out.NodeResourceGroup = str(p.NodeResourceGroup)
	if p.PowerState != nil {
		out.PowerState = str(p.PowerState.Code)
	}
	for _, pool := range p.AgentPoolProfiles {
		ap := AgentPool{
			Name:   str(pool.Name),
			VMSize: str(pool.VMSize),
			Mode:   str(pool.Mode),
			OSType: str(pool.OSType),
		}
		if pool.Count != nil {
			ap.Count = *pool.Count
		}
		out.AgentPools = append(out.AgentPools, ap)
	}
	return out
}
