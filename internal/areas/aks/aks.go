// Package aks exposes Azure Kubernetes Service cluster commands.
package aks

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-mcp/internal/azure"
	"github.com/Azure/azure-mcp/internal/commands"
	"github.com/Azure/azure-mcp/internal/options"
)

const flagCluster = "cluster"

type Service interface {
	ListClusters(ctx context.Context, subscription string, req azure.RequestOptions) ([]azure.Cluster, error)
	GetCluster(ctx context.Context, subscription, resourceGroup, name string, req azure.RequestOptions) (*azure.Cluster, error)
}

type ClusterListResult struct {
	Clusters []azure.Cluster `json:"clusters"`
}

type ClusterGetOptions struct {
	commands.GlobalOptions
	ResourceGroup string
	Cluster       string
}

type ClusterGetResult struct {
	Cluster *azure.Cluster `json:"cluster"`
}

func Setup(f *commands.Factory) error {
	aks := commands.NewGroup("aks", "Azure Kubernetes Service operations - Commands for managing AKS clusters.")
	cluster := commands.NewGroup("cluster", "AKS cluster operations - Commands for listing and inspecting AKS clusters.")

	if err := f.Register(aks, nil); err != nil {
		return err
	}
	if err := f.Register(cluster, aks); err != nil {
		return err
	}
	if err := f.AddCommand(cluster, "list", NewClusterListCommand()); err != nil {
		return err
	}
	return f.AddCommand(cluster, "get", NewClusterGetCommand())
}

func NewClusterListCommand() commands.Command {
	return commands.New(commands.Definition[commands.GlobalOptions]{
		Description: "List all Azure Kubernetes Service (AKS) clusters in a subscription. Returns cluster details " +
			"including name, location, Kubernetes version and agent pools.",
		Options: []commands.Contributor{commands.WithSubscriptionOptions(), commands.ReadOnly()},
		Bind:    commands.BindGlobal,
		Run: func(ctx context.Context, cc *commands.Context, opts commands.GlobalOptions) (any, error) {
			svc, err := commands.GetService[Service](cc)
			if err != nil {
				return nil, err
			}

			clusters, err := svc.ListClusters(ctx, opts.Subscription, azure.NewRequestOptions(opts))
			if err != nil {
				return nil, err
			}
			if len(clusters) == 0 {
				return nil, nil
			}
			return ClusterListResult{Clusters: clusters}, nil
		},
	})
}

func NewClusterGetCommand() commands.Command {
	return commands.New(commands.Definition[ClusterGetOptions]{
		Description: "Get details of a specific Azure Kubernetes Service (AKS) cluster.",
		Options: []commands.Contributor{
			commands.WithSubscriptionOptions(),
			commands.WithResourceGroup(true),
			commands.WithOption(commands.Option{
				Name:        flagCluster,
				Description: "AKS cluster name.",
				Kind:        commands.KindString,
				Required:    true,
			}),
			commands.WithErrorMapper(commands.MapAs(func(e *azure.NotFoundError) (int, string) {
				return e.StatusCode(), e.Error() + ". Verify the cluster name, resource group, and subscription, and that you have access."
			})),
			commands.ReadOnly(),
		},
		Bind: func(args *commands.ParseResult) (ClusterGetOptions, error) {
			g, err := commands.BindGlobal(args)
			if err != nil {
				return ClusterGetOptions{}, err
			}
			return ClusterGetOptions{
				GlobalOptions: g,
				ResourceGroup: args.String(options.FlagResourceGroup),
				Cluster:       args.String(flagCluster),
			}, nil
		},
		Run: func(ctx context.Context, cc *commands.Context, opts ClusterGetOptions) (any, error) {
			svc, err := commands.GetService[Service](cc)
			if err != nil {
				return nil, err
			}

			cluster, err := svc.GetCluster(ctx, opts.Subscription, opts.ResourceGroup, opts.Cluster, azure.NewRequestOptions(opts.GlobalOptions))
			var nf *azure.NotFoundError
			if azure.IsNotFound(err) && !errors.As(err, &nf) {
				return nil, &azure.NotFoundError{
					Resource:  "AKS cluster",
					Name:      opts.Cluster,
					Container: fmt.Sprintf("resource group '%s' of subscription '%s'", opts.ResourceGroup, opts.Subscription),
				}
			}
			if err != nil {
				return nil, err
			}
			if cluster == nil {
				return nil, nil
			}
			return ClusterGetResult{Cluster: cluster}, nil
		},
	})
}
