package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Azure/azure-mcp/internal/areas/aks"
	"github.com/Azure/azure-mcp/internal/areas/group"
	"github.com/Azure/azure-mcp/internal/areas/role"
	"github.com/Azure/azure-mcp/internal/areas/subscription"
	toolsarea "github.com/Azure/azure-mcp/internal/areas/tools"
	"github.com/Azure/azure-mcp/internal/azure"
	"github.com/Azure/azure-mcp/internal/cache"
	"github.com/Azure/azure-mcp/internal/commands"
	"github.com/Azure/azure-mcp/internal/config"
	"github.com/Azure/azure-mcp/internal/logger"
	mcpserver "github.com/Azure/azure-mcp/internal/server"
	"github.com/Azure/azure-mcp/internal/tools"
	"github.com/Azure/azure-mcp/internal/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "exec" {
		os.Exit(runExec(os.Args[2:]))
	}

	cfg := config.NewConfig()
	if err := cfg.ParseFlags(); err != nil {
		logger.Fatalf("Configuration error: %v", err)
	}
	configureLogger(cfg)

	loader, err := newLoader(cfg)
	if err != nil {
		logger.Fatalf("Startup error: %v", err)
	}

	s := mcpserver.New(loader)

	logger.Infof("Starting %s (version %s)", version.ServerName, version.GetVersion())
	if err := mcpserver.Run(s, mcpserver.Options{
		Transport: cfg.Transport,
		Host:      cfg.Host,
		Port:      cfg.Port,
	}); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}

// runExec invokes a single command and prints its response envelope:
//
//	azmcp exec role assignment list --subscription <id> --scope <scope>
func runExec(args []string) int {
	cfg := config.NewConfig()
	cfg.LogLevel = "warn"
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 2
	}
	configureLogger(cfg)

	path, tokens := splitCommandLine(args)
	if len(path) == 0 {
		fmt.Fprintln(os.Stderr, "usage: azmcp exec <group...> <command> [--option value...]")
		return 2
	}

	loader, err := newLoader(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Startup error: %v\n", err)
		return 1
	}

	resp, err := loader.Exec(context.Background(), path, tokens)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding response: %v\n", err)
		return 1
	}
	fmt.Println(string(out))

	if !resp.IsSuccess() {
		return 1
	}
	return 0
}

// splitCommandLine separates leading path segments from option tokens.
func splitCommandLine(args []string) ([]string, []string) {
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return args[:i], args[i:]
		}
	}
	return args, nil
}

func configureLogger(cfg *config.Config) {
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warnf("Invalid log level %q, keeping %s", cfg.LogLevel, logger.GetLevel())
	}
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		logger.Warnf("Invalid log format %q: %v", cfg.LogFormat, err)
	}
}

func newLoader(cfg *config.Config) (*tools.Loader, error) {
	filter, err := config.LoadToolFilter(cfg.ToolFilterFile)
	if err != nil {
		return nil, err
	}

	creds := azure.NewCredentials(azure.AuthConfig{
		AuthMethod:         cfg.AuthMethodValue(),
		TenantID:           cfg.TenantID,
		ClientID:           cfg.ClientID,
		ClientSecret:       cfg.ClientSecret,
		FederatedTokenFile: cfg.FederatedTokenFile,
	})
	c := cache.NewMemoryCache()
	subscriptions := azure.NewSubscriptionService(creds, c)

	services := commands.NewServices()
	commands.Provide[subscription.Service](services, subscriptions)
	commands.Provide[group.Service](services, azure.NewResourceGroupService(creds, c, subscriptions))
	commands.Provide[role.Service](services, azure.NewRoleService(creds, subscriptions))
	commands.Provide[aks.Service](services, azure.NewClusterService(creds, c, subscriptions))

	factory := commands.NewFactory()
	if err := factory.Setup(
		subscription.Setup,
		group.Setup,
		role.Setup,
		aks.Setup,
		toolsarea.Setup,
	); err != nil {
		return nil, fmt.Errorf("building command tree: %w", err)
	}
	commands.Provide(services, factory)

	if cfg.DefaultSubscription != "" {
		logger.Infof("Using default subscription %s from AZURE_SUBSCRIPTION_ID", cfg.DefaultSubscription)
	}

	loader := tools.NewLoader(factory, services, tools.Config{
		ReadOnly:   cfg.ReadOnly,
		Namespaces: filter.MergeNamespaces(cfg.Namespaces),
		Deny:       filter.Deny,
		Timeout:    cfg.TimeoutDuration(),
	})
	logger.Infof("Registered %d tools (read-only: %t)", len(loader.ListTools()), cfg.ReadOnly)
	return loader, nil
}
