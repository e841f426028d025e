package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azure/azure-mcp/internal/config"
)

func TestSplitCommandLine(t *testing.T) {
	path, tokens := splitCommandLine([]string{"role", "assignment", "list", "--scope", "/subscriptions/x"})
	assert.Equal(t, []string{"role", "assignment", "list"}, path)
	assert.Equal(t, []string{"--scope", "/subscriptions/x"}, tokens)

	path, tokens = splitCommandLine([]string{"tools", "list"})
	assert.Equal(t, []string{"tools", "list"}, path)
	assert.Empty(t, tokens)
}

func TestNewLoader(t *testing.T) {
	cfg := config.NewConfig()
	loader, err := newLoader(cfg)
	require.NoError(t, err)

	var names []string
	for _, tool := range loader.ListTools() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{
		"azmcp_aks_cluster_get",
		"azmcp_aks_cluster_list",
		"azmcp_group_list",
		"azmcp_role_assignment_list",
		"azmcp_subscription_list",
		"azmcp_tools_list",
	}, names)

	cfg.Namespaces = []string{"role"}
	loader, err = newLoader(cfg)
	require.NoError(t, err)
	assert.Len(t, loader.ListTools(), 1)
}
