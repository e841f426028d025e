package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopCommand() Command {
	return New(Definition[struct{}]{
		Description: "noop",
		Options:     []Contributor{ReadOnly()},
		Bind:        NoOptions,
		Run: func(ctx context.Context, cc *Context, _ struct{}) (any, error) {
			return nil, nil
		},
	})
}

func TestFactory_ToolNames(t *testing.T) {
	f := NewFactory()
	role := NewGroup("role", "Role based access control")
	assignment := NewGroup("assignment", "Role assignments")
	require.NoError(t, f.Register(role, nil))
	require.NoError(t, f.Register(assignment, role))
	require.NoError(t, f.AddCommand(assignment, "list", noopCommand()))
	require.NoError(t, f.AddCommand(role, "list-roles", noopCommand()))

	leaf, ok := f.Lookup("azmcp_role_assignment_list")
	require.True(t, ok)
	assert.Equal(t, []string{"azmcp", "role", "assignment", "list"}, leaf.Path())
	assert.Equal(t, "role", leaf.Namespace())

	leaf, ok = f.Lookup("azmcp_role_list-roles")
	require.True(t, ok)
	assert.Equal(t, "list-roles", leaf.Name())

	found, ok := f.Find([]string{"role", "assignment", "list"})
	require.True(t, ok)
	assert.Equal(t, "azmcp_role_assignment_list", found.ToolName())

	_, ok = f.Find([]string{"role_assignment", "list"})
	assert.False(t, ok)
}

func TestFactory_NamesAreInjective(t *testing.T) {
	f := NewFactory()
	shapes := [][]string{
		{"role", "list-roles"},
		{"role-list", "roles"},
		{"role", "list", "roles"},
		{"storage", "account", "list"},
		{"storage-account", "list"},
		{"storage", "account-list"},
		{"a-b", "c"},
		{"a", "b-c"},
		{"a", "b", "c"},
	}

	for _, shape := range shapes {
		parent := f.Root()
		for _, segment := range shape[:len(shape)-1] {
			parent = ensureGroup(t, f, parent, segment)
		}
		require.NoError(t, f.AddCommand(parent, shape[len(shape)-1], noopCommand()), "shape %v", shape)
	}

	seen := map[string][]string{}
	for _, leaf := range f.Leaves() {
		if prev, dup := seen[leaf.ToolName()]; dup {
			t.Fatalf("paths %v and %v share tool name %s", prev, leaf.Path(), leaf.ToolName())
		}
		seen[leaf.ToolName()] = leaf.Path()
	}
	assert.Len(t, seen, len(shapes))
}

func TestFactory_SeparatorRoundTrip(t *testing.T) {
	f := NewFactory()
	sql := NewGroup("sql", "SQL")
	db := NewGroup("db", "Databases")
	require.NoError(t, f.Register(sql, nil))
	require.NoError(t, f.Register(db, sql))
	require.NoError(t, f.AddCommand(db, "list-firewall-rules", noopCommand()))
	require.NoError(t, f.AddCommand(db, "show", noopCommand()))

	for _, leaf := range f.Leaves() {
		segments := SplitToolName(leaf.ToolName())
		assert.Equal(t, leaf.Path(), segments)
		assert.Equal(t, leaf.CommandLine(), strings.Join(segments, " "))
	}
	assert.Equal(t, "azmcp sql db list-firewall-rules", f.Leaves()[0].CommandLine())
}

func TestFactory_RegistrationErrors(t *testing.T) {
	var cfgErr *ConfigurationError

	t.Run("duplicate group", func(t *testing.T) {
		f := NewFactory()
		require.NoError(t, f.Register(NewGroup("storage", ""), nil))
		err := f.Register(NewGroup("storage", ""), nil)
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("same group twice", func(t *testing.T) {
		f := NewFactory()
		g := NewGroup("storage", "")
		require.NoError(t, f.Register(g, nil))
		assert.Error(t, f.Register(g, nil))
	})

	t.Run("duplicate command", func(t *testing.T) {
		f := NewFactory()
		g := NewGroup("storage", "")
		require.NoError(t, f.Register(g, nil))
		require.NoError(t, f.AddCommand(g, "list", noopCommand()))
		assert.Error(t, f.AddCommand(g, "list", noopCommand()))
	})

	t.Run("command clashes with group", func(t *testing.T) {
		f := NewFactory()
		g := NewGroup("storage", "")
		require.NoError(t, f.Register(g, nil))
		require.NoError(t, f.Register(NewGroup("account", ""), g))
		assert.Error(t, f.AddCommand(g, "account", noopCommand()))
	})

	t.Run("unregistered parent", func(t *testing.T) {
		f := NewFactory()
		orphan := NewGroup("orphan", "")
		assert.Error(t, f.Register(NewGroup("child", ""), orphan))
		assert.Error(t, f.AddCommand(orphan, "list", noopCommand()))
	})

	for _, bad := range []string{"assignment_list", "List", "-list", "list-", "a--b", ""} {
		t.Run(fmt.Sprintf("invalid segment %q", bad), func(t *testing.T) {
			f := NewFactory()
			assert.Error(t, f.AddCommand(nil, bad, noopCommand()))
			assert.Error(t, f.Register(NewGroup(bad, ""), nil))
		})
	}
}

func ensureGroup(t *testing.T, f *Factory, parent *Group, name string) *Group {
	t.Helper()
	for _, g := range parent.Groups() {
		if g.Name() == name {
			return g
		}
	}
	g := NewGroup(name, "")
	require.NoError(t, f.Register(g, parent))
	return g
}
