package commands

import (
	"fmt"
)

// AreaSetup registers one service area's groups and commands.
type AreaSetup func(f *Factory) error

// Factory assembles the command tree at startup. Once Setup returns, the tree
// and its name index are read-only and safe for concurrent use.
type Factory struct {
	root       *Group
	registered map[*Group]bool
	byTool     map[string]*Leaf
	leaves     []*Leaf
}

func NewFactory() *Factory {
	root := NewGroup(RootName, "Azure MCP Server")
	return &Factory{
		root:       root,
		registered: map[*Group]bool{root: true},
		byTool:     make(map[string]*Leaf),
	}
}

func (f *Factory) Root() *Group { return f.root }

// Setup runs each area registration in order and stops at the first error.
func (f *Factory) Setup(areas ...AreaSetup) error {
	for _, area := range areas {
		if err := area(f); err != nil {
			return err
		}
	}
	return nil
}

// Register attaches group under parent, or under the root when parent is nil.
func (f *Factory) Register(group, parent *Group) error {
	if parent == nil {
		parent = f.root
	}
	if !f.registered[parent] {
		return &ConfigurationError{Reason: fmt.Sprintf("parent group %q is not registered", parent.name)}
	}
	if f.registered[group] {
		return &ConfigurationError{Reason: fmt.Sprintf("group %q is already registered", group.name)}
	}
	if err := validateSegment(group.name); err != nil {
		return err
	}
	if parent.hasChild(group.name) {
		return &ConfigurationError{Reason: fmt.Sprintf("duplicate name %q under %q", group.name, ComputeToolName(parent.path()))}
	}

	group.parent = parent
	parent.groups = append(parent.groups, group)
	f.registered[group] = true
	return nil
}

// AddCommand registers cmd as a leaf named name under group.
func (f *Factory) AddCommand(group *Group, name string, cmd Command) error {
	if group == nil {
		group = f.root
	}
	if !f.registered[group] {
		return &ConfigurationError{Reason: fmt.Sprintf("group %q is not registered", group.name)}
	}
	if err := validateSegment(name); err != nil {
		return err
	}
	if group.hasChild(name) {
		return &ConfigurationError{Reason: fmt.Sprintf("duplicate name %q under %q", name, ComputeToolName(group.path()))}
	}

	leaf := &Leaf{name: name, parent: group, Command: cmd}
	leaf.toolName = ComputeToolName(leaf.Path())
	if _, exists := f.byTool[leaf.toolName]; exists {
		return &ConfigurationError{Reason: fmt.Sprintf("tool name %q is already taken", leaf.toolName)}
	}

	group.leaves = append(group.leaves, leaf)
	f.byTool[leaf.toolName] = leaf
	f.leaves = append(f.leaves, leaf)
	return nil
}

// Lookup resolves an external tool name to its leaf.
func (f *Factory) Lookup(toolName string) (*Leaf, bool) {
	leaf, ok := f.byTool[toolName]
	return leaf, ok
}

// Find resolves a command path without the root segment, e.g.
// ["role", "assignment", "list"].
func (f *Factory) Find(path []string) (*Leaf, bool) {
	for _, segment := range path {
		if validateSegment(segment) != nil {
			return nil, false
		}
	}
	full := append([]string{RootName}, path...)
	return f.Lookup(ComputeToolName(full))
}

// Leaves returns every leaf in registration order.
func (f *Factory) Leaves() []*Leaf {
	out := make([]*Leaf, len(f.leaves))
	copy(out, f.leaves)
	return out
}
