package commands

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

const (
	// Separator joins path segments into a tool name. Segments may contain
	// dashes but never the separator, so names split back into paths.
	Separator = "_"
	RootName  = "azmcp"
)

var segmentPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Group is a non-executable node of the command tree.
type Group struct {
	name        string
	description string
	parent      *Group
	groups      []*Group
	leaves      []*Leaf
}

func NewGroup(name, description string) *Group {
	return &Group{name: name, description: description}
}

func (g *Group) Name() string        { return g.name }
func (g *Group) Description() string { return g.description }
func (g *Group) Groups() []*Group    { return g.groups }
func (g *Group) Leaves() []*Leaf     { return g.leaves }

func (g *Group) hasChild(name string) bool {
	for _, sub := range g.groups {
		if sub.name == name {
			return true
		}
	}
	for _, leaf := range g.leaves {
		if leaf.name == name {
			return true
		}
	}
	return false
}

func (g *Group) path() []string {
	var segments []string
	for n := g; n != nil; n = n.parent {
		segments = append(segments, n.name)
	}
	slices.Reverse(segments)
	return segments
}

// Leaf is an executable node: a Command registered under a name.
type Leaf struct {
	name     string
	parent   *Group
	toolName string
	Command  Command
}

func (l *Leaf) Name() string { return l.name }

// Path returns the segments from the root to this leaf, root included.
func (l *Leaf) Path() []string {
	return append(l.parent.path(), l.name)
}

// ToolName is the external name: the path joined with Separator.
func (l *Leaf) ToolName() string { return l.toolName }

// CommandLine is the path as it is typed on a command line.
func (l *Leaf) CommandLine() string {
	return strings.Join(l.Path(), " ")
}

// Namespace is the top-level group the leaf belongs to.
func (l *Leaf) Namespace() string {
	path := l.Path()
	if len(path) < 2 {
		return ""
	}
	return path[1]
}

// ComputeToolName joins path segments with Separator.
func ComputeToolName(path []string) string {
	return strings.Join(path, Separator)
}

// SplitToolName recovers the path segments of a tool name.
func SplitToolName(name string) []string {
	return strings.Split(name, Separator)
}

func validateSegment(name string) error {
	if !segmentPattern.MatchString(name) {
		return &ConfigurationError{Reason: fmt.Sprintf("invalid command segment %q: use lowercase words joined by '-'", name)}
	}
	return nil
}
