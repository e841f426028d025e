// Package tools exposes introspection over the registered command tree.
package tools

import (
	"context"

	"github.com/Azure/azure-mcp/internal/commands"
)

type OptionInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type"`
	Required    bool     `json:"required,omitempty"`
	Values      []string `json:"values,omitempty"`
}

type ToolInfo struct {
	Name        string       `json:"name"`
	Command     string       `json:"command"`
	Description string       `json:"description"`
	ReadOnly    bool         `json:"readOnly"`
	Options     []OptionInfo `json:"options,omitempty"`
}

type ListResult struct {
	Tools []ToolInfo `json:"tools"`
}

func Setup(f *commands.Factory) error {
	group := commands.NewGroup("tools", "CLI tools operations - Commands for discovering the tools this server exposes.")
	if err := f.Register(group, nil); err != nil {
		return err
	}
	return f.AddCommand(group, "list", NewListCommand())
}

// NewListCommand lists every leaf of the factory registered in the services.
func NewListCommand() commands.Command {
	return commands.New(commands.Definition[struct{}]{
		Description: "List all available commands and their tools in a hierarchical structure. This command returns " +
			"detailed information about each command, including its name, description, full command path and options.",
		Options: []commands.Contributor{commands.ReadOnly()},
		Bind:    commands.NoOptions,
		Run: func(ctx context.Context, cc *commands.Context, _ struct{}) (any, error) {
			factory, err := commands.GetService[*commands.Factory](cc)
			if err != nil {
				return nil, err
			}

			var tools []ToolInfo
			for _, leaf := range factory.Leaves() {
				tools = append(tools, describe(leaf))
			}
			if len(tools) == 0 {
				return nil, nil
			}
			return ListResult{Tools: tools}, nil
		},
	})
}

func describe(leaf *commands.Leaf) ToolInfo {
	spec := leaf.Command.Spec()
	info := ToolInfo{
		Name:        leaf.ToolName(),
		Command:     leaf.CommandLine(),
		Description: leaf.Command.Description(),
		ReadOnly:    spec.ReadOnly,
	}
	for _, o := range spec.Options {
		info.Options = append(info.Options, OptionInfo{
			Name:        o.Name,
			Description: o.Description,
			Type:        o.Kind.String(),
			Required:    o.Required,
			Values:      o.Values,
		})
	}
	return info
}
