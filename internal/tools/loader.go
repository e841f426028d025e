// Package tools adapts the command tree to the MCP tool protocol: every
// visible leaf becomes a tool, and tool calls are routed back to commands.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Azure/azure-mcp/internal/commands"
	"github.com/Azure/azure-mcp/internal/logger"
)

type Config struct {
	// ReadOnly hides commands that are not marked read-only.
	ReadOnly bool
	// Namespaces limits tools to these top-level groups. Empty means all.
	Namespaces []string
	// Deny hides tools whose name equals an entry or continues it with a
	// further "_" segment.
	Deny []string
	// Timeout bounds each call. Zero means no limit beyond the caller's.
	Timeout time.Duration
}

type Loader struct {
	factory  *commands.Factory
	services *commands.Services
	config   Config
}

func NewLoader(factory *commands.Factory, services *commands.Services, config Config) *Loader {
	return &Loader{
		factory:  factory,
		services: services,
		config:   config,
	}
}

// ListTools describes every visible leaf, sorted by tool name.
func (l *Loader) ListTools() []mcp.Tool {
	var tools []mcp.Tool
	for _, leaf := range l.visibleLeaves() {
		tools = append(tools, toTool(leaf))
	}
	return tools
}

// ServerTools pairs each tool with the loader's call handler for registration
// on an MCP server.
func (l *Loader) ServerTools() []server.ServerTool {
	var out []server.ServerTool
	for _, tool := range l.ListTools() {
		out = append(out, server.ServerTool{Tool: tool, Handler: l.CallTool})
	}
	return out
}

// CallTool routes a tool call to its command. Protocol violations become
// error results; command outcomes, failures included, are returned as the
// JSON response envelope.
func (l *Loader) CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.Params.Name

	leaf, ok := l.factory.Lookup(name)
	if !ok || !l.visible(leaf) {
		return mcp.NewToolResultError(fmt.Sprintf("The tool %s was not found", name)), nil
	}

	if request.Params.Arguments == nil {
		return mcp.NewToolResultError("Cannot call tools with null arguments."), nil
	}
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Arguments for %s must be a JSON object.", name)), nil
	}

	tokens, err := ArgsToTokens(args)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments for %s: %v", name, err)), nil
	}

	resp := l.invoke(ctx, leaf, tokens)

	body, err := json.Marshal(resp)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}

	result := mcp.NewToolResultText(string(body))
	result.IsError = resp.Status >= 300
	return result, nil
}

// Exec runs the command at path, given without the root segment, with
// CLI-style tokens. Filters apply as they do to tool calls.
func (l *Loader) Exec(ctx context.Context, path []string, tokens []string) (*commands.Response, error) {
	leaf, ok := l.factory.Find(path)
	if !ok || !l.visible(leaf) {
		return nil, fmt.Errorf("command %q not found", strings.Join(path, " "))
	}
	return l.invoke(ctx, leaf, tokens), nil
}

func (l *Loader) invoke(ctx context.Context, leaf *commands.Leaf, tokens []string) *commands.Response {
	cc := commands.NewContext(l.services)
	cc.Log = logger.WithFields(logger.Fields{
		"tool":    leaf.ToolName(),
		"call_id": uuid.NewString(),
	})

	if l.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.config.Timeout)
		defer cancel()
	}

	cc.Log.Debugf("calling %s", leaf.CommandLine())
	resp := commands.Invoke(ctx, cc, leaf.Command, tokens)
	cc.Log.WithFields(logger.Fields{"status": resp.Status, "duration_ms": resp.Duration}).Info("tool call completed")
	return resp
}

// ArgsToTokens renders protocol arguments as --name=value tokens, sorted by
// name. A true boolean becomes a bare --name and false stays explicit as
// --name=false so it can override a true default. Nulls are dropped; arrays
// and objects are passed as JSON.
func ArgsToTokens(args map[string]any) ([]string, error) {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	tokens := make([]string, 0, len(names))
	for _, name := range names {
		if b, ok := args[name].(bool); ok {
			if b {
				tokens = append(tokens, "--"+name)
			} else {
				tokens = append(tokens, "--"+name+"=false")
			}
			continue
		}
		value, err := formatArg(args[name])
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
		if value == nil {
			continue
		}
		tokens = append(tokens, "--"+name+"="+*value)
	}
	return tokens, nil
}

func formatArg(v any) (*string, error) {
	var s string
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		s = v.String()
	case int, int32, int64:
		s = fmt.Sprint(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		s = string(b)
	}
	return &s, nil
}

func (l *Loader) visibleLeaves() []*commands.Leaf {
	var leaves []*commands.Leaf
	for _, leaf := range l.factory.Leaves() {
		if l.visible(leaf) {
			leaves = append(leaves, leaf)
		}
	}
	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].ToolName() < leaves[j].ToolName()
	})
	return leaves
}

func (l *Loader) visible(leaf *commands.Leaf) bool {
	if l.config.ReadOnly && !leaf.Command.Spec().ReadOnly {
		return false
	}
	if len(l.config.Namespaces) > 0 && !slices.Contains(l.config.Namespaces, leaf.Namespace()) {
		return false
	}
	for _, deny := range l.config.Deny {
		if denies(deny, leaf.ToolName()) {
			return false
		}
	}
	return true
}

// denies matches whole name segments only, so "azmcp_aks_cluster_get" does not
// hide "azmcp_aks_cluster_get-credentials".
func denies(entry, name string) bool {
	entry = strings.TrimSuffix(entry, commands.Separator)
	if entry == "" {
		return false
	}
	return name == entry || strings.HasPrefix(name, entry+commands.Separator)
}

func toTool(leaf *commands.Leaf) mcp.Tool {
	spec := leaf.Command.Spec()
	opts := []mcp.ToolOption{
		mcp.WithDescription(leaf.Command.Description()),
		mcp.WithReadOnlyHintAnnotation(spec.ReadOnly),
		mcp.WithDestructiveHintAnnotation(spec.Destructive),
	}

	for _, o := range spec.Options {
		props := []mcp.PropertyOption{mcp.Description(o.Description)}
		if o.Required {
			props = append(props, mcp.Required())
		}

		switch o.Kind {
		case commands.KindInt, commands.KindFloat:
			if d, ok := defaultNumber(o.Default); ok {
				props = append(props, mcp.DefaultNumber(d))
			}
			opts = append(opts, mcp.WithNumber(o.Name, props...))
		case commands.KindBool:
			if d, ok := o.Default.(bool); ok {
				props = append(props, mcp.DefaultBool(d))
			}
			opts = append(opts, mcp.WithBoolean(o.Name, props...))
		case commands.KindEnum:
			props = append(props, mcp.Enum(o.Values...))
			if d, ok := o.Default.(string); ok && d != "" {
				props = append(props, mcp.DefaultString(d))
			}
			opts = append(opts, mcp.WithString(o.Name, props...))
		default:
			if d, ok := o.Default.(string); ok && d != "" {
				props = append(props, mcp.DefaultString(d))
			}
			opts = append(opts, mcp.WithString(o.Name, props...))
		}
	}

	return mcp.NewTool(leaf.ToolName(), opts...)
}

func defaultNumber(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
