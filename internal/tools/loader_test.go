package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azure/azure-mcp/internal/commands"
)

type fakeRun struct {
	callCount int
	lastName  string
	lastLimit int
	result    any
	err       error
}

type listOptions struct {
	Name  string
	Limit int
}

func (f *fakeRun) command() commands.Command {
	return commands.New(commands.Definition[listOptions]{
		Description: "List storage accounts",
		Options: []commands.Contributor{
			commands.WithOption(commands.Option{Name: "name", Description: "Account name", Kind: commands.KindString, Required: true}),
			commands.WithOption(commands.Option{Name: "limit", Description: "Page size", Kind: commands.KindInt, Default: 50}),
			commands.WithOption(commands.Option{Name: "tier", Kind: commands.KindEnum, Values: []string{"hot", "cool"}}),
			commands.WithOption(commands.Option{Name: "verbose", Kind: commands.KindBool}),
			commands.ReadOnly(),
		},
		Bind: func(args *commands.ParseResult) (listOptions, error) {
			return listOptions{Name: args.String("name"), Limit: args.Int("limit")}, nil
		},
		Run: func(ctx context.Context, cc *commands.Context, opts listOptions) (any, error) {
			f.callCount++
			f.lastName = opts.Name
			f.lastLimit = opts.Limit
			return f.result, f.err
		},
	})
}

func destructiveCommand() commands.Command {
	return commands.New(commands.Definition[struct{}]{
		Description: "Delete a storage account",
		Options:     []commands.Contributor{commands.Destructive()},
		Bind:        commands.NoOptions,
		Run: func(ctx context.Context, cc *commands.Context, _ struct{}) (any, error) {
			return nil, nil
		},
	})
}

func slowCommand() commands.Command {
	return commands.New(commands.Definition[struct{}]{
		Description: "Waits for cancellation",
		Options:     []commands.Contributor{commands.ReadOnly()},
		Bind:        commands.NoOptions,
		Run: func(ctx context.Context, cc *commands.Context, _ struct{}) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})
}

func newFactory(t *testing.T, run *fakeRun) *commands.Factory {
	t.Helper()
	f := commands.NewFactory()
	storage := commands.NewGroup("storage", "Storage")
	account := commands.NewGroup("account", "Accounts")
	monitor := commands.NewGroup("monitor", "Monitor")
	require.NoError(t, f.Register(storage, nil))
	require.NoError(t, f.Register(account, storage))
	require.NoError(t, f.Register(monitor, nil))
	require.NoError(t, f.AddCommand(account, "list", run.command()))
	require.NoError(t, f.AddCommand(account, "delete", destructiveCommand()))
	require.NoError(t, f.AddCommand(monitor, "wait", slowCommand()))
	return f
}

func callRequest(name string, args any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func envelope(t *testing.T, result *mcp.CallToolResult) commands.Response {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var resp commands.Response
	require.NoError(t, json.Unmarshal([]byte(text.Text), &resp))
	return resp
}

func toolNames(tools []mcp.Tool) []string {
	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	return names
}

func TestListTools(t *testing.T) {
	loader := NewLoader(newFactory(t, &fakeRun{}), commands.NewServices(), Config{})

	tools := loader.ListTools()
	require.Equal(t, []string{"azmcp_monitor_wait", "azmcp_storage_account_delete", "azmcp_storage_account_list"}, toolNames(tools))

	list := tools[2]
	assert.Equal(t, "List storage accounts", list.Description)
	assert.Equal(t, []string{"name"}, list.InputSchema.Required)
	require.Contains(t, list.InputSchema.Properties, "limit")
	assert.Equal(t, "number", list.InputSchema.Properties["limit"].(map[string]any)["type"])
	assert.Equal(t, "boolean", list.InputSchema.Properties["verbose"].(map[string]any)["type"])
	assert.Equal(t, []string{"hot", "cool"}, list.InputSchema.Properties["tier"].(map[string]any)["enum"])
	require.NotNil(t, list.Annotations.ReadOnlyHint)
	assert.True(t, *list.Annotations.ReadOnlyHint)

	del := tools[1]
	require.NotNil(t, del.Annotations.DestructiveHint)
	assert.True(t, *del.Annotations.DestructiveHint)
}

func TestListTools_Filters(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   []string
	}{
		{
			name:   "read only",
			config: Config{ReadOnly: true},
			want:   []string{"azmcp_monitor_wait", "azmcp_storage_account_list"},
		},
		{
			name:   "namespace",
			config: Config{Namespaces: []string{"storage"}},
			want:   []string{"azmcp_storage_account_delete", "azmcp_storage_account_list"},
		},
		{
			name:   "deny exact name",
			config: Config{Deny: []string{"azmcp_storage_account_delete"}},
			want:   []string{"azmcp_monitor_wait", "azmcp_storage_account_list"},
		},
		{
			name:   "deny group",
			config: Config{Deny: []string{"azmcp_storage_"}},
			want:   []string{"azmcp_monitor_wait"},
		},
		{
			name:   "deny partial segment",
			config: Config{Deny: []string{"azmcp_storage_account_d", "azmcp_monitor_wai"}},
			want:   []string{"azmcp_monitor_wait", "azmcp_storage_account_delete", "azmcp_storage_account_list"},
		},
		{
			name:   "combined",
			config: Config{ReadOnly: true, Namespaces: []string{"storage"}},
			want:   []string{"azmcp_storage_account_list"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(newFactory(t, &fakeRun{}), commands.NewServices(), tt.config)
			assert.Equal(t, tt.want, toolNames(loader.ListTools()))
			assert.Len(t, loader.ServerTools(), len(tt.want))
		})
	}
}

func TestCallTool(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		tool      string
		args      any
		run       *fakeRun
		isError   bool
		status    int
		message   string
		wantCalls int
	}{
		{
			name:      "success",
			tool:      "azmcp_storage_account_list",
			args:      map[string]any{"name": "acct", "limit": float64(5), "verbose": true, "tier": nil},
			run:       &fakeRun{result: map[string]any{"accounts": []string{"acct"}}},
			status:    http.StatusOK,
			message:   commands.SuccessMessage,
			wantCalls: 1,
		},
		{
			name:      "missing required option",
			tool:      "azmcp_storage_account_list",
			args:      map[string]any{},
			run:       &fakeRun{},
			isError:   true,
			status:    http.StatusBadRequest,
			message:   "Missing Required options: --name",
			wantCalls: 0,
		},
		{
			name:      "unknown argument",
			tool:      "azmcp_storage_account_list",
			args:      map[string]any{"name": "acct", "colour": "blue"},
			run:       &fakeRun{},
			isError:   true,
			status:    http.StatusBadRequest,
			wantCalls: 0,
		},
		{
			name:      "command failure",
			tool:      "azmcp_storage_account_list",
			args:      map[string]any{"name": "acct"},
			run:       &fakeRun{err: assert.AnError},
			isError:   true,
			status:    http.StatusInternalServerError,
			wantCalls: 1,
		},
		{
			name:      "timeout",
			config:    Config{Timeout: 10 * time.Millisecond},
			tool:      "azmcp_monitor_wait",
			args:      map[string]any{},
			run:       &fakeRun{},
			isError:   true,
			status:    http.StatusRequestTimeout,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(newFactory(t, tt.run), commands.NewServices(), tt.config)

			result, err := loader.CallTool(context.Background(), callRequest(tt.tool, tt.args))
			require.NoError(t, err)

			assert.Equal(t, tt.isError, result.IsError)
			resp := envelope(t, result)
			assert.Equal(t, tt.status, resp.Status)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Message)
			}
			assert.Equal(t, tt.wantCalls, tt.run.callCount)
		})
	}
}

func TestCallTool_BindsArguments(t *testing.T) {
	run := &fakeRun{result: []string{"acct"}}
	loader := NewLoader(newFactory(t, run), commands.NewServices(), Config{})

	result, err := loader.CallTool(context.Background(), callRequest("azmcp_storage_account_list", map[string]any{
		"name":  "-leading-dash",
		"limit": float64(7),
	}))
	require.NoError(t, err)

	resp := envelope(t, result)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []any{"acct"}, resp.Results)
	assert.Equal(t, "-leading-dash", run.lastName)
	assert.Equal(t, 7, run.lastLimit)
}

func TestCallTool_ProtocolErrors(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args any
	}{
		{name: "null arguments", tool: "azmcp_storage_account_list", args: nil},
		{name: "arguments not an object", tool: "azmcp_storage_account_list", args: []any{"name"}},
		{name: "unknown tool", tool: "azmcp_storage_blob_list", args: map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &fakeRun{}
			loader := NewLoader(newFactory(t, run), commands.NewServices(), Config{})

			result, err := loader.CallTool(context.Background(), callRequest(tt.tool, tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Equal(t, 0, run.callCount)
		})
	}
}

func TestCallTool_HiddenToolIsNotFound(t *testing.T) {
	loader := NewLoader(newFactory(t, &fakeRun{}), commands.NewServices(), Config{ReadOnly: true})

	result, err := loader.CallTool(context.Background(), callRequest("azmcp_storage_account_delete", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	text := result.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "was not found")
}

func TestCallTool_RecoversPanics(t *testing.T) {
	f := commands.NewFactory()
	monitor := commands.NewGroup("monitor", "Monitor")
	require.NoError(t, f.Register(monitor, nil))
	require.NoError(t, f.AddCommand(monitor, "crash", commands.New(commands.Definition[struct{}]{
		Description: "Panics while running",
		Bind:        commands.NoOptions,
		Run: func(ctx context.Context, cc *commands.Context, _ struct{}) (any, error) {
			var m map[string]int
			m["boom"]++
			return nil, nil
		},
	})))
	loader := NewLoader(f, commands.NewServices(), Config{})

	result, err := loader.CallTool(context.Background(), callRequest("azmcp_monitor_crash", map[string]any{}))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	resp := envelope(t, result)
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Contains(t, resp.Message, "assignment to entry in nil map")
}

func TestCallTool_FalseOverridesTrueDefault(t *testing.T) {
	var got []bool
	f := commands.NewFactory()
	storage := commands.NewGroup("storage", "Storage")
	require.NoError(t, f.Register(storage, nil))
	require.NoError(t, f.AddCommand(storage, "sync", commands.New(commands.Definition[bool]{
		Description: "Sync storage",
		Options: []commands.Contributor{
			commands.WithOption(commands.Option{Name: "recursive", Kind: commands.KindBool, Default: true}),
		},
		Bind: func(args *commands.ParseResult) (bool, error) {
			return args.Bool("recursive"), nil
		},
		Run: func(ctx context.Context, cc *commands.Context, recursive bool) (any, error) {
			got = append(got, recursive)
			return nil, nil
		},
	})))
	loader := NewLoader(f, commands.NewServices(), Config{})

	for _, args := range []map[string]any{{}, {"recursive": false}, {"recursive": true}} {
		result, err := loader.CallTool(context.Background(), callRequest("azmcp_storage_sync", args))
		require.NoError(t, err)
		require.False(t, result.IsError)
	}
	assert.Equal(t, []bool{true, false, true}, got)
}

func TestArgsToTokens(t *testing.T) {
	tokens, err := ArgsToTokens(map[string]any{
		"subscription": "sub",
		"retry-delay":  0.5,
		"limit":        float64(10),
		"recursive":    true,
		"force":        false,
		"skip":         nil,
		"tags":         []any{"a", "b"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"--force=false",
		"--limit=10",
		"--recursive",
		"--retry-delay=0.5",
		"--subscription=sub",
		`--tags=["a","b"]`,
	}, tokens)
}

func TestExec(t *testing.T) {
	run := &fakeRun{result: []string{"acct"}}
	loader := NewLoader(newFactory(t, run), commands.NewServices(), Config{ReadOnly: true})

	resp, err := loader.Exec(context.Background(), []string{"storage", "account", "list"}, []string{"--name", "acct"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "acct", run.lastName)

	_, err = loader.Exec(context.Background(), []string{"storage", "account", "delete"}, nil)
	assert.Error(t, err)

	_, err = loader.Exec(context.Background(), []string{"storage", "nothing"}, nil)
	assert.Error(t, err)
}
