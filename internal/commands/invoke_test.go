package commands

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountLister interface {
	ListAccounts(ctx context.Context, subscription string) ([]string, error)
}

type mockAccountLister struct {
	accounts  []string
	err       error
	callCount int
}

func (m *mockAccountLister) ListAccounts(ctx context.Context, subscription string) ([]string, error) {
	m.callCount++
	return m.accounts, m.err
}

type listOptions struct {
	GlobalOptions
}

func accountListCommand() Command {
	return New(Definition[listOptions]{
		Description: "List storage accounts",
		Options:     []Contributor{WithSubscriptionOptions(), ReadOnly()},
		Bind: func(args *ParseResult) (listOptions, error) {
			g, err := BindGlobal(args)
			return listOptions{GlobalOptions: g}, err
		},
		Run: func(ctx context.Context, cc *Context, opts listOptions) (any, error) {
			svc, err := GetService[accountLister](cc)
			if err != nil {
				return nil, err
			}
			accounts, err := svc.ListAccounts(ctx, opts.Subscription)
			if err != nil {
				return nil, err
			}
			if len(accounts) == 0 {
				return nil, nil
			}
			return map[string][]string{"accounts": accounts}, nil
		},
	})
}

func newTestContext(svc accountLister) *Context {
	services := NewServices()
	if svc != nil {
		Provide[accountLister](services, svc)
	}
	return NewContext(services)
}

func TestInvoke_ValidationShortCircuits(t *testing.T) {
	t.Setenv(SubscriptionEnvVar, "")
	mock := &mockAccountLister{accounts: []string{"a"}}
	cc := newTestContext(mock)

	resp := Invoke(context.Background(), cc, accountListCommand(), nil)

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "Missing Required options: --subscription", resp.Message)
	assert.Nil(t, resp.Results)
	assert.Equal(t, 0, mock.callCount)
}

func TestInvoke_BindErrorShortCircuits(t *testing.T) {
	mock := &mockAccountLister{}
	cc := newTestContext(mock)

	resp := Invoke(context.Background(), cc, accountListCommand(), []string{"--subscription", "sub", "--bogus"})

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, 0, mock.callCount)
}

func TestInvoke_Results(t *testing.T) {
	tests := []struct {
		name     string
		accounts []string
		err      error
		status   int
		results  any
	}{
		{
			name:     "accounts found",
			accounts: []string{"acct1", "acct2"},
			status:   http.StatusOK,
			results:  map[string][]string{"accounts": {"acct1", "acct2"}},
		},
		{
			name:     "empty list leaves results nil",
			accounts: []string{},
			status:   http.StatusOK,
		},
		{
			name:   "collaborator failure",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAccountLister{accounts: tt.accounts, err: tt.err}
			cc := newTestContext(mock)

			resp := Invoke(context.Background(), cc, accountListCommand(), []string{"--subscription", "sub"})

			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.results, resp.Results)
			assert.Equal(t, 1, mock.callCount)
			assert.GreaterOrEqual(t, resp.Duration, int64(0))
		})
	}
}

func TestInvoke_MissingService(t *testing.T) {
	cc := newTestContext(nil)

	resp := Invoke(context.Background(), cc, accountListCommand(), []string{"--subscription", "sub"})

	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Contains(t, resp.Message, "no service registered for commands.accountLister")
	assert.Contains(t, resp.Message, TroubleshootingURL)
}

func TestInvoke_CancelledBeforeExecute(t *testing.T) {
	mock := &mockAccountLister{accounts: []string{"a"}}
	cc := newTestContext(mock)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := Invoke(ctx, cc, accountListCommand(), []string{"--subscription", "sub"})

	assert.Equal(t, StatusClientClosedRequest, resp.Status)
	assert.Equal(t, 0, mock.callCount)
}

func TestInvoke_RecoversPanics(t *testing.T) {
	cmd := New(Definition[struct{}]{
		Description: "panics",
		Bind:        NoOptions,
		Run: func(ctx context.Context, cc *Context, _ struct{}) (any, error) {
			panic("nil map write")
		},
	})

	resp := Invoke(context.Background(), NewContext(nil), cmd, nil)

	require.NotNil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Contains(t, resp.Message, "nil map write")
}

func TestGetService(t *testing.T) {
	mock := &mockAccountLister{}
	cc := newTestContext(mock)

	svc, err := GetService[accountLister](cc)
	require.NoError(t, err)
	assert.Same(t, mock, svc)

	_, err = GetService[*mockAccountLister](cc)
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}
