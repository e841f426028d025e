package commands

import (
	"context"
)

// Command is an executable leaf. Its external name is the path under which
// it is registered in the tree.
type Command interface {
	Description() string
	Spec() *Spec
	// Execute runs business logic against already validated arguments and
	// writes the outcome into cc.Response.
	Execute(ctx context.Context, cc *Context, args *ParseResult) *Response
}

// Definition describes a command with strongly typed options T.
type Definition[T any] struct {
	Description string
	Options     []Contributor
	// Bind converts validated arguments into the options object.
	Bind func(args *ParseResult) (T, error)
	// Run performs the operation. A nil or empty result leaves
	// Response.Results nil.
	Run func(ctx context.Context, cc *Context, opts T) (any, error)
}

type definedCommand[T any] struct {
	def  Definition[T]
	spec *Spec
}

// New builds a Command from a Definition.
func New[T any](def Definition[T]) Command {
	return &definedCommand[T]{
		def:  def,
		spec: NewSpec(def.Options...),
	}
}

func (c *definedCommand[T]) Description() string {
	return c.def.Description
}

func (c *definedCommand[T]) Spec() *Spec {
	return c.spec
}

func (c *definedCommand[T]) Execute(ctx context.Context, cc *Context, args *ParseResult) *Response {
	resp := cc.Response

	opts, err := c.def.Bind(args)
	if err != nil {
		HandleError(resp, err, c.spec.ErrorMappers)
		return resp
	}

	result, err := c.def.Run(ctx, cc, opts)
	if err != nil {
		HandleError(resp, err, c.spec.ErrorMappers)
		return resp
	}

	resp.SetResults(result)
	return resp
}

// NoOptions binds commands that declare no options of their own.
func NoOptions(*ParseResult) (struct{}, error) {
	return struct{}{}, nil
}
