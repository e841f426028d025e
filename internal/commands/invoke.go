package commands

import (
	"context"
	"fmt"
	"time"
)

// Invoke runs the full pipeline for one call: bind args against the
// command's spec, validate, then execute. Business logic never runs when
// binding or validation fails.
func Invoke(ctx context.Context, cc *Context, cmd Command, args []string) (resp *Response) {
	start := time.Now()
	resp = cc.Response

	defer func() {
		resp.Duration = time.Since(start).Milliseconds()
	}()
	defer func() {
		if r := recover(); r != nil {
			cc.Log.Errorf("command panicked: %v", r)
			resp = cc.Response
			HandleError(resp, fmt.Errorf("unexpected failure: %v", r), nil)
		}
	}()

	spec := cmd.Spec()

	parsed, err := Parse(spec, args)
	if err != nil {
		HandleError(resp, err, nil)
		cc.Log.WithField("kind", "validation").Warn(resp.Message)
		return resp
	}

	if result := spec.Validate(parsed); !result.IsValid {
		result.Apply(resp)
		cc.Log.WithField("kind", "validation").Warn(resp.Message)
		return resp
	}

	if err := ctx.Err(); err != nil {
		HandleError(resp, err, spec.ErrorMappers)
		return resp
	}

	if out := cmd.Execute(ctx, cc, parsed); out != nil {
		resp = out
	}

	switch {
	case resp.IsSuccess():
		cc.Log.WithField("status", resp.Status).Debug("command succeeded")
	case resp.Status >= 500:
		cc.Log.WithField("status", resp.Status).Error(resp.Message)
	default:
		cc.Log.WithField("status", resp.Status).Warn(resp.Message)
	}
	return resp
}
