package commands

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ParseResult holds the values bound from an argument vector against a Spec.
// Options that were not provided carry their declared default.
type ParseResult struct {
	values map[string]any
	set    map[string]bool
}

// Parse binds a CLI-style token vector (--name value, --flag) to spec.
// Unknown flags, positional arguments and malformed values are rejected
// with a *ValidationError.
func Parse(spec *Spec, args []string) (*ParseResult, error) {
	fs := flag.NewFlagSet("command", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	for _, o := range spec.Options {
		switch o.Kind {
		case KindInt:
			fs.Int(o.Name, o.defaultInt(), o.Description)
		case KindFloat:
			fs.Float64(o.Name, o.defaultFloat(), o.Description)
		case KindBool:
			fs.Bool(o.Name, o.defaultBool(), o.Description)
		default:
			fs.String(o.Name, o.defaultString(), o.Description)
		}
	}

	if err := fs.Parse(args); err != nil {
		return nil, &ValidationError{Invalid: []string{err.Error()}}
	}
	if fs.NArg() > 0 {
		return nil, &ValidationError{Invalid: []string{fmt.Sprintf("unexpected argument %q", fs.Arg(0))}}
	}

	result := &ParseResult{
		values: make(map[string]any, len(spec.Options)),
		set:    make(map[string]bool, len(spec.Options)),
	}

	for _, o := range spec.Options {
		changed := fs.Changed(o.Name)
		if !changed {
			if env, ok := o.envValue(); ok {
				if err := fs.Set(o.Name, env); err != nil {
					return nil, &ValidationError{Invalid: []string{fmt.Sprintf("--%s (from %s): %v", o.Name, o.EnvVar, err)}}
				}
				changed = true
			}
		}

		v, err := flagValue(fs, o)
		if err != nil {
			return nil, err
		}
		result.values[o.Name] = v
		result.set[o.Name] = changed
	}

	return result, nil
}

func flagValue(fs *flag.FlagSet, o Option) (any, error) {
	switch o.Kind {
	case KindInt:
		return fs.GetInt(o.Name)
	case KindFloat:
		return fs.GetFloat64(o.Name)
	case KindBool:
		return fs.GetBool(o.Name)
	default:
		return fs.GetString(o.Name)
	}
}

// Has reports whether the option was explicitly provided.
func (p *ParseResult) Has(name string) bool {
	return p.set[name]
}

func (p *ParseResult) Value(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

func (p *ParseResult) String(name string) string {
	s, _ := p.values[name].(string)
	return s
}

func (p *ParseResult) Int(name string) int {
	i, _ := p.values[name].(int)
	return i
}

func (p *ParseResult) Float(name string) float64 {
	f, _ := p.values[name].(float64)
	return f
}

func (p *ParseResult) Bool(name string) bool {
	b, _ := p.values[name].(bool)
	return b
}
