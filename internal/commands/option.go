// Package commands is the command dispatch core: a tree of groups and leaf
// commands, the option schema each leaf declares, argument binding and
// validation, and the uniform response envelope every execution produces.
package commands

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Option is one entry of a command's option schema. Default is declared at
// registration time and must match Kind (string, int, float64 or bool).
type Option struct {
	Name        string
	Description string
	Kind        Kind
	Required    bool
	Default     any
	// Values lists the members of an enum option.
	Values []string
	// EnvVar supplies the value when the flag is absent.
	EnvVar string
	// Check enforces a semantic rule on an explicitly provided value.
	Check func(value any) error
}

func (o Option) validateValue(value any) error {
	if o.Kind == KindEnum {
		s, _ := value.(string)
		if !slices.Contains(o.Values, s) {
			return fmt.Errorf("must be one of: %s", strings.Join(o.Values, ", "))
		}
	}
	if o.Check != nil {
		return o.Check(value)
	}
	return nil
}

func (o Option) envValue() (string, bool) {
	if o.EnvVar == "" {
		return "", false
	}
	v := os.Getenv(o.EnvVar)
	return v, v != ""
}

func (o Option) defaultString() string {
	s, _ := o.Default.(string)
	return s
}

func (o Option) defaultInt() int {
	i, _ := o.Default.(int)
	return i
}

func (o Option) defaultFloat() float64 {
	f, _ := o.Default.(float64)
	return f
}

func (o Option) defaultBool() bool {
	b, _ := o.Default.(bool)
	return b
}
