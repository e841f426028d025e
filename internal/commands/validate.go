package commands

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// ValidationError describes options that are missing or invalid. Both
// lists are kept sorted so messages are deterministic.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.messages(), "; ")
}

func (e *ValidationError) messages() []string {
	var msgs []string
	if len(e.Missing) > 0 {
		names := make([]string, len(e.Missing))
		for i, n := range e.Missing {
			names[i] = "--" + n
		}
		msgs = append(msgs, "Missing Required options: "+strings.Join(names, ", "))
	}
	msgs = append(msgs, e.Invalid...)
	return msgs
}

// Validate checks required-option presence, per-option semantic rules and
// the spec's cross-option checks.
func (s *Spec) Validate(args *ParseResult) ValidationResult {
	verr := s.validate(args)
	if verr == nil {
		return ValidationResult{IsValid: true}
	}
	return ValidationResult{IsValid: false, Errors: verr.messages()}
}

// Apply writes a failed validation into resp as a 400.
func (r ValidationResult) Apply(resp *Response) {
	if r.IsValid {
		return
	}
	resp.Status = http.StatusBadRequest
	resp.Message = strings.Join(r.Errors, "; ")
	resp.Results = nil
}

func (s *Spec) validate(args *ParseResult) *ValidationError {
	verr := &ValidationError{}

	for _, o := range s.Options {
		v, _ := args.Value(o.Name)
		if o.Required && isMissing(v, args.Has(o.Name)) {
			verr.Missing = append(verr.Missing, o.Name)
			continue
		}
		if !args.Has(o.Name) {
			continue
		}
		if err := o.validateValue(v); err != nil {
			verr.Invalid = append(verr.Invalid, fmt.Sprintf("Invalid value for --%s: %v", o.Name, err))
		}
	}

	sort.Strings(verr.Missing)
	sort.Strings(verr.Invalid)

	if len(verr.Missing) == 0 && len(verr.Invalid) == 0 {
		for _, check := range s.Checks {
			if err := check(args); err != nil {
				verr.Invalid = append(verr.Invalid, err.Error())
			}
		}
	}

	if len(verr.Missing) == 0 && len(verr.Invalid) == 0 {
		return nil
	}
	return verr
}

func isMissing(v any, provided bool) bool {
	if !provided {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
