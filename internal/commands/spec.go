package commands

// Check is a cross-option validation rule run after every option is bound.
type Check func(args *ParseResult) error

// Spec is everything a leaf command declares about itself: its option schema,
// behavior hints and per-command error mapping.
type Spec struct {
	Options      []Option
	ReadOnly     bool
	Destructive  bool
	Checks       []Check
	ErrorMappers []ErrorMapper
}

// Contributor adds options, checks or error mappers to a Spec. Specs are
// composed by applying contributors in order; a later option with the same
// name replaces the earlier one.
type Contributor func(*Spec)

func NewSpec(contributors ...Contributor) *Spec {
	s := &Spec{}
	for _, c := range contributors {
		c(s)
	}
	return s
}

func (s *Spec) AddOption(opt Option) {
	for i := range s.Options {
		if s.Options[i].Name == opt.Name {
			s.Options[i] = opt
			return
		}
	}
	s.Options = append(s.Options, opt)
}

func (s *Spec) Option(name string) (Option, bool) {
	for _, o := range s.Options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// WithOption declares a single option.
func WithOption(opt Option) Contributor {
	return func(s *Spec) {
		s.AddOption(opt)
	}
}

func WithCheck(c Check) Contributor {
	return func(s *Spec) {
		s.Checks = append(s.Checks, c)
	}
}

// WithErrorMapper registers a command-specific error case. Mappers are tried
// in registration order before the default mapping.
func WithErrorMapper(m ErrorMapper) Contributor {
	return func(s *Spec) {
		s.ErrorMappers = append(s.ErrorMappers, m)
	}
}

func ReadOnly() Contributor {
	return func(s *Spec) {
		s.ReadOnly = true
	}
}

func Destructive() Contributor {
	return func(s *Spec) {
		s.Destructive = true
	}
}
