package cas

// Settings holds the numeric knobs of the engine.
type Settings struct {
	// DerivativeStep is h in the central difference (f(p+h) - f(p-h)) / 2h.
	DerivativeStep float64 `yaml:"derivative_step"`
	// IntegralTolerance bounds the adaptive Simpson error estimate.
	IntegralTolerance float64 `yaml:"integral_tolerance"`
	// IntegralMaxDepth caps the recursion of adaptive Simpson.
	IntegralMaxDepth int `yaml:"integral_max_depth"`
}

const (
	DefaultDerivativeStep    = 1e-8
	DefaultIntegralTolerance = 1e-10
	DefaultIntegralMaxDepth  = 20
)

func DefaultSettings() Settings {
	return Settings{
		DerivativeStep:    DefaultDerivativeStep,
		IntegralTolerance: DefaultIntegralTolerance,
		IntegralMaxDepth:  DefaultIntegralMaxDepth,
	}
}

// withDefaults fills zero fields so a partially populated Settings is usable.
func (s Settings) withDefaults() Settings {
	if s.DerivativeStep <= 0 {
		s.DerivativeStep = DefaultDerivativeStep
	}
	if s.IntegralTolerance <= 0 {
		s.IntegralTolerance = DefaultIntegralTolerance
	}
	if s.IntegralMaxDepth <= 0 {
		s.IntegralMaxDepth = DefaultIntegralMaxDepth
	}
	return s
}
