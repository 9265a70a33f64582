package ref

import "go.uber.org/zap"

// DefaultSpinWarn is the number of failed lock attempts after which a
// contended acquisition is logged once.
const DefaultSpinWarn = 1 << 16

type config struct {
	log      *zap.Logger
	spinWarn int
}

// Option configures a TextLongArray.
type Option func(*config)

// WithLogger sets the array's logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithSpinWarn sets how many failed lock attempts pass before a warning is
// logged. Zero or less disables the warning.
func WithSpinWarn(attempts int) Option {
	return func(c *config) { c.spinWarn = attempts }
}

func newConfig(opts []Option) config {
	c := config{spinWarn: DefaultSpinWarn}
	for _, o := range opts {
		o(&c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}
