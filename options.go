package dependency

import (
	"go.uber.org/zap"
)

type configuration struct {
	inspector Inspector
	logger    *zap.Logger
}

// Option configures a Container.
type Option interface {
	apply(*configuration)
}

type inspectorOption struct {
	inspector Inspector
}

func (o *inspectorOption) apply(conf *configuration) {
	if o.inspector != nil {
		conf.inspector = o.inspector
	}
}

// WithInspector sets the Inspector used to discover parameters. The default is a
// CachedInspector wrapping a ReflectionInspector.
func WithInspector(inspector Inspector) Option {
	return &inspectorOption{inspector: inspector}
}

type loggerOption struct {
	logger *zap.Logger
}

func (o *loggerOption) apply(conf *configuration) {
	if o.logger != nil {
		conf.logger = o.logger
	}
}

// WithLogger sets the logger receiving registration and resolution events at debug level.
func WithLogger(logger *zap.Logger) Option {
	return &loggerOption{logger: logger}
}

type groupOption struct {
	options []Option
}

func (o *groupOption) apply(conf *configuration) {
	for _, opt := range o.options {
		opt.apply(conf)
	}
}

// Options groups a list of Option to reuse them together.
func Options(opts ...Option) Option {
	return &groupOption{options: opts}
}
