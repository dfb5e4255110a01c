package loader

import (
	"go.uber.org/zap"
)

type config struct {
	envFiles []string
	logger   *zap.Logger
}

// Option configures a file loader.
type Option interface {
	apply(*config)
}

type envFilesOption struct {
	files []string
}

func (o *envFilesOption) apply(conf *config) {
	conf.envFiles = append(conf.envFiles, o.files...)
}

// WithEnvFiles reads variables from .env files. They take precedence over the process
// environment in ${VAR} placeholders and when conditions. Files are read on Load and
// must exist.
func WithEnvFiles(files ...string) Option {
	return &envFilesOption{files: files}
}

type loggerOption struct {
	logger *zap.Logger
}

func (o *loggerOption) apply(conf *config) {
	if o.logger != nil {
		conf.logger = o.logger
	}
}

func WithLogger(logger *zap.Logger) Option {
	return &loggerOption{logger: logger}
}
