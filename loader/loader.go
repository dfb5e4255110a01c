// Package loader reads service definitions from configuration files and registers
// them into a dependency.Container.
//
// A definition file maps service type names to handlers:
//
//	services:
//	  app.Greeter: app.NewGreeter
//	  app.Clock:
//	    handler: app.Clock::System
//	    singleton: false
//	    tags: [infra]
//	    arguments: { zone: "${TZ}" }
//	    aliases: [app.TimeSource]
//	    when: { env: FEATURE_CLOCK, value: "on", missing: true }
//
// Names refer to the types and factories of a Catalog.
package loader

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	dependency "github.com/illuin-tech/godependency"
)

// Loader registers services into a container and returns it.
type Loader interface {
	Load(c *dependency.Container) (*dependency.Container, error)
}

type chain []Loader

func (l chain) Load(c *dependency.Container) (*dependency.Container, error) {
	var err error
	for _, loader := range l {
		if c, err = loader.Load(c); err != nil {
			return c, err
		}
	}
	return c, nil
}

// Chain returns a Loader running loaders one after the other, stopping at the first error.
func Chain(loaders ...Loader) Loader {
	return chain(loaders)
}

// definition is one service entry of a definition file.
type definition struct {
	Name      string         `yaml:"-" json:"-"`
	Handler   string         `yaml:"handler" json:"handler"`
	Singleton *bool          `yaml:"singleton" json:"singleton"`
	Tags      []string       `yaml:"tags" json:"tags"`
	Arguments map[string]any `yaml:"arguments" json:"arguments"`
	Aliases   []string       `yaml:"aliases" json:"aliases"`
	When      *when          `yaml:"when" json:"when"`
}

type when struct {
	Env     string `yaml:"env" json:"env"`
	Value   string `yaml:"value" json:"value"`
	Missing bool   `yaml:"missing" json:"missing"`
}

// fileLoader reads a file, decodes it into definitions and registers them.
type fileLoader struct {
	path    string
	catalog *Catalog
	conf    *config
	decode  func(data []byte) ([]definition, error)
}

func newFileLoader(path string, catalog *Catalog, opts []Option, decode func([]byte) ([]definition, error)) *fileLoader {
	conf := &config{logger: zap.NewNop()}
	for _, o := range opts {
		o.apply(conf)
	}
	if catalog == nil {
		catalog = NewCatalog()
	}
	return &fileLoader{path: path, catalog: catalog, conf: conf, decode: decode}
}

func (l *fileLoader) Load(c *dependency.Container) (*dependency.Container, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return c, errors.Wrapf(err, "reading service definitions from %s", l.path)
	}
	definitions, err := l.decode(data)
	if err != nil {
		return c, errors.Wrapf(err, "parsing service definitions from %s", l.path)
	}
	env, err := newEnvironment(l.conf.envFiles)
	if err != nil {
		return c, err
	}

	for _, d := range definitions {
		if err := l.register(c, d, env); err != nil {
			return c, errors.Wrapf(err, "loading service %q from %s", d.Name, l.path)
		}
	}
	l.conf.logger.Debug("loaded service definitions",
		zap.String("path", l.path),
		zap.Int("count", len(definitions)))
	return c, nil
}

func (l *fileLoader) register(c *dependency.Container, d definition, env *environment) error {
	if d.When != nil && !OnEnvironmentVariable(d.When.Env, d.When.Value, d.When.Missing).evaluate(env) {
		l.conf.logger.Debug("skipped service", zap.String("service", d.Name), zap.String("env", d.When.Env))
		return nil
	}

	service, ok := l.catalog.Type(d.Name)
	if !ok {
		return errors.Errorf("unknown service type %q", d.Name)
	}
	subject, err := l.catalog.handler(d.Handler)
	if err != nil {
		return err
	}

	entry := c.Register(service, subject)
	if d.Singleton != nil {
		entry.SetOnce(*d.Singleton)
	}
	if len(d.Tags) > 0 {
		entry.SetTags(d.Tags...)
	}
	if d.Arguments != nil {
		entry.SetArguments(env.expandMap(d.Arguments))
	}
	for _, name := range d.Aliases {
		alias, ok := l.catalog.Type(name)
		if !ok {
			return errors.Errorf("unknown alias type %q", name)
		}
		if err := c.Alias(service, alias); err != nil {
			return errors.Wrapf(err, "aliasing %s", name)
		}
	}

	l.conf.logger.Debug("loaded service",
		zap.String("service", d.Name),
		zap.String("handler", d.Handler),
		zap.Strings("tags", d.Tags))
	return nil
}

// splitMethod splits a "Type::Method" handler.
func splitMethod(handler string) (string, string, bool) {
	typ, method, ok := strings.Cut(handler, "::")
	if !ok || typ == "" || method == "" {
		return "", "", false
	}
	return typ, method, true
}
