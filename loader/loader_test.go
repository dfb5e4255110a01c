package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	dependency "github.com/illuin-tech/godependency"
)

type Clock interface {
	Now() string
}

type TimeSource interface {
	Now() string
}

type systemClock struct {
	Zone string `inject:"zone"`
}

func (c *systemClock) Now() string { return "now in " + c.Zone }

type Greeter struct {
	Clock    Clock
	Greeting string
}

func NewGreeter(clock Clock, greeting string) *Greeter {
	return &Greeter{Clock: clock, Greeting: greeting}
}

type Motd struct {
	Greeter *Greeter `inject:"greeter"`
}

type Banner struct {
	Text   string
	Repeat int
}

type bannerFactory struct{}

func (bannerFactory) Build(text string, repeat int) *Banner {
	return &Banner{Text: text, Repeat: repeat}
}

func newCatalog() *Catalog {
	return NewCatalog().
		AddType("app.Clock", dependency.TypeOf[Clock]()).
		AddType("app.TimeSource", dependency.TypeOf[TimeSource]()).
		AddType("app.SystemClock", dependency.TypeOf[*systemClock]()).
		AddType("app.Greeter", dependency.TypeOf[*Greeter]()).
		AddType("app.Motd", dependency.TypeOf[*Motd]()).
		AddType("app.Banner", dependency.TypeOf[*Banner]()).
		AddType("app.BannerFactory", dependency.TypeOf[bannerFactory]()).
		AddFactory("app.NewGreeter", dependency.Func(NewGreeter, "clock", "greeting"))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefinitions(t *testing.T) {
	loaders := map[string]func(opts ...Option) Loader{
		"YAML": func(opts ...Option) Loader { return NewYAMLLoader("testdata/services.yaml", newCatalog(), opts...) },
		"JSON": func(opts ...Option) Loader { return NewJSONLoader("testdata/services.json", newCatalog(), opts...) },
	}
	for name, newLoader := range loaders {
		t.Run(name, func(t *testing.T) {
			t.Setenv("APP_ZONE", "CET")
			c, err := newLoader(WithEnvFiles("testdata/app.env")).Load(dependency.NewContainer())
			require.NoError(t, err)

			assert.Equal(t, []string{"loader.Clock", "*loader.Greeter", "*loader.Motd", "*loader.Banner"},
				typeNames(c), "services should keep the document order")

			t.Run("Handler type with arguments from env files", func(t *testing.T) {
				clock, err := dependency.Get[Clock](c)
				require.NoError(t, err)
				assert.Equal(t, "now in UTC", clock.Now())
			})

			t.Run("Singleton flag", func(t *testing.T) {
				first := dependency.MustGet[Clock](c)
				second := dependency.MustGet[Clock](c)
				assert.NotSame(t, first, second)

				greeter := dependency.MustGet[*Greeter](c)
				assert.Same(t, greeter, dependency.MustGet[*Greeter](c))
			})

			t.Run("Aliases", func(t *testing.T) {
				source, err := dependency.Get[TimeSource](c)
				require.NoError(t, err)
				assert.Equal(t, "now in UTC", source.Now())
			})

			t.Run("Catalog factory", func(t *testing.T) {
				greeter, err := dependency.Get[*Greeter](c)
				require.NoError(t, err)
				assert.Equal(t, "Hello", greeter.Greeting)
				assert.Equal(t, "now in UTC", greeter.Clock.Now())
			})

			t.Run("Shorthand handler", func(t *testing.T) {
				motd, err := dependency.Get[*Motd](c)
				require.NoError(t, err)
				assert.Same(t, dependency.MustGet[*Greeter](c), motd.Greeter)
			})

			t.Run("Method handler", func(t *testing.T) {
				banner, err := dependency.Get[*Banner](c)
				require.NoError(t, err)
				assert.Equal(t, "Welcome to godependency", banner.Text)
				assert.Equal(t, 3, banner.Repeat)
			})

			t.Run("Tags", func(t *testing.T) {
				infra, err := c.Tagged("infra", nil)
				require.NoError(t, err)
				require.Len(t, infra, 2)
				assert.IsType(t, &systemClock{}, infra[0])
				assert.IsType(t, &Greeter{}, infra[1])

				web, err := dependency.Tagged[*Greeter](c, "web")
				require.NoError(t, err)
				assert.Len(t, web, 1)
			})
		})
	}
}

func typeNames(c *dependency.Container) []string {
	var names []string
	for _, service := range c.Services() {
		if entry, ok := c.Entry(service); ok {
			names = append(names, dependency.TypeName(entry.Type()))
		}
	}
	return names
}

func TestLoadWithoutEnvFiles(t *testing.T) {
	if _, ok := os.LookupEnv("FEATURE_BANNER"); ok {
		t.Skip("FEATURE_BANNER is set in the environment")
	}
	t.Setenv("APP_ZONE", "CET")

	c, err := NewYAMLLoader("testdata/services.yaml", newCatalog()).Load(dependency.NewContainer())
	require.NoError(t, err)

	clock, err := dependency.Get[Clock](c)
	require.NoError(t, err)
	assert.Equal(t, "now in CET", clock.Now())
	assert.False(t, dependency.Has[*Banner](c), "banner should be skipped when its condition does not match")
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name     string
		loader   Loader
		expected string
	}{
		{
			name:     "Missing file",
			loader:   NewYAMLLoader("testdata/missing.yaml", newCatalog()),
			expected: "reading service definitions from testdata/missing.yaml",
		},
		{
			name:     "Missing env file",
			loader:   NewYAMLLoader("testdata/services.yaml", newCatalog(), WithEnvFiles("testdata/missing.env")),
			expected: "reading env files",
		},
		{
			name:     "Unknown handler",
			loader:   NewYAMLLoader("testdata/unknown_handler.yaml", newCatalog()),
			expected: `unknown handler "app.Sundial"`,
		},
		{
			name:     "Services not an object",
			loader:   NewJSONLoader("testdata/invalid.json", newCatalog()),
			expected: "services should be an object",
		},
		{
			name:     "Unknown service type",
			loader:   NewYAMLLoader(writeFile(t, "unknown.yaml", "services:\n  app.Sundial: app.SystemClock\n"), newCatalog()),
			expected: `unknown service type "app.Sundial"`,
		},
		{
			name:     "Unknown alias",
			loader:   NewYAMLLoader(writeFile(t, "alias.yaml", "services:\n  app.Clock:\n    handler: app.SystemClock\n    aliases: [app.Sundial]\n"), newCatalog()),
			expected: `unknown alias type "app.Sundial"`,
		},
		{
			name:     "Unknown method receiver",
			loader:   NewYAMLLoader(writeFile(t, "method.yaml", "services:\n  app.Banner: app.Sundial::Build\n"), newCatalog()),
			expected: `unknown type "app.Sundial" in handler "app.Sundial::Build"`,
		},
		{
			name:     "Malformed YAML",
			loader:   NewYAMLLoader(writeFile(t, "malformed.yaml", "services: [\n"), newCatalog()),
			expected: "parsing service definitions from",
		},
		{
			name:     "Trailing JSON",
			loader:   NewJSONLoader(writeFile(t, "trailing.json", `{"services": {}} {"services": {}}`), newCatalog()),
			expected: "unexpected data after the top-level object",
		},
		{
			name:     "Factory not callable",
			loader:   NewYAMLLoader(writeFile(t, "factory.yaml", "services:\n  app.Clock: app.Noon\n"), newCatalog().AddFactory("app.Noon", "noon")),
			expected: `factory "app.Noon" is not a function, a method or a type: instance given`,
		},
		{
			name:     "Services not a mapping",
			loader:   NewYAMLLoader(writeFile(t, "list.yaml", "services:\n  - app.Clock\n"), newCatalog()),
			expected: "services should be a mapping",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.loader.Load(dependency.NewContainer())
			assert.ErrorContains(t, err, tc.expected)
		})
	}

	t.Run("Missing file keeps the cause", func(t *testing.T) {
		_, err := NewJSONLoader("testdata/missing.json", nil).Load(dependency.NewContainer())
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestLoadEmptyDocuments(t *testing.T) {
	for name, loader := range map[string]Loader{
		"Empty YAML":        NewYAMLLoader("testdata/empty.yaml", newCatalog()),
		"YAML without list": NewYAMLLoader(writeFile(t, "null.yaml", "services:\n"), newCatalog()),
		"Empty JSON":        NewJSONLoader(writeFile(t, "empty.json", ""), newCatalog()),
		"JSON without list": NewJSONLoader(writeFile(t, "other.json", `{"version": 2}`), newCatalog()),
		"JSON null list":    NewJSONLoader(writeFile(t, "null.json", `{"services": null}`+"\n"), newCatalog()),
	} {
		t.Run(name, func(t *testing.T) {
			c, err := loader.Load(dependency.NewContainer())
			require.NoError(t, err)
			assert.Empty(t, c.Services())
		})
	}
}

func TestChain(t *testing.T) {
	c, err := Chain(
		NewYAMLLoader("testdata/empty.yaml", newCatalog()),
		NewJSONLoader("testdata/services.json", newCatalog(), WithEnvFiles("testdata/app.env")),
	).Load(dependency.NewContainer())
	require.NoError(t, err)
	assert.Len(t, c.Services(), 4)

	_, err = Chain(
		NewYAMLLoader("testdata/missing.yaml", newCatalog()),
		NewJSONLoader("testdata/services.json", newCatalog()),
	).Load(dependency.NewContainer())
	assert.Error(t, err)
}

func TestLoaderLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	loader := NewYAMLLoader("testdata/services.yaml", newCatalog(),
		WithEnvFiles("testdata/app.env"),
		WithLogger(zap.New(core)))

	_, err := loader.Load(dependency.NewContainer())
	require.NoError(t, err)
	assert.Equal(t, 4, logs.FilterMessage("loaded service").Len())
	assert.Equal(t, 1, logs.FilterMessage("loaded service definitions").Len())
}

func TestCatalogHandler(t *testing.T) {
	catalog := newCatalog()

	subject, err := catalog.handler("")
	require.NoError(t, err)
	assert.Nil(t, subject)

	subject, err = catalog.handler("app.NewGreeter")
	require.NoError(t, err)
	assert.IsType(t, &dependency.Function{}, subject)

	subject, err = catalog.handler("app.SystemClock")
	require.NoError(t, err)
	assert.Equal(t, dependency.TypeOf[*systemClock](), subject)

	subject, err = catalog.handler("app.BannerFactory::Build")
	require.NoError(t, err)
	assert.Equal(t, dependency.Method{Receiver: dependency.TypeOf[bannerFactory](), Name: "Build"}, subject)

	_, err = catalog.handler("app.BannerFactory::")
	assert.ErrorContains(t, err, "unknown handler")
}

func TestEnvironment(t *testing.T) {
	t.Setenv("LOADER_TEST_HOST", "process")
	t.Setenv("LOADER_TEST_PORT", "8080")
	env := &environment{values: map[string]string{"LOADER_TEST_HOST": "file"}}

	t.Run("Expand", func(t *testing.T) {
		assert.Equal(t, "file:8080", env.expand("${LOADER_TEST_HOST}:$LOADER_TEST_PORT"))
		assert.Equal(t, "[]", env.expand("[${LOADER_TEST_UNSET}]"))
		assert.Equal(t, map[string]any{
			"address": "file:8080",
			"list":    []any{"file", 1},
			"nested":  map[string]any{"port": "8080"},
			"flag":    true,
		}, env.expandMap(map[string]any{
			"address": "${LOADER_TEST_HOST}:${LOADER_TEST_PORT}",
			"list":    []any{"$LOADER_TEST_HOST", 1},
			"nested":  map[string]any{"port": "${LOADER_TEST_PORT}"},
			"flag":    true,
		}))
	})

	t.Run("Conditions", func(t *testing.T) {
		assert.True(t, OnEnvironmentVariable("LOADER_TEST_HOST", "file", false).evaluate(env))
		assert.False(t, OnEnvironmentVariable("LOADER_TEST_PORT", "80", true).evaluate(env))
		assert.True(t, OnEnvironmentVariable("LOADER_TEST_UNSET", "on", true).evaluate(env))
		assert.False(t, OnEnvironmentVariable("LOADER_TEST_UNSET", "on", false).evaluate(env))
	})
}
