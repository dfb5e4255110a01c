package loader

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// environment holds the variables read from env files, in front of the process
// environment.
type environment struct {
	values map[string]string
}

func newEnvironment(files []string) (*environment, error) {
	env := &environment{values: make(map[string]string)}
	if len(files) == 0 {
		return env, nil
	}
	values, err := godotenv.Read(files...)
	if err != nil {
		return nil, errors.Wrapf(err, "reading env files %v", files)
	}
	env.values = values
	return env, nil
}

func (e *environment) lookup(name string) (string, bool) {
	if val, ok := e.values[name]; ok {
		return val, true
	}
	return os.LookupEnv(name)
}

// expand replaces ${VAR} and $VAR in s, unset variables expand to "".
func (e *environment) expand(s string) string {
	return os.Expand(s, func(name string) string {
		val, _ := e.lookup(name)
		return val
	})
}

func (e *environment) expandMap(arguments map[string]any) map[string]any {
	expanded := make(map[string]any, len(arguments))
	for name, value := range arguments {
		expanded[name] = e.expandValue(value)
	}
	return expanded
}

func (e *environment) expandValue(value any) any {
	switch v := value.(type) {
	case string:
		return e.expand(v)
	case []any:
		expanded := make([]any, len(v))
		for i, item := range v {
			expanded[i] = e.expandValue(item)
		}
		return expanded
	case map[string]any:
		return e.expandMap(v)
	}
	return value
}
