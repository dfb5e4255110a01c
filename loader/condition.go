package loader

// Conditional decides whether a service definition is registered.
type Conditional interface {
	evaluate(env *environment) bool
}

type environmentVariableConditional struct {
	name           string
	havingValue    string
	matchIfMissing bool
}

func (c *environmentVariableConditional) evaluate(env *environment) bool {
	val, ok := env.lookup(c.name)
	if !ok {
		return c.matchIfMissing
	}
	return val == c.havingValue
}

// OnEnvironmentVariable matches when the variable, read from the env files then the
// process environment, equals havingValue, or is unset and matchIfMissing is true.
func OnEnvironmentVariable(name, havingValue string, matchIfMissing bool) Conditional {
	return &environmentVariableConditional{
		name:           name,
		havingValue:    havingValue,
		matchIfMissing: matchIfMissing,
	}
}
