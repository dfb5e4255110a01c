package dependency

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Container maps service types to entries and resolves them into instances,
// recursively resolving the dependencies their factories ask for.
//
// A Container is not safe for concurrent use.
type Container struct {
	inspector Inspector
	logger    *zap.Logger

	entries map[reflect.Type]*Entry
	order   []reflect.Type
	aliases map[reflect.Type]reflect.Type
	cached  map[reflect.Type]any

	// services being resolved by the current top-level Get, in call order
	resolving []reflect.Type
}

// NewContainer creates an empty Container.
func NewContainer(opts ...Option) *Container {
	conf := &configuration{}
	for _, o := range opts {
		o.apply(conf)
	}
	if conf.inspector == nil {
		conf.inspector = NewCachedInspector(NewReflectionInspector())
	}
	if conf.logger == nil {
		conf.logger = zap.NewNop()
	}

	return &Container{
		inspector: conf.inspector,
		logger:    conf.logger,
		entries:   make(map[reflect.Type]*Entry),
		aliases:   make(map[reflect.Type]reflect.Type),
		cached:    make(map[reflect.Type]any),
	}
}

// Register binds a service type to a factory or an instance and returns its Entry.
//
// factoryOrInstance may be nil to construct t itself, a reflect.Type to construct,
// a func, a *Function, a Method, or any other value which is then returned as-is.
// Registering a type again replaces its entry and forgets its cached instance.
func (c *Container) Register(t reflect.Type, factoryOrInstance any) *Entry {
	if t == nil {
		panic("dependency: cannot register a nil type")
	}
	if _, ok := c.entries[t]; !ok {
		c.order = append(c.order, t)
	}
	delete(c.aliases, t)
	delete(c.cached, t)

	entry := newEntry(t, factoryOrInstance)
	c.entries[t] = entry
	c.logger.Debug("registered service",
		zap.Stringer("service", t),
		zap.Stringer("shape", Classify(factoryOrInstance)))
	return entry
}

// Has reports whether t, or the service it aliases, is registered.
func (c *Container) Has(t reflect.Type) bool {
	_, ok := c.entries[c.canonical(t)]
	return ok
}

// Entry returns the entry registered for t, following aliases.
func (c *Container) Entry(t reflect.Type) (*Entry, bool) {
	entry, ok := c.entries[c.canonical(t)]
	return entry, ok
}

// Services returns the registered service types in registration order.
func (c *Container) Services() []reflect.Type {
	return append([]reflect.Type(nil), c.order...)
}

// Resolved reports whether an instance of t is cached.
func (c *Container) Resolved(t reflect.Type) bool {
	_, ok := c.cached[c.canonical(t)]
	return ok
}

// Alias makes alias resolve to service. service must be registered, or be an alias
// itself in which case alias points to the same service.
func (c *Container) Alias(service, alias reflect.Type) error {
	canonical := c.canonical(service)
	if _, ok := c.entries[canonical]; !ok {
		return newUndefinedServiceError(TypeName(service))
	}
	if alias == nil {
		return newInvalidDefinitionError(fmt.Sprintf("cannot alias %s with a nil type", TypeName(service)))
	}
	c.aliases[alias] = canonical
	c.logger.Debug("aliased service", zap.Stringer("service", canonical), zap.Stringer("alias", alias))
	return nil
}

func (c *Container) canonical(t reflect.Type) reflect.Type {
	if service, ok := c.aliases[t]; ok {
		return service
	}
	return t
}

// Get returns the instance of a service, resolving it and its dependencies when needed.
func (c *Container) Get(t reflect.Type) (any, error) {
	instance, err := c.get(t)
	if err != nil {
		c.logger.Debug("failed to resolve service", zap.Stringer("service", typeStringer{t}), zap.Error(err))
		return nil, err
	}
	return instance, nil
}

func (c *Container) get(t reflect.Type) (any, error) {
	service := c.canonical(t)
	entry, ok := c.entries[service]
	if !ok {
		return nil, newUndefinedServiceError(TypeName(t))
	}

	if instance, ok := c.cached[service]; ok && entry.once {
		c.logger.Debug("service found in cache", zap.Stringer("service", service))
		if err := checkType(instance, service, t); err != nil {
			return nil, err
		}
		return instance, nil
	}

	for _, resolving := range c.resolving {
		if resolving == service {
			return nil, newCyclicDependencyError(TypeName(service), c.cyclePath(service))
		}
	}
	c.resolving = append(c.resolving, service)
	defer func() {
		c.resolving = c.resolving[:len(c.resolving)-1]
	}()

	c.logger.Debug("resolving service", zap.Stringer("service", service), zap.Stringer("factory", entry.call))
	instance, err := c.resolve(entry.call, entry.arguments)
	if err != nil {
		return nil, newServiceInstantiationError(TypeName(service), err)
	}
	if err := checkType(instance, service, t); err != nil {
		return nil, err
	}

	if entry.once {
		c.cached[service] = instance
	}
	c.logger.Debug("service resolved", zap.Stringer("service", service), zap.Bool("cached", entry.once))
	return instance, nil
}

func (c *Container) cyclePath(service reflect.Type) []string {
	path := make([]string, 0, len(c.resolving)+1)
	for _, resolving := range c.resolving {
		path = append(path, TypeName(resolving))
	}
	return append(path, TypeName(service))
}

// resolve inspects a callable, resolves its arguments and calls it.
func (c *Container) resolve(call callable, manual map[string]any) (any, error) {
	parameters, err := call.inspect(c.inspector)
	if err != nil {
		return nil, err
	}

	arguments := make([]any, 0, len(parameters))
	for _, parameter := range parameters {
		argument, err := c.resolveArgument(parameter, manual)
		if err != nil {
			return nil, err
		}
		if !parameter.Accepts(argument) {
			return nil, newInvalidArgumentError(parameter.Name(), parameter.Type(), describeValue(argument))
		}
		arguments = append(arguments, argument)
	}

	value, err := call.call(parameters, arguments)
	if err != nil {
		return nil, err
	}
	if !value.IsValid() {
		return nil, nil
	}
	return value.Interface(), nil
}

func (c *Container) resolveArgument(parameter Parameter, manual map[string]any) (any, error) {
	if argument, ok := manual[parameter.Name()]; ok {
		return argument, nil
	}

	if dependency := parameter.ReflectType(); !parameter.IsBuiltin() && dependency != nil && c.Has(dependency) {
		instance, err := c.get(dependency)
		if err != nil {
			return nil, newNestedServiceError(TypeName(dependency), err)
		}
		return instance, nil
	}

	if parameter.HasDefault() {
		fallback, err := parameter.DefaultCallback()
		if err != nil {
			return nil, err
		}
		return fallback(), nil
	}
	if parameter.IsNullable() {
		return nil, nil
	}
	return nil, newMissingArgumentError(parameter.Name())
}

// Tagged resolves every service tagged with tag, in registration order. When constraint
// is not nil each instance must be assignable to it.
func (c *Container) Tagged(tag string, constraint reflect.Type) ([]any, error) {
	var instances []any
	for _, t := range c.order {
		if !c.entries[t].HasTag(tag) {
			continue
		}
		instance, err := c.Get(t)
		if err != nil {
			return nil, err
		}
		if constraint != nil {
			if err := checkType(instance, constraint); err != nil {
				return nil, err
			}
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

// Call invokes a function, a *Function, a Method or an invokable value, or constructs a
// reflect.Type, resolving its arguments like a factory's. arguments take precedence
// over registered services. The result is the first value the callable returns, nil
// if it returns none.
func (c *Container) Call(subject any, arguments map[string]any) (any, error) {
	var call callable
	switch {
	case IsInvokable(subject):
		call = &functionCall{function: Func(subject)}
	case IsServiceInstance(subject):
		return nil, newInvalidDefinitionError(fmt.Sprintf("cannot call a %s", describeValue(subject)))
	default:
		call = newCallable(subject, nil)
	}
	result, err := c.resolve(call, arguments)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", call, err)
	}
	return result, nil
}

// checkType returns an unexpected type error unless instance is assignable to every
// expected type.
func checkType(instance any, expected ...reflect.Type) error {
	for _, t := range expected {
		if instance == nil || !reflect.TypeOf(instance).AssignableTo(t) {
			return newUnexpectedTypeError(TypeName(t), describeValue(instance))
		}
	}
	return nil
}

type typeStringer struct{ t reflect.Type }

func (s typeStringer) String() string { return TypeName(s.t) }
