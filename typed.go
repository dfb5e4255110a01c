package dependency

import "fmt"

// Register binds T to a factory or an instance, see Container.Register.
func Register[T any](c *Container, factoryOrInstance any) *Entry {
	return c.Register(TypeOf[T](), factoryOrInstance)
}

// Get resolves the service T.
func Get[T any](c *Container) (T, error) {
	var zero T
	instance, err := c.Get(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, newUnexpectedTypeError(TypeName(TypeOf[T]()), describeValue(instance))
	}
	return typed, nil
}

// MustGet resolves the service T and panics on failure.
func MustGet[T any](c *Container) T {
	instance, err := Get[T](c)
	if err != nil {
		panic(fmt.Errorf("dependency: %w", err))
	}
	return instance
}

// Has reports whether T is registered or aliased.
func Has[T any](c *Container) bool {
	return c.Has(TypeOf[T]())
}

// Alias makes A resolve to the registered service S.
func Alias[S, A any](c *Container) error {
	return c.Alias(TypeOf[S](), TypeOf[A]())
}

// Tagged resolves every service tagged with tag, each of which must be a T.
func Tagged[T any](c *Container, tag string) ([]T, error) {
	instances, err := c.Tagged(tag, TypeOf[T]())
	if err != nil {
		return nil, err
	}
	typed := make([]T, 0, len(instances))
	for _, instance := range instances {
		typed = append(typed, instance.(T))
	}
	return typed, nil
}

// Call calls subject with resolved arguments and returns its result as a T.
func Call[T any](c *Container, subject any, arguments map[string]any) (T, error) {
	var zero T
	result, err := c.Call(subject, arguments)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, newUnexpectedTypeError(TypeName(TypeOf[T]()), describeValue(result))
	}
	return typed, nil
}
