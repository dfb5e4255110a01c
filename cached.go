package dependency

import (
	"reflect"
	"sync"
)

// CachedInspector memoizes the results of another Inspector. Failed inspections are
// not cached.
type CachedInspector struct {
	inner Inspector

	mu      sync.Mutex
	classes map[reflect.Type][]Parameter
	methods map[methodKey][]Parameter
	funcs   map[any][]Parameter
}

var _ Inspector = &CachedInspector{}

func NewCachedInspector(inner Inspector) *CachedInspector {
	if inner == nil {
		inner = NewReflectionInspector()
	}
	return &CachedInspector{
		inner:   inner,
		classes: make(map[reflect.Type][]Parameter),
		methods: make(map[methodKey][]Parameter),
		funcs:   make(map[any][]Parameter),
	}
}

func (c *CachedInspector) InspectClass(class reflect.Type) ([]Parameter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if parameters, ok := c.classes[class]; ok {
		return parameters, nil
	}
	parameters, err := c.inner.InspectClass(class)
	if err != nil {
		return nil, err
	}
	c.classes[class] = parameters
	return parameters, nil
}

func (c *CachedInspector) InspectMethod(classOrInstance any, method string) ([]Parameter, error) {
	key := methodKey{Method{Receiver: classOrInstance}.receiverType(), method}
	c.mu.Lock()
	defer c.mu.Unlock()
	if parameters, ok := c.methods[key]; ok {
		return parameters, nil
	}
	parameters, err := c.inner.InspectMethod(classOrInstance, method)
	if err != nil {
		return nil, err
	}
	c.methods[key] = parameters
	return parameters, nil
}

// InspectFunction caches a *Function carrying metadata by identity, and any other
// function, bare wrappers included, by what it wraps.
func (c *CachedInspector) InspectFunction(function any) ([]Parameter, error) {
	key := docKey(function)
	if f, ok := function.(*Function); ok && f != nil && !f.bare() {
		key = f
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if key != nil {
		if parameters, ok := c.funcs[key]; ok {
			return parameters, nil
		}
	}
	parameters, err := c.inner.InspectFunction(function)
	if err != nil {
		return nil, err
	}
	if key != nil {
		c.funcs[key] = parameters
	}
	return parameters, nil
}
