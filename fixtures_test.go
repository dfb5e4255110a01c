package dependency

import (
	"reflect"
)

type Clock interface {
	Now() string
}

type TimeSource interface {
	Now() string
}

type fixedClock struct {
	at string
}

func (c *fixedClock) Now() string { return c.at }

type Greeter struct {
	Clock    Clock  `inject:"clock"`
	Greeting string `inject:"greeting,default=Hello"`
	Repeat   int    `inject:"repeat,optional"`
	Untagged string
}

type sealedBox struct {
	secret string `inject:"secret"`
}

func (b sealedBox) String() string { return b.secret }

type Mailer struct {
	Transport string
	Port      int
	Clock     Clock
}

func NewMailer(transport string, port int, clock Clock) *Mailer {
	return &Mailer{Transport: transport, Port: port, Clock: clock}
}

type mailerFactory struct{}

func (mailerFactory) Build(transport string) *Mailer {
	return &Mailer{Transport: transport}
}

type pointerMailerFactory struct{}

func (*pointerMailerFactory) Build() *Mailer {
	return &Mailer{Transport: "pointer"}
}

type Scheduler struct {
	Clock Clock `inject:"clock"`
}

type Chicken struct {
	Egg *Egg `inject:"egg"`
}

type Egg struct {
	Chicken *Chicken `inject:"chicken"`
}

type Counter struct {
	n int
}

type plugin interface {
	Name() string
}

type pluginA struct{}

func (*pluginA) Name() string { return "a" }

type pluginB struct{}

func (*pluginB) Name() string { return "b" }

type pluginC struct{}

func (*pluginC) Name() string { return "c" }

type greetHandler struct {
	prefix string
}

func (h greetHandler) Invoke(name string) string { return h.prefix + name }

// countingInspector records how many inspections reached it.
type countingInspector struct {
	Inspector
	calls int
}

func newCountingInspector(inner Inspector) *countingInspector {
	return &countingInspector{Inspector: inner}
}

func (i *countingInspector) InspectClass(class reflect.Type) ([]Parameter, error) {
	i.calls++
	return i.Inspector.InspectClass(class)
}

func (i *countingInspector) InspectMethod(classOrInstance any, method string) ([]Parameter, error) {
	i.calls++
	return i.Inspector.InspectMethod(classOrInstance, method)
}

func (i *countingInspector) InspectFunction(function any) ([]Parameter, error) {
	i.calls++
	return i.Inspector.InspectFunction(function)
}
