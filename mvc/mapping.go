package mvc

import "reflect"

// Controller marks a type as carrying handler methods. RequestMappings is the declarative
// metadata the handler mapping reads at startup; it should not depend on request state.
type Controller interface {
	RequestMappings() ControllerMapping
}

var controllerType = reflect.TypeOf((*Controller)(nil)).Elem()

// ControllerMapping is the controller-level marker: a path prefix and the handler methods.
type ControllerMapping struct {
	Path   string
	Routes []RequestMapping
}

// RequestMapping is the route-mapping marker of a single handler method.
type RequestMapping struct {
	// Method is the exported Go method name on the controller.
	Method string
	// Value is the method-level path appended to the controller prefix.
	Value string
	// Verbs lists accepted verbs. Empty means every verb.
	Verbs []Verb
	// Params declares source names and annotations in parameter order. Empty means the
	// parameters carry no annotations and are named arg0..argN.
	Params []Param
}

// Param declares the source name and annotations of one handler parameter.
type Param struct {
	Name        string
	Annotations []Annotation
}

// Annotation is declarative metadata attached to a handler parameter.
type Annotation interface {
	annotation()
}

// RequestParam binds a parameter to a query or form value. Value overrides the parameter
// name; optional parameters receive the zero value of their type when absent.
type RequestParam struct {
	Value    string
	Required bool
}

func (RequestParam) annotation() {}

// PathVariable binds a parameter to a `{name}` segment of the matched route.
type PathVariable struct {
	Value string
}

func (PathVariable) annotation() {}

// Named declares a parameter with no annotations.
func Named(name string) Param {
	return Param{Name: name}
}

// Query declares a required request parameter.
func Query(name string) Param {
	return Param{Name: name, Annotations: []Annotation{RequestParam{Required: true}}}
}

// OptionalQuery declares a request parameter that defaults to its zero value.
func OptionalQuery(name string) Param {
	return Param{Name: name, Annotations: []Annotation{RequestParam{}}}
}

func PathVar(name string) Param {
	return Param{Name: name, Annotations: []Annotation{PathVariable{}}}
}
