package mvc

import (
	"fmt"
	"net/http"
	"reflect"
)

var (
	requestType  = reflect.TypeOf((*http.Request)(nil))
	responseType = reflect.TypeOf((*http.ResponseWriter)(nil)).Elem()
	modelType    = reflect.TypeOf(Model(nil))
)

// RequestResolver hands the *http.Request to the handler.
type RequestResolver struct{}

func (RequestResolver) Supports(param ParameterMetadata) bool {
	return param.Type == requestType
}

func (RequestResolver) Resolve(_ ParameterMetadata, r *http.Request, _ http.ResponseWriter, _ RouteContext) (any, error) {
	return r, nil
}

// ResponseResolver hands the http.ResponseWriter to the handler.
type ResponseResolver struct{}

func (ResponseResolver) Supports(param ParameterMetadata) bool {
	return param.Type == responseType
}

func (ResponseResolver) Resolve(_ ParameterMetadata, _ *http.Request, w http.ResponseWriter, _ RouteContext) (any, error) {
	return w, nil
}

// RequestParamResolver binds parameters annotated with RequestParam to query or form values.
type RequestParamResolver struct{}

func (RequestParamResolver) Supports(param ParameterMetadata) bool {
	_, ok := param.RequestParam()
	return ok && canConvert(param.Type, true)
}

func (RequestParamResolver) Resolve(param ParameterMetadata, r *http.Request, _ http.ResponseWriter, _ RouteContext) (any, error) {
	annotation, _ := param.RequestParam()
	name := param.bindingName(annotation.Value)

	if err := r.ParseForm(); err != nil {
		return nil, &ResolutionError{Param: param, Err: err}
	}

	values, found := r.Form[name]
	if !found || len(values) == 0 {
		if annotation.Required {
			return nil, &ResolutionError{Param: param, Err: fmt.Errorf("%w: %q", ErrMissingParameter, name)}
		}
		return reflect.Zero(param.Type).Interface(), nil
	}

	value, err := convertValues(values, param.Type)
	if err != nil {
		return nil, &ResolutionError{Param: param, Err: err}
	}
	return value.Interface(), nil
}

// PathVariableResolver binds parameters annotated with PathVariable to the matched route's
// path variables.
type PathVariableResolver struct{}

func (PathVariableResolver) Supports(param ParameterMetadata) bool {
	_, ok := param.PathVariable()
	return ok && canConvert(param.Type, false)
}

func (PathVariableResolver) Resolve(param ParameterMetadata, _ *http.Request, _ http.ResponseWriter, rc RouteContext) (any, error) {
	annotation, _ := param.PathVariable()
	name := param.bindingName(annotation.Value)

	raw, found := rc.PathVariable(name)
	if !found {
		return nil, &ResolutionError{Param: param, Err: fmt.Errorf("%w: path variable %q", ErrMissingParameter, name)}
	}

	value, err := convertValues([]string{raw}, param.Type)
	if err != nil {
		return nil, &ResolutionError{Param: param, Err: err}
	}
	return value.Interface(), nil
}

// ModelResolver hands the handler a fresh, empty Model.
type ModelResolver struct{}

func (ModelResolver) Supports(param ParameterMetadata) bool {
	return param.Type == modelType
}

func (ModelResolver) Resolve(ParameterMetadata, *http.Request, http.ResponseWriter, RouteContext) (any, error) {
	return Model{}, nil
}
