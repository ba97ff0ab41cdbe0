package mvc

import (
	"net/http"
)

// RouteContext is what route lookup learned about the request: the key that matched, the
// registered pattern and any path variables extracted from it.
type RouteContext struct {
	Key           RouteKey
	Pattern       string
	PathVariables map[string]string
}

// PathVariable returns the named path variable value.
func (rc RouteContext) PathVariable(name string) (string, bool) {
	value, ok := rc.PathVariables[name]
	return value, ok
}

// ArgumentResolver produces a handler argument from the request context. Implementations
// must be stateless: one instance serves concurrent requests.
type ArgumentResolver interface {
	Supports(param ParameterMetadata) bool
	Resolve(param ParameterMetadata, r *http.Request, w http.ResponseWriter, rc RouteContext) (any, error)
}

// ArgumentResolvers is a priority chain: the first resolver supporting a parameter wins.
type ArgumentResolvers []ArgumentResolver

// DefaultArgumentResolvers returns the built-in chain. New parameter shapes are added by
// appending resolvers, never by changing these.
func DefaultArgumentResolvers() ArgumentResolvers {
	return ArgumentResolvers{
		RequestResolver{},
		ResponseResolver{},
		RequestParamResolver{},
		PathVariableResolver{},
		ModelResolver{},
	}
}

// Find returns the first resolver supporting param.
func (rs ArgumentResolvers) Find(param ParameterMetadata) (ArgumentResolver, bool) {
	for _, resolver := range rs {
		if resolver.Supports(param) {
			return resolver, true
		}
	}
	return nil, false
}

// With returns a copy of the chain with extra appended after the existing resolvers.
func (rs ArgumentResolvers) With(extra ...ArgumentResolver) ArgumentResolvers {
	chain := make(ArgumentResolvers, 0, len(rs)+len(extra))
	chain = append(chain, rs...)
	return append(chain, extra...)
}
