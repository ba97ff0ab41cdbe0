package mvc

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gorilla/mux"
)

// RouteInfo describes one registered route.
type RouteInfo struct {
	Key        RouteKey
	Controller string
	Method     string
}

// RouteTable maps RouteKeys to handler descriptors. It is populated once during
// initialization and only read afterwards, so lookups take no locks.
type RouteTable struct {
	handlers map[RouteKey]*HandlerDescriptor
	routes   []RouteInfo

	// templates indexes keys whose path declares {var} segments. It is consulted only when
	// the exact lookup misses.
	templates      *mux.Router
	templateKeys   map[string]RouteKey
	templateShapes map[RouteKey]RouteKey
}

func NewRouteTable() *RouteTable {
	return &RouteTable{
		handlers:       make(map[RouteKey]*HandlerDescriptor),
		templates:      mux.NewRouter().UseEncodedPath(),
		templateKeys:   make(map[string]RouteKey),
		templateShapes: make(map[RouteKey]RouteKey),
	}
}

// Register maps key to d. A key that is already taken, or a template that differs from an
// existing one only in variable names, fails with ErrDuplicateRoute.
func (t *RouteTable) Register(key RouteKey, d *HandlerDescriptor) error {
	if existing, found := t.handlers[key]; found {
		return fmt.Errorf("%w: %s is mapped by both %s and %s", ErrDuplicateRoute, key, existing, d)
	}

	if key.isTemplate() {
		shape := RouteKey{Path: templateShape(key.Path), Verb: key.Verb}
		if other, found := t.templateShapes[shape]; found {
			return fmt.Errorf("%w: %s is ambiguous with %s (%s)", ErrDuplicateRoute, key, other, t.handlers[other])
		}
		route := t.templates.NewRoute().
			Path(key.Path).
			Methods(key.Verb.String()).
			Name(key.String()).
			Handler(http.NotFoundHandler())
		if err := route.GetError(); err != nil {
			return fmt.Errorf("invalid route %s: %w", key, err)
		}
		t.templateShapes[shape] = key
		t.templateKeys[key.String()] = key
	}

	t.handlers[key] = d
	t.routes = append(t.routes, RouteInfo{Key: key, Controller: d.receiver.String(), Method: d.MethodName()})
	return nil
}

// Lookup finds the handler for path and verb: first by exact key, then by template. path is
// the escaped request path, so an encoded slash stays inside one segment; path variables
// are unescaped after matching. Template keys never match exactly, a request for the
// literal text /users/{id} goes through template matching like any other.
func (t *RouteTable) Lookup(path string, verb Verb) (*Handler, bool) {
	key := RouteKey{Path: path, Verb: verb}
	if d, found := t.handlers[key]; found && !key.isTemplate() {
		return &Handler{descriptor: d, route: RouteContext{Key: key, Pattern: key.Path}}, true
	}

	if len(t.templateKeys) == 0 {
		return nil, false
	}

	decoded, err := url.PathUnescape(path)
	if err != nil {
		return nil, false
	}
	req := &http.Request{Method: verb.String(), URL: &url.URL{Path: decoded, RawPath: path}}
	var match mux.RouteMatch
	if !t.templates.Match(req, &match) || match.MatchErr != nil || match.Route == nil {
		return nil, false
	}
	matched, found := t.templateKeys[match.Route.GetName()]
	if !found {
		return nil, false
	}

	vars := make(map[string]string, len(match.Vars))
	for name, raw := range match.Vars {
		value, err := url.PathUnescape(raw)
		if err != nil {
			return nil, false
		}
		vars[name] = value
	}

	return &Handler{
		descriptor: t.handlers[matched],
		route:      RouteContext{Key: matched, Pattern: matched.Path, PathVariables: vars},
	}, true
}

// Descriptor returns the descriptor registered under exactly key.
func (t *RouteTable) Descriptor(key RouteKey) (*HandlerDescriptor, bool) {
	d, found := t.handlers[key]
	return d, found
}

// Descriptors returns each distinct descriptor once, in registration order.
func (t *RouteTable) Descriptors() []*HandlerDescriptor {
	seen := make(map[*HandlerDescriptor]bool)
	var descriptors []*HandlerDescriptor
	for _, info := range t.routes {
		d := t.handlers[info.Key]
		if !seen[d] {
			seen[d] = true
			descriptors = append(descriptors, d)
		}
	}
	return descriptors
}

// Routes lists the registered routes sorted by path, then verb.
func (t *RouteTable) Routes() []RouteInfo {
	routes := make([]RouteInfo, len(t.routes))
	copy(routes, t.routes)
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Key.Path != routes[j].Key.Path {
			return routes[i].Key.Path < routes[j].Key.Path
		}
		return routes[i].Key.Verb < routes[j].Key.Verb
	})
	return routes
}

func (t *RouteTable) Len() int {
	return len(t.handlers)
}

// templateShape blanks variable names so /users/{id} and /users/{name} compare equal.
// Regexp constraints are kept; they change what the template matches.
func templateShape(path string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(path, '{')
		if start < 0 {
			b.WriteString(path)
			return b.String()
		}
		end := strings.IndexByte(path[start:], '}')
		if end < 0 {
			b.WriteString(path)
			return b.String()
		}
		b.WriteString(path[:start])
		variable := path[start+1 : start+end]
		if colon := strings.IndexByte(variable, ':'); colon >= 0 {
			b.WriteString("{" + variable[colon:] + "}")
		} else {
			b.WriteString("{}")
		}
		path = path[start+end+1:]
	}
}
