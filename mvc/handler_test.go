package mvc

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newDescriptor(t *testing.T, target any, method string, params []Param, resolvers ArgumentResolvers) *HandlerDescriptor {
	t.Helper()
	if resolvers == nil {
		resolvers = DefaultArgumentResolvers()
	}
	d, err := NewHandlerDescriptor(target, method, params, resolvers, nil)
	if err != nil {
		t.Fatalf("NewHandlerDescriptor(%s) error = %v", method, err)
	}
	return d
}

func TestHandlerDescriptor_InvokeResolvesArgumentsInOrder(t *testing.T) {
	c := &recordingController{}
	d := newDescriptor(t, c, "Capture", []Param{Named("r"), Query("name"), PathVar("id"), Named("model")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/accounts/42?name=bob", nil)
	rc := RouteContext{Key: NewRouteKey("/accounts/{id}", GET), PathVariables: map[string]string{"id": "42"}}

	mav, err := d.Invoke(httptest.NewRecorder(), req, rc)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	if len(c.args) != 4 {
		t.Fatalf("handler received %d args, want 4", len(c.args))
	}
	if c.args[0] != req {
		t.Errorf("arg 0 = %v, want the request", c.args[0])
	}
	if c.args[1] != "bob" {
		t.Errorf("arg 1 = %v, want bob", c.args[1])
	}
	if c.args[2] != 42 {
		t.Errorf("arg 2 = %v, want 42", c.args[2])
	}
	if _, ok := c.args[3].(Model); !ok || c.modelSize != 0 {
		t.Errorf("arg 3 = %#v (size %d), want an empty Model", c.args[3], c.modelSize)
	}
	if mav.View != JSONViewName || mav.Model["name"] != "bob" {
		t.Errorf("Invoke() = %+v, want json view with name", mav)
	}
}

func TestHandlerDescriptor_InvokeFreshModelPerCall(t *testing.T) {
	c := &recordingController{}
	d := newDescriptor(t, c, "Capture", []Param{Named("r"), Query("name"), PathVar("id"), Named("model")}, nil)
	rc := RouteContext{PathVariables: map[string]string{"id": "1"}}

	for _, name := range []string{"ann", "bob"} {
		req := httptest.NewRequest(http.MethodGet, "/?name="+name, nil)
		if _, err := d.Invoke(httptest.NewRecorder(), req, rc); err != nil {
			t.Fatalf("Invoke() error = %v", err)
		}
		if c.modelSize != 0 {
			t.Errorf("model handed to call %q had %d entries, want 0", name, c.modelSize)
		}
	}
}

func TestHandlerDescriptor_OptionalParameters(t *testing.T) {
	d := newDescriptor(t, &recordingController{}, "Optional",
		[]Param{OptionalQuery("page"), OptionalQuery("limit"), OptionalQuery("tag")}, nil)

	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit *int
		wantTags  int
	}{
		{name: "absent", query: "", wantPage: 0, wantLimit: nil, wantTags: 0},
		{name: "present", query: "?page=3&limit=10&tag=a&tag=b", wantPage: 3, wantLimit: intPtr(10), wantTags: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			mav, err := d.Invoke(httptest.NewRecorder(), req, RouteContext{})
			if err != nil {
				t.Fatalf("Invoke() error = %v", err)
			}
			if mav.Model["page"] != tt.wantPage {
				t.Errorf("page = %v, want %v", mav.Model["page"], tt.wantPage)
			}
			limit, _ := mav.Model["limit"].(*int)
			if (limit == nil) != (tt.wantLimit == nil) || (limit != nil && *limit != *tt.wantLimit) {
				t.Errorf("limit = %v, want %v", limit, tt.wantLimit)
			}
			if tags, _ := mav.Model["tags"].([]string); len(tags) != tt.wantTags {
				t.Errorf("tags = %v, want %d values", tags, tt.wantTags)
			}
		})
	}
}

func TestHandlerDescriptor_ResolutionFailures(t *testing.T) {
	d := newDescriptor(t, &recordingController{}, "Capture", []Param{Named("r"), Query("name"), PathVar("id"), Named("model")}, nil)

	tests := []struct {
		name        string
		target      string
		vars        map[string]string
		wantMissing bool
	}{
		{name: "missing query", target: "/", vars: map[string]string{"id": "1"}, wantMissing: true},
		{name: "missing path variable", target: "/?name=bob", vars: nil, wantMissing: true},
		{name: "unconvertible path variable", target: "/?name=bob", vars: map[string]string{"id": "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			_, err := d.Invoke(httptest.NewRecorder(), req, RouteContext{PathVariables: tt.vars})

			var resolutionErr *ResolutionError
			if !errors.As(err, &resolutionErr) {
				t.Fatalf("Invoke() error = %v, want *ResolutionError", err)
			}
			if got := errors.Is(err, ErrMissingParameter); got != tt.wantMissing {
				t.Errorf("errors.Is(err, ErrMissingParameter) = %v, want %v (%v)", got, tt.wantMissing, err)
			}
		})
	}
}

func TestHandlerDescriptor_NoResolverIsDeterministic(t *testing.T) {
	d := newDescriptor(t, &recordingController{}, "Unsupported", nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	var messages []string
	for i := 0; i < 3; i++ {
		_, err := d.Invoke(httptest.NewRecorder(), req, RouteContext{})
		var noResolver *NoResolverError
		if !errors.As(err, &noResolver) {
			t.Fatalf("Invoke() error = %v, want *NoResolverError", err)
		}
		if !strings.Contains(err.Error(), "chan int") {
			t.Errorf("error %q does not name the parameter type", err)
		}
		messages = append(messages, err.Error())
	}
	if messages[0] != messages[1] || messages[1] != messages[2] {
		t.Errorf("repeated calls failed differently: %q", messages)
	}

	if err := d.Validate(); err == nil {
		t.Error("Validate() = nil, want an error for the unsupported parameter")
	}
}

func TestHandlerDescriptor_InvocationFaults(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		wantCause error
	}{
		{name: "returned error", method: "Fail", wantCause: errBoom},
		{name: "panic", method: "Panic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDescriptor(t, &recordingController{}, tt.method, nil, nil)
			mav, err := d.Invoke(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), RouteContext{})
			if mav != nil {
				t.Errorf("Invoke() mav = %v, want nil", mav)
			}
			var invocationErr *InvocationError
			if !errors.As(err, &invocationErr) {
				t.Fatalf("Invoke() error = %v, want *InvocationError", err)
			}
			if tt.wantCause != nil && !errors.Is(err, tt.wantCause) {
				t.Errorf("Invoke() error = %v, want it to wrap %v", err, tt.wantCause)
			}
		})
	}
}

func TestHandlerDescriptor_AppendedResolver(t *testing.T) {
	resolvers := DefaultArgumentResolvers().With(userAgentResolver{})
	d := newDescriptor(t, &recordingController{}, "Agent", nil, resolvers)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "probe/1.0")
	mav, err := d.Invoke(httptest.NewRecorder(), req, RouteContext{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if mav.Model["agent"] != "probe/1.0" {
		t.Errorf("agent = %v, want probe/1.0", mav.Model["agent"])
	}

	if _, err := newDescriptor(t, &recordingController{}, "Agent", nil, nil).Invoke(httptest.NewRecorder(), req, RouteContext{}); err == nil {
		t.Error("Invoke() without the appended resolver succeeded, want *NoResolverError")
	}
}

func TestArgumentResolvers_FirstSupportingWins(t *testing.T) {
	p := ParameterMetadata{Type: requestType, Annotations: []Annotation{RequestParam{Required: true}}}
	resolver, ok := DefaultArgumentResolvers().Find(p)
	if !ok {
		t.Fatal("Find() found no resolver")
	}
	if _, isRequest := resolver.(RequestResolver); !isRequest {
		t.Errorf("Find() = %T, want RequestResolver", resolver)
	}
}

func TestNewHandlerDescriptor_RejectsBadShapes(t *testing.T) {
	tests := []struct {
		name   string
		target any
		method string
		params []Param
	}{
		{name: "nil target", target: nil, method: "Capture"},
		{name: "missing method", target: &recordingController{}, method: "Nope"},
		{name: "wrong results", target: &recordingController{}, method: "NotAHandler"},
		{name: "param count mismatch", target: &recordingController{}, method: "Capture", params: []Param{Named("r")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewHandlerDescriptor(tt.target, tt.method, tt.params, DefaultArgumentResolvers(), nil); err == nil {
				t.Errorf("NewHandlerDescriptor() error = nil, want an error")
			}
		})
	}
}

func intPtr(n int) *int {
	return &n
}
