package mvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
)

var errBoom = errors.New("boom")

// recordingController captures the arguments it was invoked with.
type recordingController struct {
	args      []any
	modelSize int
}

func (c *recordingController) Capture(r *http.Request, name string, id int, model Model) (*ModelAndView, error) {
	c.args = []any{r, name, id, model}
	c.modelSize = len(model)
	model["name"] = name
	return JSONView(model), nil
}

func (c *recordingController) Optional(page int, limit *int, tags []string) (*ModelAndView, error) {
	return JSONView().AddObject("page", page).AddObject("limit", limit).AddObject("tags", tags), nil
}

func (c *recordingController) Unsupported(ch chan int) (*ModelAndView, error) {
	return nil, nil
}

func (c *recordingController) Fail() (*ModelAndView, error) {
	return nil, fmt.Errorf("loading account: %w", errBoom)
}

func (c *recordingController) Panic() (*ModelAndView, error) {
	panic("handler exploded")
}

func (c *recordingController) Agent(agent userAgent) (*ModelAndView, error) {
	return NewModelAndView("agent").AddObject("agent", string(agent)), nil
}

func (c *recordingController) NotAHandler() string {
	return ""
}

type userAgent string

// userAgentResolver is an appended resolver for a parameter shape the defaults do not know.
type userAgentResolver struct{}

func (userAgentResolver) Supports(p ParameterMetadata) bool {
	return p.Type == reflect.TypeOf(userAgent(""))
}

func (userAgentResolver) Resolve(_ ParameterMetadata, r *http.Request, _ http.ResponseWriter, _ RouteContext) (any, error) {
	return userAgent(r.UserAgent()), nil
}

// UserController exercises prefix composition, templates and verb expansion.
type UserController struct {
	Prefix string
}

func (c *UserController) RequestMappings() ControllerMapping {
	prefix := c.Prefix
	if prefix == "" {
		prefix = "/users"
	}
	return ControllerMapping{
		Path: prefix,
		Routes: []RequestMapping{
			{Method: "Show", Value: "/{id}", Verbs: []Verb{GET}, Params: []Param{PathVar("id")}},
			{Method: "New", Value: "/new", Verbs: []Verb{GET}},
			{Method: "Create", Verbs: []Verb{POST}, Params: []Param{Query("name"), Named("model")}},
			{Method: "Any", Value: "/any"},
		},
	}
}

func (c *UserController) Show(id int) (*ModelAndView, error) {
	return JSONView().AddObject("id", id), nil
}

func (c *UserController) New() (*ModelAndView, error) {
	return NewModelAndView("users/new"), nil
}

func (c *UserController) Create(name string, model Model) (*ModelAndView, error) {
	model["created"] = name
	return JSONView(model), nil
}

func (c *UserController) Any(r *http.Request) (*ModelAndView, error) {
	return JSONView().AddObject("verb", r.Method), nil
}

// duplicateController maps the same route as UserController.Show.
type duplicateController struct{}

func (duplicateController) RequestMappings() ControllerMapping {
	return ControllerMapping{Path: "/users", Routes: []RequestMapping{
		{Method: "Other", Value: "/{userId}", Verbs: []Verb{GET}, Params: []Param{PathVar("userId")}},
	}}
}

func (duplicateController) Other(id int) (*ModelAndView, error) {
	return nil, nil
}

// brokenController declares a parameter no resolver can supply.
type brokenController struct{}

func (*brokenController) RequestMappings() ControllerMapping {
	return ControllerMapping{Path: "/broken", Routes: []RequestMapping{
		{Method: "Handle", Verbs: []Verb{GET}, Params: []Param{Named("ch"), Named("fn")}},
	}}
}

func (*brokenController) Handle(ch chan int, fn func()) (*ModelAndView, error) {
	return nil, nil
}

// failingController refuses to initialize.
type failingController struct{}

func (*failingController) RequestMappings() ControllerMapping {
	return ControllerMapping{}
}

func (*failingController) Init(context.Context) error {
	return errBoom
}
