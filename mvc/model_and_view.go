package mvc

import "strings"

const (
	// JSONViewName renders the model as a JSON document.
	JSONViewName = "json"
	// RedirectPrefix marks a view name as a redirect target.
	RedirectPrefix = "redirect:"
)

// Model is the view-data container a handler fills before returning.
type Model map[string]any

// ModelAndView is the result of a handler invocation: a view identifier and the data for
// it. Rendering is left to the hosting layer.
type ModelAndView struct {
	View  string
	Model Model
}

func NewModelAndView(view string) *ModelAndView {
	return &ModelAndView{View: view, Model: Model{}}
}

// JSONView returns a ModelAndView rendered as JSON, seeded with model when given.
func JSONView(model ...Model) *ModelAndView {
	mav := NewModelAndView(JSONViewName)
	for _, m := range model {
		for k, v := range m {
			mav.Model[k] = v
		}
	}
	return mav
}

func Redirect(path string) *ModelAndView {
	return NewModelAndView(RedirectPrefix + path)
}

// AddObject stores value under key and returns the receiver for chaining.
func (m *ModelAndView) AddObject(key string, value any) *ModelAndView {
	if m.Model == nil {
		m.Model = Model{}
	}
	m.Model[key] = value
	return m
}

func (m *ModelAndView) IsRedirect() bool {
	return strings.HasPrefix(m.View, RedirectPrefix)
}

// RedirectTarget returns the path after the redirect prefix.
func (m *ModelAndView) RedirectTarget() string {
	return strings.TrimPrefix(m.View, RedirectPrefix)
}
