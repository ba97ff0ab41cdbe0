package addons

import (
	"context"
	"net/http"
	"os"

	"github.com/srcfoundry/mvcore/component"
	"github.com/srcfoundry/mvcore/mvc"
	"go.uber.org/zap"
)

// UsersDBEnv holds the SimpleFileDB connection string for the users add-on.
const UsersDBEnv = "MVCORE_USERS_DB"

func init() {
	component.MustRegister(&UserController{Greeting: "pong"})
}

// UserController is a sample controller serving /users.
type UserController struct {
	Greeting string
	db       *SimpleFileDB
}

func (c *UserController) Init(ctx context.Context) error {
	c.db = &SimpleFileDB{connString: os.Getenv(UsersDBEnv)}
	if err := c.db.Connect(ctx); err != nil {
		return err
	}
	component.LoggerFromContext(ctx).Info("users db connected", zap.Bool("persistent", len(c.db.path) > 0))
	return nil
}

func (c *UserController) RequestMappings() mvc.ControllerMapping {
	return mvc.ControllerMapping{
		Path: "/users",
		Routes: []mvc.RequestMapping{
			{Method: "List", Verbs: []mvc.Verb{mvc.GET}, Params: []mvc.Param{mvc.OptionalQuery("name"), mvc.Named("model")}},
			{Method: "Create", Verbs: []mvc.Verb{mvc.POST}, Params: []mvc.Param{mvc.Query("name")}},
			{Method: "Show", Value: "/{id}", Verbs: []mvc.Verb{mvc.GET}, Params: []mvc.Param{mvc.PathVar("id"), mvc.Named("w"), mvc.Named("model")}},
			{Method: "Delete", Value: "/{id}", Verbs: []mvc.Verb{mvc.DELETE}, Params: []mvc.Param{mvc.PathVar("id"), mvc.Named("w")}},
			{Method: "Ping", Value: "/ping", Params: []mvc.Param{mvc.Named("w")}},
		},
	}
}

func (c *UserController) List(name string, model mvc.Model) (*mvc.ModelAndView, error) {
	model["users"] = c.db.Find(name)
	return mvc.JSONView(model), nil
}

func (c *UserController) Create(name string) (*mvc.ModelAndView, error) {
	if _, err := c.db.Insert(name); err != nil {
		return nil, err
	}
	return mvc.Redirect("/users"), nil
}

func (c *UserController) Show(id int, w http.ResponseWriter, model mvc.Model) (*mvc.ModelAndView, error) {
	user, found := c.db.FindOne(id)
	if !found {
		http.Error(w, "user not found", http.StatusNotFound)
		return nil, nil
	}
	model["user"] = user
	return mvc.JSONView(model), nil
}

func (c *UserController) Delete(id int, w http.ResponseWriter) (*mvc.ModelAndView, error) {
	deleted, err := c.db.Delete(id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		http.Error(w, "user not found", http.StatusNotFound)
		return nil, nil
	}
	w.WriteHeader(http.StatusNoContent)
	return nil, nil
}

// Ping answers on every verb.
func (c *UserController) Ping(w http.ResponseWriter) (*mvc.ModelAndView, error) {
	w.Header().Set("Content-Type", "text/plain")
	_, err := w.Write([]byte(c.Greeting))
	return nil, err
}
