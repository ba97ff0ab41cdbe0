package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/srcfoundry/mvcore/mvc"
)

func render(w http.ResponseWriter, r *http.Request, mav *mvc.ModelAndView) error {
	switch {
	case mav.IsRedirect():
		http.Redirect(w, r, mav.RedirectTarget(), http.StatusFound)
		return nil
	case mav.View == "" || mav.View == mvc.JSONViewName:
		return renderJSON(w, r, mav.Model)
	default:
		return fmt.Errorf("no renderer for view %q", mav.View)
	}
}

// renderJSON writes the model with an ETag derived from its content and answers a matching
// If-None-Match with 304.
func renderJSON(w http.ResponseWriter, r *http.Request, model mvc.Model) error {
	if model == nil {
		model = mvc.Model{}
	}
	body, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	if etag, ok := modelETag(model); ok {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return nil
		}
	}
	_, err = w.Write(body)
	return err
}

// modelETag hashes the model; models holding values hashstructure cannot walk get no ETag.
func modelETag(model mvc.Model) (string, bool) {
	hash, err := hashstructure.Hash(model, hashstructure.FormatV2, nil)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf(`"%x"`, hash), true
}
