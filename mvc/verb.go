package mvc

import (
	"fmt"
	"strings"
)

// Verb is an HTTP request method a route can be mapped to.
type Verb uint8

const (
	GET Verb = iota
	HEAD
	POST
	PUT
	PATCH
	DELETE
	OPTIONS
	TRACE
)

var verbNames = [...]string{
	GET:     "GET",
	HEAD:    "HEAD",
	POST:    "POST",
	PUT:     "PUT",
	PATCH:   "PATCH",
	DELETE:  "DELETE",
	OPTIONS: "OPTIONS",
	TRACE:   "TRACE",
}

// Verbs returns every member of the Verb enum in declaration order. A route mapping
// declaring no verbs is registered under all of them.
func Verbs() []Verb {
	verbs := make([]Verb, len(verbNames))
	for i := range verbNames {
		verbs[i] = Verb(i)
	}
	return verbs
}

func (v Verb) String() string {
	if int(v) < len(verbNames) {
		return verbNames[v]
	}
	return fmt.Sprintf("Verb(%d)", uint8(v))
}

// ParseVerb maps a request method string onto the enum, ignoring case.
func ParseVerb(method string) (Verb, error) {
	upper := strings.ToUpper(method)
	for i, name := range verbNames {
		if name == upper {
			return Verb(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVerb, method)
}
