package mvc

import "strings"

// RouteKey indexes the route table. Keys are comparable values and equal iff both path and
// verb match exactly.
type RouteKey struct {
	Path string
	Verb Verb
}

func NewRouteKey(path string, verb Verb) RouteKey {
	return RouteKey{Path: path, Verb: verb}
}

// ExpandRouteKeys returns one key per verb, or one per member of the enum when verbs is empty.
func ExpandRouteKeys(path string, verbs []Verb) []RouteKey {
	if len(verbs) == 0 {
		verbs = Verbs()
	}
	keys := make([]RouteKey, 0, len(verbs))
	seen := make(map[Verb]bool, len(verbs))
	for _, verb := range verbs {
		if seen[verb] {
			continue
		}
		seen[verb] = true
		keys = append(keys, RouteKey{Path: path, Verb: verb})
	}
	return keys
}

func (k RouteKey) String() string {
	return k.Verb.String() + " " + k.Path
}

// isTemplate reports whether the path declares `{var}` segments.
func (k RouteKey) isTemplate() bool {
	return strings.ContainsRune(k.Path, '{')
}

// JoinPath composes a controller prefix with a method path, leaving exactly one slash at
// the seam. Trailing slashes are kept, an empty result becomes "/".
func JoinPath(prefix, suffix string) string {
	var joined string
	switch {
	case suffix == "":
		joined = prefix
	case prefix == "":
		joined = suffix
	default:
		joined = strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(suffix, "/")
	}
	if !strings.HasPrefix(joined, "/") {
		joined = "/" + joined
	}
	return joined
}
