// Package router holds the application route table and resolves navigation
// requests against it, running guards before a navigation completes.
//
// Both shells use the same Router: the web shell turns a redirect into an
// HTTP 302, the CLI prints the final location.
package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrNoMatch       = errors.New("no route matches path")
	ErrRedirectLoop  = errors.New("too many redirects")
	ErrInvalidRoute  = errors.New("invalid route")
	errEmptyNavigate = errors.New("empty navigation target")
)

// maxRedirects bounds route and guard redirects within one navigation
const maxRedirects = 10

// Meta carries per-route flags read by guards
type Meta struct {
	RequiresAdmin bool `yaml:"requiresAdmin,omitempty" json:"requiresAdmin,omitempty"`
}

// Route describes one entry of the route table.
// Exactly one of Redirect and Component is set.
type Route struct {
	Path      string `yaml:"path" json:"path"`
	Redirect  string `yaml:"redirect,omitempty" json:"redirect,omitempty"`
	Component string `yaml:"component,omitempty" json:"component,omitempty"`
	Meta      Meta   `yaml:"meta,omitempty" json:"meta,omitempty"`
}

// Params holds values captured by ":name" segments
type Params map[string]string

// Location is a resolved navigation target
type Location struct {
	Path           string
	FullPath       string
	Query          url.Values
	Params         Params
	Route          Route
	RedirectedFrom string
}

// Decision is a guard's verdict. The zero value lets navigation proceed.
type Decision struct {
	Redirect string
}

// Proceed lets the navigation continue unmodified
func Proceed() Decision { return Decision{} }

// RedirectTo aborts the navigation and starts a new one to path
func RedirectTo(path string) Decision { return Decision{Redirect: path} }

// Guard runs before a navigation to `to` completes
type Guard func(to, from Location) Decision

// Router matches paths against an ordered route table
type Router struct {
	routes []Route
	guards []Guard
}

// New validates routes and returns a router using them in order
func New(routes []Route) (*Router, error) {
	for i, r := range routes {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("%w: route %d path %q must start with /", ErrInvalidRoute, i, r.Path)
		}
		if (r.Redirect == "") == (r.Component == "") {
			return nil, fmt.Errorf("%w: route %q needs exactly one of redirect or component", ErrInvalidRoute, r.Path)
		}
	}

	return &Router{routes: append([]Route(nil), routes...)}, nil
}

// Routes returns a copy of the route table
func (r *Router) Routes() []Route {
	return append([]Route(nil), r.routes...)
}

// BeforeEach registers a guard. Guards run in registration order and the
// first redirect wins.
func (r *Router) BeforeEach(g Guard) {
	r.guards = append(r.guards, g)
}

// Match returns the first route whose pattern matches path.
// Query strings and trailing slashes are ignored; literal segments compare
// case-insensitively.
func (r *Router) Match(path string) (Route, Params, bool) {
	path, _, _ = strings.Cut(path, "?")
	segments := splitPath(path)

	for _, route := range r.routes {
		if params, ok := matchSegments(splitPath(route.Path), segments); ok {
			return route, params, true
		}
	}
	return Route{}, nil, false
}

// Resolve navigates from `from` to target, following route redirects and
// guard redirects until a component route is accepted.
func (r *Router) Resolve(target string, from Location) (Location, error) {
	if target == "" {
		return Location{}, errEmptyNavigate
	}

	original := target
	redirected := false

	for hops := 0; ; hops++ {
		if hops > maxRedirects {
			return Location{}, fmt.Errorf("%w: navigating to %s", ErrRedirectLoop, original)
		}

		rawPath, rawQuery, _ := strings.Cut(target, "?")
		route, params, ok := r.Match(rawPath)
		if !ok {
			return Location{}, fmt.Errorf("%w: %s", ErrNoMatch, rawPath)
		}

		if route.Redirect != "" {
			target = route.Redirect
			redirected = true
			continue
		}

		query, err := url.ParseQuery(rawQuery)
		if err != nil {
			query = url.Values{}
		}

		loc := Location{
			Path:     rawPath,
			FullPath: target,
			Query:    query,
			Params:   params,
			Route:    route,
		}
		if redirected {
			loc.RedirectedFrom = original
		}

		if next := r.runGuards(loc, from); next != "" {
			target = next
			redirected = true
			continue
		}

		return loc, nil
	}
}

func (r *Router) runGuards(to, from Location) string {
	for _, g := range r.guards {
		if d := g(to, from); d.Redirect != "" {
			return d.Redirect
		}
	}
	return ""
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func matchSegments(pattern, segments []string) (Params, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}

	params := Params{}
	for i, p := range pattern {
		seg := segments[i]
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if seg == "" {
				return nil, false
			}
			if decoded, err := url.PathUnescape(seg); err == nil {
				seg = decoded
			}
			params[name] = seg
			continue
		}
		if !strings.EqualFold(p, seg) {
			return nil, false
		}
	}
	return params, true
}
