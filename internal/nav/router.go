package nav

import "strings"

// Route binds a path pattern like "/entries/:id/edit" to a view name.
type Route struct {
	Name    string
	Pattern string
}

// Router matches paths against an ordered route table.
type Router struct {
	routes []Route
}

// NewRouter builds a router; earlier routes win.
func NewRouter(routes ...Route) *Router {
	return &Router{routes: routes}
}

// Match resolves path to the first matching route and its context.
func (r *Router) Match(path string) (Route, Context, bool) {
	ctx := Parse(path)
	for _, route := range r.routes {
		pattern := Parse(route.Pattern).Segments
		if len(pattern) != len(ctx.Segments) {
			continue
		}
		params := map[string]string{}
		matched := true
		for i, seg := range pattern {
			if strings.HasPrefix(seg, ":") {
				params[seg[1:]] = ctx.Segments[i]
				continue
			}
			if seg != ctx.Segments[i] {
				matched = false
				break
			}
		}
		if matched {
			ctx.Params = params
			return route, ctx, true
		}
	}
	return Route{}, ctx, false
}
