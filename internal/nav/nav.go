// Package nav models where the user is in the application: the path of the
// current view, the parameters extracted from it, and the history of visits.
package nav

import (
	"strings"
	"sync"
)

// Context describes the current location as seen by a view.
type Context struct {
	Params   map[string]string
	Segments []string
}

// Parse splits a path such as "/categories/7/edit" into segments.
func Parse(path string) Context {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return Context{Segments: segments, Params: map[string]string{}}
}

// Last returns the terminal segment, or "" for the root.
func (c Context) Last() string {
	if len(c.Segments) == 0 {
		return ""
	}
	return c.Segments[len(c.Segments)-1]
}

// Param returns a named path parameter.
func (c Context) Param(name string) (string, bool) {
	v, ok := c.Params[name]
	return v, ok
}

// Path rebuilds the absolute path.
func (c Context) Path() string {
	return "/" + strings.Join(c.Segments, "/")
}

// Navigator moves the application between views.
type Navigator interface {
	// Navigate activates the view for path.
	Navigate(path string)
	// Replace rewrites the current location without re-activating the view.
	Replace(path string)
}

// History is a Navigator that records visited paths.
type History struct {
	entries []string
	mu      sync.Mutex
}

// NewHistory starts a history at path.
func NewHistory(path string) *History {
	return &History{entries: []string{path}}
}

// Navigate pushes path.
func (h *History) Navigate(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, path)
}

// Replace swaps the current path.
func (h *History) Replace(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		h.entries = append(h.entries, path)
		return
	}
	h.entries[len(h.entries)-1] = path
}

// Back pops the current path and returns the previous one. The first entry
// is never removed.
func (h *History) Back() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) < 2 {
		return "", false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.entries[len(h.entries)-1], true
}

// Current returns the active path.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return "/"
	}
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of the visited paths, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
