package search

import (
	"strings"
	"sync"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/models"
)

// MaxSuggestions caps the suggestion dropdown
const MaxSuggestions = 10

// State is a snapshot of the engine's search state
type State struct {
	Query           string         `json:"query"`
	Suggestions     []string       `json:"suggestions"`
	Selected        *models.Member `json:"selected,omitempty"`
	ShowSuggestions bool           `json:"showSuggestions"`
}

// Engine filters the loaded member listing by name and resolves a selected
// suggestion to its full record. Suggestions are recomputed synchronously
// whenever the query, the member listing, or the viewer identity changes, so
// the state always reflects the latest of each input. The engine never
// mutates the directory listing.
type Engine struct {
	mu       sync.Mutex
	members  []models.Member
	identity models.Identity
	state    State
}

// NewEngine creates an empty search engine
func NewEngine() *Engine {
	return &Engine{}
}

// State returns a snapshot of the current search state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// snapshot copies the state so callers never alias the internal slice
func (e *Engine) snapshot() State {
	s := e.state
	if s.Suggestions != nil {
		s.Suggestions = append([]string(nil), s.Suggestions...)
	}
	return s
}

// SetMembers replaces the loaded listing and recomputes suggestions
func (e *Engine) SetMembers(members []models.Member) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.members = members
	e.recompute()
	return e.snapshot()
}

// SetIdentity updates the viewer identity and recomputes suggestions
func (e *Engine) SetIdentity(identity models.Identity) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.identity = identity
	e.recompute()
	return e.snapshot()
}

// SetQuery updates the raw query text. An empty query clears suggestions and
// the selection and hides the panel.
func (e *Engine) SetQuery(text string) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Query = text
	if strings.TrimSpace(text) == "" {
		e.state.Selected = nil
	}
	e.recompute()
	return e.snapshot()
}

// SelectSuggestion resolves name against the full loaded listing by
// case-insensitive exact match. On a match the record becomes the selection,
// the panel hides, and the query becomes the canonical stored casing. No
// match leaves every part of the state unchanged.
func (e *Engine) SelectSuggestion(name string) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	lowered := strings.ToLower(name)
	for i := range e.members {
		if strings.ToLower(e.members[i].Name) == lowered {
			member := e.members[i]
			e.state.Selected = &member
			e.state.Query = member.Name
			e.state.Suggestions = nil
			e.state.ShowSuggestions = false
			return e.snapshot()
		}
	}

	return e.snapshot()
}

// recompute derives suggestions from the current query, listing, and
// identity. Must be called with the lock held.
func (e *Engine) recompute() {
	if strings.TrimSpace(e.state.Query) == "" {
		e.state.Suggestions = nil
		e.state.ShowSuggestions = false
		return
	}

	lowered := strings.ToLower(e.state.Query)

	// An authenticated viewer may only ever see their own record: the panel
	// stays visible but offers at most the viewer's own name
	if e.identity.Authenticated && e.identity.Member != nil {
		own := e.identity.Member.Name
		if strings.Contains(strings.ToLower(own), lowered) {
			e.state.Suggestions = []string{own}
		} else {
			e.state.Suggestions = []string{}
		}
		e.state.ShowSuggestions = true
		return
	}

	suggestions := []string{}
	for i := range e.members {
		if strings.Contains(strings.ToLower(e.members[i].Name), lowered) {
			suggestions = append(suggestions, e.members[i].Name)
			if len(suggestions) == MaxSuggestions {
				break
			}
		}
	}
	e.state.Suggestions = suggestions
	e.state.ShowSuggestions = true
}
