// Package aimodel holds the fixed registry of AI models a review can run against.
package aimodel

// Model identifies a selectable backend AI model.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Registry is an ordered, read-only list of models. The first entry is the default.
type Registry struct {
	models []Model
}

var supported = []Model{
	{ID: "gpt-4o", Name: "GPT-4o"},
	{ID: "gpt-4", Name: "GPT-4"},
	{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo"},
	{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus"},
	{ID: "claude-3-sonnet-20240229", Name: "Claude 3 Sonnet"},
	{ID: "gemini-1.5-pro-latest", Name: "Gemini 1.5 Pro"},
	{ID: "grok-1", Name: "Grok"},
}

// DefaultRegistry returns the compiled-in model registry.
func DefaultRegistry() *Registry {
	return NewRegistry(supported)
}

// NewRegistry copies models into a registry. Later duplicates of an ID are dropped.
func NewRegistry(models []Model) *Registry {
	seen := make(map[string]bool, len(models))
	out := make([]Model, 0, len(models))
	for _, m := range models {
		if m.ID == "" || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return &Registry{models: out}
}

// All returns a copy of the registered models in display order.
func (r *Registry) All() []Model {
	out := make([]Model, len(r.models))
	copy(out, r.models)
	return out
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	return len(r.models)
}

// Default returns the first registered model.
func (r *Registry) Default() Model {
	if len(r.models) == 0 {
		return Model{}
	}
	return r.models[0]
}

// Lookup finds a model by ID.
func (r *Registry) Lookup(id string) (Model, bool) {
	for _, m := range r.models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// Index returns the display position of id, or -1.
func (r *Registry) Index(id string) int {
	for i, m := range r.models {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// At returns the model at position i, wrapping around in both directions.
func (r *Registry) At(i int) Model {
	n := len(r.models)
	if n == 0 {
		return Model{}
	}
	return r.models[((i%n)+n)%n]
}
