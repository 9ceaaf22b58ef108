// Package dispatch routes a recognized intent to the handler registered for
// it.
package dispatch

import (
	"context"
	"sort"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// ExecutionContext carries the per-call runtime state a handler needs.
type ExecutionContext struct {
	SessionID string
	CurrentProject string
	Config any
}

// ContentItem is one entry of a handler result's content array.
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Outcome is what a Handler returns.
type Outcome struct {
	Success bool
	Content []ContentItem
	IsError bool
	FollowUpSuggestions []string
}

// Handler processes a recognized intent. Implementations must be
// idempotent with respect to their inputs and must not mutate state other
// than through the other components' own contracts.
type Handler func(ctx context.Context, intent model.Intent, toolParams map[string]any, execCtx ExecutionContext) (Outcome, error)

// entry pairs a Handler with the description metadata used for
// introspection/help listings, mirroring its named-dispatchable-
// unit registry shape (SubAgentEntry{Name, Description, ...}).
type entry struct {
	intent model.Intent
	description string
	handler Handler
}

// Registry is the total map[model.Intent]Handler the dispatcher looks up
// against.
type Registry struct {
	entries map[model.Intent]entry
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[model.Intent]entry)}
}

// Register adds or replaces the handler for intent.
func (r *Registry) Register(intent model.Intent, description string, handler Handler) {
	r.entries[intent] = entry{intent: intent, description: description, handler: handler}
}

// Get returns the handler registered for intent, if any.
func (r *Registry) Get(intent model.Intent) (Handler, bool) {
	e, ok := r.entries[intent]
	if !ok {
		return nil, false
	}
	return e.handler, true
}

// Descriptions returns {intent: description} for every registered handler,
// sorted by intent name — used by the get_help intent's own handler.
func (r *Registry) Descriptions() []HandlerDescription {
	out := make([]HandlerDescription, 0, len(r.entries))
	for intent, e := range r.entries {
		out = append(out, HandlerDescription{Intent: intent, Description: e.description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Intent < out[j].Intent })
	return out
}

// HandlerDescription is one entry of Registry.Descriptions' output.
type HandlerDescription struct {
	Intent model.Intent
	Description string
}

// Dispatcher invokes the registered handler for a recognized intent.
type Dispatcher struct {
	registry *Registry
}

// New builds a Dispatcher over registry.
func New(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch looks up and invokes the handler for intent. A missing handler
// is reported as resource_not_found rather than panicking.
func (d *Dispatcher) Dispatch(ctx context.Context, intent model.Intent, toolParams map[string]any, execCtx ExecutionContext) (Outcome, error) {
	handler, ok := d.registry.Get(intent)
	if !ok {
		return Outcome{}, coreerrors.New("dispatch", coreerrors.KindResourceNotFound, "no handler registered for intent "+string(intent))
	}
	return handler(ctx, intent, toolParams, execCtx)
}
