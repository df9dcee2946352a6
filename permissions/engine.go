package permissions

import (
	"fmt"

	"github.com/escolaranieri/galeriabackend/models"
)

// Engine bundles the policy registry and the gate set behind one entry
// point. Route guards build a CheckRequest and call Authorize; everything
// else is internal wiring.
type Engine struct {
	registry *Registry
	gates    *Gates
	source   MembershipSource
}

// NewEngine builds the engine with every resource policy registered.
// publicGroupID is the resolved id of the public group (zero when absent);
// source backs membership lookups for entities whose associations were not
// preloaded and may be nil in fully in-memory setups.
func NewEngine(source MembershipSource, publicGroupID uint) *Engine {
	registry := NewRegistry()
	registry.Register(ResourceUser, UserPolicy{})
	registry.Register(ResourceProfile, ProfilePolicy{})
	registry.Register(ResourceGroup, GroupPolicy{})
	registry.Register(ResourceGallery, GalleryPolicy{})
	registry.Register(ResourceImage, ImagePolicy{})

	return &Engine{
		registry: registry,
		gates:    NewGates(publicGroupID),
		source:   source,
	}
}

// Gates exposes the gate set for direct calls (e.g. filtering listings).
func (e *Engine) Gates() *Gates {
	return e.gates
}

// NewDecision opens the memoization scope for one authorization decision.
func (e *Engine) NewDecision() *Decision {
	return NewDecision(e.source)
}

// Can evaluates a policy action in a fresh decision scope.
func (e *Engine) Can(actor *models.User, resourceType string, action Action, resource any) (bool, error) {
	return e.registry.Can(e.NewDecision(), actor, resourceType, action, resource)
}

// CheckGate evaluates a named gate in a fresh decision scope. actor may be
// nil for guests; view-gallery is the only gate that can allow one.
func (e *Engine) CheckGate(name string, actor *models.User, args ...any) (bool, error) {
	return e.gates.Check(e.NewDecision(), name, actor, args...)
}

// CheckKind selects which half of the engine a CheckRequest addresses.
type CheckKind int

const (
	KindGate CheckKind = iota + 1
	KindPolicy
)

// CheckRequest is the typed form of a route guard's permission check: the
// route layer fills in exactly one variant instead of dispatching on
// strings inside the engine.
type CheckRequest struct {
	Kind CheckKind

	// gate variant
	Gate string

	// policy variant
	Resource string
	Action   Action

	// Actor is the authenticated caller, nil for guests.
	Actor *models.User
	// Subject is the optional resource instance under decision.
	Subject any
	// Context carries the secondary instance some checks take (the target
	// gallery when creating an image).
	Context any
}

// GateCheck builds the gate variant of a CheckRequest.
func GateCheck(gate string, actor *models.User, subject any) CheckRequest {
	return CheckRequest{Kind: KindGate, Gate: gate, Actor: actor, Subject: subject}
}

// PolicyCheck builds the policy variant of a CheckRequest.
func PolicyCheck(resource string, action Action, actor *models.User, subject any) CheckRequest {
	return CheckRequest{Kind: KindPolicy, Resource: resource, Action: action, Actor: actor, Subject: subject}
}

// Authorize evaluates one CheckRequest in a fresh decision scope. It
// returns (false, nil) for a plain deny; an error always means the request
// was misconfigured or a membership lookup failed, and must surface as an
// internal error rather than a forbidden response.
func (e *Engine) Authorize(req CheckRequest) (bool, error) {
	d := e.NewDecision()

	switch req.Kind {
	case KindGate:
		args := make([]any, 0, 2)
		if req.Subject != nil {
			args = append(args, req.Subject)
		}
		if req.Context != nil {
			args = append(args, req.Context)
		}
		return e.gates.Check(d, req.Gate, req.Actor, args...)
	case KindPolicy:
		return e.registry.Can(d, req.Actor, req.Resource, req.Action, req.Subject)
	default:
		return false, fmt.Errorf("%w: kind %d", ErrInvalidCheck, req.Kind)
	}
}
