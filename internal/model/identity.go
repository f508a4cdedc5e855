package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Properties is the subset of a live element's attributes needed to derive
// an identity. platform.Element satisfies it.
type Properties interface {
	Name() string
	AutomationID() string
	ControlType() string
	RuntimeID() []int
}

type identityKind int

const (
	kindNone identityKind = iota
	kindRuntime
	kindFallback
)

// Identity is a stable value identifying a UI element within one session,
// so two observations of "the same" item can be recognized even if its
// visual position shifts. Identities are comparable with ==; a runtime
// identity never equals a fallback identity.
type Identity struct {
	kind identityKind

	// runtime is the platform runtime ID joined as "1.2.3".
	runtime string

	name         string
	automationID string
	controlType  string
}

// RuntimeIdentity wraps a platform-stable per-element runtime identifier.
func RuntimeIdentity(ids []int) Identity {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return Identity{kind: kindRuntime, runtime: strings.Join(parts, ".")}
}

// FallbackIdentity identifies an element by its display name, automation id,
// and control type when no runtime identifier is exposed.
func FallbackIdentity(name, automationID, controlType string) Identity {
	return Identity{
		kind:         kindFallback,
		name:         name,
		automationID: automationID,
		controlType:  controlType,
	}
}

// IdentityOf derives an identity for a live element. It always returns a
// value: a runtime identity when the platform exposes one, otherwise a
// fallback identity built from whatever fields the element has.
func IdentityOf(p Properties) Identity {
	if ids := p.RuntimeID(); len(ids) > 0 {
		return RuntimeIdentity(ids)
	}
	return FallbackIdentity(p.Name(), p.AutomationID(), p.ControlType())
}

// IsZero reports whether id is the zero Identity (no element observed yet).
func (id Identity) IsZero() bool {
	return id.kind == kindNone
}

func (id Identity) String() string {
	switch id.kind {
	case kindRuntime:
		return "runtime:" + id.runtime
	case kindFallback:
		return fmt.Sprintf("fallback:%s/%s/%s", id.name, id.automationID, id.controlType)
	default:
		return "none"
	}
}
