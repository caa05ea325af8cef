// Package access provides group-based access policy value types and pure decision functions.
// This package has NO dependencies on I/O or external packages.
package access

import (
	"errors"
	"sort"

	"github.com/artpar/handlerkit/domain/request"
)

// GroupArg is the named argument carrying the caller's group.
const GroupArg = "group"

var (
	ErrMissingGroup = errors.New("no group supplied")
	ErrForbidden    = errors.New("group not allowed")
)

// Outcome is the result of evaluating a policy against a request.
type Outcome string

const (
	OutcomeAllowed      Outcome = "allowed"
	OutcomeDenied       Outcome = "denied"
	OutcomeMissingGroup Outcome = "missing_group"
)

// Policy is an allow-set of group names (immutable value type).
type Policy struct {
	allowed map[string]struct{}
}

// NewPolicy creates a policy allowing the given groups.
func NewPolicy(groups ...string) Policy {
	allowed := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		allowed[g] = struct{}{}
	}
	return Policy{allowed: allowed}
}

// Allows returns true if the group is in the allow-set.
func (p Policy) Allows(group string) bool {
	_, ok := p.allowed[group]
	return ok
}

// Groups returns the allowed groups sorted by name.
func (p Policy) Groups() []string {
	groups := make([]string, 0, len(p.allowed))
	for g := range p.allowed {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Decision is the evaluated outcome for one request.
type Decision struct {
	Outcome Outcome
	Group   string
}

// Allowed returns true if the handler may be invoked.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllowed
}

// Err returns the sentinel error matching the outcome, or nil when allowed.
func (d Decision) Err() error {
	switch d.Outcome {
	case OutcomeMissingGroup:
		return ErrMissingGroup
	case OutcomeDenied:
		return ErrForbidden
	default:
		return nil
	}
}

// GroupOf resolves the caller's group. A named group argument takes
// precedence over the first positional argument.
func GroupOf(req request.Request) (string, bool) {
	if g, ok := req.Lookup(GroupArg); ok {
		return g, true
	}
	return req.Arg(0)
}

// Decide evaluates the policy for a request.
func (p Policy) Decide(req request.Request) Decision {
	group, ok := GroupOf(req)
	if !ok {
		return Decision{Outcome: OutcomeMissingGroup}
	}
	if p.Allows(group) {
		return Decision{Outcome: OutcomeAllowed, Group: group}
	}
	return Decision{Outcome: OutcomeDenied, Group: group}
}
