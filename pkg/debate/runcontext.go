package debate

import (
	"errors"

	"github.com/google/uuid"
)

// RunContext is the single-run state shared by all stages: the run
// identifier and the role assignment. Roles are written exactly once,
// by the role assignment stage; afterwards the map is read-only and
// needs no locking.
type RunContext struct {
	RunID string

	finalRoles map[string]Role
	frozen     bool
}

func NewRunContext() *RunContext {
	return &RunContext{RunID: uuid.New().String()}
}

var errRolesFrozen = errors.New("run roles are already assigned")

// FreezeRoles records the final role assignment. A second call is a
// programming error and is rejected.
func (rc *RunContext) FreezeRoles(roles map[string]Role) error {
	if rc.frozen {
		return errRolesFrozen
	}
	rc.finalRoles = make(map[string]Role, len(roles))
	for id, role := range roles {
		rc.finalRoles[id] = role
	}
	rc.frozen = true
	return nil
}

// RoleOf returns the frozen role for an agent, or "" before freezing
// and for unknown agents.
func (rc *RunContext) RoleOf(agentID string) Role {
	return rc.finalRoles[agentID]
}

// FinalRoles returns a copy of the frozen role map.
func (rc *RunContext) FinalRoles() map[string]Role {
	out := make(map[string]Role, len(rc.finalRoles))
	for id, role := range rc.finalRoles {
		out[id] = role
	}
	return out
}
