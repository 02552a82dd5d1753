package gitrepo

import (
	"fmt"

	"github.com/keeper-security/git-user/pkg/types"
)

// Config keys owned by git-user. Nothing else in a repository config is touched.
const (
	KeyUserName   = "user.name"
	KeyUserEmail  = "user.email"
	KeySigningKey = "user.signingKey"
	KeySSHCommand = "core.sshCommand"
)

// Action is what a change does to a key
type Action string

const (
	ActionSet   Action = "set"
	ActionUnset Action = "unset"
)

// DesiredValue is the state a key should end up in. A nil Value means the key
// should not exist.
type DesiredValue struct {
	Key   string
	Value *string
}

// Change is a single planned edit
type Change struct {
	Key    string
	Action Action
	Value  string
}

// ConfigState reads the current value of a key
type ConfigState interface {
	Get(key string) (string, bool)
}

// ConfigEditor can apply planned changes
type ConfigEditor interface {
	ConfigState
	Set(key, value string) error
	Unset(key string) bool
}

// Desired returns the target state of the owned keys for a profile.
// Name and email are always present.
func Desired(p types.Profile) []DesiredValue {
	name, email := p.Name, p.Email
	return []DesiredValue{
		{Key: KeyUserName, Value: &name},
		{Key: KeyUserEmail, Value: &email},
		{Key: KeySigningKey, Value: p.SigningKey},
		{Key: KeySSHCommand, Value: p.SSHCommand},
	}
}

// Plan compares desired against current and returns only the edits that
// change something: a set when the value differs or is missing, an unset
// when a key that should be absent exists.
func Plan(desired []DesiredValue, current ConfigState) []Change {
	var changes []Change
	for _, d := range desired {
		value, exists := current.Get(d.Key)
		switch {
		case d.Value != nil && (!exists || value != *d.Value):
			changes = append(changes, Change{Key: d.Key, Action: ActionSet, Value: *d.Value})
		case d.Value == nil && exists:
			changes = append(changes, Change{Key: d.Key, Action: ActionUnset})
		}
	}
	return changes
}

// Execute applies changes to editor in order.
func Execute(changes []Change, editor ConfigEditor) error {
	for _, c := range changes {
		switch c.Action {
		case ActionSet:
			if err := editor.Set(c.Key, c.Value); err != nil {
				return fmt.Errorf("failed to set %s: %w", c.Key, err)
			}
		case ActionUnset:
			editor.Unset(c.Key)
		default:
			return fmt.Errorf("unknown action %q for %s", c.Action, c.Key)
		}
	}
	return nil
}
