package types

// Profile represents a git identity that can be applied to a repository.
// The key a profile is stored under is not part of the record.
type Profile struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	SigningKey *string `json:"signingKey,omitempty"`
	SSHCommand *string `json:"sshCommand,omitempty"`
}

// NewProfile creates a profile. Nil optionals stay absent.
func NewProfile(name, email string, signingKey, sshCommand *string) Profile {
	return Profile{
		Name:       name,
		Email:      email,
		SigningKey: cloneString(signingKey),
		SSHCommand: cloneString(sshCommand),
	}
}

// HasSigningKey reports whether the profile carries a signing key
func (p Profile) HasSigningKey() bool {
	return p.SigningKey != nil
}

// HasSSHCommand reports whether the profile carries an SSH command
func (p Profile) HasSSHCommand() bool {
	return p.SSHCommand != nil
}

// Equal compares profiles field by field, including optional presence.
func (p Profile) Equal(other Profile) bool {
	return p.Name == other.Name &&
		p.Email == other.Email &&
		equalOptional(p.SigningKey, other.SigningKey) &&
		equalOptional(p.SSHCommand, other.SSHCommand)
}

// String returns a pointer to s, for filling optional profile fields.
func String(s string) *string {
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
