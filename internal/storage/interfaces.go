package storage

import (
	"iter"

	"github.com/keeper-security/git-user/pkg/types"
)

// ProfileReader is the read side of a profile store
type ProfileReader interface {
	Get(key string) (types.Profile, bool)
	All() iter.Seq2[string, types.Profile]
	Len() int
}
