package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"

	"github.com/keeper-security/git-user/internal/apperrors"
	"github.com/keeper-security/git-user/internal/fileutil"
	"github.com/keeper-security/git-user/pkg/types"
)

var _ ProfileReader = (*ProfileStore)(nil)

const (
	storeFileMode = 0600
	storeDirMode  = 0700
)

// ProfileStore is the in-memory copy of the profiles document. It is not
// safe for concurrent use; each command loads, mutates and saves it once.
type ProfileStore struct {
	profiles map[string]types.Profile
}

// profilesDocument represents the on-disk storage format
type profilesDocument struct {
	Profiles map[string]types.Profile `json:"profiles"`
}

// profileRecord is a decoded profile before required fields are checked.
// An absent or null name or email is an error rather than an empty string.
type profileRecord struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	SigningKey *string `json:"signingKey"`
	SSHCommand *string `json:"sshCommand"`
}

type recordsDocument struct {
	Profiles map[string]profileRecord `json:"profiles"`
}

func (r profileRecord) profile() (types.Profile, error) {
	switch {
	case r.Name == nil:
		return types.Profile{}, errors.New("missing field `name`")
	case r.Email == nil:
		return types.Profile{}, errors.New("missing field `email`")
	}
	return types.NewProfile(*r.Name, *r.Email, r.SigningKey, r.SSHCommand), nil
}

// NewProfileStore creates an empty store
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]types.Profile)}
}

// Deserialize parses a `{"profiles": {...}}` document. A missing or null
// profiles map yields an empty store.
func Deserialize(data []byte) (*ProfileStore, error) {
	return deserialize(data, "")
}

func deserialize(data []byte, op string) (*ProfileStore, error) {
	var doc recordsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.JSON(op, err)
	}

	store := NewProfileStore()
	for _, key := range sortedKeys(doc.Profiles) {
		profile, err := doc.Profiles[key].profile()
		if err != nil {
			return nil, apperrors.JSON(op, fmt.Errorf("profile %q: %w", key, err))
		}
		store.profiles[key] = profile
	}
	return store, nil
}

// Serialize renders the store as compact JSON with keys sorted. The empty
// store renders as {"profiles":{}}.
func (ps *ProfileStore) Serialize() ([]byte, error) {
	doc := profilesDocument{Profiles: ps.profiles}
	if doc.Profiles == nil {
		doc.Profiles = map[string]types.Profile{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, apperrors.JSON("encode store", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Insert stores profile under key and returns the profile it displaced, if any.
func (ps *ProfileStore) Insert(key string, profile types.Profile) (types.Profile, bool) {
	if ps.profiles == nil {
		ps.profiles = make(map[string]types.Profile)
	}
	previous, existed := ps.profiles[key]
	ps.profiles[key] = profile
	return previous, existed
}

// Remove deletes key and returns what was removed. Removing an absent key is a no-op.
func (ps *ProfileStore) Remove(key string) (types.Profile, bool) {
	removed, existed := ps.profiles[key]
	if existed {
		delete(ps.profiles, key)
	}
	return removed, existed
}

// Get retrieves a profile by key
func (ps *ProfileStore) Get(key string) (types.Profile, bool) {
	profile, ok := ps.profiles[key]
	return profile, ok
}

// All yields every (key, profile) pair in key order. The sequence can be
// ranged over any number of times.
func (ps *ProfileStore) All() iter.Seq2[string, types.Profile] {
	return func(yield func(string, types.Profile) bool) {
		for _, key := range ps.Keys() {
			if !yield(key, ps.profiles[key]) {
				return
			}
		}
	}
}

// Keys returns the sorted profile keys
func (ps *ProfileStore) Keys() []string {
	return sortedKeys(ps.profiles)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of profiles
func (ps *ProfileStore) Len() int {
	return len(ps.profiles)
}

// LoadOrCreate reads the store at path. When the file does not exist, the
// parent directories and an empty store file are created.
func LoadOrCreate(path string) (*ProfileStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, storeDirMode); err != nil {
			return nil, apperrors.File("create store directory", err)
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is the user's configured store
	if errors.Is(err, fs.ErrNotExist) {
		store := NewProfileStore()
		if err := store.Save(path); err != nil {
			return nil, err
		}
		return store, nil
	}
	if err != nil {
		return nil, apperrors.File("read store", err)
	}

	return deserialize(data, "parse "+path)
}

// Save writes the whole store to path in one atomic replace. On failure the
// previous file is left untouched.
func (ps *ProfileStore) Save(path string) error {
	data, err := ps.Serialize()
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, storeFileMode); err != nil {
		return apperrors.File("write store", err)
	}
	return nil
}
