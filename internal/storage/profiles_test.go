package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/keeper-security/git-user/internal/apperrors"
	"github.com/keeper-security/git-user/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeEmptyStore(t *testing.T) {
	data, err := NewProfileStore().Serialize()
	require.NoError(t, err)
	assert.Equal(t, `{"profiles":{}}`, string(data))

	var zero ProfileStore
	data, err = zero.Serialize()
	require.NoError(t, err)
	assert.Equal(t, `{"profiles":{}}`, string(data))
}

func TestSerializeWritesJSON(t *testing.T) {
	store := NewProfileStore()
	store.Insert("test", types.NewProfile("abc", "def", nil, nil))

	data, err := store.Serialize()
	require.NoError(t, err)
	assert.Equal(t, `{"profiles":{"test":{"name":"abc","email":"def"}}}`, string(data))

	store.Insert("work", types.NewProfile("bob", "bob@example.com", types.String("KEY123"), types.String("ssh -i ~/.ssh/work <&>")))
	data, err = store.Serialize()
	require.NoError(t, err)
	assert.Equal(t,
		`{"profiles":{"test":{"name":"abc","email":"def"},"work":{"name":"bob","email":"bob@example.com","signingKey":"KEY123","sshCommand":"ssh -i ~/.ssh/work <&>"}}}`,
		string(data))
}

func TestSerializeOmitsAbsentOptionals(t *testing.T) {
	store := NewProfileStore()
	store.Insert("p", types.NewProfile("n", "e", nil, types.String("ssh")))

	data, err := store.Serialize()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "signingKey")
	assert.NotContains(t, string(data), "null")
	assert.Contains(t, string(data), `"sshCommand":"ssh"`)
}

func TestSerializeIsStable(t *testing.T) {
	store := NewProfileStore()
	for _, key := range []string{"zeta", "alpha", "mid"} {
		store.Insert(key, types.NewProfile(key, key+"@example.com", nil, nil))
	}

	first, err := store.Serialize()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := store.Serialize()
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestDeserialize(t *testing.T) {
	store, err := Deserialize([]byte(`{"profiles":{"test":{"name":"abc","email":"def"}}}`))
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	profile, ok := store.Get("test")
	require.True(t, ok)
	assert.Equal(t, "abc", profile.Name)
	assert.Equal(t, "def", profile.Email)
	assert.Nil(t, profile.SigningKey)
	assert.Nil(t, profile.SSHCommand)

	for _, doc := range []string{`{"profiles":{}}`, `{}`, `null`, `{"profiles":null}`} {
		store, err := Deserialize([]byte(doc))
		require.NoError(t, err, doc)
		assert.Equal(t, 0, store.Len(), doc)
	}
}

func TestDeserializeMalformed(t *testing.T) {
	for _, doc := range []string{
		"invalid",
		`"invalid"`,
		`{"profiles":[]}`,
		`{"profiles":{"a":{"name":1}}}`,
		"",
		`{"profiles":{"work":{}}}`,
		`{"profiles":{"work":{"nmae":"bob","email":"b@x"}}}`,
		`{"profiles":{"work":{"name":null,"email":"b@x"}}}`,
		`{"profiles":{"work":{"name":"bob"}}}`,
	} {
		store, err := Deserialize([]byte(doc))
		assert.Nil(t, store, doc)
		assert.ErrorIs(t, err, apperrors.ErrJSON, doc)
	}
}

func TestDeserializeMissingFieldNamesProfile(t *testing.T) {
	_, err := Deserialize([]byte(`{"profiles":{"ok":{"name":"a","email":"a@x"},"work":{"nmae":"bob","email":"b@x"}}}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrJSON)
	assert.Contains(t, err.Error(), `profile "work": missing field `+"`name`")
}

func TestDeserializeNullOptionalsAreAbsent(t *testing.T) {
	store, err := Deserialize([]byte(`{"profiles":{"a":{"name":"a","email":"a@x","signingKey":null,"sshCommand":""}}}`))
	require.NoError(t, err)

	profile, ok := store.Get("a")
	require.True(t, ok)
	assert.False(t, profile.HasSigningKey())
	require.True(t, profile.HasSSHCommand())
	assert.Equal(t, "", *profile.SSHCommand)
}

func TestEmptyDocumentRoundTripsByteForByte(t *testing.T) {
	store, err := Deserialize([]byte(`{"profiles":{}}`))
	require.NoError(t, err)

	data, err := store.Serialize()
	require.NoError(t, err)
	assert.Equal(t, `{"profiles":{}}`, string(data))
}

func TestRoundTrip(t *testing.T) {
	stores := map[string]*ProfileStore{
		"empty": NewProfileStore(),
		"mixed": func() *ProfileStore {
			s := NewProfileStore()
			s.Insert("alice", types.NewProfile("alice", "alice@example.com", nil, nil))
			s.Insert("work", types.NewProfile("bob", "bob@example.com", types.String("KEY123"), nil))
			s.Insert("ssh", types.NewProfile("carol", "c@example.com", nil, types.String(`ssh -i "~/.ssh/id key"`)))
			s.Insert("blank", types.NewProfile("", "", types.String(""), types.String("")))
			return s
		}(),
	}

	for name, original := range stores {
		t.Run(name, func(t *testing.T) {
			data, err := original.Serialize()
			require.NoError(t, err)

			decoded, err := Deserialize(data)
			require.NoError(t, err)
			require.Equal(t, original.Keys(), decoded.Keys())

			for key, want := range original.All() {
				got, ok := decoded.Get(key)
				require.True(t, ok)
				assert.True(t, want.Equal(got), "profile %q changed across round-trip", key)
			}
		})
	}
}

func TestInsertOverwrites(t *testing.T) {
	store := NewProfileStore()
	first := types.NewProfile("abc", "def", nil, nil)
	second := types.NewProfile("ghi", "jkl", types.String("key"), nil)

	_, existed := store.Insert("test", first)
	assert.False(t, existed)

	previous, existed := store.Insert("test", second)
	assert.True(t, existed)
	assert.True(t, first.Equal(previous))

	assert.Equal(t, 1, store.Len())
	got, _ := store.Get("test")
	assert.True(t, second.Equal(got))
}

func TestInsertIntoZeroValue(t *testing.T) {
	var store ProfileStore
	store.Insert("k", types.NewProfile("a", "b", nil, nil))
	assert.Equal(t, 1, store.Len())
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := NewProfileStore()
	store.Insert("test", types.NewProfile("abc", "def", nil, nil))

	removed, existed := store.Remove("test")
	assert.True(t, existed)
	assert.Equal(t, "abc", removed.Name)
	assert.Equal(t, 0, store.Len())

	_, existed = store.Remove("test")
	assert.False(t, existed)
	_, existed = store.Remove("never-there")
	assert.False(t, existed)
}

func TestGetDoesNotMutate(t *testing.T) {
	store := NewProfileStore()
	store.Insert("test", types.NewProfile("abc", "def", nil, nil))

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, store.Len())
}

func TestAllIsRestartable(t *testing.T) {
	store := NewProfileStore()
	store.Insert("b", types.NewProfile("b", "b@x", nil, nil))
	store.Insert("a", types.NewProfile("a", "a@x", nil, nil))
	store.Insert("c", types.NewProfile("c", "c@x", nil, nil))

	collect := func() []string {
		var keys []string
		for key := range store.All() {
			keys = append(keys, key)
		}
		return keys
	}

	assert.Equal(t, []string{"a", "b", "c"}, collect())
	assert.Equal(t, collect(), collect())

	var firstOnly []string
	for key := range store.All() {
		firstOnly = append(firstOnly, key)
		break
	}
	assert.Equal(t, []string{"a"}, firstOnly)
}

func TestLoadOrCreateCreatesMissingStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", ".gitusers")

	store, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"profiles":{}}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadOrCreateReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitusers")
	require.NoError(t, os.WriteFile(path, []byte(`{"profiles":{"work":{"name":"bob","email":"bob@example.com","signingKey":"KEY123"}}}`), 0600))

	store, err := LoadOrCreate(path)
	require.NoError(t, err)

	profile, ok := store.Get("work")
	require.True(t, ok)
	require.True(t, profile.HasSigningKey())
	assert.Equal(t, "KEY123", *profile.SigningKey)
}

func TestLoadOrCreateMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitusers")
	require.NoError(t, os.WriteFile(path, []byte("invalid"), 0600))

	store, err := LoadOrCreate(path)
	assert.Nil(t, store)
	assert.ErrorIs(t, err, apperrors.ErrJSON)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "invalid", string(data), "a malformed store must never be overwritten")
}

func TestLoadOrCreateUnreadable(t *testing.T) {
	// A directory where the file should be cannot be read as a store.
	path := filepath.Join(t.TempDir(), ".gitusers")
	require.NoError(t, os.Mkdir(path, 0700))

	_, err := LoadOrCreate(path)
	assert.ErrorIs(t, err, apperrors.ErrFile)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitusers")
	store := NewProfileStore()
	store.Insert("alice", types.NewProfile("alice", "alice@example.com", nil, types.String("ssh -i ~/.ssh/alice")))
	require.NoError(t, store.Save(path))

	loaded, err := LoadOrCreate(path)
	require.NoError(t, err)
	got, ok := loaded.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "ssh -i ~/.ssh/alice", *got.SSHCommand)
}

func TestSaveFailureKeepsPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", ".gitusers")
	store := NewProfileStore()

	err := store.Save(path)
	assert.ErrorIs(t, err, apperrors.ErrFile)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
