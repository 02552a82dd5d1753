package apperrors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config", Config("User '%s' not found.", "ghost"), "Config error: User 'ghost' not found."},
		{"file with op", File("read /tmp/x", fs.ErrNotExist), "File error: read /tmp/x: file does not exist"},
		{"git without op", Git("", errors.New("repository does not exist")), "Git error: repository does not exist"},
		{"json", JSON("decode store", errors.New("invalid character 'i'")), "JSON error: decode store: invalid character 'i'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("saving: %w", File("write", fs.ErrPermission))

	assert.ErrorIs(t, err, ErrFile)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.NotErrorIs(t, err, ErrGit)
	assert.NotErrorIs(t, err, ErrConfig)


	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindFile, appErr.Kind)
	assert.False(t, errors.As(errors.New("plain"), &appErr))
}
