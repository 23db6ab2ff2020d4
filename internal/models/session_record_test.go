package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRecord_Accessors(t *testing.T) {
	root, err := ParseNode([]byte(`{
		"users": [{"name": "Alice", "prolificPid": "p1", "id": "x"}, {"name": "Bob"}],
		"comments": [{"userName": "Alice"}, {"userName": "Bob"}, {"userName": "Alex"}]
	}`))
	require.NoError(t, err)

	rec, err := NewSessionRecord("a.json", LogFileKey{}, root)
	require.NoError(t, err)
	assert.Equal(t, []User{{Name: "Alice", ProlificPid: "p1"}, {Name: "Bob"}}, rec.Users())
	assert.Equal(t, 3, rec.CommentCount())
	assert.Same(t, root, rec.Root())
}

func TestSessionRecord_NoUsersOrComments(t *testing.T) {
	root, err := ParseNode([]byte(`{"id": 1}`))
	require.NoError(t, err)

	rec, err := NewSessionRecord("a.json", LogFileKey{}, root)
	require.NoError(t, err)
	assert.Empty(t, rec.Users())
	assert.Nil(t, rec.Comments())
	assert.Equal(t, 0, rec.CommentCount())
}

func TestNewSessionRecord_RejectsNonObject(t *testing.T) {
	root, err := ParseNode([]byte(`[1, 2, 3]`))
	require.NoError(t, err)

	_, err = NewSessionRecord("list.json", LogFileKey{}, root)
	var malformed *MalformedLogError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "list.json", malformed.Path)
	assert.Contains(t, err.Error(), "list.json")
}
