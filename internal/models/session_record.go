package models

import "fmt"

// MalformedLogError reports a session log that cannot be used: its content is
// not a JSON object, or the fields the reconciliation reads have the wrong shape.
type MalformedLogError struct {
	Path string
	Err  error
}

func (e *MalformedLogError) Error() string {
	return fmt.Sprintf("malformed session log %s: %v", e.Path, e.Err)
}

func (e *MalformedLogError) Unwrap() error {
	return e.Err
}

type User struct {
	Name        string
	ProlificPid string
}

// SessionRecord is one loaded log snapshot. The full document is kept so
// unknown fields survive into the merged output.
type SessionRecord struct {
	Path string
	Key  LogFileKey
	root *Node
}

func NewSessionRecord(path string, key LogFileKey, root *Node) (*SessionRecord, error) {
	if root == nil || root.Kind != KindObject {
		return nil, &MalformedLogError{Path: path, Err: fmt.Errorf("top level is not an object")}
	}
	return &SessionRecord{Path: path, Key: key, root: root}, nil
}

func (s *SessionRecord) Root() *Node {
	return s.root
}

func (s *SessionRecord) Users() []User {
	users := s.root.Field("users")
	out := make([]User, 0, users.Len())
	if users == nil {
		return out
	}
	for _, u := range users.Items {
		out = append(out, User{
			Name:        u.Field("name").Str(),
			ProlificPid: u.Field("prolificPid").Str(),
		})
	}
	return out
}

// Comments returns the comment array, or nil when the log has none.
func (s *SessionRecord) Comments() *Node {
	return s.root.Field("comments")
}

func (s *SessionRecord) CommentCount() int {
	return s.Comments().Len()
}
