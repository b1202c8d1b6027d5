package user

import "fmt"

// UserType is the closed set of roles a user can hold. Wire text is parsed
// through ParseUserType; an unrecognized token is rejected, never coerced.
type UserType string

const (
	TypeAdmin  UserType = "ADMIN"
	TypeEditor UserType = "EDITOR"
	TypeViewer UserType = "VIEWER"
)

// ParseUserType maps free-form wire text onto a UserType.
func ParseUserType(s string) (UserType, error) {
	switch UserType(s) {
	case TypeAdmin, TypeEditor, TypeViewer:
		return UserType(s), nil
	}
	return "", fmt.Errorf("unknown user type %q, must be one of ADMIN, EDITOR, VIEWER", s)
}

// Valid reports whether t is a member of the closed set.
func (t UserType) Valid() bool {
	_, err := ParseUserType(string(t))
	return err == nil
}

func (t UserType) String() string {
	return string(t)
}
