package users

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SentinelID is the id legacy payloads use for a record that has not been
// created yet. New code should use NewUser instead.
const SentinelID = -1

// User is a single user record as served by the users endpoint.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
}

// FullName returns "First Last".
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// wireUser mirrors User with pointer fields so that absent keys can be told
// apart from zero values during decoding.
type wireUser struct {
	ID        *int    `json:"id"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Age       *int    `json:"age"`
}

// UnmarshalJSON decodes a user and fails if any of the five fields is
// missing. Unknown fields are ignored.
func (u *User) UnmarshalJSON(data []byte) error {
	var w wireUser
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var missing []string
	if w.ID == nil {
		missing = append(missing, "id")
	}
	if w.FirstName == nil {
		missing = append(missing, "firstName")
	}
	if w.LastName == nil {
		missing = append(missing, "lastName")
	}
	if w.Email == nil {
		missing = append(missing, "email")
	}
	if w.Age == nil {
		missing = append(missing, "age")
	}
	if len(missing) > 0 {
		return fmt.Errorf("user: missing required field(s): %s", strings.Join(missing, ", "))
	}

	*u = User{
		ID:        *w.ID,
		FirstName: *w.FirstName,
		LastName:  *w.LastName,
		Email:     *w.Email,
		Age:       *w.Age,
	}
	return nil
}

// usersEnvelope is the { "users": [...] } wrapper returned by the list and
// search endpoints.
type usersEnvelope struct {
	Users *[]User `json:"users"`
}

// Fields holds the editable values of a user record.
type Fields struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
}

// Draft is a user record being composed by a caller before it is saved.
// It is either a NewUser or an ExistingUser.
type Draft interface {
	draft()
}

// NewUser is a draft for a record that does not exist in the collection yet.
type NewUser struct {
	Fields
}

// ExistingUser is a draft that edits the record with the given ID.
type ExistingUser struct {
	ID int
	Fields
}

func (NewUser) draft()      {}
func (ExistingUser) draft() {}

// DraftFor returns the draft that edits u, mapping SentinelID to NewUser.
func DraftFor(u User) Draft {
	f := Fields{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Age:       u.Age,
	}
	if u.ID == SentinelID {
		return NewUser{Fields: f}
	}
	return ExistingUser{ID: u.ID, Fields: f}
}

// withID builds a User from draft fields and an id.
func (f Fields) withID(id int) User {
	return User{
		ID:        id,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Age:       f.Age,
	}
}
