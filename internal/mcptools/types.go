package mcptools

import "github.com/dusk-indust/userlist/internal/users"

// --- MCP Tool Input Types ---
// The MCP Go SDK generates each tool's JSON schema from these struct tags.

// FetchUsersInput is the input for the fetch_users MCP tool.
type FetchUsersInput struct{}

// SearchUsersInput is the input for the search_users MCP tool.
type SearchUsersInput struct {
	Query string `json:"query" jsonschema:"search text matched against user names and emails"`
}

// ListUsersInput is the input for the list_users MCP tool.
type ListUsersInput struct{}

// UserInput describes a full user record for add_user and edit_user.
type UserInput struct {
	ID        int    `json:"id" jsonschema:"user id; edit_user replaces the first record with this id"`
	FirstName string `json:"firstName,omitempty" jsonschema:"first name"`
	LastName  string `json:"lastName,omitempty" jsonschema:"last name"`
	Email     string `json:"email,omitempty" jsonschema:"email address"`
	Age       int    `json:"age,omitempty" jsonschema:"age in years"`
}

// DeleteUserInput is the input for the delete_user MCP tool.
type DeleteUserInput struct {
	ID int `json:"id" jsonschema:"id of the user to remove (first match)"`
}

// SaveUserInput is the input for the save_user MCP tool. Omitting id, or
// passing -1, creates a new user with the next free id.
type SaveUserInput struct {
	ID        *int   `json:"id,omitempty" jsonschema:"id of the user to edit; omit it or pass -1 to create a new user"`
	FirstName string `json:"firstName,omitempty" jsonschema:"first name"`
	LastName  string `json:"lastName,omitempty" jsonschema:"last name"`
	Email     string `json:"email,omitempty" jsonschema:"email address"`
	Age       int    `json:"age,omitempty" jsonschema:"age in years"`
}

// GetStatusInput is the input for the get_status MCP tool.
type GetStatusInput struct{}

// --- MCP Tool Output Types ---

// UsersOutput is returned by fetch_users, search_users, and list_users.
type UsersOutput struct {
	Users  []users.User `json:"users"`
	Count  int          `json:"count"`
	Status string       `json:"status"`
	Error  string       `json:"error,omitempty"`
}

// MutationOutput is returned by add_user, edit_user, delete_user, and save_user.
type MutationOutput struct {
	Applied bool       `json:"applied"`
	User    users.User `json:"user"`
	Count   int        `json:"count"`
}

// GetStatusOutput is returned by get_status.
type GetStatusOutput struct {
	Status    string `json:"status"`
	Pending   int    `json:"pending"`
	LastError string `json:"lastError,omitempty"`
}

func (in UserInput) user() users.User {
	return users.User{
		ID:        in.ID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Age:       in.Age,
	}
}

// draft maps the input to a users.Draft. A missing id, or the legacy
// sentinel id, creates a new user.
func (in SaveUserInput) draft() users.Draft {
	id := users.SentinelID
	if in.ID != nil {
		id = *in.ID
	}
	return users.DraftFor(users.User{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Age:       in.Age,
	})
}
