package mcptools

import (
	"context"

	"github.com/dusk-indust/userlist/internal/users"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// UserListService handles MCP tool calls against a single ListClient.
type UserListService struct {
	list *users.ListClient
}

// NewUserListService creates a UserListService around list.
func NewUserListService(list *users.ListClient) *UserListService {
	return &UserListService{list: list}
}

// FetchUsers replaces the collection with every user from the API. A failed
// fetch is reported in the output, not as a tool error, and leaves the
// collection unchanged.
func (s *UserListService) FetchUsers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ FetchUsersInput,
) (*mcp.CallToolResult, UsersOutput, error) {
	err := s.list.FetchAll(ctx)
	return nil, s.usersOutput(err), nil
}

// SearchUsers replaces the collection with the users matching the query.
func (s *UserListService) SearchUsers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchUsersInput,
) (*mcp.CallToolResult, UsersOutput, error) {
	err := s.list.Search(ctx, input.Query)
	return nil, s.usersOutput(err), nil
}

// ListUsers returns the current collection without touching the network.
func (s *UserListService) ListUsers(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListUsersInput,
) (*mcp.CallToolResult, UsersOutput, error) {
	return nil, s.usersOutput(nil), nil
}

// AddUser appends a user locally.
func (s *UserListService) AddUser(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input UserInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	u := input.user()
	s.list.Add(u)
	return nil, s.mutationOutput(true, u), nil
}

// EditUser replaces the first user with a matching id.
func (s *UserListService) EditUser(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input UserInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	u := input.user()
	applied := s.list.Edit(u)
	return nil, s.mutationOutput(applied, u), nil
}

// DeleteUser removes the first user with a matching id.
func (s *UserListService) DeleteUser(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DeleteUserInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	u := users.User{ID: input.ID}
	for _, existing := range s.list.Users() {
		if existing.ID == input.ID {
			u = existing
			break
		}
	}
	applied := s.list.Delete(u)
	return nil, s.mutationOutput(applied, u), nil
}

// SaveUser creates or edits a user depending on whether an id is given.
func (s *UserListService) SaveUser(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SaveUserInput,
) (*mcp.CallToolResult, MutationOutput, error) {
	u, applied := s.list.Save(input.draft())
	return nil, s.mutationOutput(applied, u), nil
}

// GetStatus reports the request status of the list.
func (s *UserListService) GetStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ GetStatusInput,
) (*mcp.CallToolResult, GetStatusOutput, error) {
	st := s.list.Status()
	out := GetStatusOutput{
		Status:  st.Status.String(),
		Pending: st.Pending,
	}
	if st.LastErr != nil {
		out.LastError = st.LastErr.Error()
	}
	return nil, out, nil
}

func (s *UserListService) usersOutput(err error) UsersOutput {
	list := s.list.Users()
	if list == nil {
		list = []users.User{}
	}
	out := UsersOutput{
		Users:  list,
		Count:  len(list),
		Status: s.list.Status().Status.String(),
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}

func (s *UserListService) mutationOutput(applied bool, u users.User) MutationOutput {
	return MutationOutput{
		Applied: applied,
		User:    u,
		Count:   len(s.list.Users()),
	}
}
