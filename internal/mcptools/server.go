package mcptools

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// version is set by the linker at build time.
var version = "dev"

// NewUserListMCPServer creates an MCP server with the user list tools registered.
func NewUserListMCPServer(svc *UserListService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "userlist",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fetch_users",
		Description: "Fetch every user from the remote API and replace the local collection. On failure the collection is unchanged and the error is reported in the output.",
	}, svc.FetchUsers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_users",
		Description: "Search users on the remote API and replace the local collection with the matches.",
	}, svc.SearchUsers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_users",
		Description: "Return the local user collection without contacting the API.",
	}, svc.ListUsers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_user",
		Description: "Append a user to the local collection. Local only; ids are not checked for duplicates.",
	}, svc.AddUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "edit_user",
		Description: "Replace the first local user with the same id, keeping its position. No-op when the id is absent.",
	}, svc.EditUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_user",
		Description: "Remove the first local user with the given id. No-op when the id is absent.",
	}, svc.DeleteUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_user",
		Description: "Create a user (omit id; the next free id is assigned) or edit an existing one (give its id).",
	}, svc.SaveUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_status",
		Description: "Report the fetch status of the collection: idle, in-flight, succeeded, or failed, with the last error.",
	}, svc.GetStatus)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the MCP server over streamable HTTP on addr until ctx is
// cancelled.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string, logger *zap.Logger) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("mcp server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("mcp server shutting down")
		return httpServer.Shutdown(context.Background())
	})
	return g.Wait()
}
