package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/userlist/internal/export"
	"github.com/dusk-indust/userlist/internal/mcptools"
	"github.com/dusk-indust/userlist/internal/users"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Fetch all users and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.list.FetchAll(cmd.Context()); err != nil {
				return err
			}
			printUserTable(cmd.OutOrStdout(), a.list.Users())
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search users and print the matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.list.Search(cmd.Context(), args[0]); err != nil {
				return err
			}
			printUserTable(cmd.OutOrStdout(), a.list.Users())
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [query]",
		Short: "Fetch (or search) users and print them as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			var err error
			if len(args) == 1 {
				query = args[0]
				err = a.list.Search(cmd.Context(), query)
			} else {
				err = a.list.FetchAll(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			return export.WriteJSON(cmd.OutOrStdout(), export.ExportUsers(a.list, a.source.BaseURL(), query))
		},
	}
}

func newServeMCPCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Expose the user list as MCP tools on stdio, or over HTTP with --addr",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := mcptools.NewUserListMCPServer(mcptools.NewUserListService(a.list))
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.MCPAddr
			}
			if addr == "" {
				return mcptools.RunStdio(ctx, server)
			}
			return mcptools.RunHTTP(ctx, server, addr, a.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "serve streamable HTTP on host:port instead of stdio")
	return cmd
}

// printUserTable writes one row per user in collection order.
func printUserTable(w io.Writer, list []users.User) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	fmt.Fprintf(w, "%5s  %-28s  %4s  %s\n", "ID", "NAME", "AGE", "EMAIL")
	for _, u := range list {
		fmt.Fprintf(w, "%5d  %-28s  %4d  %s\n", u.ID, u.FullName(), u.Age, u.Email)
	}
}
