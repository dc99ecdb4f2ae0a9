// Package main implements projectctl, a CLI for the projectd HTTP server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/projectd/pkg/client"
)

const (
	defaultServerURL = "http://localhost:3000"
	serverEnv        = "PROJECTCTL_SERVER"
)

// version information
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Each call has its own flag state.
func newRootCmd() *cobra.Command {
	var (
		serverURL string
		timeout   time.Duration
	)

	newClient := func() *client.Client {
		return client.New(serverURL, client.WithTimeout(timeout))
	}

	root := &cobra.Command{
		Use:   "projectctl",
		Short: "CLI for projectd HTTP server operations",
		Long: `projectctl is a command-line interface for the projectd HTTP server.
It lists, creates, renames and deletes projects and appends tasks to them.`,
		Version:      version,
		SilenceUsage: true,
	}

	defaultURL := defaultServerURL
	if env := os.Getenv(serverEnv); env != "" {
		defaultURL = env
	}
	root.PersistentFlags().StringVar(&serverURL, "server", defaultURL, "projectd server URL (env "+serverEnv+")")
	root.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "request timeout")

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all projects",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				projects, err := newClient().List(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), projects)
			},
		},
		&cobra.Command{
			Use:   "create <id> <title>",
			Short: "Create a project",
			Example: `  # Create project 1
  projectctl create 1 "Website redesign"`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				projects, err := newClient().Create(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), projects)
			},
		},
		&cobra.Command{
			Use:   "add-task <id> <title>",
			Short: "Append a task to a project",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				projects, err := newClient().AddTask(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), projects)
			},
		},
		&cobra.Command{
			Use:   "rename <id> <title>",
			Short: "Change a project's title",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				projects, err := newClient().Rename(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), projects)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a project",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := newClient().Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "health",
			Short: "Check projectd server health",
			Long: `Check the health status of the projectd HTTP server.

Examples:
  # Check health
  projectctl health

  # Check health on a different server
  projectctl health --server http://localhost:8080`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c := newClient()
				health, err := c.Health(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Server Status: %s\n", health.Status)
				fmt.Fprintf(out, "Service: %s\n", health.Service)
				fmt.Fprintf(out, "Server URL: %s\n", c.BaseURL())
				return nil
			},
		},
	)

	return root
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
