package main

import (
	"iblipper/internal/adapter/mcp"

	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		useHTTP bool
		addr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over MCP (stdio by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container()
			if err != nil {
				return err
			}
			defer c.Close()

			server := mcp.NewServer("iblipper", version, c.Tools, c.Logger.WithField("component", "mcp"))
			if useHTTP {
				if addr == "" {
					addr = a.cfg.HTTPAddr
				}
				return server.ListenAndServe(cmd.Context(), addr)
			}
			return server.RunStdio(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&useHTTP, "http", false, "serve streamable HTTP instead of stdio")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default from IBLIPPER_HTTP_ADDR)")
	return cmd
}
