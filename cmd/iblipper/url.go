package main

import (
	"fmt"
	"strings"

	"iblipper/internal/application/service"

	"github.com/spf13/cobra"
)

func (a *app) urlCmd() *cobra.Command {
	var (
		flags animationFlags
		pwa   bool
		gif   bool
	)

	cmd := &cobra.Command{
		Use:   "url <message>",
		Short: "Print an animation link",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := flags.params(strings.Join(args, " "))
			p.PWA = pwa
			p.GIF = gif
			fmt.Fprintln(cmd.OutOrStdout(), service.NewURLBuilder(a.cfg.BaseURL).Build(p))
			return nil
		},
	}

	flags.bind(cmd, true)
	cmd.Flags().BoolVar(&pwa, "pwa", false, "print a web+iblipper: protocol string")
	cmd.Flags().BoolVar(&gif, "gif", false, "print a GIF export link")
	return cmd
}
