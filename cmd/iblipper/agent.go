package main

import (
	"fmt"
	"strings"

	"iblipper/internal/application/port/output"
	"iblipper/internal/infrastructure/userinteraction"

	"github.com/spf13/cobra"
)

func (a *app) agentCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "agent <request>",
		Short: "Let a model fulfil a request with the iblipper tools",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container()
			if err != nil {
				return err
			}
			defer c.Close()

			var progress output.ProgressPort = userinteraction.NewConsoleProgress()
			if quiet {
				progress = output.NopProgress{}
			}

			agent, err := c.Agent(progress)
			if err != nil {
				return err
			}

			task := strings.Join(args, " ")
			c.Logger.Info("Task started", "task", task)

			result, err := agent.Execute(cmd.Context(), task)
			if err != nil {
				c.Logger.Error("Task failed", "error", err)
				return err
			}

			c.Logger.Info("Task completed", "iterations", result.Iterations)
			fmt.Fprintln(cmd.OutOrStdout(), result.FinalAnswer)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print the final answer")
	return cmd
}
