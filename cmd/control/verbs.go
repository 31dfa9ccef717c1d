package main

import "github.com/spf13/cobra"

func buildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build [services...]",
		Short: "Build a development image for one or more services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerb(cmd.Context(), "build", args)
		},
	}
}

func buildProdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build-prod [services...]",
		Short: "Build a production image for one or more services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerb(cmd.Context(), "build-prod", args)
		},
	}
}

func startCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start [services...]",
		Short: "Create and start one or more services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerb(cmd.Context(), "start", args)
		},
	}
}

func stopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop [services...]",
		Short: "Stop and remove one or more services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerb(cmd.Context(), "stop", args)
		},
	}
}

func restartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restart [services...]",
		Short: "Stop then start one or more services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerb(cmd.Context(), "restart", args)
		},
	}
}

func openCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <service>",
		Short: "Drop an interactive shell into a fresh container for a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerb(cmd.Context(), "open", args)
		},
	}
}
