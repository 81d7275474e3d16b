package main

import (
	"fmt"
	"os"

	"ecolife-backend/cmd/ecolife/commands"

	"github.com/spf13/cobra"
)

func main() {
	opts := commands.DefaultOptions()

	var rootCmd = &cobra.Command{
		Use:           "ecolife",
		Short:         "Command-line client for EcoLife",
		Long:          "Sign in and manage your saved goals, tasks and habits on an EcoLife server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.API, "api", opts.API, "EcoLife server URL (env ECOLIFE_API)")
	rootCmd.PersistentFlags().StringVar(&opts.Token, "token", opts.Token, "Session token from 'verify' (env ECOLIFE_TOKEN)")

	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log store activity to stderr")

	rootCmd.AddCommand(commands.NewLoginCmd(opts))
	rootCmd.AddCommand(commands.NewVerifyCmd(opts))
	rootCmd.AddCommand(commands.NewShowCmd(opts))
	rootCmd.AddCommand(commands.NewTaskCmd(opts))
	rootCmd.AddCommand(commands.NewGoalCmd(opts))
	rootCmd.AddCommand(commands.NewHabitCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
