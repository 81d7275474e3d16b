package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func NewShowCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your goals, tasks and habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printSnapshot(cmd.OutOrStdout(), store.Snapshot())
		},
	}
}

// NewTaskCmd creates the task command with add, toggle and delete subcommands.
func NewTaskCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			task, err := store.AddTask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("task title is required")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %s: %s\n", task.ID, task.Title)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done or not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := requireID("task", args[0], taskIDs(store.Snapshot())); err != nil {
				return err
			}
			if err := store.ToggleTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printSnapshot(cmd.OutOrStdout(), store.Snapshot())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := requireID("task", args[0], taskIDs(store.Snapshot())); err != nil {
				return err
			}
			if err := store.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
			return nil
		},
	})
	return cmd
}

func NewGoalCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <title>",
		Short: "Add a goal due in 30 days",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			goal, err := store.AddGoal(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if goal == nil {
				return fmt.Errorf("goal title is required")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added goal %s: %s (due %s)\n", goal.ID, goal.Title, goal.TargetDate)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "progress <id> <percent>",
		Short: "Set a goal's progress (0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			progress, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
			if err != nil {
				return fmt.Errorf("progress must be a whole number: %w", err)
			}
			store, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := requireID("goal", args[0], goalIDs(store.Snapshot())); err != nil {
				return err
			}
			if err := store.UpdateGoalProgress(cmd.Context(), args[0], progress); err != nil {
				return err
			}
			return printSnapshot(cmd.OutOrStdout(), store.Snapshot())
		},
	})
	return cmd
}

func NewHabitCmd(opts *Options) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage habits",
	}
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Start tracking a habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			habit, err := store.AddHabit(cmd.Context(), strings.Join(args, " "), description)
			if err != nil {
				return err
			}
			if habit == nil {
				return fmt.Errorf("habit name is required")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added habit %s: %s\n", habit.ID, habit.Name)
			return nil
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "Short description")
	cmd.AddCommand(add)
	cmd.AddCommand(&cobra.Command{
		Use:   "tick <id>",
		Short: "Record today's completion of a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := requireID("habit", args[0], habitIDs(store.Snapshot())); err != nil {
				return err
			}
			if err := store.TickHabit(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printSnapshot(cmd.OutOrStdout(), store.Snapshot())
		},
	})
	return cmd
}
