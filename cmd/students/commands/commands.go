package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rheetham/Student-Record-Management-System/internal/adapters/cli"
	"github.com/rheetham/Student-Record-Management-System/internal/domain/entities"
	"github.com/rheetham/Student-Record-Management-System/internal/ports"
)

// Build information, set with -ldflags at release time
var (
	Version = "1.0.0"
	Commit  = "development"
)

// NewRootCommand creates the students command. Without a subcommand it runs
// the interactive menu.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "students",
		Short:        "Student record manager",
		Long:         `Manage student records (roll number, name, age) kept in a comma-delimited text file.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         withApplication(runMenu),
	}

	rootCmd.PersistentFlags().String("file", "", "Student records file (default students.csv)")
	rootCmd.PersistentFlags().String("config", "", "Config file (yaml, json or toml)")

	rootCmd.AddCommand(NewMenuCommand())
	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewUpdateCommand())
	rootCmd.AddCommand(NewDeleteCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewMenuCommand creates the interactive menu command
func NewMenuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive menu",
		Args:  cobra.NoArgs,
		RunE:  withApplication(runMenu),
	}
}

// NewCreateCommand creates the create command
func NewCreateCommand() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new student record",
		Args:  cobra.NoArgs,
		RunE: withApplication(func(cmd *cobra.Command, args []string, app *application) error {
			roll, _ := cmd.Flags().GetInt("roll")
			name, _ := cmd.Flags().GetString("name")
			age, _ := cmd.Flags().GetInt("age")

			student, err := app.service.CreateStudent(cmd.Context(), ports.CreateStudentRequest{
				RollNumber: roll,
				Name:       name,
				Age:        age,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Student record created successfully.")
			cli.WriteStudent(cmd.OutOrStdout(), *student)
			return nil
		}),
	}

	createCmd.Flags().Int("roll", 0, "Roll number (required)")
	createCmd.Flags().String("name", "", "Student name")
	createCmd.Flags().Int("age", 0, "Student age, 1 to 150 (required)")
	_ = createCmd.MarkFlagRequired("roll")
	_ = createCmd.MarkFlagRequired("age")

	return createCmd
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all student records sorted by roll number",
		Args:    cobra.NoArgs,
		RunE: withApplication(func(cmd *cobra.Command, args []string, app *application) error {
			return printStudents(cmd.Context(), cmd, app)
		}),
	}
}

// NewGetCommand creates the get command
func NewGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <roll-number>",
		Short: "Show a student record",
		Args:  cobra.ExactArgs(1),
		RunE: withApplication(func(cmd *cobra.Command, args []string, app *application) error {
			roll, err := parseRollNumber(args[0])
			if err != nil {
				return err
			}

			student, err := app.service.GetStudent(cmd.Context(), roll)
			if err != nil {
				return notFoundMessage(err, roll)
			}

			cli.WriteStudent(cmd.OutOrStdout(), *student)
			return nil
		}),
	}
}

// NewUpdateCommand creates the update command. Fields whose flag is not
// given keep their current value.
func NewUpdateCommand() *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update <roll-number>",
		Short: "Update a student record",
		Args:  cobra.ExactArgs(1),
		RunE: withApplication(func(cmd *cobra.Command, args []string, app *application) error {
			roll, err := parseRollNumber(args[0])
			if err != nil {
				return err
			}

			current, err := app.service.GetStudent(cmd.Context(), roll)
			if err != nil {
				return notFoundMessage(err, roll)
			}

			req := ports.UpdateStudentRequest{
				RollNumber: current.RollNumber,
				Name:       current.Name,
				Age:        current.Age,
			}
			if cmd.Flags().Changed("roll") {
				req.RollNumber, _ = cmd.Flags().GetInt("roll")
			}
			if cmd.Flags().Changed("name") {
				req.Name, _ = cmd.Flags().GetString("name")
			}
			if cmd.Flags().Changed("age") {
				req.Age, _ = cmd.Flags().GetInt("age")
			}

			student, err := app.service.UpdateStudent(cmd.Context(), roll, req)
			if err != nil {
				return notFoundMessage(err, roll)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Student record updated successfully.")
			cli.WriteStudent(cmd.OutOrStdout(), *student)
			return nil
		}),
	}

	updateCmd.Flags().Int("roll", 0, "New roll number")
	updateCmd.Flags().String("name", "", "New name")
	updateCmd.Flags().Int("age", 0, "New age, 1 to 150")

	return updateCmd
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <roll-number>",
		Aliases: []string{"rm"},
		Short:   "Delete a student record",
		Args:    cobra.ExactArgs(1),
		RunE: withApplication(func(cmd *cobra.Command, args []string, app *application) error {
			roll, err := parseRollNumber(args[0])
			if err != nil {
				return err
			}

			if err := app.service.DeleteStudent(cmd.Context(), roll); err != nil {
				return notFoundMessage(err, roll)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Student record deleted successfully.")
			return nil
		}),
	}
}

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the records again every time the file changes",
		Args:  cobra.NoArgs,
		RunE: withApplication(func(cmd *cobra.Command, args []string, app *application) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			watcher, err := cli.NewFileWatcher(app.cfg.Store.File, app.logger)
			if err != nil {
				return err
			}

			if err := printStudents(ctx, cmd, app); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}

			return watcher.Run(ctx, func(ctx context.Context) error {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s changed\n", app.cfg.Store.File)
				return printStudents(ctx, cmd, app)
			})
		}),
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "students v%s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", Commit)
		},
	}
}

func runMenu(cmd *cobra.Command, args []string, app *application) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Interrupts cancel ctx, which ends a pending prompt right away
	menu := cli.NewMenu(app.service, cmd.InOrStdin(), cmd.OutOrStdout(), app.logger)
	err := menu.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	}
	return err
}

func printStudents(ctx context.Context, cmd *cobra.Command, app *application) error {
	students, err := app.service.ListStudents(ctx)
	if err != nil {
		return err
	}
	if len(students) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No student records found.")
		return nil
	}
	return cli.WriteStudentTable(cmd.OutOrStdout(), students)
}

func parseRollNumber(arg string) (int, error) {
	roll, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid roll number %q", arg)
	}
	return roll, nil
}

// notFoundMessage rewrites a not found error into the user facing wording
func notFoundMessage(err error, roll int) error {
	if errors.Is(err, entities.ErrStudentNotFound) {
		return fmt.Errorf("student with roll number %d not found", roll)
	}
	return err
}
