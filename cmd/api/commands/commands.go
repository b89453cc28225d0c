package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskmaster/todoplus/internal/app"
	"github.com/taskmaster/todoplus/internal/application/viewmodel"
	"github.com/taskmaster/todoplus/internal/domain/entities"
	"github.com/taskmaster/todoplus/internal/infrastructure/config"
	"github.com/taskmaster/todoplus/internal/infrastructure/database"
	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
	"github.com/taskmaster/todoplus/internal/infrastructure/server"
	"github.com/taskmaster/todoplus/internal/ports"
)

// Build information, set with -ldflags at release time
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "development"
)

type rootOptions struct {
	configFile string
}

// NewRootCommand creates the todoplus command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "todoplus",
		Short:         "TodoPlus state server and command line client",
		Long:          `TodoPlus keeps tasks, projects and UI preferences in one persisted snapshot and serves them over HTTP or directly from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (yaml, json or toml)")

	rootCmd.AddCommand(NewServeCommand(opts))
	rootCmd.AddCommand(NewMigrateCommand(opts))
	rootCmd.AddCommand(NewExportCommand(opts))
	rootCmd.AddCommand(NewImportCommand(opts))
	rootCmd.AddCommand(NewTodoCommand(opts))
	rootCmd.AddCommand(NewProjectCommand(opts))
	rootCmd.AddCommand(NewThemeCommand(opts))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewServeCommand creates the serve command
func NewServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the TodoPlus API server",
		Long:  "Start the TodoPlus API server with all configured routes and middleware",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(commandContext(cmd), opts)
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand(opts *rootOptions) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage the kv_store schema of the sqlite and postgres backends (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, opts, database.DirectionUp)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, opts, database.DirectionDown)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSQLConfig(opts)
			if err != nil {
				return err
			}

			status, err := database.MigrationVersion(cfg.Storage.Backend, cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to get migration version: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d\n", status.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Dirty: %t\n", status.Dirty)
			return nil
		},
	})

	return migrateCmd
}

// NewExportCommand creates the export command
func NewExportCommand(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole state as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				data, err := a.Data.Export(ctx)
				if err != nil {
					return err
				}

				if output == "" || output == "-" {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				}

				if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d bytes to %s\n", len(data), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	return cmd
}

// NewImportCommand creates the import command
func NewImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the whole state with an exported snapshot",
		Long:  "Validate the snapshot in <file> (or stdin for -) and replace the stored state with it. A rejected snapshot leaves the stored state untouched.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read snapshot: %w", err)
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				state, err := a.Data.Import(ctx, data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks and %d projects\n", len(state.Todos), len(state.Projects))
				return nil
			})
		},
	}
}

// NewTodoCommand creates the task management command
func NewTodoCommand(opts *rootOptions) *cobra.Command {
	todoCmd := &cobra.Command{
		Use:     "todo",
		Aliases: []string{"todos", "task"},
		Short:   "Task management commands",
	}

	var (
		project  string
		priority string
		due      string
	)
	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				task, err := a.Tasks.AddTodo(ctx, ports.AddTodoRequest{
					Title:     strings.Join(args, " "),
					ProjectID: project,
					Priority:  entities.Priority(priority),
					DueDate:   due,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", task.ID)
				return nil
			})
		},
	}
	addCmd.Flags().StringVarP(&project, "project", "p", entities.ProjectInbox, "project id")
	addCmd.Flags().StringVar(&priority, "priority", string(entities.PriorityMedium), "low, medium or high")
	addCmd.Flags().StringVar(&due, "due", "", "due date, e.g. 2024-05-01 or 2024-05-01T17:00")

	var filter, scope string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				tasks, err := a.Tasks.LoadTodos(ctx)
				if err != nil {
					return err
				}
				projectID := scope
				if projectID == "" {
					if projectID, err = a.Projects.GetSelectedProjectID(ctx); err != nil {
						return err
					}
				}

				model := viewmodel.NewTaskModel(a.Clock)
				model.SetTasks(tasks)
				model.SetProject(projectID)
				if err := model.SetFilter(entities.FilterMode(filter)); err != nil {
					return err
				}

				printTasks(cmd.OutOrStdout(), model.Derived())
				return nil
			})
		},
	}
	listCmd.Flags().StringVarP(&filter, "filter", "f", string(entities.FilterAll), "all, active, completed or overdue")
	listCmd.Flags().StringVarP(&scope, "project", "p", "", "project id, all for every project (selected project when empty)")

	var undo bool
	doneCmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				completed := !undo
				task, err := a.Tasks.UpdateTodo(ctx, ports.UpdateTodoRequest{
					ID:      args[0],
					Changes: entities.TaskChanges{Completed: &completed},
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", checkbox(task.Completed), task.Title)
				return nil
			})
		},
	}
	doneCmd.Flags().BoolVar(&undo, "undo", false, "reopen the task instead")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				return a.Tasks.RemoveTodo(ctx, args[0])
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle-all",
		Short: "Complete every task, or reopen them all when all are completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				var req ports.ToggleAllRequest
				if cmd.Flags().Changed("completed") {
					completed, _ := cmd.Flags().GetBool("completed")
					req.Completed = &completed
				}
				tasks, err := a.Tasks.ToggleAll(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d tasks\n", len(tasks))
				return nil
			})
		},
	}
	toggleCmd.Flags().Bool("completed", false, "explicit target state")

	clearCmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove completed tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				tasks, err := a.Tasks.ClearCompleted(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d tasks remaining\n", len(tasks))
				return nil
			})
		},
	}

	todoCmd.AddCommand(addCmd, listCmd, doneCmd, rmCmd, toggleCmd, clearCmd)
	return todoCmd
}

// NewProjectCommand creates the project management command
func NewProjectCommand(opts *rootOptions) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Project management commands",
	}

	var color, icon string
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				project, err := a.Projects.AddProject(ctx, ports.AddProjectRequest{
					Name:  strings.Join(args, " "),
					Color: color,
					Icon:  icon,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", project.ID)
				return nil
			})
		},
	}
	addCmd.Flags().StringVar(&color, "color", "", "display color")
	addCmd.Flags().StringVar(&icon, "icon", "", "display icon")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				projects, err := a.Projects.LoadProjects(ctx)
				if err != nil {
					return err
				}
				selected, err := a.Projects.GetSelectedProjectID(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "\tID\tNAME\tCOLOR")
				for _, project := range projects {
					marker := ""
					if project.ID == selected {
						marker = "*"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, project.ID, project.Name, project.Color)
				}
				return w.Flush()
			})
		},
	}

	selectCmd := &cobra.Command{
		Use:   "select <id>",
		Short: "Select the project scope (all for every project)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				id, err := a.Projects.SelectProject(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Selected %s\n", id)
				return nil
			})
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a project and move its tasks to the inbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				return a.Projects.RemoveProject(ctx, args[0])
			})
		},
	}

	projectCmd.AddCommand(addCmd, listCmd, selectCmd, rmCmd)
	return projectCmd
}

// NewThemeCommand creates the theme command
func NewThemeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark|auto]",
		Short: "Show or change the theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				var (
					theme entities.Theme
					err   error
				)
				if len(args) == 1 {
					theme, err = a.Preferences.SetTheme(ctx, entities.Theme(args[0]))
				} else {
					theme, err = a.Preferences.GetTheme(ctx)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), theme)
				return nil
			})
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print TodoPlus version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "TodoPlus %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
		},
	}
}

func runServer(ctx context.Context, opts *rootOptions) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	a, err := app.New(ctx, cfg, appLogger, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := server.New(cfg, a.Services(), a.Store, a.Registry, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	appLogger.Infow("Starting TodoPlus API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func runMigration(cmd *cobra.Command, opts *rootOptions, direction string) error {
	cfg, err := loadSQLConfig(opts)
	if err != nil {
		return err
	}

	status, err := database.Migrate(cfg.Storage.Backend, cfg.Database, direction)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if !status.Changed {
		fmt.Fprintln(cmd.OutOrStdout(), "No migrations to run")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
	}
	return nil
}

func loadSQLConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if _, err := database.DriverName(cfg.Storage.Backend); err != nil {
		return nil, fmt.Errorf("migrations apply to the sqlite and postgres backends only: %w", err)
	}
	return cfg, nil
}

// withApp wires the application for a one-shot command. Logs go to stderr so stdout stays parseable.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Logger.Output == "stdout" {
		cfg.Logger.Output = "stderr"
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	ctx := commandContext(cmd)

	a, err := app.New(ctx, cfg, appLogger, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printTasks(out io.Writer, view ports.TaskView) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tTITLE\tPROJECT\tPRIORITY\tDUE")
	for _, task := range view.Todos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			checkbox(task.Completed), task.ID, task.Title, task.ProjectID, task.Priority, task.DueDate)
	}
	_ = w.Flush()

	fmt.Fprintf(out, "\n%d active, %d completed (filter: %s, project: %s)\n",
		view.ActiveCount, view.CompletedCount, view.Filter, view.ProjectID)
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}
