package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/matisarralde/paseos-de-blanca/internal/config"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/calendar"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/rotation"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/services"
	"github.com/matisarralde/paseos-de-blanca/pkg/db"
	"github.com/matisarralde/paseos-de-blanca/pkg/postgres"
	"github.com/matisarralde/paseos-de-blanca/pkg/sqlite"
	"github.com/matisarralde/paseos-de-blanca/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	store  db.Store
	logger *zap.Logger
	ctx    context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blanca",
		Short: "Paseos de Blanca CLI - Manage the family dog-walking rota",
		Long:  `A CLI tool for generating weekly dog-walking schedules, swapping turns, logging completed walks and ranking the family.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.logger != nil {
					app.logger.Sync()
				}
				if app.store != nil {
					app.store.Close()
				}
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(generateWeekCmd())
	rootCmd.AddCommand(viewWeekCmd())
	rootCmd.AddCommand(swapWalksCmd())
	rootCmd.AddCommand(completeWalkCmd())
	rootCmd.AddCommand(annotateWalkCmd())
	rootCmd.AddCommand(leaderboardCmd())
	rootCmd.AddCommand(walkStatusCmd())
	rootCmd.AddCommand(listFamilyCmd())
	rootCmd.AddCommand(claimInviteCmd())
	rootCmd.AddCommand(renameMemberCmd())
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and the storage backend
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	switch app.cfg.Storage {
	case "postgres":
		app.logger.Info("Connecting to database", zap.String("storage", "postgres"))
		pg, err := postgres.NewDB(app.ctx, app.cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pg.RunMigrations(app.ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.store = pg
	default:
		app.logger.Info("Opening database", zap.String("storage", "sqlite"), zap.String("path", app.cfg.SQLitePath))
		st, err := sqlite.New(app.cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite database: %w", err)
		}
		app.store = st
	}

	// Make sure the roster exists before any command touches it
	if _, err := services.BootstrapFamily(app.ctx, app.store, app.cfg, app.logger); err != nil {
		return fmt.Errorf("failed to bootstrap family: %w", err)
	}

	app.logger.Info("Database initialized successfully")

	return nil
}

// parseDateFlag reads the --date flag, defaulting to today
func parseDateFlag(cmd *cobra.Command) (time.Time, error) {
	dateStr, _ := cmd.Flags().GetString("date")
	if dateStr == "" {
		return time.Now(), nil
	}
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date (want YYYY-MM-DD): %w", err)
	}
	return date, nil
}

func printSchedule(schedule model.Schedule, family []model.Person) {
	names := make(map[string]string, len(family))
	for _, p := range family {
		names[p.ID] = p.Name
	}

	byID := make(map[string]model.Walk, len(schedule))
	for _, w := range schedule {
		byID[w.ID] = w
	}

	for _, slot := range model.TimeSlots {
		fmt.Printf("%s:\n", slot)
		for _, day := range model.DaysOfWeek {
			w, ok := byID[model.WalkID(day, slot)]
			if !ok {
				continue
			}
			assignee := "-"
			if w.PersonID != "" {
				assignee = names[w.PersonID]
				if assignee == "" {
					assignee = w.PersonID
				}
			}
			marker := " "
			if w.IsCompleted {
				marker = "✓"
			}
			line := fmt.Sprintf("  %s %-10s %s", marker, day, assignee)
			if w.Notes != "" {
				line += fmt.Sprintf("  (%s)", w.Notes)
			}
			fmt.Println(line)
		}
	}
}

// Command definitions

func generateWeekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateWeek",
		Short: "Generate the walking schedule for a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(cmd)
			if err != nil {
				return err
			}
			seed, _ := cmd.Flags().GetString("seed")
			force, _ := cmd.Flags().GetBool("force")

			result, err := services.GenerateWeek(app.ctx, app.store, app.cfg, app.logger, date, seed, force)
			if err != nil {
				var incomplete *rotation.IncompleteGroupsError
				switch {
				case errors.As(err, &incomplete):
					fmt.Printf("\n✗ Cannot generate: group %s only has %d claimed members (need %d).\n", incomplete.Group, incomplete.Size, rotation.MinGroupSize)
					fmt.Println("Claim the remaining invites before generating the week.")
				case errors.Is(err, services.ErrScheduleExists):
					fmt.Println("\n✗ This week already has a schedule. Use --force to regenerate it.")
				}
				return err
			}

			fmt.Printf("\n✓ Schedule generated for %s (%s)\n\n", result.WeekRange, result.WeekID)

			family, err := app.store.GetFamily(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to load family: %w", err)
			}
			printSchedule(result.Schedule, family)

			return nil
		},
	}

	cmd.Flags().String("date", "", "Any date inside the target week (YYYY-MM-DD, default today)")
	cmd.Flags().String("seed", "", "Seed for random decisions")
	cmd.Flags().Bool("force", false, "Regenerate even if a schedule already exists")

	return cmd
}

func viewWeekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewWeek",
		Short: "Show the schedule for a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(cmd)
			if err != nil {
				return err
			}

			weekRange, schedule, err := services.ViewWeek(app.ctx, app.store, date)
			if err != nil {
				return err
			}

			if len(schedule) == 0 {
				fmt.Printf("\nNo schedule has been generated for %s yet.\n", weekRange)
				return nil
			}

			fmt.Printf("\nSchedule for %s (%s)\n\n", weekRange, calendar.WeekID(date))

			family, err := app.store.GetFamily(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to load family: %w", err)
			}
			printSchedule(schedule, family)

			return nil
		},
	}

	cmd.Flags().String("date", "", "Any date inside the target week (YYYY-MM-DD, default today)")

	return cmd
}

func swapWalksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swapWalks <walk_id_a> <walk_id_b>",
		Short: "Exchange the assignees of two slots (e.g. Lunes-Mañana Martes-Noche)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(cmd)
			if err != nil {
				return err
			}

			_, err = services.SwapWalks(app.ctx, app.store, app.logger, date, args[0], args[1])
			if err != nil {
				var notFound *rotation.WalkNotFoundError
				var completed *rotation.WalkCompletedError
				switch {
				case errors.As(err, &notFound):
					fmt.Printf("\n✗ Slot %s does not exist in this week's schedule.\n", notFound.WalkID)
				case errors.As(err, &completed):
					fmt.Printf("\n✗ Slot %s is already completed and cannot be swapped.\n", completed.WalkID)
				}
				return err
			}

			fmt.Printf("\n✓ Swapped %s and %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().String("date", "", "Any date inside the target week (YYYY-MM-DD, default today)")

	return cmd
}

func completeWalkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completeWalk <walk_id>",
		Short: "Mark a walk as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(cmd)
			if err != nil {
				return err
			}
			notes, _ := cmd.Flags().GetString("notes")

			_, err = services.CompleteWalk(app.ctx, app.store, app.logger, date, args[0], notes)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Walk %s completed\n", args[0])
			return nil
		},
	}

	cmd.Flags().String("date", "", "Any date inside the target week (YYYY-MM-DD, default today)")
	cmd.Flags().String("notes", "", "Notes about the walk")

	return cmd
}

func annotateWalkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotateWalk <walk_id> <notes>",
		Short: "Attach notes to a walk",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(cmd)
			if err != nil {
				return err
			}

			_, err = services.AnnotateWalk(app.ctx, app.store, app.logger, date, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Notes saved for %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().String("date", "", "Any date inside the target week (YYYY-MM-DD, default today)")

	return cmd
}

func leaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show this month's walk ranking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := services.Leaderboard(app.ctx, app.store, app.logger, time.Now())
			if err != nil {
				return err
			}

			fmt.Printf("\nMonthly walk ranking:\n\n")
			for i, entry := range entries {
				bar := strings.Repeat("█", int(entry.Ratio*20))
				fmt.Printf("%2d. %-12s %3d walks  %s\n", i+1, entry.Person.Name, entry.Walks, bar)
			}

			return nil
		},
	}
}

func walkStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "walkStatus",
		Short: "Show how long ago the dog was last walked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.WalkStatus(app.ctx, app.store, time.Now())
			if err != nil {
				return err
			}

			switch result.Freshness {
			case services.FreshnessNone:
				fmt.Println("\nNo walks recorded yet. Time for the first one!")
			case services.FreshnessOK:
				fmt.Printf("\n✓ Last walk at %s. All good!\n", result.LastWalk.CompletionTime.Format("15:04"))
			case services.FreshnessDueSoon:
				fmt.Printf("\nLast walk at %s. The next one is coming up.\n", result.LastWalk.CompletionTime.Format("15:04"))
			default:
				fmt.Printf("\n⚠ More than %d hours since the last walk!\n", int(result.SinceLastWalk.Hours()))
			}

			return nil
		},
	}
}

func listFamilyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listFamily",
		Short: "List the household roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := app.store.GetFamily(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to list family: %w", err)
			}

			fmt.Printf("\nFound %d family members:\n\n", len(family))
			for _, p := range family {
				tokenInfo := ""
				if p.Status == model.StatusUnclaimed {
					tokenInfo = fmt.Sprintf(" [invite: %s]", p.InviteToken)
				}
				fmt.Printf("- %s (%s) - %s%s\n", p.Name, p.ID, p.Status, tokenInfo)
			}

			return nil
		},
	}
}

func claimInviteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claimInvite <token> <name>",
		Short: "Claim an unclaimed roster entry with your name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			person, err := services.ClaimInvite(app.ctx, app.store, app.logger, args[0], args[1])
			if err != nil {
				if errors.Is(err, services.ErrInviteNotFound) {
					fmt.Println("\n✗ That invite token does not match any unclaimed member.")
				}
				return err
			}

			fmt.Printf("\n✓ Welcome, %s! You are now on the roster as %s.\n", person.Name, person.ID)
			return nil
		},
	}
}

func renameMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "renameMember <member_id> <name>",
		Short: "Change a member's display name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			person, err := services.RenameMember(app.ctx, app.store, app.logger, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s is now called %s\n", person.ID, person.Name)
			return nil
		},
	}
}

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (initialize once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without re-opening the database.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\nStarting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			// Get all sibling commands (excluding interactive itself)
			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts := strings.Fields(line)
				cmdName := parts[0]
				cmdArgs := parts[1:]

				if cmdName == "exit" || cmdName == "quit" {
					fmt.Println("Goodbye!")
					return nil
				}

				if cmdName == "help" {
					printInteractiveHelp(commands)
					continue
				}

				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Printf("Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Reset command flags and args
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// Execute the command's RunE directly, bypassing the full Execute() flow
				// This avoids re-running PersistentPreRunE which would call initApp() again
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("Error parsing flags: %v\n\n", err)
					continue
				}

				cmdArgs = targetCmd.Flags().Args()

				if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
					fmt.Printf("Error: %v\n\n", err)
					continue
				}

				if targetCmd.RunE != nil {
					if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
						fmt.Printf("Error: %v\n\n", err)
					}
				} else if targetCmd.Run != nil {
					targetCmd.Run(targetCmd, cmdArgs)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Printf("  %-30s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Println("\n  help                           Show this help message")
	fmt.Println("  exit, quit                     Exit the interactive session")
}
