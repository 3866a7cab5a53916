package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"taskdeck/internal/app"
	"taskdeck/internal/blob"
	"taskdeck/internal/config"
	"taskdeck/internal/db"
	"taskdeck/internal/domain"
	"taskdeck/internal/filter"
	"taskdeck/internal/migrate"
	"taskdeck/internal/repo"
	"taskdeck/internal/server"
	"taskdeck/internal/store"
	"taskdeck/internal/view"
)

var rootCmd = &cobra.Command{
	Use:   "td",
	Short: "Taskdeck CLI",
	Long: `Taskdeck keeps a personal task collection synchronized with local storage.
- Workspace: your .taskdeck directory holding the database and attachments.
- Tasks: items with a status (TODO, IN_PROGRESS, COMPLETED), a category
  (WORK or PERSONAL), an optional due date, tags, and attachments.
- Views: 'td task list' renders the filtered collection; 'td board' groups
  it into the three status lanes.
- Filters: search text, category, and a due-date range compose with AND.
- Event log: diary of changes, view with 'td log tail'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("TASKDECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("owner", "", "owner id (overrides config)")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("owner", rootCmd.PersistentFlags().Lookup("owner"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(boardCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(keyCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(serveCmd())
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the resolved identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, r repo.Repo, _ *store.Store) error {
				u, ok := app.Identity(ctx, r, cfg).Current()
				if !ok {
					return fmt.Errorf("no identity resolved")
				}
				return printJSONOrTable(u)
			})
		},
	}
}

func initCmd() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				return fmt.Errorf("--owner required")
			}
			workspace := viper.GetString("workspace")
			if _, err := db.EnsureWorkspace(workspace); err != nil {
				return err
			}
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			r := repo.Repo{DB: conn}
			if err := r.UpsertUser(cmd.Context(), domain.User{ID: owner, Name: owner}); err != nil {
				return err
			}
			cfgPath := config.Path(workspace)
			if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
				if err := os.WriteFile(cfgPath, []byte(config.GenerateDefault(owner)), 0o644); err != nil {
					return err
				}
				fmt.Println("wrote", cfgPath)
			}
			fmt.Println("workspace ready:", db.Path(workspace))
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner id")
	return cmd
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect workspace config",
		Long:  "Config is the rulebook (taskdeck.yml): owner identity, view breakpoint and default mode, and the default category for new tasks.",
	}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			if cfg == nil {
				cfg = config.Default(viper.GetString("owner"))
			}
			return printJSONOrTable(cfg)
		},
	}
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate taskdeck.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Println("config ok")
			return nil
		},
	}
}

func taskCmd() *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage tasks"}
	task.AddCommand(taskAddCmd())
	task.AddCommand(taskListCmd())
	task.AddCommand(taskShowCmd())
	task.AddCommand(taskUpdateCmd())
	task.AddCommand(taskRmCmd())
	task.AddCommand(taskStatusCmd())
	task.AddCommand(taskToggleCmd())
	task.AddCommand(taskMoveCmd())
	task.AddCommand(taskAttachCmd())
	return task
}

func taskAddCmd() *cobra.Command {
	var title, description, status, category, due string
	var tags []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, _ repo.Repo, st *store.Store) error {
				d := domain.Draft{
					Title:       title,
					Description: description,
					Status:      domain.StatusTodo,
					Category:    domain.Category(cfg.Defaults.Category),
					DueDate:     due,
					Tags:        tags,
				}
				if d.Category == "" {
					d.Category = domain.CategoryWork
				}
				if status != "" {
					d.Status = domain.Status(status)
				}
				if category != "" {
					d.Category = domain.Category(category)
				}
				created, err := st.Create(ctx, d)
				if err != nil {
					return err
				}
				return printJSONOrTable(created)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&status, "status", "", "TODO, IN_PROGRESS or COMPLETED")
	cmd.Flags().StringVar(&category, "category", "", "WORK or PERSONAL")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&tags, "tag", []string{}, "tag (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func taskListCmd() *cobra.Command {
	var search, category, from, to string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, _ repo.Repo, st *store.Store) error {
				sel := filter.Selection{
					Search:   search,
					Category: domain.FilterAll,
					Dates:    filter.DateRange{Start: from, End: to},
				}
				if category != "" {
					fc := domain.FilterCategory(category)
					if !fc.Valid() {
						return fmt.Errorf("invalid category filter %q", category)
					}
					sel.Category = fc
				}
				st.Load(ctx)
				tasks := filter.Apply(st.Tasks(), sel)
				if viper.GetBool("json") {
					return printJSON(tasks)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Status", "Category", "Due", "Tags"})
				for _, t := range tasks {
					tw.AppendRow(table.Row{shortID(t.ID), t.Title, t.Status, t.Category, t.DueDate, strings.Join(t.Tags, ",")})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "title substring filter")
	cmd.Flags().StringVar(&category, "category", "", "ALL, WORK or PERSONAL")
	cmd.Flags().StringVar(&from, "from", "", "due date range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "due date range end (YYYY-MM-DD)")
	return cmd
}

func taskShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				t, err := r.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var title, description, category, due string
	var tags []string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, _ *config.Config, _ repo.Repo, st *store.Store) error {
				var p domain.Patch
				if cmd.Flags().Changed("title") {
					p.Title = &title
				}
				if cmd.Flags().Changed("description") {
					p.Description = &description
				}
				if cmd.Flags().Changed("category") {
					c := domain.Category(category)
					p.Category = &c
				}
				if cmd.Flags().Changed("due") {
					p.DueDate = &due
				}
				if cmd.Flags().Changed("tag") {
					p.Tags = tags
				}
				updated, err := st.Update(ctx, args[0], p)
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&category, "category", "", "WORK or PERSONAL")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&tags, "tag", []string{}, "replacement tag set (repeatable)")
	return cmd
}

func taskRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, _ *config.Config, _ repo.Repo, st *store.Store) error {
				return st.Remove(ctx, args[0])
			})
		},
	}
	return cmd
}

func taskStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set task status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, _ *config.Config, _ repo.Repo, st *store.Store) error {
				updated, err := st.SetStatus(ctx, args[0], domain.Status(args[1]))
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	return cmd
}

func taskToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle a task between TODO and COMPLETED",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, _ *config.Config, r repo.Repo, st *store.Store) error {
				t, err := r.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				updated, err := st.ToggleStatus(ctx, args[0], t.Status)
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
		Args: cobra.ExactArgs(1),
	}
	return cmd
}

func taskMoveCmd() *cobra.Command {
	var source, dest string
	var sourceIndex, destIndex int
	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a task between board lanes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, _ *config.Config, _ repo.Repo, st *store.Store) error {
				drop := view.Drop{
					TaskID:      args[0],
					Source:      domain.Status(source),
					SourceIndex: sourceIndex,
					Dest:        domain.Status(dest),
					DestIndex:   destIndex,
				}
				cmdOut, ok := view.Resolve(drop)
				if !ok {
					fmt.Println("no-op")
					return nil
				}
				updated, err := st.SetStatus(ctx, cmdOut.TaskID, cmdOut.Status)
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	cmd.Flags().StringVar(&source, "from", "", "source lane")
	cmd.Flags().StringVar(&dest, "to", "", "destination lane")
	cmd.Flags().IntVar(&sourceIndex, "from-index", 0, "source index")
	cmd.Flags().IntVar(&destIndex, "to-index", 0, "destination index")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func taskAttachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach <id> <file>",
		Short: "Attach a file to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, _ *config.Config, r repo.Repo, st *store.Store) error {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer f.Close()
				workspace := viper.GetString("workspace")
				blobs := blob.Dir{Root: filepath.Join(workspace, ".taskdeck", "blobs")}
				ref, err := blobs.Put(ctx, st.OwnerID, filepath.Base(args[1]), f)
				if err != nil {
					return err
				}
				t, err := r.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				t.AppendAttachment(ref)
				updated, err := st.Update(ctx, args[0], domain.Patch{Attachments: t.Attachments})
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	return cmd
}

func boardCmd() *cobra.Command {
	var search, category, from, to string
	var width int
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Render the status board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, _ repo.Repo, st *store.Store) error {
				sel := filter.Selection{
					Search:   search,
					Category: domain.FilterAll,
					Dates:    filter.DateRange{Start: from, End: to},
				}
				if category != "" {
					fc := domain.FilterCategory(category)
					if !fc.Valid() {
						return fmt.Errorf("invalid category filter %q", category)
					}
					sel.Category = fc
				}
				st.Load(ctx)
				tasks := filter.Apply(st.Tasks(), sel)

				coord := view.NewCoordinator(cfg.View.Breakpoint)
				coord.SetMode(view.Mode(cfg.View.DefaultMode))
				coord.SetViewportWidth(width)
				lanes := coord.GroupByStatus(tasks)
				if viper.GetBool("json") {
					return printJSON(lanes)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Lane", "ID", "Title", "Due"})
				for _, lane := range lanes {
					if len(lane.Tasks) == 0 {
						tw.AppendRow(table.Row{lane.Status, "", "(empty)", ""})
						continue
					}
					for _, t := range lane.Tasks {
						tw.AppendRow(table.Row{lane.Status, shortID(t.ID), t.Title, t.DueDate})
					}
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "title substring filter")
	cmd.Flags().StringVar(&category, "category", "", "ALL, WORK or PERSONAL")
	cmd.Flags().StringVar(&from, "from", "", "due date range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "due date range end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&width, "width", 0, "viewport width (forces board below the breakpoint)")
	return cmd
}

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Event log",
		Long:  "The diary of everything that happened: task creations, updates, and deletions.",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				events, err := r.LatestEvents(ctx, n, viper.GetString("owner"))
				if err != nil {
					return err
				}
				return printJSONOrTable(events)
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	return cmd
}

func keyCmd() *cobra.Command {
	key := &cobra.Command{Use: "key", Short: "Manage API keys"}
	key.AddCommand(keyCreateCmd())
	key.AddCommand(keyListCmd())
	key.AddCommand(keyRmCmd())
	return key
}

func keyCreateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API key (plaintext printed once)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				ownerID, _, err := app.ResolveOwnerAndConfig(ctx, viper.GetString("workspace"), viper.GetString("owner"), r)
				if err != nil {
					return err
				}
				plain, key, err := app.MintAPIKey(ctx, r, ownerID, name)
				if err != nil {
					return err
				}
				fmt.Println("id: ", key.ID)
				fmt.Println("key:", plain)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "key label")
	return cmd
}

func keyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				ownerID, _, err := app.ResolveOwnerAndConfig(ctx, viper.GetString("workspace"), viper.GetString("owner"), r)
				if err != nil {
					return err
				}
				keys, err := r.ListAPIKeys(ctx, ownerID)
				if err != nil {
					return err
				}
				for i := range keys {
					keys[i].KeyHash = ""
				}
				return printJSONOrTable(keys)
			})
		},
	}
}

func keyRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				return r.DeleteAPIKey(ctx, args[0])
			})
		},
	}
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	var devLogin bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			if _, err := db.EnsureWorkspace(workspace); err != nil {
				return err
			}
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			r := repo.Repo{DB: conn}
			cfg, err := config.LoadOptional(workspace)
			if err != nil {
				return err
			}
			if cfg == nil {
				cfg = config.Default(viper.GetString("owner"))
			}
			authCfg := server.AuthConfig{
				JWTSecret:              os.Getenv("TASKDECK_JWT_SECRET"),
				AllowLegacyOwnerHeader: cfg.Auth.AllowLegacyActorHeader,
				DevLogin:               devLogin,
			}
			if authCfg.JWTSecret == "" {
				return fmt.Errorf("TASKDECK_JWT_SECRET is required for bearer auth")
			}
			handler, err := server.New(server.Config{
				Repo:      r,
				Blob:      blob.Dir{Root: filepath.Join(workspace, ".taskdeck", "blobs")},
				AppConfig: cfg,
				BasePath:  basePath,
				Auth:      authCfg,
			})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Taskdeck API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	cmd.Flags().BoolVar(&devLogin, "dev-login", false, "enable unauthenticated dev login")
	return cmd
}

// --- helpers ---

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	r := repo.Repo{DB: conn}
	return fn(ctx, r)
}

func withStore(ctx context.Context, fn func(context.Context, *config.Config, repo.Repo, *store.Store) error) error {
	return withRepo(ctx, func(ctx context.Context, r repo.Repo) error {
		workspace := viper.GetString("workspace")
		ownerID, cfg, err := app.ResolveOwnerAndConfig(ctx, workspace, viper.GetString("owner"), r)
		if err != nil {
			return err
		}
		return fn(ctx, cfg, r, app.NewStore(r, ownerID))
	})
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
