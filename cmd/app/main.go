package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sqliteadapter "github.com/reliefworks/reliefdesk/internal/adapters/db/sqlite"
	httpadapter "github.com/reliefworks/reliefdesk/internal/adapters/http"
	rpcadapter "github.com/reliefworks/reliefdesk/internal/adapters/rpcjson"
	"github.com/reliefworks/reliefdesk/internal/application"
	"github.com/reliefworks/reliefdesk/internal/auth"
	"github.com/reliefworks/reliefdesk/internal/config"
	"github.com/reliefworks/reliefdesk/internal/domain"
	"github.com/reliefworks/reliefdesk/internal/logging"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "reliefdesk",
		Usage: "Disaster relief coordination server and CLI",
		Commands: []*cli.Command{
			serverCommand(),
			authCommand(),
			incidentsCommand(),
			donationsCommand(),
			volunteersCommand(),
			tasksCommand(),
			usersCommand(),
			auditCommand(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServer(ctx, cfg)
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address"},
			&cli.StringFlag{Name: "rpc-socket", Usage: "JSON-RPC unix socket path"},
			&cli.StringFlag{Name: "db-path", Usage: "SQLite database path"},
			&cli.StringFlag{Name: "bootstrap-admin-email", Usage: "initial admin email"},
			&cli.StringFlag{Name: "bootstrap-admin-password", Usage: "initial admin password when users are empty"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if c.IsSet("addr") {
				cfg.Addr = c.String("addr")
			}
			if c.IsSet("rpc-socket") {
				cfg.RPCSocket = c.String("rpc-socket")
			}
			if c.IsSet("db-path") {
				cfg.DBPath = c.String("db-path")
			}
			if c.IsSet("bootstrap-admin-email") {
				cfg.AdminEmail = c.String("bootstrap-admin-email")
			}
			if c.IsSet("bootstrap-admin-password") {
				cfg.AdminPassword = c.String("bootstrap-admin-password")
			}
			if c.IsSet("debug") {
				cfg.Debug = c.Bool("debug")
			}
			return runServer(ctx, cfg)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := sqliteadapter.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := sqliteadapter.RunMigrations(ctx, db); err != nil {
		return err
	}

	repo := sqliteadapter.NewReliefRepository(db)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, 24*time.Hour)
	service := application.NewReliefService(repo, tokens, logger)
	if err := service.BootstrapAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	sessions := sqliteadapter.NewSessionStore(db, time.Duration(cfg.SessionTTLMins)*time.Minute)
	router := httpadapter.NewRouter(service, sessions, logger)
	srv := &http.Server{Addr: cfg.Addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	rpcSrv, err := rpcadapter.Start(cfg.RPCSocket, service)
	if err != nil {
		return err
	}

	defer func() {
		_ = rpcSrv.Close()
	}()
	logger.Info("json-rpc listening", zap.String("socket", cfg.RPCSocket))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authentication commands",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Login and store CLI token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "transport", Value: "uds"},
					&cli.StringFlag{Name: "server", Value: "http://127.0.0.1:8080"},
					&cli.StringFlag{Name: "socket", Value: "/tmp/reliefdesk.sock"},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg := cliConfig{Transport: c.String("transport"), Server: c.String("server"), Socket: c.String("socket")}
					var out struct {
						Token string `json:"token"`
						Email string `json:"email"`
						Role  string `json:"role"`
					}
					err := doLogin(ctx, cfg, c.String("email"), c.String("password"), &out)
					if err != nil {
						return err
					}
					cfg.Token = out.Token
					if err := saveConfig(cfg); err != nil {
						return err
					}
					fmt.Printf("logged in as %s (%s)\n", out.Email, out.Role)
					return nil
				},
			},
			{
				Name:  "whoami",
				Usage: "Show current authenticated user",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out struct {
						ID       uint   `json:"id"`
						Email    string `json:"email"`
						FullName string `json:"full_name"`
						Role     string `json:"role"`
					}
					if err := doWhoAmI(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printKV([][2]string{{"id", uintToString(out.ID)}, {"email", out.Email}, {"full_name", out.FullName}, {"role", out.Role}})
					return nil
				},
			},
			{
				Name:  "logout",
				Usage: "Clear local CLI auth token",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					cfg.Token = ""
					if err := saveConfig(cfg); err != nil {
						return err
					}
					fmt.Println("logged out")
					return nil
				},
			},
		},
	}
}

func incidentsCommand() *cli.Command {
	return &cli.Command{
		Name:  "incidents",
		Usage: "Incident report commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List incident reports",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "reported-by", Usage: "filter by reporter user id"},
					&cli.IntFlag{Name: "limit", Value: 200},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var reportedBy *uint
					if c.IsSet("reported-by") {
						v := c.Uint("reported-by")
						reportedBy = &v
					}
					var out []domain.Incident
					if err := doIncidentsList(ctx, cfg, reportedBy, c.Int("limit"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printIncidents(out)
					return nil
				},
			},
			{
				Name:  "log",
				Usage: "Report a new incident",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "location"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out map[string]any
					if err := doIncidentLog(ctx, cfg, c.String("title"), c.String("description"), c.String("location"), &out); err != nil {
						return err
					}
					fmt.Println("incident logged")
					return nil
				},
			},
		},
	}
}

func donationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "donations",
		Usage: "Donation commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List donations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 200},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.Donation
					if err := doDonationsList(ctx, cfg, c.Int("limit"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printDonations(out)
					return nil
				},
			},
			{
				Name:  "log",
				Usage: "Record a donation",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "resource-type", Required: true},
					&cli.IntFlag{Name: "quantity", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "contact-number"},
					&cli.StringFlag{Name: "pickup-address"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out map[string]any
					err = doDonationLog(ctx, cfg, map[string]any{
						"resource_type":  c.String("resource-type"),
						"quantity":       c.Int("quantity"),
						"description":    c.String("description"),
						"contact_number": c.String("contact-number"),
						"pickup_address": c.String("pickup-address"),
					}, &out)
					if err != nil {
						return err
					}
					fmt.Println("donation recorded")
					return nil
				},
			},
			{
				Name:  "summary",
				Usage: "Show donation totals grouped by resource type",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.ResourceTotal
					if err := doDonationSummary(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printResourceTotals(out)
					return nil
				},
			},
		},
	}
}

func volunteersCommand() *cli.Command {
	return &cli.Command{
		Name:  "volunteers",
		Usage: "Volunteer commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List volunteers",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 200},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.Volunteer
					if err := doVolunteersList(ctx, cfg, c.Int("limit"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printVolunteers(out)
					return nil
				},
			},
			{
				Name:  "enroll",
				Usage: "Enroll the authenticated user as a volunteer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "skills"},
					&cli.StringFlag{Name: "availability"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out map[string]any
					if err := doVolunteerEnroll(ctx, cfg, c.String("skills"), c.String("availability"), &out); err != nil {
						return err
					}
					fmt.Println("enrolled as volunteer")
					return nil
				},
			},
		},
	}
}

func tasksCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "Volunteer task commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List volunteer tasks",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Usage: "filter by status"},
					&cli.IntFlag{Name: "limit", Value: 200},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.VolunteerTask
					if err := doTasksList(ctx, cfg, c.String("status"), c.Int("limit"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printTasks(out)
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "Create a volunteer task",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "status"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out map[string]any
					if err := doTaskCreate(ctx, cfg, c.String("name"), c.String("status"), &out); err != nil {
						return err
					}
					fmt.Println("task created")
					return nil
				},
			},
			{
				Name:  "update-status",
				Usage: "Update a task status",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "task-id", Required: true},
					&cli.StringFlag{Name: "status", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.VolunteerTask
					if err := doTaskUpdateStatus(ctx, cfg, c.Uint("task-id"), c.String("status"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printTasks([]domain.VolunteerTask{out})
					return nil
				},
			},
		},
	}
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "User commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List registered users",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "q"},
					&cli.IntFlag{Name: "limit", Value: 200},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.User
					if err := doUsersList(ctx, cfg, c.String("q"), c.Int("limit"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printUsers(out)
					return nil
				},
			},
		},
	}
}

func auditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Audit log commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List audit logs",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 200},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.AuditRecord
					if err := doAuditList(ctx, cfg, c.Int("limit"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printAuditRecords(out)
					return nil
				},
			},
		},
	}
}

func jsonMarshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
