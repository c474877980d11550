package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"estate/internal/app"
	"estate/internal/auth"
	"estate/internal/config"
	"estate/internal/model"
	"estate/internal/repository"
	"estate/internal/service"
	"estate/internal/utils"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "propsearch",
		Usage: "Query and operate the property search engine from the command line",
		Commands: []*cli.Command{
			{
				Name:      "query",
				Usage:     "Run a free-text search and print the response as JSON",
				ArgsUsage: "<query>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "role",
						Usage: "Caller role (admin, operator, customer)",
						Value: string(model.RoleAdmin),
					},
					&cli.Int64Flag{
						Name:  "agent",
						Usage: "Agent ID a customer is bound to",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort order (price_asc, price_desc, newest, area_desc)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Page size",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Page offset",
					},
					&cli.BoolFlag{
						Name:  "memory",
						Usage: "Search the built-in seed corpus instead of PostgreSQL",
					},
					&cli.BoolFlag{
						Name:  "no-interpreter",
						Usage: "Use the heuristic extractor only",
					},
				},
			},
			{
				Name:      "mask",
				Usage:     "Print the masked form of a contact number",
				ArgsUsage: "<contact>",
				Action:    maskCommand,
			},
			{
				Name:   "token",
				Usage:  "Mint a session token for the HTTP API",
				Action: tokenCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "role",
						Usage:    "Caller role (admin, operator, customer)",
						Required: true,
					},
					&cli.Int64Flag{
						Name:  "user",
						Usage: "User ID",
						Value: 1,
					},
					&cli.Int64Flag{
						Name:  "agent",
						Usage: "Agent ID a customer is bound to",
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "User email",
					},
					&cli.StringFlag{
						Name:    "secret",
						Usage:   "HS256 signing secret",
						EnvVars: []string{"JWT_SECRET"},
					},
				},
			},
			{
				Name:   "migrate",
				Usage:  "Apply the embedded schema and seed migrations",
				Action: migrateCommand,
			},
		},
	}
}

func callerFromFlags(c *cli.Context) (model.Caller, error) {
	role, ok := model.ParseRole(c.String("role"))
	if !ok {
		return model.Caller{}, fmt.Errorf("unknown role %q", c.String("role"))
	}
	return model.Caller{
		UserID:  c.Int64("user"),
		Email:   c.String("email"),
		Role:    role,
		AgentID: c.Int64("agent"),
	}, nil
}

func queryCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	caller, err := callerFromFlags(c)
	if err != nil {
		return err
	}

	sort := model.SortCriterion(c.String("sort"))
	if sort != "" && !sort.Valid() {
		return fmt.Errorf("unknown sort %q", sort)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	engine, err := app.New(cfg, app.Options{
		ForceMemoryStore:   c.Bool("memory"),
		DisableInterpreter: c.Bool("no-interpreter"),
	})
	if err != nil {
		return err
	}
	defer engine.Close()

	resp, err := engine.Search.Search(context.Background(), caller, &model.SearchRequest{
		Query: query,
		Options: &model.SearchOptions{
			Limit:  c.Int("limit"),
			Offset: c.Int("offset"),
			Sort:   sort,
		},
	})
	if err != nil {
		return err
	}

	out, err := utils.PrettyPrintJSON(resp)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, out)
	return nil
}

func maskCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one contact number")
	}
	fmt.Fprintln(c.App.Writer, service.Mask(c.Args().First()))
	return nil
}

func tokenCommand(c *cli.Context) error {
	secret := c.String("secret")
	if secret == "" {
		return fmt.Errorf("secret is required (--secret or JWT_SECRET)")
	}

	caller, err := callerFromFlags(c)
	if err != nil {
		return err
	}

	ttl := config.DefaultTokenTTL
	if cfg, err := config.Load(); err == nil {
		ttl = cfg.Auth.TokenTTL
	}

	token, err := auth.NewIssuer(secret, ttl).GenerateToken(caller)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, token)
	return nil
}

func migrateCommand(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return repository.Migrate(cfg.PostgreSQL.Driver, cfg.GetPostgreSQLDSN())
}
