// Package main is the entry point for the bloglist admin CLI.
// This tool manages user accounts directly against the configured store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/prn-tf/bloglist/internal/app"
	"github.com/prn-tf/bloglist/internal/auth"
	"github.com/prn-tf/bloglist/internal/config"
	"github.com/prn-tf/bloglist/internal/domain"
	"github.com/prn-tf/bloglist/internal/logging"
	"github.com/prn-tf/bloglist/internal/pkg/crypto"
	"github.com/prn-tf/bloglist/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "bloglist-admin",
		Usage: "administer bloglist user accounts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the configuration file",
				EnvVars: []string{"BLOGLIST_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "user",
				Usage: "manage users",
				Subcommands: []*cli.Command{
					{
						Name:  "create",
						Usage: "register a user",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
							&cli.StringFlag{Name: "name", Aliases: []string{"n"}},
							&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "prompted for when omitted"},
						},
						Action: createUser,
					},
					{
						Name:   "list",
						Usage:  "list users with their post counts",
						Action: listUsers,
					},
					{
						Name:      "delete",
						Usage:     "delete a user and every post they created",
						ArgsUsage: "<username>",
						Action:    deleteUser,
					},
				},
			},
			{
				Name:   "secret",
				Usage:  "print a random secret for auth.jwt_secret",
				Action: generateSecret,
			},
			{
				Name:  "version",
				Usage: "print version information",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "bloglist admin CLI\nVersion: %s\nBuild Time: %s\nGit Commit: %s\n",
						Version, BuildTime, GitCommit)
					return nil
				},
			},
		},
	}
}

func generateSecret(c *cli.Context) error {
	secret, err := crypto.GenerateSigningSecret()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, secret)
	return nil
}

// session holds what every user subcommand needs.
type session struct {
	users  *service.UserService
	stores *app.Stores
}

func (s *session) Close() error {
	return s.stores.Close()
}

func openSession(c *cli.Context) (*session, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(config.LoggingConfig{Level: "warn", Format: "console", Output: "stderr"})
	if err != nil {
		logger = zerolog.Nop()
	}

	stores, err := app.OpenStores(c.Context, cfg, nil, logger)
	if err != nil {
		return nil, err
	}

	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}

	return &session{
		users:  service.NewUserService(stores.Repos.User, stores.Repos.Post, hasher, logger),
		stores: stores,
	}, nil
}

func createUser(c *cli.Context) error {
	password := c.String("password")
	if password == "" {
		pw, err := promptPassword(c.App.ErrWriter)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = pw
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
	defer cancel()

	user, err := s.users.Register(ctx, service.RegisterInput{
		Username: c.String("username"),
		Name:     c.String("name"),
		Password: password,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "created user %s (%s)\n", user.Username, user.ID)
	return nil
}

func listUsers(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	profiles, err := s.users.List(c.Context)
	if err != nil {
		return err
	}
	return printUsers(c.App.Writer, profiles)
}

func printUsers(w io.Writer, profiles []*service.UserProfile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tNAME\tPOSTS\tCREATED")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			p.ID, p.Username, p.Name, len(p.Posts), p.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func deleteUser(c *cli.Context) error {
	username := c.Args().First()
	if username == "" {
		return cli.Exit("usage: bloglist-admin user delete <username>", 2)
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	user, err := s.users.GetByUsername(c.Context, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no user named %q", username)
		}
		return err
	}

	if err := s.users.Delete(c.Context, user.ID); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "deleted user %s and their posts\n", user.Username)
	return nil
}
