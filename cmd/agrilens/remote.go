package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FrenchMajesty/agrilens"
	"github.com/FrenchMajesty/agrilens/clients/backend"
	"github.com/FrenchMajesty/agrilens/session"
	"github.com/FrenchMajesty/agrilens/utils/export"
	"github.com/FrenchMajesty/agrilens/utils/format"
)

// EnvPassword supplies the login password when --password is not given
const EnvPassword = "AGRILENS_PASSWORD"

// connect restores the saved session and builds a backend client that
// authenticates with it
func (a *app) connect() (*session.Session, *backend.Client, error) {
	sess, err := session.New(session.NewFileStore(a.cfg.Session.Path), a.logger)
	if err != nil {
		return nil, nil, err
	}

	retryCfg := a.cfg.API.Retry
	client := backend.NewClient(backend.Config{
		BaseURL:        a.cfg.API.BaseURL,
		Timeout:        a.cfg.API.Timeout,
		Retry:          &retryCfg,
		Logger:         a.logger,
		Tokens:         sess,
		OnUnauthorized: sess.Expire,
	})
	sess.SetAuthenticator(client)
	return sess, client, nil
}

func (a *app) loginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and save the session",
		Long:  "Sign in with email and password. The password is read from --password or " + EnvPassword + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(EnvPassword)
			}
			if password == "" {
				return fmt.Errorf("password required (use --password or set %s)", EnvPassword)
			}

			sess, _, err := a.connect()
			if err != nil {
				return err
			}
			user, err := sess.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			a.printf(cmd, "Logged in as %s (%s) [%s]\n", user.Name, user.Role, format.Initials(user.Name))
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := a.connect()
			if err != nil {
				return err
			}
			if err := sess.Logout(cmd.Context()); err != nil {
				return err
			}
			a.printf(cmd, "Logged out\n")
			return nil
		},
	}
}

func (a *app) overviewCmd() *cobra.Command {
	var (
		csvPath string
		save    bool
		days    int
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "overview <farm-id>",
		Short: "Show a farm's dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, client, err := a.connect()
			if err != nil {
				return err
			}
			if _, err := sess.Require(); err != nil {
				return fmt.Errorf("%w: run `agrilens login` first", err)
			}

			dash, err := agrilens.NewDashboard(agrilens.Config{
				API:                client,
				Logger:             a.logger,
				Currency:           a.cfg.Display.Currency,
				PercentageDecimals: &a.cfg.Display.PercentageDecimals,
				PricePerKg:         a.cfg.Display.PricePerKg,
				ReadingsLimit:      limit,
				StatsDays:          days,
			})
			if err != nil {
				return err
			}

			overview, err := dash.Load(cmd.Context(), args[0])
			if errors.Is(err, backend.ErrUnauthorized) {
				return fmt.Errorf("session expired, run `agrilens login` again: %w", err)
			}
			if err != nil {
				return err
			}

			a.printOverview(cmd, dash, overview)

			if save && csvPath == "" {
				csvPath = exportFilename(".", "readings", args[0], overview.GeneratedAt)
			}
			if csvPath != "" {
				if err := export.SaveCSV(csvPath, dash.ExportReadings(overview.Readings)); err != nil {
					return err
				}
				a.logger.Info("exported readings", zap.Int("rows", len(overview.Readings)), zap.String("path", csvPath))
				a.printf(cmd, "\nReadings saved to %s\n", csvPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "also export the readings to this CSV file")
	cmd.Flags().BoolVar(&save, "save", false, "export the readings to a timestamped CSV in the current directory")
	cmd.Flags().IntVar(&days, "days", agrilens.DefaultStatsDays, "statistics window in days")
	cmd.Flags().IntVar(&limit, "limit", agrilens.DefaultReadingsLimit, "number of recent readings to load")
	return cmd
}

func (a *app) printOverview(cmd *cobra.Command, dash *agrilens.Dashboard, o *agrilens.Overview) {
	summary := dash.Summary(o)
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		a.printf(cmd, "%-20s %s\n", strings.ReplaceAll(k, "_", " "), summary[k])
	}

	if len(o.Cards) > 0 {
		a.printf(cmd, "\n")
		for _, c := range o.Cards {
			a.printf(cmd, "%-14s %-10s %s (%s)\n", c.Title, c.Value, c.Status, c.Color)
		}
	}

	if nearest, ok := dash.NearestDevice(o.Farm, o.Readings); ok {
		a.printf(cmd, "\nNearest device: %s (%s km)\n", nearest.DeviceID, format.Number(nearest.DistanceKm, 2))
	}
}
