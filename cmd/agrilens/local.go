package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FrenchMajesty/agrilens/utils/export"
	"github.com/FrenchMajesty/agrilens/utils/format"
	"github.com/FrenchMajesty/agrilens/utils/geo"
	"github.com/FrenchMajesty/agrilens/utils/status"
	"github.com/FrenchMajesty/agrilens/utils/validate"
)

var errInvalid = errors.New("invalid")

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, s)
	}
	return v, nil
}

func (a *app) statusCmd() *cobra.Command {
	kinds := make([]string, len(status.Kinds))
	for i, k := range status.Kinds {
		kinds[i] = string(k)
	}

	return &cobra.Command{
		Use:   "status <kind> <value>",
		Short: "Classify a sensor reading",
		Long:  "Classify a reading into its status bucket and colour.\n\nKinds: " + strings.Join(kinds, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := status.ParseKind(args[0])
			if err != nil {
				return err
			}
			v, err := parseFloat("value", args[1])
			if err != nil {
				return err
			}
			res, err := status.Classify(kind, v)
			if err != nil {
				return err
			}
			a.printf(cmd, "%s\t%s\t%s\n", res.Status, res.Color, res.Color.TextClass())
			return nil
		},
	}
}

func (a *app) formatCmd() *cobra.Command {
	formatCmd := &cobra.Command{
		Use:   "format",
		Short: "Render values the way the dashboard displays them",
	}

	var decimals int
	numberCmd := &cobra.Command{
		Use:   "number <value>",
		Short: "Format a number with group separators",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloat("value", args[0])
			if err != nil {
				return err
			}
			a.printf(cmd, "%s\n", format.Number(v, decimals))
			return nil
		},
	}
	numberCmd.Flags().IntVarP(&decimals, "decimals", "d", format.DefaultNumberDecimals, "fraction digits")

	var code string
	currencyCmd := &cobra.Command{
		Use:   "currency <amount>",
		Short: "Format a monetary amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloat("amount", args[0])
			if err != nil {
				return err
			}
			if code == "" {
				code = a.cfg.Display.Currency
			}
			a.printf(cmd, "%s\n", format.Currency(v, code))
			return nil
		},
	}
	currencyCmd.Flags().StringVarP(&code, "code", "c", "", "ISO 4217 currency code (default from config)")

	var pctDecimals int
	percentCmd := &cobra.Command{
		Use:   "percent <value>",
		Short: "Format a value that is already a percentage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloat("value", args[0])
			if err != nil {
				return err
			}
			d := a.cfg.Display.PercentageDecimals
			if cmd.Flags().Changed("decimals") {
				d = pctDecimals
			}
			a.printf(cmd, "%s\n", format.Percentage(v, d))
			return nil
		},
	}
	percentCmd.Flags().IntVarP(&pctDecimals, "decimals", "d", format.DefaultPercentageDecimals, "fraction digits (default from config)")

	var withTime bool
	dateCmd := &cobra.Command{
		Use:   "date <iso-date>",
		Short: "Format an ISO date or timestamp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if withTime {
				a.printf(cmd, "%s\n", format.DateTimeString(args[0]))
			} else {
				a.printf(cmd, "%s\n", format.DateString(args[0]))
			}
			return nil
		},
	}
	dateCmd.Flags().BoolVarP(&withTime, "time", "t", false, "include the time of day")

	initialsCmd := &cobra.Command{
		Use:   "initials <name>...",
		Short: "Derive up to two initials from a name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printf(cmd, "%s\n", format.Initials(strings.Join(args, " ")))
			return nil
		},
	}

	truncateCmd := &cobra.Command{
		Use:   "truncate <text> <max-length>",
		Short: "Shorten text to a maximum length with an ellipsis",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("max-length must be an integer, got %q", args[1])
			}
			a.printf(cmd, "%s\n", format.Truncate(args[0], n))
			return nil
		},
	}

	formatCmd.AddCommand(numberCmd, currencyCmd, percentCmd, dateCmd, initialsCmd, truncateCmd)
	return formatCmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "validate email|phone <value>",
		Short:     "Check an email address or phone number",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"email", "phone"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var ok bool
			switch args[0] {
			case "email":
				ok = validate.Email(args[1])
			case "phone":
				ok = validate.Phone(args[1])
			default:
				return fmt.Errorf("unknown validator %q (want email or phone)", args[0])
			}

			if !ok {
				a.printf(cmd, "invalid\n")
				return fmt.Errorf("%w %s: %q", errInvalid, args[0], args[1])
			}
			a.printf(cmd, "valid\n")
			return nil
		},
	}
}

func (a *app) distanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distance <lat1> <lon1> <lat2> <lon2>",
		Short: "Great-circle distance in kilometres",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := []string{"lat1", "lon1", "lat2", "lon2"}
			coords := make([]float64, 4)
			for i, s := range args {
				v, err := parseFloat(names[i], s)
				if err != nil {
					return err
				}
				coords[i] = v
			}
			km := geo.Distance(coords[0], coords[1], coords[2], coords[3])
			a.printf(cmd, "%s km\n", format.Number(km, 2))
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <records.json>",
		Short: "Convert a JSON array of flat records to CSV",
		Long:  `Reads a JSON array of objects and writes CSV, using the first record's keys as the header. Use "-" to read stdin.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			rows, err := export.RowsFromJSON(data)
			if err != nil {
				return err
			}

			if output == "" {
				if err := export.WriteCSV(cmd.OutOrStdout(), rows); err != nil {
					return err
				}
				a.printf(cmd, "\n")
				return nil
			}
			if err := export.SaveCSV(output, rows); err != nil {
				return err
			}
			a.logger.Info("exported records", zap.Int("rows", len(rows)), zap.String("path", output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write CSV to this file instead of stdout")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
