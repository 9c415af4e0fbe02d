package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/cybertec-postgresql/sqlsplit/internal/cli"
	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
)

const version = "1.0.0"

const loadDescription = `load runs the files against PostgreSQL, so it only applies to
PostgreSQL-compatible INSERT-style dumps such as pg_dump --inserts output.
MySQL syntax (backtick identifiers, /*!...*/ directives, LOCK TABLES) is
rejected by the server, and pg_dump's default COPY ... FROM stdin format
cannot be split.`

func commonFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "config",
			Usage: "YAML configuration file (default: ./" + cli.DefaultConfigFile + " when present)",
		},
		&urfavecli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug output",
		},
		&urfavecli.StringFlag{
			Name:  "log-format",
			Usage: "Log output format (human or json)",
		},
	}
}

func main() {
	app := &urfavecli.Command{
		Name:    "sqlsplit",
		Usage:   "Split large SQL dumps into independently executable files",
		Version: version,
		Commands: []*urfavecli.Command{
			{
				Name:      "split",
				Usage:     "Split a dump into numbered files of roughly equal size",
				ArgsUsage: "<input.sql>",
				Action:    splitCommand,
				Flags: append(commonFlags(),
					&urfavecli.StringFlag{
						Name:    "output-size",
						Aliases: []string{"s"},
						Usage:   "Target size per file, e.g. 512kb, 10mb, 1gb",
					},
					&urfavecli.StringFlag{
						Name:  "out",
						Usage: "Output directory (default: input name without extension)",
					},
				),
			},
			{
				Name:      "verify",
				Usage:     "Check that every file of a split is valid on its own",
				ArgsUsage: "<dir>",
				Action:    verifyCommand,
				Flags: append(commonFlags(),
					&urfavecli.IntFlag{
						Name:  "parallel",
						Usage: "Maximum concurrent file checks",
					},
				),
			},
			{
				Name:        "load",
				Usage:       "Apply a split of a PostgreSQL INSERT-style dump (pg_dump --inserts), one transaction per file",
				Description: loadDescription,
				ArgsUsage:   "<dir>",
				Action:      loadCommand,
				Flags: append(commonFlags(),
					&urfavecli.StringFlag{
						Name:    "connection",
						Aliases: []string{"c"},
						Usage:   "PostgreSQL connection string (URI or key=value format). Supports standard PG* environment variables.",
					},
					&urfavecli.DurationFlag{
						Name:  "timeout",
						Usage: "Per-file timeout",
					},
					&urfavecli.BoolFlag{
						Name:  "dry-run",
						Usage: "Load into a temporary database and drop it afterwards",
					},
				),
			},
			{
				Name:      "report",
				Usage:     "Summarize a split from its manifest",
				ArgsUsage: "<dir>",
				Action:    reportCommand,
				Flags: append(commonFlags(),
					&urfavecli.StringFlag{
						Name:  "format",
						Usage: "Output format (json or text)",
					},
					&urfavecli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (use - for stdout)",
					},
				),
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var cfgErr *errors.ConfigError
		if stderrors.As(err, &cfgErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// loadConfig merges defaults, file, environment and the flags set on cmd
func loadConfig(cmd *urfavecli.Command) (*cli.Config, error) {
	flags := make(map[string]interface{})
	for _, fl := range cmd.Flags {
		name := fl.Names()[0]
		if name == "config" || !cmd.IsSet(name) {
			continue
		}
		flags[strings.ReplaceAll(name, "-", "_")] = cmd.Value(name)
	}

	config, err := cli.LoadConfig(cmd.String("config"), flags)
	if err != nil {
		return nil, err
	}
	if err := cli.SetupLogging(config); err != nil {
		return nil, err
	}
	return config, nil
}

func requireArg(cmd *urfavecli.Command, name string) (string, error) {
	arg := cmd.Args().First()
	if arg == "" {
		return "", errors.NewConfigError(name, "missing argument")
	}
	return arg, nil
}

// splitCommand handles the 'sqlsplit split' command
func splitCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	config.Input = cmd.Args().First()

	if err := cli.ValidateSplit(config); err != nil {
		return err
	}

	_, err = cli.Split(ctx, config)
	return err
}

// verifyCommand handles the 'sqlsplit verify' command
func verifyCommand(ctx context.Context, cmd *urfavecli.Command) error {
	dir, err := requireArg(cmd, "dir")
	if err != nil {
		return err
	}
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cli.ValidateVerify(config); err != nil {
		return err
	}

	exitCode, err := cli.Verify(ctx, config, dir)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// loadCommand handles the 'sqlsplit load' command
func loadCommand(ctx context.Context, cmd *urfavecli.Command) error {
	dir, err := requireArg(cmd, "dir")
	if err != nil {
		return err
	}
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cli.ValidateLoad(config); err != nil {
		return err
	}

	exitCode, err := cli.Load(ctx, config, dir)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// reportCommand handles the 'sqlsplit report' command
func reportCommand(ctx context.Context, cmd *urfavecli.Command) error {
	dir, err := requireArg(cmd, "dir")
	if err != nil {
		return err
	}
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cli.ValidateReport(config); err != nil {
		return err
	}

	return cli.Report(dir, config.Format, config.Output)
}
