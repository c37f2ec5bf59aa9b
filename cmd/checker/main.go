// Command checker validates an MLPerf inference submission tree against the
// structural and content contract. Exit code 0 means the submission looks OK,
// 1 means errors were found (or the checker itself could not run).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/mlperf-tools/submission-checker/internal/checker"
	"github.com/mlperf-tools/submission-checker/internal/logging"
	"github.com/mlperf-tools/submission-checker/internal/rules"
	"github.com/mlperf-tools/submission-checker/internal/schema"
)

const (
	systemsTemplateFile = "system_desc_id.json"
	implsTemplateFile   = "system_desc_id_imp.json"
)

var errSubmissionInvalid = errors.New("submission has errors")

func main() {
	// Optional; flags can take their defaults from a .env next to the tree.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "checker",
		Usage: "validate an MLPerf inference submission directory tree",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Usage:    "submission directory",
				Required: true,
				Sources:  cli.EnvVars("MLC_CHECK_INPUT"),
			},
			&cli.StringFlag{
				Name:    "submitter",
				Usage:   "filter to one submitter",
				Sources: cli.EnvVars("MLC_CHECK_SUBMITTER"),
			},
			&cli.StringFlag{
				Name:    "schema-dir",
				Usage:   "directory holding the schema template JSON files (default: the executable's directory)",
				Sources: cli.EnvVars("MLC_CHECK_SCHEMA_DIR"),
			},
			&cli.StringFlag{
				Name:    "rules",
				Usage:   "TOML file overriding the built-in rule tables",
				Sources: cli.EnvVars("MLC_CHECK_RULES"),
			},
			&cli.BoolFlag{
				Name:    "strict-seeds",
				Usage:   "treat a loadgen seed mismatch as invalidating",
				Sources: cli.EnvVars("MLC_CHECK_STRICT_SEEDS"),
			},
			&cli.BoolFlag{
				Name:    "symmetric-diff",
				Usage:   "report the full symmetric difference in file-set mismatches",
				Sources: cli.EnvVars("MLC_CHECK_SYMMETRIC_DIFF"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("MLC_CHECK_VERBOSE"),
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errSubmissionInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log := logging.New(cmd.Bool("verbose")).With(slog.String("run", uuid.NewString()[:8]))

	r, err := loadRules(cmd.String("rules"))
	if err != nil {
		return err
	}

	schemaDir, err := resolveSchemaDir(cmd.String("schema-dir"))
	if err != nil {
		return err
	}
	systems, err := schema.LoadTemplate(filepath.Join(schemaDir, systemsTemplateFile))
	if err != nil {
		return err
	}
	impls, err := schema.LoadTemplate(filepath.Join(schemaDir, implsTemplateFile))
	if err != nil {
		return err
	}

	chk := checker.New(r, systems, impls, checker.Options{
		Root:          cmd.String("input"),
		Submitter:     cmd.String("submitter"),
		StrictSeeds:   cmd.Bool("strict-seeds"),
		SymmetricDiff: cmd.Bool("symmetric-diff"),
	}, log)

	res, err := chk.CheckResultsDir()
	if err != nil {
		return err
	}
	systemErrs := chk.CheckSystemDescIDs(res.Good)
	measurementErrs := chk.CheckMeasurementDirs(res.Good)

	if !chk.Summarize(res, systemErrs, measurementErrs) {
		return errSubmissionInvalid
	}
	return nil
}

func loadRules(path string) (*rules.Rules, error) {
	if path == "" {
		return rules.Default(), nil
	}
	return rules.Load(path)
}

// resolveSchemaDir defaults to the directory the binary was installed to,
// which is where the two template files ship.
func resolveSchemaDir(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable for schema templates: %w", err)
	}
	return filepath.Dir(exe), nil
}
