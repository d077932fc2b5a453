package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/de-tools/foundation-report/pkg/models/domain"
	"github.com/de-tools/foundation-report/pkg/runtime/process"
	"github.com/de-tools/foundation-report/pkg/runtime/terminal/export"
	"github.com/de-tools/foundation-report/pkg/services/opsman"
	"github.com/de-tools/foundation-report/pkg/services/pivnet"
	"github.com/de-tools/foundation-report/pkg/services/registry"
	"github.com/de-tools/foundation-report/pkg/services/report"
)

// CLI represents the command-line interface
type CLI struct {
	runner    process.Runner
	reporter  *export.Reporter
	errOutput io.Writer
	rootCmd   *cobra.Command
	viper     *viper.Viper
	flags     flags
}

type flags struct {
	foundations  []string
	configPath   string
	fileVersions bool
	productSlugs bool
	sample       bool
	sampleSeed   uint64
}

// Options contain configuration for the CLI
type Options struct {
	// Runner executes om and curl; defaults to os/exec
	Runner    process.Runner
	Output    io.Writer
	ErrOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) (*CLI, error) {
	if opts.Runner == nil {
		opts.Runner = process.NewRunner()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}

	cli := &CLI{
		runner:    opts.Runner,
		reporter:  export.NewReporter(opts.Output),
		errOutput: opts.ErrOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	cli.rootCmd.SetErr(opts.ErrOutput)

	v, err := newViper(cli.rootCmd.Flags())
	if err != nil {
		return nil, err
	}
	cli.viper = v
	return cli, nil
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// Fail writes the diagnostics for an Execute error and returns the exit code
func (cli *CLI) Fail(err error) int {
	if err == nil {
		return ExitOK
	}

	var cmdErr *opsman.CommandError
	if errors.As(err, &cmdErr) {
		msg := cmdErr.Error()
		if !strings.HasSuffix(msg, "\n") {
			msg += "\n"
		}
		fmt.Fprint(cli.errOutput, msg)
	} else {
		fmt.Fprintf(cli.errOutput, "ERROR: %v\n", err)
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.ShowUsage {
		_ = cli.rootCmd.Usage()
	}
	return ExitCode(err)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "foundation-report",
		Short: "Compare installed product versions across foundations with the latest releases",
		Example: `  foundation-report --foundation "MY_PCF,my_opsman.example.org,admin,admin"
  FOUNDATIONS="$(cat foundations.txt)" foundation-report --product-slugs`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError(fmt.Errorf("unexpected arguments: %s", strings.Join(args, " ")))
			}
			return nil
		},
		RunE:          cli.run,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	f := cmd.Flags()
	f.StringArrayVarP(&cli.flags.foundations, "foundation", "f", nil,
		"Foundation definition (may be used multiple times) formatted as "+
			`"<foundation name>,<opsman target>,<opsman username>,<opsman password>"`)
	f.StringP("pivnet-token", "p", "",
		"Token used to fetch latest releases from PivNet ($PIVNET_TOKEN)")
	f.BoolVarP(&cli.flags.fileVersions, "file-versions", "v", false,
		"Use file version of products in report (if applicable)")
	f.BoolVarP(&cli.flags.productSlugs, "product-slugs", "s", false, "Use product slugs in report")
	f.BoolVar(&cli.flags.sample, "sample", false,
		"Prints a report with sample data instead of reading from real foundations")
	f.StringVarP(&cli.flags.configPath, "config", "c", "",
		"INI file with one [name] section per foundation holding target, username and password")
	f.String("log-level", "warn", "Diagnostic log level written to stderr ($LOG_LEVEL)")
	f.Uint64Var(&cli.flags.sampleSeed, "sample-seed", 0, "Seed for --sample data")
	_ = f.MarkHidden("sample-seed")

	return cmd
}

func (cli *CLI) run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cli.viper)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return usageError(fmt.Errorf("invalid log level %q", cfg.LogLevel))
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cli.errOutput, NoColor: true}).
		Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	foundations, err := cli.loadFoundations(cfg)
	if err != nil {
		return registryError(err)
	}
	logger.Debug().Int("count", foundations.Len()).Msg("foundations registered")

	var source report.ProductSource
	if cli.flags.sample {
		seed := cli.flags.sampleSeed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		source = report.NewSampleSource(seed)
	} else {
		source = opsman.NewClient(cli.runner, cfg.OmBinary)
	}
	catalog := pivnet.NewClient(cli.runner, pivnet.Options{
		Binary:  cfg.CurlBinary,
		BaseURL: cfg.PivnetURL,
	})

	builder := report.NewBuilder(source, catalog, report.Options{
		Token:           cfg.PivnetToken,
		UseFileVersions: cli.flags.fileVersions,
		UseProductSlugs: cli.flags.productSlugs,
	})

	versions, err := builder.Build(ctx, foundations.Foundations())
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	return cli.render(versions)
}

// loadFoundations reads -f flags, then the --config file, then FOUNDATIONS as a fallback
func (cli *CLI) loadFoundations(cfg *Config) (registry.FoundationRegistry, error) {
	r := registry.NewRegistry()
	for _, definition := range cli.flags.foundations {
		if err := r.Add(definition); err != nil {
			return nil, err
		}
	}
	if cli.flags.configPath != "" {
		if err := registry.LoadFile(r, cli.flags.configPath); err != nil {
			return nil, err
		}
	}
	if r.Len() == 0 && cfg.Foundations != "" {
		if err := registry.AddAll(r, cfg.Foundations); err != nil {
			return nil, err
		}
	}
	if r.Len() == 0 {
		return nil, registry.ErrNoFoundations
	}
	return r, nil
}

func (cli *CLI) render(versions *domain.VersionReport) error {
	if err := cli.reporter.Handle(versions); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
