// Package cli wires the storefront lookups into the steamcli command.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"steamcli/pkg/config"
	"steamcli/pkg/httpclient"
	"steamcli/pkg/itad"
	"steamcli/pkg/logger"
	"steamcli/pkg/results"
	"steamcli/pkg/scrapers/storepage"
	"steamcli/pkg/steam"
)

const (
	msgGathering  = "Gathering price information..."
	msgScraping   = "Scraping reviews..."
	msgHistorical = "Leafing through history books..."
	msgNotFound   = "Application was not found. Is the supplied information correct?"
)

// Env is everything a run reads from or writes to outside the process.
type Env struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Client *httpclient.Client
}

type options struct {
	title         bool
	id            int64
	description   bool
	scores        bool
	historicalLow bool
	region        string
	browser       bool
	width         int
	configPath    string
	verbose       bool
}

// Execute loads the settings named by --config (or the environment, or the
// working directory) and runs the command with args.
func Execute(ctx context.Context, args []string, env Env) error {
	settings, err := config.Load(config.ResolvePath(ConfigFlag(args)))
	if err != nil {
		return err
	}
	if err := config.Validate(settings); err != nil {
		return err
	}

	cmd, err := NewRootCommand(settings, env)
	if err != nil {
		return err
	}
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// ConfigFlag pulls --config out of args ahead of the real parse, since the
// settings it points at supply the help text for every other flag.
func ConfigFlag(args []string) string {
	fs := pflag.NewFlagSet("bootstrap", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

// NewRootCommand builds the steamcli command against settings.
func NewRootCommand(settings config.Getter, env Env) (*cobra.Command, error) {
	help, err := helpText(settings)
	if err != nil {
		return nil, err
	}
	regions, err := config.Regions(settings)
	if err != nil {
		return nil, err
	}
	defaultRegion, err := config.DefaultRegion(settings)
	if err != nil {
		return nil, err
	}

	opts := &options{}
	cmd := &cobra.Command{
		Use:           "steamcli",
		Short:         help[config.KeyAppHelp],
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			region, err := config.ValidateRegion(settings, opts.region)
			if err != nil {
				return err
			}
			opts.region = region

			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			log := logger.New(logger.Config{Level: level}, cmd.ErrOrStderr())

			client := env.Client
			if client == nil {
				client = httpclient.New()
			}
			return run(cmd, settings, opts, client, log)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.title, "title", "t", false, help[config.KeyTitleHelp])
	f.Int64VarP(&opts.id, "id", "i", 0, help[config.KeyIDHelp])
	f.BoolVarP(&opts.description, "description", "d", false, help[config.KeyDescHelp])
	f.BoolVarP(&opts.scores, "scores", "s", false, help[config.KeyReviewsHelp])
	f.BoolVarP(&opts.historicalLow, "historical-low", "l", false, help[config.KeyHistoricalHelp])
	f.StringVarP(&opts.region, "region", "r", defaultRegion,
		help[config.KeyRegionHelp]+" Available values: "+strings.Join(regions, ", "))
	f.BoolVar(&opts.browser, "browser", false, "Render the store page in headless Chrome when scraping reviews.")
	f.IntVar(&opts.width, "width", results.DefaultWidth, "Width the report is centered to.")
	f.StringVar(&opts.configPath, "config", "", fmt.Sprintf("Settings file (default $%s or %s).", config.PathEnv, config.DefaultPath))
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log requests and decisions to stderr.")

	cmd.MarkFlagsMutuallyExclusive("title", "id")
	cmd.MarkFlagsOneRequired("title", "id")

	if env.In != nil {
		cmd.SetIn(env.In)
	}
	if env.Out != nil {
		cmd.SetOut(env.Out)
	}
	if env.Err != nil {
		cmd.SetErr(env.Err)
	}
	return cmd, nil
}

func helpText(settings config.Getter) (map[string]string, error) {
	keys := []string{
		config.KeyAppHelp, config.KeyTitleHelp, config.KeyIDHelp, config.KeyDescHelp,
		config.KeyReviewsHelp, config.KeyRegionHelp, config.KeyHistoricalHelp,
	}

	help := make(map[string]string, len(keys))
	for _, k := range keys {
		v, err := settings.Get(config.SectionHelpText, k)
		if err != nil {
			return nil, err
		}
		help[k] = v
	}
	return help, nil
}

// run resolves the app and prints whichever report blocks were asked for.
func run(cmd *cobra.Command, settings config.Getter, opts *options, client *httpclient.Client, log *slog.Logger) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	query := steam.ByAppID(opts.id)
	if opts.title {
		title, err := PromptTitle(cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		query = steam.ByTitle(title)
	}

	fmt.Fprintln(out, msgGathering)
	app, err := steam.NewResolver(settings, client, log).Resolve(ctx, query, opts.region)
	if err != nil {
		return err
	}
	if !app.Found() {
		log.Info("No app resolved", "query", query.String(), "region", opts.region)
		fmt.Fprintln(out, msgNotFound)
		return nil
	}

	report := results.New(opts.width)
	report.FormatSteamInfo(app)
	if opts.description {
		report.FormatDescription(app)
	}

	if opts.scores {
		fmt.Fprintln(out, msgScraping)
		scraperOpts := []storepage.Option{storepage.WithLogger(log)}
		if opts.browser {
			scraperOpts = append(scraperOpts, storepage.WithBrowser())
		}
		if err := storepage.NewScraper(settings, scraperOpts...).Scrape(ctx, app); err != nil {
			return err
		}
		report.FormatReviews(app)
	}

	if opts.historicalLow {
		fmt.Fprintln(out, msgHistorical)
		if err := itad.NewExtractor(settings, client, log).Extract(ctx, app, opts.region); err != nil {
			return err
		}
		report.FormatHistoricalLow(app)
	}

	return report.Print(out)
}
