package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/pflag"

	"github.com/chrissnell/glarecontrol/internal/app"
	"github.com/chrissnell/glarecontrol/internal/log"
	"github.com/chrissnell/glarecontrol/pkg/config"
	"github.com/chrissnell/glarecontrol/pkg/elevation"
	"github.com/chrissnell/glarecontrol/pkg/responseformat"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code, err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}

type options struct {
	cfgFile     string
	cfgBackend  string
	horizonFile string
	at          string
	format      string
	logFile     string
	debug       bool
	showVersion bool
}

// run executes one command-line invocation and returns the process exit
// code.
func run(ctx context.Context, args []string, stdout io.Writer) (int, error) {
	var opts options

	flagSet := pflag.NewFlagSet("glarecontrol", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.cfgFile, "config", "glarecontrol.yaml", "path to configuration source (YAML file or SQLite database)")
	flagSet.StringVar(&opts.cfgBackend, "config-backend", "yaml", "configuration backend: 'yaml' or 'sqlite'")
	flagSet.StringVar(&opts.horizonFile, "horizon-file", "", "horizon profile path (overrides horizon_file from the config)")
	flagSet.StringVar(&opts.at, "time", "", "analyze this RFC 3339 time instead of now")
	flagSet.StringVar(&opts.format, "format", "json", "machine-readable output format: 'json' or 'msgpack'")
	flagSet.StringVar(&opts.logFile, "log-file", "", "write logs to this size-rotated file instead of stderr")
	flagSet.BoolVar(&opts.debug, "debug", false, "turn on debugging output")
	flagSet.BoolVar(&opts.showVersion, "version", false, "show version and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stdout)
			return 0, nil
		}
		return 2, err
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "glarecontrol %s\n", version)
		return 0, nil
	}

	mode := ""
	if rest := flagSet.Args(); len(rest) > 0 {
		mode = rest[0]
	}
	if mode == "help" {
		printHelp(stdout)
		return 0, nil
	}
	if !knownMode(mode) {
		fmt.Fprintf(stdout, "Unknown mode: %s. Use 'help' for options.\n", mode)
		return 1, nil
	}

	format, err := responseformat.ParseFormat(opts.format)
	if err != nil {
		return 2, err
	}

	// Set up logging
	if err := log.Init(opts.debug, opts.logFile); err != nil {
		return 1, err
	}
	defer log.Sync()

	provider, err := openProvider(opts.cfgFile, opts.cfgBackend)
	if err != nil {
		return 1, err
	}
	defer provider.Close()

	if mode == "config-init" {
		return configInit(stdout, provider)
	}

	cfg, err := provider.LoadConfig()
	if err != nil {
		return 1, fmt.Errorf("error reading configuration. Did you pass the --config flag? Run with -h for help: %w", err)
	}
	log.Debugf("loaded configuration from %s (%s backend), mode %q", provider.Path(), opts.cfgBackend, mode)

	appOpts := []app.Option{app.WithHorizonFile(opts.horizonFile)}
	if opts.at != "" {
		at, err := time.Parse(time.RFC3339, opts.at)
		if err != nil {
			return 2, fmt.Errorf("invalid --time %q: %w", opts.at, err)
		}
		appOpts = append(appOpts, app.WithClock(func() time.Time { return at }))
	}

	a, err := app.New(cfg, log.GetSugaredLogger(), appOpts...)
	if err != nil {
		return 1, err
	}

	c := &cli{
		app:       a,
		provider:  provider,
		out:       stdout,
		formatter: responseformat.NewFormatter(format),
		machine:   flagSet.Changed("format"),
	}
	return c.dispatch(ctx, mode)
}

var modes = map[string]bool{
	"": true, "auto": true, "auto-dry": true, "step": true, "day": true, "json": true,
	"risk": true, "status": true, "config": true, "config-init": true, "horizon": true,
	"horizon-show": true, "timeline": true, "yearly": true, "help": true,
}

func knownMode(mode string) bool {
	return modes[mode]
}

func openProvider(cfgFile, cfgBackend string) (config.ConfigProvider, error) {
	filename, _ := filepath.Abs(cfgFile)

	switch cfgBackend {
	case "yaml":
		return config.NewYAMLProvider(filename), nil
	case "sqlite":
		provider, err := config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
		return provider, nil
	}
	return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
}

func configInit(w io.Writer, provider config.ConfigProvider) (int, error) {
	exists, err := provider.Exists()
	if err != nil {
		return 1, err
	}
	if exists {
		fmt.Fprintf(w, "Config already exists: %s\n", provider.Path())
		fmt.Fprintf(w, "To reset, delete it first: rm '%s'\n", provider.Path())
		return 0, nil
	}

	if err := provider.SaveConfig(config.Defaults()); err != nil {
		return 1, err
	}
	log.Infow("created default configuration", "path", provider.Path())
	fmt.Fprintf(w, "Created config: %s\n", provider.Path())
	fmt.Fprintln(w, "\nEdit it to set your location, timezone, and room geometry.")
	return 0, nil
}

type cli struct {
	app       *app.App
	provider  config.ConfigProvider
	out       io.Writer
	formatter *responseformat.Formatter
	machine   bool // --format given explicitly; reports are encoded instead of printed
}

func (c *cli) dispatch(ctx context.Context, mode string) (int, error) {
	switch mode {
	case "auto", "auto-dry":
		dryRun := mode == "auto-dry"
		res, err := c.app.Auto(ctx, dryRun)
		if err != nil {
			return 1, err
		}
		if dryRun {
			fmt.Fprintln(c.out, res.Message)
			return 0, nil
		}
		fmt.Fprintf(c.out, "[%s] %s (glare: %.0f%%, step: %s)\n",
			c.app.Now().Format("2006-01-02 15:04:05"), res.Message, res.GlareRisk, res.Step)
		if !res.OK {
			log.Warnf("blind adjustment failed: %s", res.Message)
			return 1, nil
		}
		return 0, nil

	case "step", "day", "json", "risk", "status":
		rec, err := c.app.Recommend(ctx)
		if err != nil {
			return 1, err
		}
		switch mode {
		case "step":
			fmt.Fprintln(c.out, rec.Step)
		case "day":
			fmt.Fprintln(c.out, rec.DayOpen)
		case "json":
			return exitFor(c.formatter.Write(c.out, rec))
		case "risk":
			fmt.Fprintln(c.out, int(rec.GlareRisk))
		case "status":
			fmt.Fprintf(c.out, "%s (%d%% open, glare: %.0f%%)\n", rec.Step, rec.DayOpen, rec.GlareRisk)
		}
		return 0, nil

	case "config":
		exists, err := c.provider.Exists()
		if err != nil {
			return 1, err
		}
		printConfig(c.out, c.app, c.provider.Path(), exists)
		return 0, nil

	case "horizon":
		return c.horizon(ctx)

	case "horizon-show":
		p := c.app.HorizonProfile()
		if p == nil {
			fmt.Fprintln(c.out, "No horizon profile found. Run 'glarecontrol horizon' to generate one.")
			return 0, nil
		}
		if c.machine {
			return exitFor(c.formatter.Write(c.out, p))
		}
		printHorizonProfile(c.out, p)
		return 0, nil

	case "timeline":
		tl, err := c.app.MorningTimeline(c.app.Now())
		if err != nil {
			return 1, err
		}
		if c.machine {
			return exitFor(c.formatter.Write(c.out, tl))
		}
		printTimeline(c.out, c.app.Config(), tl)
		return 0, nil

	case "yearly":
		months, err := c.app.YearlyGlare(c.app.Now().Year())
		if err != nil {
			return 1, err
		}
		if c.machine {
			return exitFor(c.formatter.Write(c.out, months))
		}
		printYearly(c.out, months)
		return 0, nil
	}

	return c.fullReport()
}

func (c *cli) horizon(ctx context.Context) (int, error) {
	rule := "======================================================================"
	fmt.Fprintln(c.out, rule)
	fmt.Fprintln(c.out, "Horizon Profile Calculator")
	fmt.Fprintln(c.out, "Uses elevation data to detect hills and mountains blocking the sun")
	fmt.Fprintln(c.out, rule)

	client := elevation.NewClient(c.app.Config().ElevationAPIURL, elevation.DefaultTimeout)
	p, err := c.app.BuildHorizon(ctx, client)
	if err != nil {
		return 1, err
	}
	printHorizonProfile(c.out, p)

	if err := c.app.SaveHorizon(p); err != nil {
		return 1, err
	}
	log.Infow("saved horizon profile", "path", c.app.HorizonFile(), "buckets", len(p.Horizon))
	fmt.Fprintf(c.out, "\nSaved horizon profile to: %s\n", c.app.HorizonFile())
	fmt.Fprintln(c.out, "\nThe horizon profile will now be used automatically for glare calculations.")
	fmt.Fprintln(c.out, "Re-run this command if you move to a new location.")
	return 0, nil
}

func (c *cli) fullReport() (int, error) {
	now := c.app.Now()

	an, err := c.app.Analyze(now)
	if err != nil {
		return 1, err
	}
	printSunInfo(c.out, c.app.Config(), an)

	tl, err := c.app.MorningTimeline(now)
	if err != nil {
		return 1, err
	}
	printTimeline(c.out, c.app.Config(), tl)

	months, err := c.app.YearlyGlare(now.Year())
	if err != nil {
		return 1, err
	}
	printYearly(c.out, months)

	fmt.Fprintln(c.out, "\n>>> For Shortcuts automation, run: glarecontrol help")
	return 0, nil
}

func exitFor(err error) (int, error) {
	if err != nil {
		return 1, err
	}
	return 0, nil
}
