package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"snapcss/config"
	"snapcss/domhtml"
	"snapcss/node"
	"snapcss/printer"
	"snapcss/registry"
	"snapcss/serialize"
	"snapcss/state"
)

const (
	appName    = "snapcss"
	appVersion = "1.0.0"
)

// initializeAppContext prepares application context before command execution
// but after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	if env.Cfg, err = config.Load(cmd.String("config")); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		env.Cfg.Logging.Console = "debug"
	}
	if env.Log, err = env.Cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()
	env.Reg = registry.New(env.Log)

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", appVersion), zap.String("runtime", runtime.Version()))
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()
	return nil
}

// Ignore urfave/cli default error handling - cli.Exit() looks non-transparent
// and unnecessary, subcommands return regular errors.
var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {

	// allow graceful shutdown on interrupt
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            appName,
		Usage:           "stable snapshot rendering for styled element trees",
		Version:         appVersion + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "verbose logging to help troubleshooting"},
		},
		Commands: []*cli.Command{
			{
				Name:         "render",
				Usage:        "Renders an element tree to stable snapshot text",
				OnUsageError: usageErrorHandler,
				Action:       runRender,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "css",
						Usage: "register style source under a cache key, `KEY=FILE` (repeatable)"},
					&cli.BoolFlag{Name: "html", Usage: "treat SOURCE as an HTML fragment instead of an element tree document"},
				},
				ArgsUsage: "SOURCE",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to the element tree to render: a JSON tree document, or with --html
    an HTML fragment. Style sources come from the configuration "sheets"
    section and any --css flags; class names referencing them are rewritten
    to stable aliases and the matching rules are appended to the output.
`, cli.CommandHelpTemplate),
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default built-in configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func runRender(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.NArg() != 1 {
		return fmt.Errorf("expecting exactly one source, got %d arguments", cmd.NArg())
	}
	src := cmd.Args().Get(0)

	var errs error
	for _, sheet := range env.Cfg.Sheets {
		errs = multierr.Append(errs, addSheet(env.Reg, sheet.Key, sheet.Path))
	}
	for _, spec := range cmd.StringSlice("css") {
		key, path, ok := strings.Cut(spec, "=")
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("malformed --css value '%s', expecting KEY=FILE", spec))
			continue
		}
		errs = multierr.Append(errs, addSheet(env.Reg, key, path))
	}
	if errs != nil {
		return fmt.Errorf("unable to register style sources: %w", errs)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read source '%s': %w", src, err)
	}

	var tree any
	if cmd.Bool("html") {
		vals, err := domhtml.ParseFragment(bytes.NewReader(data))
		if err != nil {
			return err
		}
		if len(vals) == 1 {
			tree = vals[0]
		} else {
			tree = vals
		}
	} else {
		if tree, err = node.Decode(data); err != nil {
			return err
		}
	}

	ser := serialize.New(serialize.Options{Registry: env.Reg, Logger: env.Log})
	out, err := printer.New(ser).Print(tree)
	if err != nil {
		return fmt.Errorf("unable to render snapshot: %w", err)
	}
	fmt.Fprintln(os.Stdout, out)
	return nil
}

func addSheet(reg *registry.Registry, key, path string) error {
	if key == "" || path == "" {
		return fmt.Errorf("style source needs both cache key and file, got '%s=%s'", key, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read style source '%s': %w", path, err)
	}
	reg.Sheet(key).Add(string(data))
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err  error
		data []byte
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	cfg := env.Cfg
	if cmd.Bool("default") {
		cfg = config.Default()
	}
	if data, err = config.Dump(cfg); err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
