package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/PlanB-Network/content-to-pdf/internal/assets"
	"github.com/PlanB-Network/content-to-pdf/internal/config"
	"github.com/PlanB-Network/content-to-pdf/internal/logger"
	"github.com/PlanB-Network/content-to-pdf/internal/templates"
)

// runMain dispatches args to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "content-to-pdf %s\n", Version)
		return ExitSuccess
	case "course", "quiz", "guide", "serve":
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := runCommand(ctx, cmd, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
	}
	return exitCodeFor(err)
}

func runCommand(ctx context.Context, cmd string, args []string, env *Environment) error {
	f, fs, err := parseFlags(cmd, args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(fs, f, env)
	if err != nil {
		return err
	}

	log := env.Logger
	if log == nil {
		log, err = logger.New(cfg.Log.Mode, f.common.verbose)
		if err != nil {
			return err
		}
		defer log.Sync()
	}

	// maxprocs.Set only fails on an invalid GOMAXPROCS variable, in which
	// case the runtime default stays.
	undo, _ := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Debug(fmt.Sprintf(format, args...))
	}))
	defer undo()

	if cmd == "serve" {
		return runServe(ctx, cfg, log, env)
	}
	return runGenerate(ctx, cmd, f, cfg, log, env)
}

// loadConfig layers the config file, the environment and explicit flags.
func loadConfig(fs *flag.FlagSet, f *cliFlags, env *Environment) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.common.config != "" {
		loaded, err := config.LoadConfig(f.common.config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(env.Getenv); err != nil {
		return nil, err
	}
	mergeFlags(fs, f, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadAssets resolves the configured stylesheet and template set, looking
// in the custom asset directory first.
func loadAssets(cfg *config.Config) (*templates.Pages, string, error) {
	resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return nil, "", err
	}
	defer resolver.Close()

	css, err := resolver.LoadStyle(cfg.Assets.Style)
	if err != nil {
		return nil, "", err
	}
	set, err := resolver.LoadTemplateSet(cfg.Assets.TemplateSet)
	if err != nil {
		return nil, "", err
	}
	pages, err := templates.New(set)
	if err != nil {
		return nil, "", err
	}
	return pages, css, nil
}
