package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/chrissnell/hymod/internal/app"
	"github.com/chrissnell/hymod/internal/log"
	"github.com/chrissnell/hymod/pkg/config"
	"github.com/chrissnell/hymod/pkg/hymod"
	"github.com/chrissnell/hymod/pkg/responseformat"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "catchments.yaml", "Path to configuration source:\n\t\t\t  YAML: catchments.yaml\n\t\t\t  SQLite: catchments.db\n\t\t\t  Use 'config-test' to compare a YAML and a SQLite configuration")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases")
	format := flag.String("format", responseformat.FormatJSON, "Output format: 'json' or 'msgpack'")
	logFile := flag.String("logfile", "", "Also write JSON logs to this file, rotated at 10 MB")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("hymod %s\n", version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.InitWithFile(*debug, log.FileOptions{Path: *logFile, MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	provider, err := loadConfig(*cfgFile, *cfgBackend)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	defer provider.Close()

	formatter, err := responseformat.NewFormatter(*format)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(provider, log.GetSugaredLogger(), formatter, os.Stdout)
	if err := application.Run(ctx); err != nil {
		log.Errorf("Application error: %v", err)
		log.Sync()
		if errors.Is(err, hymod.ErrMassBalance) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func loadConfig(cfgFile, cfgBackend string) (config.ConfigProvider, error) {
	filename, _ := filepath.Abs(cfgFile)

	var provider config.ConfigProvider
	var err error

	switch cfgBackend {
	case "yaml":
		provider = config.NewYAMLProvider(filename)
	case "sqlite":
		provider, err = config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}

	if _, err := provider.LoadConfig(); err != nil {
		provider.Close()
		return nil, fmt.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %w", err)
	}

	return provider, nil
}
