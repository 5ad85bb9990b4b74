package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thywilljoshua/slide2script/internal/ai"
	"github.com/thywilljoshua/slide2script/internal/config"
	"github.com/thywilljoshua/slide2script/internal/extract"
	"github.com/thywilljoshua/slide2script/internal/logger"
	"github.com/thywilljoshua/slide2script/internal/pipeline"
	"github.com/thywilljoshua/slide2script/internal/script"
	"github.com/thywilljoshua/slide2script/internal/store"
)

// app carries the settings shared by every subcommand.
type app struct {
	configPath string
	runID      string
	out        string
	storage    string
	aiProvider string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	a := &app{}
	root := newRootCmd(a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "slide2script",
		Short:         "Turn slide decks and PDFs into per-slide narration scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&a.runID, "run-id", "", "run identifier (default: derived from the file name)")
	pf.StringVarP(&a.out, "out", "o", "", "artifact output directory (overrides storage.dir)")
	pf.StringVar(&a.storage, "storage", "", "artifact storage: file|sqlite (overrides storage.driver)")
	pf.StringVar(&a.aiProvider, "ai", "gemini", "AI provider: off|gemini")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug|info|warn|error (overrides logging.level)")

	root.AddCommand(extractCmd(a), generateCmd(a), scriptCmd(a), watchCmd(a), serveCmd(a))
	return root
}

// checkDocument rejects unsupported inputs before any client or store is set up.
func checkDocument(path string) error {
	_, err := extract.For(path)
	return err
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("out") {
		if cfg.Storage.DatabasePath == config.DefaultDatabasePath {
			cfg.Storage.DatabasePath = filepath.Join(a.out, filepath.Base(config.DefaultDatabasePath))
		}
		cfg.Storage.Dir = a.out
	}
	if flags.Changed("storage") {
		cfg.Storage.Driver = a.storage
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := logger.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = l
	return nil
}

func (a *app) openStore() (store.Backend, error) {
	return pipeline.OpenStore(a.cfg.Storage)
}

// generator returns the configured model client, or Noop when AI is off.
func (a *app) generator(ctx context.Context) (ai.Generator, error) {
	switch strings.ToLower(a.aiProvider) {
	case "off", "none", "":
		return ai.Noop{}, nil
	case "gemini":
		key := a.cfg.Gemini.APIKey()
		if key == "" {
			return nil, fmt.Errorf("no Gemini API key: set %s or GOOGLE_API_KEY, or use --ai off", a.cfg.Gemini.APIKeyEnv)
		}
		g, err := ai.NewGemini(ctx, key, a.cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
		g.Temperature = a.cfg.Gemini.Temperature
		a.logger.Debug("using gemini", zap.String("model", g.Model()))
		return g, nil
	}
	return nil, fmt.Errorf("unknown AI provider %q", a.aiProvider)
}

func (a *app) pipelineConfig(st store.Sink, gen ai.Generator) pipeline.Config {
	conf := pipeline.Config{
		RunID:     a.runID,
		Store:     st,
		Generator: gen,
		Pace:      a.cfg.Script.Pace,
		Logger:    a.logger,
	}
	if a.cfg.Script.DetectLanguage {
		conf.Detector = script.NewLanguageDetector()
	}
	return conf
}

func printJSON(cmd *cobra.Command, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
