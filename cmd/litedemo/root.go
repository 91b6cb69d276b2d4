package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rhuss/litedemo/pkg/config"
	"github.com/rhuss/litedemo/pkg/debug"
	"github.com/rhuss/litedemo/pkg/demo"
	"github.com/rhuss/litedemo/pkg/observability"
	"github.com/rhuss/litedemo/pkg/provider/litellm"
)

// app holds flag values and the resolved configuration shared by commands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	baseURL    string
	apiKey     string
	model      string
	prompt     string
	rawChunks  bool
	metrics    bool
	logLevel   string
	debugCats  string

	cfg *config.Config
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "litedemo",
		Short: "Run a non-streaming and a streaming chat completion against a LiteLLM-compatible endpoint",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDemo(cmd)
		},
		SilenceUsage: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file path (default: ./litedemo.yaml)")
	pf.StringVar(&a.baseURL, "base-url", config.DefaultBaseURL, "completion API base URL")
	pf.StringVar(&a.apiKey, "api-key", config.DefaultAPIKey, "API key sent as bearer token")
	pf.StringVar(&a.logLevel, "log-level", "INFO", "log level: ERROR, WARN, INFO, DEBUG, TRACE")
	pf.StringVar(&a.debugCats, "debug", "", "comma-separated debug categories (provider, streaming, config, demo, all)")

	f := cmd.Flags()
	f.StringVar(&a.model, "model", config.DefaultModel, "model name")
	f.StringVar(&a.prompt, "prompt", config.DefaultPrompt, "user prompt")
	f.BoolVar(&a.rawChunks, "raw-chunks", false, "print each stream chunk object instead of its text")
	f.BoolVar(&a.metrics, "metrics", false, "log a metrics summary to stderr when done")

	cmd.AddCommand(a.modelsCmd())
	return cmd
}

// loadConfig loads the layered configuration, applies the flags that were
// set explicitly and initializes logging.
func (a *app) loadConfig(flags *pflag.FlagSet) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	changed := func(name string, v *string) *string {
		if flags.Changed(name) {
			return v
		}
		return nil
	}
	o := config.Overrides{
		BaseURL:  changed("base-url", &a.baseURL),
		APIKey:   changed("api-key", &a.apiKey),
		Model:    changed("model", &a.model),
		Prompt:   changed("prompt", &a.prompt),
		LogLevel: changed("log-level", &a.logLevel),
		Debug:    changed("debug", &a.debugCats),
	}
	if flags.Changed("raw-chunks") {
		o.RawChunks = &a.rawChunks
	}
	if err := cfg.Apply(o); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	debug.Init(a.stderr, cfg.Log.Debug, cfg.Log.Level)
	a.cfg = cfg
	return nil
}

func (a *app) newProvider() (*litellm.LiteLLMProvider, error) {
	return litellm.New(litellm.Config{
		BaseURL:      a.cfg.Client.BaseURL,
		APIKey:       a.cfg.Client.APIKey,
		Timeout:      a.cfg.Client.Timeout,
		ModelMapping: a.cfg.Client.ModelMapping,
	})
}

func (a *app) runDemo(cmd *cobra.Command) error {
	prov, err := a.newProvider()
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	defer prov.Close()

	slog.Debug("starting demo", "base_url", prov.BaseURL(), "model", a.cfg.Demo.Model)

	out := bufio.NewWriter(a.stdout)
	defer out.Flush()

	runner := demo.NewRunner(prov, out, demo.Options{
		Model:     a.cfg.Demo.Model,
		Prompt:    a.cfg.Demo.Prompt,
		RawChunks: a.cfg.Demo.RawChunks,
	})
	for _, res := range runner.Run(cmd.Context()) {
		slog.Debug("call finished", "mode", res.Mode, "success", res.Success, "fragments", res.Fragments, "elapsed", res.Elapsed)
	}

	if a.metrics {
		if err := observability.LogSummary(slog.Default(), prometheus.DefaultGatherer, "litedemo_"); err != nil {
			slog.Warn("gathering metrics failed", "error", err)
		}
	}
	return nil
}

func (a *app) modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models served by the endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prov, err := a.newProvider()
			if err != nil {
				return fmt.Errorf("creating provider: %w", err)
			}
			defer prov.Close()

			models, err := prov.ListModels(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing models: %w", err)
			}
			for _, m := range models {
				fmt.Fprintln(a.stdout, m.ID)
			}
			return nil
		},
	}
}
