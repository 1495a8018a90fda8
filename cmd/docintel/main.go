package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mindsparkle/docintel/pkg/adapter"
	"github.com/mindsparkle/docintel/pkg/api"
	"github.com/mindsparkle/docintel/pkg/config"
	"github.com/mindsparkle/docintel/pkg/docintel"
	"github.com/mindsparkle/docintel/pkg/extract"
	"github.com/mindsparkle/docintel/pkg/modes"
	"github.com/mindsparkle/docintel/pkg/router"
	"github.com/mindsparkle/docintel/pkg/store"
	"github.com/mindsparkle/docintel/pkg/validation"
)

var (
	logger  zerolog.Logger
	verbose bool
)

func main() {
	// A missing .env is the normal case; only a parse failure matters.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: .env not loaded: %v\n", err)
	}

	rootCmd := &cobra.Command{
		Use:   "docintel",
		Short: "Document intelligence pipeline for technical study material",
		Long: `Docintel turns technical documents into study content. It detects the
	document's vendor, routes to the best-suited model, generates content
	through a grounded single- or multi-pass pipeline, and validates the
	output against the source before anything is stored.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
				With().Timestamp().Logger().Level(level)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(vendorsCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(routesCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var listenFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the document intelligence HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			adapters, err := createAdapters(cfg)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			intel := docintel.New(cfg.Registry, cfg.Catalog, adapters,
				docintel.WithStore(st),
				docintel.WithLogger(logger),
				docintel.WithMinValidationScore(cfg.MinValidationScore),
			)

			defaultMode, err := modes.Parse(cfg.DefaultMode)
			if err != nil {
				return err
			}

			srv := api.NewServer(intel,
				api.WithResults(st),
				api.WithLogger(logger),
				api.WithDefaultMode(defaultMode),
			)

			addr := cfg.ListenAddr
			if listenFlag != "" {
				addr = listenFlag
			}

			httpServer := &http.Server{
				Addr:        addr,
				Handler:     srv.Handler(),
				ReadTimeout: 30 * time.Second,
				// Multi-pass runs hold the connection for several model calls.
				WriteTimeout: 5 * time.Minute,
				IdleTimeout:  120 * time.Second,
			}

			go func() {
				sigChan := make(chan os.Signal, 1)
				signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
				<-sigChan

				logger.Info().Msg("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				httpServer.Shutdown(shutdownCtx)
			}()

			logger.Info().
				Str("addr", addr).
				Str("database", st.Path()).
				Strs("providers", adapters.Providers()).
				Msg("docintel listening")

			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listenFlag, "listen", "", "listen address (overrides config)")

	return cmd
}

func analyzeCmd() *cobra.Command {
	var modeFlag string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Detect the vendor and preview the routing decision",
		Long: `Analyzes a document without calling any model: vendor detection,
	complexity signals, the routing decision with its cost estimate, and
	the pipeline shape a process run would use. Pass - to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			text, name, err := readDocument(args[0])
			if err != nil {
				return err
			}
			mode, err := resolveMode(cfg, modeFlag)
			if err != nil {
				return err
			}

			intel := docintel.New(cfg.Registry, cfg.Catalog, nil, docintel.WithLogger(logger))
			analysis := intel.Analyze(text, name, mode)

			data, err := json.MarshalIndent(analysis, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "", "study mode (study, quiz, interview, video, labs, summary, flashcards)")

	return cmd
}

func processCmd() *cobra.Command {
	var modeFlag string
	var documentFlag string
	var userFlag string
	var outFlag string
	var multiFlag bool
	var noSaveFlag bool

	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Generate study content from a document",
		Long: `Runs the full pipeline over a document: detect, route, generate,
	validate, and store the result. Study, labs, and interview modes run
	multi-pass by default; use --multi-pass to force either shape.
	Pass - to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			adapters, err := createAdapters(cfg)
			if err != nil {
				return err
			}

			text, name, err := readDocument(args[0])
			if err != nil {
				return err
			}
			mode, err := resolveMode(cfg, modeFlag)
			if err != nil {
				return err
			}

			opts := []docintel.Option{
				docintel.WithLogger(logger),
				docintel.WithMinValidationScore(cfg.MinValidationScore),
				docintel.WithProgress(func(index, total int, message string) {
					fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", index+1, total, message)
				}),
			}
			if !noSaveFlag {
				st, err := store.Open(cfg.DatabasePath)
				if err != nil {
					return fmt.Errorf("failed to open store: %w", err)
				}
				defer st.Close()
				opts = append(opts, docintel.WithStore(st))
			}

			intel := docintel.New(cfg.Registry, cfg.Catalog, adapters, opts...)

			req := docintel.Request{
				Text:       text,
				FileName:   name,
				Mode:       mode,
				DocumentID: documentFlag,
				UserID:     userFlag,
			}
			if cmd.Flags().Changed("multi-pass") {
				req.MultiPass = &multiFlag
			}

			out, err := intel.Process(cmd.Context(), req)
			if err != nil {
				return err
			}

			res := out.Result
			for _, warning := range res.Warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
			}
			if !res.Success {
				return fmt.Errorf("processing failed, no output produced")
			}

			if outFlag != "" {
				if err := os.WriteFile(outFlag, []byte(res.FinalOutput), 0644); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Output written to %s\n", outFlag)
			} else {
				fmt.Println(res.FinalOutput)
			}

			fmt.Fprintf(os.Stderr, "Model %s, %d passes, score %.1f, %d tokens, %dms\n",
				res.Metadata.Model, res.Metadata.PassCount,
				res.Metadata.ValidationScore, res.Metadata.TokensUsed, res.Metadata.ElapsedMs)
			if out.RecordID != "" {
				fmt.Fprintf(os.Stderr, "Record %s\n", out.RecordID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "", "study mode (study, quiz, interview, video, labs, summary, flashcards)")
	cmd.Flags().StringVar(&documentFlag, "document", "", "document id for record versioning")
	cmd.Flags().StringVar(&userFlag, "user", "", "user id stored on the record")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "write the output to a file instead of stdout")
	cmd.Flags().BoolVar(&multiFlag, "multi-pass", false, "force multi-pass on or off (default follows the mode)")
	cmd.Flags().BoolVar(&noSaveFlag, "no-save", false, "skip persisting the processing record")

	return cmd
}

func vendorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vendors",
		Short: "List vendor profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKEYWORDS\tPATTERNS\tCERTIFICATIONS\tDEPTH")
			for _, p := range cfg.Registry.All() {
				certs := strings.Join(p.Certifications, ", ")
				if certs == "" {
					certs = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
					p.ID, p.Name, len(p.Keywords), len(p.CLIPatterns), certs, p.Rules.TechnicalDepth)
			}
			return w.Flush()
		},
	}
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the model catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tPROVIDER\tMAX TOKENS\tCOST/1K IN\tCOST/1K OUT\tFALLBACK\tSTATUS")
			for _, m := range cfg.Catalog.All() {
				status := "no key"
				if cfg.HasProvider(m.Provider) || m.Provider == "mock" {
					status = "ready"
				}
				if !m.Available {
					status = "disabled"
				}
				fallback := m.FallbackTo
				if fallback == "" {
					fallback = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t$%.4f\t$%.4f\t%s\t%s\n",
					m.ID, m.Provider, m.MaxTokens, m.CostPer1KIn, m.CostPer1KOut, fallback, status)
			}
			return w.Flush()
		},
	}
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Show the model routing rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := router.DefaultRules()
			sort.SliceStable(rules, func(i, j int) bool {
				return rules[i].Priority > rules[j].Priority
			})

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRIORITY\tRULE\tMODEL\tREASON")
			for _, r := range rules {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Priority, r.Name, r.Model, r.Reason)
			}
			return w.Flush()
		},
	}
}

func validateCmd() *cobra.Command {
	var vendorFlag string

	cmd := &cobra.Command{
		Use:   "validate [generated] [source]",
		Short: "Validate generated content against its source document",
		Long: `Runs the heuristic check battery over generated content: grounding,
	numerical accuracy, terminology, CLI syntax, and vendor consistency.
	Prints the report as JSON and exits non-zero when validation fails.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			generated, _, err := readDocument(args[0])
			if err != nil {
				return err
			}
			source, _, err := readDocument(args[1])
			if err != nil {
				return err
			}

			report := validation.New(cfg.Registry).Validate(generated, source, vendorFlag)
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))

			if !report.IsValid {
				return fmt.Errorf("validation failed with score %.1f", report.OverallScore)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vendorFlag, "vendor", "", "vendor id for vendor-specific checks")

	return cmd
}

// readDocument loads a document as text. "-" reads stdin; files go
// through the intake decoder, so binary formats are rejected here the
// same way the service rejects them.
func readDocument(path string) (text, fileName string, err error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return extract.ReadText(data), "stdin.txt", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	name := filepath.Base(path)
	doc, err := extract.FromBytes("", name, "", data)
	if err != nil {
		return "", "", err
	}
	return doc.Content.FullText, name, nil
}

func resolveMode(cfg *config.Config, flag string) (modes.Mode, error) {
	if flag == "" {
		flag = cfg.DefaultMode
	}
	return modes.Parse(flag)
}

func createAdapters(cfg *config.Config) (*adapter.Registry, error) {
	reg := adapter.NewRegistry()

	if cfg.AnthropicAPIKey != "" {
		a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic adapter: %w", err)
		}
		reg.Register(a)
	}
	if cfg.OpenAIAPIKey != "" {
		a, err := adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai adapter: %w", err)
		}
		reg.Register(a)
	}
	if cfg.GoogleAPIKey != "" {
		a, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create google adapter: %w", err)
		}
		reg.Register(a)
	}
	if cfg.DeepSeekAPIKey != "" {
		a, err := adapter.NewDeepSeekAdapter(cfg.DeepSeekAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create deepseek adapter: %w", err)
		}
		reg.Register(a)
	}

	reg.Register(adapter.NewMockAdapter())

	return reg, nil
}
