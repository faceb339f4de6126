package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"autoforge/internal/backend"
	"autoforge/internal/config"
	"autoforge/internal/logging"
	"autoforge/internal/pipeline"
	"autoforge/internal/runner"
)

var (
	// Global flags
	verbose    bool
	repoPath   string
	configPath string
	model      string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "forge - multi-stage software generation pipeline",
	Long: `forge turns a one-line feature request into a working project.

A run moves through six stages: planning, architecture, development,
testing, security, and PR summary. When the generation backend fails or
answers with garbage, a deterministic template catalog fills in, so every
run ends with files on disk and a summary of what happened.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.Close()
	},
}

// runCmd executes one full pipeline run
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a project from a feature request",
	Long: `Runs the full pipeline against a repository directory.

Example:
  forge run --request "Build a FastAPI REST API for books" --repo-path ./books`,
	RunE: runPipeline,
}

// statusCmd prints the persisted session state of a previous run
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last run's session state for a repository",
	RunE:  showStatus,
}

var request string

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&repoPath, "repo-path", ".", "Target repository directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <repo>/.forge/config.yaml)")

	runCmd.Flags().StringVarP(&request, "request", "r", "", "Feature request to implement")
	runCmd.Flags().StringVar(&model, "model", "", "Generation model override")
	_ = runCmd.MarkFlagRequired("request")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(repoPath, configPath)
	if err != nil {
		return err
	}
	if err := logging.Initialize(repoPath, logging.Options{Debug: cfg.Logging.Debug, Dir: cfg.Logging.Dir}); err != nil {
		logger.Warn("file logging disabled", zap.Error(err))
	}

	cfg.Backend.ModelOverride = model
	client, err := backend.NewGeminiClient(ctx, backend.GeminiConfig{
		APIKey:  cfg.Backend.APIKey,
		Model:   cfg.Backend.Model,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		return fmt.Errorf("backend init: %w", err)
	}
	logger.Info("Starting run",
		zap.String("request", request),
		zap.String("repo", repoPath),
		zap.String("model", cfg.Backend.Model))

	st := pipeline.NewState(request, repoPath)
	orch := pipeline.Default(st, client, runner.ExecRunner{}, pipeline.GoGit{}, cfg)

	phase, runErr := orch.Run(ctx)
	printReport(st)

	if phase == pipeline.PhaseAborted {
		logger.Error("Run aborted", zap.Error(runErr))
		return fmt.Errorf("run %s aborted: %w", st.RunID, runErr)
	}
	logger.Info("Run complete", zap.String("run_id", st.RunID), zap.String("branch", st.Branch))
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	st, err := pipeline.LoadState(repoPath)
	if err != nil {
		return fmt.Errorf("no session state found in %s: %w", repoPath, err)
	}
	printReport(st)
	return nil
}

func printReport(st *pipeline.State) {
	fmt.Printf("Run:      %s\n", st.RunID)
	fmt.Printf("Phase:    %s\n", st.Phase)
	fmt.Printf("Request:  %s\n", st.Request)
	fmt.Printf("Stack:    %s", st.Detection.Language)
	if st.Detection.Framework != "" {
		fmt.Printf(" / %s", st.Detection.Framework)
	}
	fmt.Printf(" (%s)\n", st.Detection.ProjectType)
	if st.Outcome != "" {
		fmt.Printf("Outcome:  %s\n", st.Outcome)
	}
	if st.Branch != "" {
		fmt.Printf("Branch:   %s\n", st.Branch)
	}
	if st.Commit != "" {
		fmt.Printf("Commit:   %s\n", st.Commit)
	}
	if len(st.Files) > 0 {
		fmt.Printf("Files:    %d written\n", len(st.Files))
	}
	for _, line := range st.TestResults {
		fmt.Printf("Check:    %s\n", line)
	}
	for _, line := range st.AuditResults {
		fmt.Printf("Audit:    %s\n", line)
	}
	for _, e := range st.Errors {
		level := "warn"
		if e.Fatal {
			level = "fatal"
		}
		fmt.Printf("Error:    [%s] %s %s: %s\n", level, e.Stage, e.Kind, e.Message)
	}
}
