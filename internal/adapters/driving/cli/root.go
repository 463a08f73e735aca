// Package cli provides the cobra command tree for docqa.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// version is set by SetVersion from the build.
var version = "dev"

// Options are the global flags passed to the bootstrap function.
type Options struct {
	// ConfigDir overrides ~/.docqa for config.toml and prompts.
	ConfigDir string

	// DataDir overrides ~/.docqa/data for the index database.
	DataDir string

	// Ephemeral keeps indices in memory instead of SQLite.
	Ephemeral bool

	// Verbose enables pipeline logging.
	Verbose bool
}

// Services are the driving ports the commands use.
type Services struct {
	Settings driving.SettingsService
	Indexes  driving.IndexManager

	// Builder is nil when the AI providers could not be created.
	// BuilderErr then holds the reason.
	Builder    driving.IndexBuilder
	BuilderErr error

	// Close releases resources. Optional.
	Close func()
}

// Bootstrap wires Services from the global options.
type Bootstrap func(opts Options) (*Services, error)

var (
	settingsService driving.SettingsService
	indexService    driving.IndexManager
	indexBuilder    driving.IndexBuilder
	builderErr      error

	bootstrap     Bootstrap
	closeServices func()
	globalOpts    Options
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about a document",
	Long: `docqa answers natural-language questions about a single document.

The document is split into overlapping chunks, embedded, and stored in a
local index keyed by its content. Each question retrieves the most similar
chunks and a language model answers from them.

Configure providers with 'docqa settings wizard', then run:
  docqa ask report.pdf "What is the main conclusion?"
  docqa chat report.pdf`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		teardown()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "log pipeline progress")
	flags.StringVar(&globalOpts.ConfigDir, "config-dir", "", "configuration directory (default ~/.docqa)")
	flags.StringVar(&globalOpts.DataDir, "data-dir", "", "index database directory (default ~/.docqa/data)")
	flags.BoolVar(&globalOpts.Ephemeral, "ephemeral", false, "keep indices in memory only")
}

// SetVersion sets the version reported by 'docqa version'.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that wires services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly, bypassing bootstrap.
func SetServices(s *Services) {
	bootstrap = nil
	apply(s)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetVerbose(globalOpts.Verbose)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	if bootstrap == nil {
		return nil
	}
	services, err := bootstrap(globalOpts)
	if errors.Is(err, domain.ErrCorruptIndex) {
		return fmt.Errorf("%w\nDelete index.db from the data directory (default ~/.docqa/data) to rebuild, or rerun with --ephemeral", err)
	}
	if err != nil {
		return err
	}
	apply(services)
	return nil
}

func apply(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	indexService = s.Indexes
	indexBuilder = s.Builder
	builderErr = s.BuilderErr
	closeServices = s.Close
}

func teardown() {
	if closeServices != nil {
		closeServices()
		closeServices = nil
	}
}

// requireBuilder reports why no index can be built, if so.
func requireBuilder() error {
	if indexBuilder != nil {
		return nil
	}
	if builderErr != nil {
		return fmt.Errorf("AI services unavailable: %w", builderErr)
	}
	return errors.New("index builder not configured")
}

// openSession builds or loads the index for path.
func openSession(ctx context.Context, path string, rebuild bool) (driving.QASession, error) {
	if err := requireBuilder(); err != nil {
		return nil, err
	}
	if rebuild {
		return indexBuilder.Rebuild(ctx, path)
	}
	return indexBuilder.BuildOrLoad(ctx, path)
}
