package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, chunking, and retrieval options.

Settings are stored in ~/.docqa/config.toml. API keys may instead come from
the environment or a .env file (OPENAI_API_KEY, GOOGLE_API_KEY,
ANTHROPIC_API_KEY).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Walk through choosing the embedding provider and then the LLM provider.`,
	RunE:  runSettingsWizard,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long: `Configure the embedding provider used to index documents.

Changing the embedding model makes stored indices stale; they are rebuilt
the next time each document is opened.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runProviderStep(cmd, embeddingStep)
	},
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider that writes answers from retrieved passages.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runProviderStep(cmd, llmStep)
	},
}

var settingsChunkingCmd = &cobra.Command{
	Use:   "chunking <size> <overlap>",
	Short: "Set chunk size and overlap",
	Long: `Set the maximum chunk length and the overlap between adjacent chunks,
both in characters. Applies to indices built afterwards.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsChunking,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the configured providers respond",
	Args:  cobra.NoArgs,
	RunE:  runSettingsValidate,
}

func init() {
	settingsCmd.AddCommand(
		settingsShowCmd,
		settingsWizardCmd,
		settingsEmbeddingCmd,
		settingsLLMCmd,
		settingsChunkingCmd,
		settingsValidateCmd,
	)
	rootCmd.AddCommand(settingsCmd)
}

// providerStep describes one provider prompt. The embedding and LLM
// prompts differ only in their menu, defaults and the setter they call.
type providerStep struct {
	kind      string
	noun      string
	blurb     string
	providers func() []domain.AIProvider
	models    func() map[domain.AIProvider]string
	apply     func(p domain.AIProvider, model, apiKey string) error
	validate  func() error
}

var embeddingStep = providerStep{
	kind:      "Embedding",
	noun:      "embedding",
	blurb:     "Documents are embedded once when indexed and each question is embedded when asked.",
	providers: domain.AllEmbeddingProviders,
	models:    domain.DefaultEmbeddingModels,
	apply: func(p domain.AIProvider, model, apiKey string) error {
		return settingsService.SetEmbeddingProvider(p, model, apiKey)
	},
	validate: func() error { return settingsService.ValidateEmbeddingConfig() },
}

var llmStep = providerStep{
	kind:      "LLM",
	noun:      "LLM",
	blurb:     "The LLM writes each answer from the retrieved passages.",
	providers: domain.AllLLMProviders,
	models:    domain.DefaultLLMModels,
	apply: func(p domain.AIProvider, model, apiKey string) error {
		return settingsService.SetLLMProvider(p, model, apiKey)
	},
	validate: func() error { return settingsService.ValidateLLMConfig() },
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Current Settings")
	fmt.Fprintln(out, "================")

	emb := settings.Embedding
	section(out, "Embedding")
	field(out, "Provider", emb.Provider.Description())
	field(out, "Model", emb.Model)
	optionalField(out, "Base URL", emb.BaseURL)
	if emb.Provider.RequiresAPIKey() {
		field(out, "API Key", describeAPIKey(emb.APIKey))
	}
	field(out, "Batch Size", strconv.Itoa(emb.BatchSize))
	if emb.RequestsPerSecond > 0 {
		field(out, "Rate Limit", fmt.Sprintf("%.2f requests/s", emb.RequestsPerSecond))
	}
	field(out, "Status", configuredStatus(emb.IsConfigured()))

	llm := settings.LLM
	section(out, "LLM")
	field(out, "Provider", llm.Provider.Description())
	field(out, "Model", llm.Model)
	optionalField(out, "Base URL", llm.BaseURL)
	if llm.Provider.RequiresAPIKey() {
		field(out, "API Key", describeAPIKey(llm.APIKey))
	}
	field(out, "Max Context", fmt.Sprintf("%d characters", llm.MaxContextChars))
	field(out, "Status", configuredStatus(llm.IsConfigured()))

	section(out, "Chunking")
	field(out, "Size", strconv.Itoa(settings.Chunking.Size))
	field(out, "Overlap", strconv.Itoa(settings.Chunking.Overlap))

	section(out, "Retrieval")
	field(out, "Top K", strconv.Itoa(settings.Retrieval.TopK))
	fmt.Fprintln(out)

	if err := settingsService.Validate(); err != nil {
		fmt.Fprintf(out, "Warning: %v\n", err)
		fmt.Fprintln(out, "Run 'docqa settings wizard' to fix configuration issues.")
		return nil
	}
	fmt.Fprintln(out, "Configuration is valid.")
	return nil
}

func section(w io.Writer, name string) {
	fmt.Fprintf(w, "\n[%s]\n", name)
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s: %s\n", label, value)
}

func optionalField(w io.Writer, label, value string) {
	if value != "" {
		field(w, label, value)
	}
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	cmd.Println("docqa Settings Wizard")
	cmd.Println("=====================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())
	for i, step := range []providerStep{embeddingStep, llmStep} {
		title := fmt.Sprintf("Step %d: Configure %s Provider", i+1, step.kind)
		cmd.Println(title)
		cmd.Println(strings.Repeat("-", len(title)))
		cmd.Println(step.blurb)
		cmd.Println()
		if err := step.run(cmd, reader); err != nil {
			return err
		}
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}
	return nil
}

func runProviderStep(cmd *cobra.Command, step providerStep) error {
	if err := requireSettings(); err != nil {
		return err
	}
	return step.run(cmd, bufio.NewReader(cmd.InOrStdin()))
}

func (s providerStep) run(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Printf("Select %s Provider\n", s.kind)
	providers := s.providers()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	provider := providers[parseChoice(readLine(reader), len(providers), 1)-1]

	defaultModel := s.models()[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	apiKey := promptAPIKey(cmd, reader, provider)

	if err := s.apply(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure %s provider: %w", s.noun, err)
	}

	cmd.Print("Validating configuration... ")
	if err := s.validate(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("%s configuration validation failed: %w", s.noun, err)
	}
	cmd.Println("OK")

	cmd.Printf("%s provider configured: %s (%s)\n\n", s.kind, provider.Description(), model)
	return nil
}

func runSettingsChunking(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	size, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid chunk size %q", args[0])
	}
	overlap, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid overlap %q", args[1])
	}

	if err := settingsService.SetChunking(size, overlap); err != nil {
		return fmt.Errorf("failed to set chunking: %w", err)
	}

	cmd.Printf("Chunking set to %d characters with %d overlap.\n", size, overlap)
	cmd.Println("Existing indices keep their chunks; use --rebuild to apply the change.")
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	if err := settingsService.Validate(); err != nil {
		return err
	}

	for _, step := range []providerStep{embeddingStep, llmStep} {
		cmd.Printf("%s provider... ", step.kind)
		if err := step.validate(); err != nil {
			cmd.Println("FAILED")
			return fmt.Errorf("%s provider: %w", step.kind, err)
		}
		cmd.Println("OK")
	}
	return nil
}

// promptAPIKey asks for a key when the provider needs one.
// A blank answer leaves the key to the environment.
func promptAPIKey(cmd *cobra.Command, reader *bufio.Reader, provider domain.AIProvider) string {
	if !provider.RequiresAPIKey() {
		return ""
	}
	if env := provider.DefaultAPIKeyEnv(); env != "" {
		cmd.Printf("Enter API key (blank to use $%s): ", env)
	} else {
		cmd.Print("Enter API key: ")
	}
	apiKey := readPassword(cmd.InOrStdin(), reader)
	cmd.Println()
	return apiKey
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n') //nolint:errcheck // EOF yields the partial line
	return strings.TrimSpace(input)
}

// parseChoice maps a 1-based menu answer onto [1, maxVal], falling back to
// defaultVal for blank or out-of-range input.
func parseChoice(input string, maxVal, defaultVal int) int {
	val, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is an interactive terminal.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if password, err := term.ReadPassword(int(f.Fd())); err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func describeAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
