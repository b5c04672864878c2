package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/vibewriter/internal/ai"
	cfgpkg "github.com/KaramelBytes/vibewriter/internal/config"
	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/spf13/cobra"
)

// How generated text is applied to a document.
const (
	applyNone    = ""
	applyReplace = "replace"
	applyAppend  = "append"
	applyNew     = "new"
)

var (
	aiContext        bool
	aiStream         bool
	aiSystem         string
	aiTimeoutSec     int
	aiPersona        string
	aiShorten        bool
	aiApply          string
	aiInstructions   string
	aiModelsProvider string
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Generate, rewrite, expand and continue text with OpenRouter or a local runtime",
}

func newGenerator(c *cfgpkg.Global, s workspace.Settings) *ai.Generator {
	timeout := time.Duration(c.HTTPTimeoutSec) * time.Second
	if s.OpenAICLIEnabled && c.OllamaTimeoutSec > 0 {
		timeout = time.Duration(c.OllamaTimeoutSec) * time.Second
	}
	return ai.NewGenerator(ai.Options{
		Model:      c.DefaultModel,
		LocalModel: c.LocalModel,
		MaxTokens:  c.MaxTokens,
		Runtime: ai.RuntimeConfig{
			HTTPTimeout: timeout,
			RetryMax:    c.RetryMaxAttempts,
			BaseDelay:   time.Duration(c.RetryBaseDelayMs) * time.Millisecond,
			MaxDelay:    time.Duration(c.RetryMaxDelayMs) * time.Millisecond,
			Host:        c.OllamaHost,
		},
	}, commandLogger())
}

// generate runs p with the workspace settings and prints the result,
// streaming it when --stream is set.
func generate(ctx context.Context, s *session, p ai.Params) (ai.Result, error) {
	c, err := currentConfig()
	if err != nil {
		return ai.Result{}, err
	}
	settings := s.store.Settings()
	if p.Temperature == 0 {
		p.Temperature = c.Temperature
	}
	timeoutSec := aiTimeoutSec
	if timeoutSec <= 0 {
		timeoutSec = 180
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
	defer cancel()

	g := newGenerator(c, settings)
	if provider, err := g.Provider(settings); err == nil {
		fmt.Printf("⚙ Generating with %s model=%s ...\n", provider, g.Model(provider, settings))
	}
	var res ai.Result
	if aiStream {
		res, err = g.Stream(ctx, settings, p, func(d string) { fmt.Print(d) })
		if err == nil {
			fmt.Println()
		}
	} else {
		res, err = g.Generate(ctx, settings, p)
		if err == nil {
			fmt.Println(res.Text)
		}
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return res, fmt.Errorf("generation timed out after %ds: %w", timeoutSec, err)
		}
		return res, err
	}
	if res.Provider == ai.ProviderOpenRouter {
		if cost, ok := ai.EstimateCostUSD(res.Model, res.PromptTokens, utils.CountTokens(res.Text)); ok {
			fmt.Printf("Estimated cost: ~$%.4f\n", cost)
		}
	}
	return res, nil
}

// editSystemPrompt is the system prompt for editing actions.
func editSystemPrompt(s workspace.Settings) string {
	if aiSystem != "" {
		return aiSystem
	}
	if strings.TrimSpace(s.SystemPrompt) != "" {
		return s.SystemPrompt
	}
	return ai.EditorSystemPrompt
}

// applyResult writes generated text back according to --apply.
func applyResult(s *session, doc workspace.Document, text string) error {
	switch strings.ToLower(aiApply) {
	case applyNone:
		return nil
	case applyReplace:
		if !ai.ApplyToDocument(s.store, doc.ID, text) {
			return fmt.Errorf("apply to %s: %w", doc.Name, workspace.ErrNotFound)
		}
		fmt.Printf("✓ Replaced %s (previous content saved as snapshot %q)\n", doc.Name, ai.PreEditLabel)
	case applyAppend:
		if !ai.AppendToDocument(s.store, doc.ID, text) {
			return fmt.Errorf("append to %s: %w", doc.Name, workspace.ErrNotFound)
		}
		fmt.Printf("✓ Appended to %s\n", doc.Name)
	case applyNew:
		name := ai.ExpandedDocumentName(doc.Name, s.store.Documents(doc.FolderID))
		nd, err := s.store.CreateDocument(doc.FolderID, name, utils.PlainTextToHTML(strings.TrimSpace(text)))
		if err != nil {
			return err
		}
		fmt.Printf("✓ Created %s (%s)\n", nd.Name, nd.ID)
	default:
		return fmt.Errorf("invalid --apply %q (use replace, append or new)", aiApply)
	}
	return nil
}

func documentText(doc workspace.Document) (string, error) {
	text := strings.TrimSpace(utils.PlainText(doc.Content))
	if text == "" {
		return "", fmt.Errorf("document %s is empty", doc.Name)
	}
	return text, nil
}

var aiGenerateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Send a free-form prompt, optionally with the project's context documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			prompt := strings.Join(args, " ")
			if aiContext {
				p, err := s.activeProject()
				if err != nil {
					return err
				}
				docs := ai.ContextDocuments(s.store.State(), p.ID)
				prompt = ai.WithContext(docs, prompt)
				fmt.Printf("Using %d context document(s)\n", len(docs))
			}
			system := aiSystem
			if system == "" {
				system = s.store.Settings().SystemPrompt
			}
			_, err := generate(cmd.Context(), s, ai.Params{Prompt: prompt, SystemPrompt: system})
			return err
		})
	},
}

var aiRewriteCmd = &cobra.Command{
	Use:   "rewrite [doc]",
	Short: "Rewrite a document, shorten it (--shorten) or run it through a persona (--persona)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			doc, err := s.document(firstArg(args))
			if err != nil {
				return err
			}
			text, err := documentText(doc)
			if err != nil {
				return err
			}
			p := ai.Params{Prompt: ai.RewritePrompt(text), SystemPrompt: editSystemPrompt(s.store.Settings())}
			switch {
			case aiPersona != "":
				per, err := s.persona(aiPersona)
				if err != nil {
					return err
				}
				p = ai.Params{Prompt: ai.PersonaPrompt(text), SystemPrompt: per.SystemPrompt}
			case aiShorten:
				p.Prompt = ai.ShortenPrompt(text)
			}
			res, err := generate(cmd.Context(), s, p)
			if err != nil {
				return err
			}
			return applyResult(s, doc, res.Text)
		})
	},
}

var aiExpandCmd = &cobra.Command{
	Use:   "expand [doc]",
	Short: "Expand a document following --instructions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(aiInstructions) == "" {
			return errors.New("--instructions is required")
		}
		return withSession(cmd, func(s *session) error {
			doc, err := s.document(firstArg(args))
			if err != nil {
				return err
			}
			text, err := documentText(doc)
			if err != nil {
				return err
			}
			res, err := generate(cmd.Context(), s, ai.Params{
				Prompt:       ai.ExpandPrompt(aiInstructions, text),
				SystemPrompt: editSystemPrompt(s.store.Settings()),
			})
			if err != nil {
				return err
			}
			return applyResult(s, doc, res.Text)
		})
	},
}

var aiContinueCmd = &cobra.Command{
	Use:   "continue [doc]",
	Short: "Continue writing a document (--apply append adds the text to it)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			settings := s.store.Settings()
			if !settings.QuickAIContinueEnabled {
				return errors.New("quick AI continue is disabled (vibewriter settings set quickAiContinueEnabled true)")
			}
			doc, err := s.document(firstArg(args))
			if err != nil {
				return err
			}
			text, err := documentText(doc)
			if err != nil {
				return err
			}
			res, err := generate(cmd.Context(), s, ai.Params{Prompt: ai.ContinuePrompt(text), SystemPrompt: editSystemPrompt(settings)})
			if err != nil {
				return err
			}
			return applyResult(s, doc, res.Text)
		})
	},
}

var aiStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the local runtime bridge and the configured model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		return withSession(cmd, func(s *session) error {
			settings := s.store.Settings()
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			st := newGenerator(c, settings).Bridge(settings).CheckStatus(ctx)
			if done, err := printStructured(st); done {
				return err
			}
			if !st.Available {
				fmt.Printf("✗ Local runtime at %s is not reachable: %s\n", st.Host, st.Error)
			} else {
				fmt.Printf("✓ Local runtime at %s (%d model(s))\n", st.Host, len(st.Models))
				if st.ModelInstalled {
					fmt.Printf("✓ Model %s is installed\n", st.Model)
				} else {
					fmt.Printf("⚠ Model %s is not installed (ollama pull %s)\n", st.Model, st.Model)
				}
			}
			if settings.OpenAICLIEnabled {
				fmt.Println("Provider: local (openAiCliEnabled=true)")
			} else if strings.TrimSpace(settings.OpenRouterAPIKey) != "" {
				fmt.Println("Provider: openrouter")
			} else {
				fmt.Println("Provider: none configured")
			}
			return nil
		})
	},
}

var aiModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List known models with context windows and pricing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list := ai.Catalog(aiModelsProvider)
		if done, err := printStructured(list); done {
			return err
		}
		for _, m := range list {
			if m.Provider == ai.ProviderLocal {
				fmt.Printf("%-40s %-10s ctx=%d\n", m.Name, m.Provider, m.ContextTokens)
				continue
			}
			fmt.Printf("%-40s %-10s ctx=%-8d in=$%.5f/1K out=$%.5f/1K\n", m.Name, m.Provider, m.ContextTokens, m.InputPerK, m.OutputPerK)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aiCmd)
	aiCmd.AddCommand(aiGenerateCmd, aiRewriteCmd, aiExpandCmd, aiContinueCmd, aiStatusCmd, aiModelsCmd)
	aiCmd.PersistentFlags().BoolVar(&aiStream, "stream", false, "print output as it is generated")
	aiCmd.PersistentFlags().StringVar(&aiSystem, "system", "", "system prompt override")
	aiCmd.PersistentFlags().IntVar(&aiTimeoutSec, "timeout-sec", 180, "request timeout in seconds")
	aiGenerateCmd.Flags().BoolVar(&aiContext, "context", false, "prepend the documents included in context")
	aiRewriteCmd.Flags().StringVar(&aiPersona, "persona", "", "persona id or title to rewrite with")
	aiRewriteCmd.Flags().BoolVar(&aiShorten, "shorten", false, "shorten instead of rewrite")
	aiModelsCmd.Flags().StringVar(&aiModelsProvider, "provider", "", "only list models for openrouter or local")
	aiExpandCmd.Flags().StringVarP(&aiInstructions, "instructions", "i", "", "expansion instructions")
	for _, c := range []*cobra.Command{aiRewriteCmd, aiExpandCmd, aiContinueCmd} {
		c.Flags().StringVar(&aiApply, "apply", applyNone, "write the result back: replace, append or new")
	}
}
