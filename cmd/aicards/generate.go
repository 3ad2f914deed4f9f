package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ai_card_generator/anki"
	"ai_card_generator/batch"
	"ai_card_generator/config"
	"ai_card_generator/generator"
	"ai_card_generator/mirror"
	"ai_card_generator/prompts"
)

var (
	genEmptyOnly bool
	genDryRun    bool
	genDelayMS   int
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <anki-search>",
		Short: "Generate AI content for the notes matching an Anki search",
		Example: `  aicards generate "deck:Japanese::N3"
  aicards generate --empty-only "deck:Japanese tag:verb"`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}
	cmd.Flags().BoolVar(&genEmptyOnly, "empty-only", false, "skip notes whose content field is already filled")
	cmd.Flags().BoolVar(&genDryRun, "dry-run", false, "use a local mock model instead of a provider")
	cmd.Flags().IntVar(&genDelayMS, "delay", -1, "override request_delay_ms for this run")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pstore, err := prompts.Load(cfg.DeckPromptsPath())
	if err != nil {
		return err
	}

	var gen generator.Client
	if genDryRun {
		gen = generator.MockClient{}
	} else {
		settings := generator.Settings{
			Provider: cfg.AIProvider,
			Model:    cfg.Model(),
			APIKey:   providerKey(cfg),
			Timeout:  cfg.RequestTimeout(),
		}
		if cfg.AIProvider == config.ProviderOpenAI {
			settings.BaseURL = cfg.OpenAIBaseURL
		}
		gen, err = generator.New(settings)
		if err != nil {
			return err
		}
	}

	var mir mirror.Mirror = mirror.Disabled{}
	if cfg.MirrorEnabled() {
		mir = mirror.NewSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseTable, cfg.RequestTimeout())
	}

	store := anki.NewClient(cfg.AnkiConnectURL, anki.Fields{
		Front:   cfg.FrontField,
		Content: cfg.ContentField,
		ID:      cfg.IDField,
	}, cfg.RequestTimeout())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notes, err := store.FindNotes(ctx, args[0])
	if err != nil {
		return fmt.Errorf("finding notes: %w", err)
	}
	if len(notes) == 0 {
		fmt.Println("no notes matched the search")
		return nil
	}
	log.Printf("[generate] %d note(s) matched %q, model=%s", len(notes), args[0], gen.Model())

	delay := cfg.RequestDelay()
	if genDelayMS >= 0 {
		delay = time.Duration(genDelayMS) * time.Millisecond
	}

	orch := &batch.Orchestrator{
		Store:   store,
		Gen:     gen,
		Mirror:  mir,
		Prompts: pstore.Map(),
		Verbose: verbose,
		Progress: func(done, total int, res batch.Result) {
			line := fmt.Sprintf("[%d/%d] %s: %s", done, total, res.Outcome, res.Front)
			if res.Reason != "" {
				line += " — " + res.Reason
			}
			if res.Mirror == batch.MirrorFailed {
				line += " (mirror warning)"
			}
			log.Print(line)
		},
	}

	report := orch.Run(ctx, notes, batch.Options{
		EmptyOnly:     genEmptyOnly,
		Delay:         delay,
		Attempts:      uint(cfg.MaxAttempts),
		DefaultPrompt: cfg.DefaultPrompt,
	})

	fmt.Println(renderReport(report))
	fmt.Println(report.Summary())
	return nil
}

func providerKey(cfg config.Config) string {
	if cfg.AIProvider == config.ProviderAnthropic {
		return cfg.AnthropicAPIKey
	}
	return cfg.OpenAIAPIKey
}
