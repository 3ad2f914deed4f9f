package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"ai_card_generator/prompts"
)

func newPromptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Manage per-deck system prompts",
	}
	cmd.AddCommand(newPromptsListCmd())
	cmd.AddCommand(newPromptsSetCmd())
	cmd.AddCommand(newPromptsDeleteCmd())
	cmd.AddCommand(newPromptsResolveCmd())
	return cmd
}

func loadPromptStore() (*prompts.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return prompts.Load(cfg.DeckPromptsPath())
}

func newPromptsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List decks with a registered prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := loadPromptStore()
			if err != nil {
				return err
			}
			decks := store.Decks()
			if len(decks) == 0 {
				fmt.Println("no deck prompts registered")
				return nil
			}
			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"Deck", "Prompt"})
			for _, deck := range decks {
				prompt, _ := store.Get(deck)
				tw.AppendRow(table.Row{deck, prompt})
			}
			tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 80}})
			fmt.Println(tw.Render())
			return nil
		},
	}
}

func newPromptsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <deck> <prompt>",
		Short: "Register the system prompt for a deck (subdecks inherit it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadPromptStore()
			if err != nil {
				return err
			}
			store.Set(args[0], args[1])
			return store.Save()
		},
	}
}

func newPromptsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <deck>",
		Short: "Remove a deck's prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadPromptStore()
			if err != nil {
				return err
			}
			store.Delete(args[0])
			return store.Save()
		},
	}
}

func newPromptsResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <deck>",
		Short: "Show the effective prompt a deck would use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := prompts.Load(cfg.DeckPromptsPath())
			if err != nil {
				return err
			}
			fmt.Println(store.Resolve(args[0], cfg.DefaultPrompt))
			return nil
		},
	}
}
