// Package main provides the CLI entrypoint for aicards.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"ai_card_generator/config"
)

var (
	configPath string
	verbose    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aicards",
		Short: "Generate AI study content for Anki notes",
		Long: "aicards fills the AI_Content field of selected Anki notes using a\n" +
			"generative-text provider, with per-deck prompts and an optional\n" +
			"Supabase mirror of everything it generates.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json (default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable info logs")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newPromptsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMirrorCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

func loadConfig() (config.Config, error) {
	return config.Load(resolveConfigPath())
}
