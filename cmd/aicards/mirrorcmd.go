package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ai_card_generator/mirror"
)

func newMirrorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Inspect the Supabase mirror",
	}
	cmd.AddCommand(newMirrorGetCmd())
	cmd.AddCommand(newMirrorSetupSQLCmd())
	return cmd
}

func newMirrorGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <note-id>",
		Short: "Fetch the mirrored row for a note id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.MirrorEnabled() {
				return errors.New("mirror is not configured (set supabase_url and supabase_anon_key)")
			}
			s := mirror.NewSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseTable, cfg.RequestTimeout())
			rec, err := s.Fetch(context.Background(), args[0])
			if err != nil {
				return err
			}
			if rec == nil {
				fmt.Println("no mirrored row for note id", args[0])
				return nil
			}
			data, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func newMirrorSetupSQLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup-sql",
		Short: "Print the SQL that creates the mirror table",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Print(mirror.SetupSQL)
		},
	}
}
