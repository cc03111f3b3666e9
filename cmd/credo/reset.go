package main

import (
	"fmt"
	"os"

	"github.com/metalagman/credo/internal/draft"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	var savepoint bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the current draft and start a fresh intake",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			drafts, err := openDraftStore(cfg)
			if err != nil {
				return err
			}
			removed, spPath, err := resetDraft(drafts, savepoint)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Println("no draft to reset")
				return nil
			}
			if spPath != "" {
				log.Info().Str("path", absPath(spPath)).Msg("draft savepoint written")
			}
			log.Info().Str("path", absPath(drafts.Path())).Msg("draft reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&savepoint, "savepoint", false, "keep a timestamped copy of the draft before resetting")
	return cmd
}

// resetDraft removes the current draft file, optionally preserving a
// timestamped savepoint copy first. Returns whether a draft existed and the
// savepoint path when one was written.
func resetDraft(drafts *draft.Store, savepoint bool) (bool, string, error) {
	d, err := drafts.Load()
	if err != nil {
		return false, "", err
	}
	if len(d.Header) == 0 && len(d.UserSpecs) == 0 && d.Meta == nil {
		return false, "", nil
	}
	var spPath string
	if savepoint {
		spPath, err = writeSavepoint(drafts, d)
		if err != nil {
			return false, "", err
		}
	}
	if err := os.Remove(drafts.Path()); err != nil && !os.IsNotExist(err) {
		return false, "", fmt.Errorf("remove draft %s: %w", drafts.Path(), err)
	}
	return true, spPath, nil
}
