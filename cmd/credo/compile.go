package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/metalagman/credo/internal/contract"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func compileCmd() *cobra.Command {
	var filename string
	var script bool
	var savepoint bool
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Freeze the current draft into a final contract file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			drafts, err := openDraftStore(cfg)
			if err != nil {
				return err
			}
			d, err := drafts.Load()
			if err != nil {
				return err
			}

			c, err := contract.Compile(d.Header, d.UserSpecs)
			if err != nil {
				return err
			}
			if d.Meta != nil {
				meta := map[string]any{"last_updated": d.Meta.LastUpdated}
				if d.Meta.CompletionStatus != nil {
					meta["completion_status"] = map[string]any{
						"mandatory_complete": d.Meta.CompletionStatus.MandatoryComplete,
					}
				}
				c.Meta = meta
			}

			path, err := contract.Persist(c, cfg.OutputDir, filename)
			if err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("final contract written")

			if savepoint {
				spPath, err := writeSavepoint(drafts, d)
				if err != nil {
					return err
				}
				log.Info().Str("path", absPath(spPath)).Msg("draft savepoint written")
			}

			if script {
				body, err := contract.GenerateRunScript(c, cfg.OutputDir)
				if err != nil {
					return err
				}
				scriptPath := strings.TrimSuffix(path, ".json") + ".py"
				if err := os.WriteFile(scriptPath, []byte(body), 0o644); err != nil {
					return fmt.Errorf("write run script %s: %w", scriptPath, err)
				}
				log.Info().Str("path", scriptPath).Msg("run script written")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filename, "filename", "", "explicit contract filename (default: derived from the header)")
	cmd.Flags().BoolVar(&script, "script", false, "also generate a standalone modeling run script")
	cmd.Flags().BoolVar(&savepoint, "savepoint", false, "also write a timestamped savepoint copy of the draft")
	return cmd
}
