package main

import (
	"fmt"

	"github.com/metalagman/credo/internal/session"
	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	var modelType, portfolio, purpose string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-field completion state for the current draft",
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
			h := sessionHeader(d, modelType, portfolio, purpose)
			_, tracker, err := resumeSession(cfg, d, h)
			if err != nil {
				return err
			}

			fmt.Printf("model_type=%s portfolio=%s purpose=%s\n\n", h.ModelType, h.Portfolio, h.Purpose)
			for _, f := range tracker.Set().Fields {
				state, _ := tracker.State(f.FieldName)
				req := "optional"
				if f.Mandatory {
					req = "mandatory"
				}
				line := fmt.Sprintf("  %-30s %-9s %-10s", f.FieldName, req, state.Status)
				if state.Status != session.StatusPending {
					line += " " + state.Value.String()
				}
				fmt.Println(line)
			}
			fmt.Println()
			printCompletion(tracker.Completion())
			return nil
		},
	}
	cmd.Flags().StringVar(&modelType, "model-type", "", "model type (defaults to the draft header)")
	cmd.Flags().StringVar(&portfolio, "portfolio", "", "portfolio (defaults to the draft header)")
	cmd.Flags().StringVar(&purpose, "purpose", "", "purpose (defaults to the draft header)")
	return cmd
}
