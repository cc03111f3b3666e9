package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/metalagman/credo/internal/requirements"
	"github.com/metalagman/credo/internal/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func answerCmd() *cobra.Command {
	var modelType, portfolio, purpose string
	cmd := &cobra.Command{
		Use:   "answer <field> <value>",
		Short: "Record one answer and persist it into the draft",
		Args:  cobra.ExactArgs(2),
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
			sess, tracker, err := resumeSession(cfg, d, h)
			if err != nil {
				return err
			}
			if err := drafts.StampSession(sess.ID.String()); err != nil {
				return err
			}

			value, err := tracker.RecordAnswer(args[0], args[1])
			if err != nil {
				return err
			}
			completion := tracker.Completion()
			if _, err := drafts.UpsertField(sess.Header.Map(), args[0], value.Raw(), &completion); err != nil {
				return err
			}
			log.Info().
				Str("session", sess.ID.String()).
				Str("field", args[0]).
				Str("value", value.String()).
				Msg("answer recorded")
			printCompletion(completion)
			return nil
		},
	}
	cmd.Flags().StringVar(&modelType, "model-type", "", "model type (defaults to the draft header)")
	cmd.Flags().StringVar(&portfolio, "portfolio", "", "portfolio (defaults to the draft header)")
	cmd.Flags().StringVar(&purpose, "purpose", "", "purpose (defaults to the draft header)")
	return cmd
}

func askCmd() *cobra.Command {
	var modelType, portfolio, purpose string
	var includeOptional bool
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Walk through the pending fields interactively",
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
			sess, tracker, err := resumeSession(cfg, d, h)
			if err != nil {
				return err
			}
			if err := drafts.StampSession(sess.ID.String()); err != nil {
				return err
			}

			reader := bufio.NewReader(os.Stdin)
			for {
				spec, ok := tracker.NextPending()
				if !ok {
					break
				}
				if !spec.Mandatory && !includeOptional {
					break
				}
				raw, err := prompt(reader, spec)
				if err != nil {
					return err
				}
				if raw == "" {
					if spec.Mandatory {
						continue
					}
					// blank answer ends the optional round, fields stay pending
					break
				}
				value, err := tracker.RecordAnswer(spec.FieldName, raw)
				if err != nil {
					fmt.Printf("  %v\n", err)
					continue
				}
				completion := tracker.Completion()
				if _, err := drafts.UpsertField(sess.Header.Map(), spec.FieldName, value.Raw(), &completion); err != nil {
					return err
				}
			}
			printCompletion(tracker.Completion())
			return nil
		},
	}
	cmd.Flags().StringVar(&modelType, "model-type", "", "model type (defaults to the draft header)")
	cmd.Flags().StringVar(&portfolio, "portfolio", "", "portfolio (defaults to the draft header)")
	cmd.Flags().StringVar(&purpose, "purpose", "", "purpose (defaults to the draft header)")
	cmd.Flags().BoolVar(&includeOptional, "optional", false, "also ask for optional fields")
	return cmd
}

func prompt(reader *bufio.Reader, spec requirements.FieldSpec) (string, error) {
	req := "optional"
	if spec.Mandatory {
		req = "mandatory"
	}
	fmt.Printf("\n%s (%s)\n", spec.DisplayName, req)
	if spec.Context != "" {
		fmt.Printf("  %s\n", spec.Context)
	}
	if spec.Example != "" {
		fmt.Printf("  e.g. %s\n", spec.Example)
	}
	fmt.Printf("> ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func printCompletion(cs session.CompletionStatus) {
	fmt.Printf("mandatory %d/%d, optional %d/%d", cs.MandatoryDone, cs.MandatoryTotal, cs.OptionalDone, cs.OptionalTotal)
	if cs.AllComplete {
		fmt.Printf(" - all fields complete")
	} else if cs.AllMandatory {
		fmt.Printf(" - ready to compile")
	}
	fmt.Println()
}
