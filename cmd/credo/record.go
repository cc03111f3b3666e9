package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/metalagman/credo/internal/contract"
	"github.com/metalagman/credo/internal/ledger"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func recordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <contract.json> <result.json>",
		Short: "Append an execution outcome for a contract to the ledger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := readContract(args[0])
			if err != nil {
				return err
			}
			result, err := readResult(args[1])
			if err != nil {
				return err
			}

			db, closeFn, err := openLedger(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			id, err := ledger.NewStore(db).RecordExecution(context.Background(), c, result)
			if err != nil {
				return err
			}
			log.Info().Int64("id", id).Msg("execution recorded")
			return nil
		},
	}
	return cmd
}

func readContract(path string) (contract.FinalContract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return contract.FinalContract{}, fmt.Errorf("read contract %s: %w", path, err)
	}
	var raw contract.FinalContract
	if err := json.Unmarshal(data, &raw); err != nil {
		return contract.FinalContract{}, fmt.Errorf("parse contract %s: %w", path, err)
	}
	// re-validate so a hand-edited file cannot enter the ledger incomplete
	c, err := contract.Compile(raw.Header, raw.UserSpecs)
	if err != nil {
		return contract.FinalContract{}, err
	}
	c.Meta = raw.Meta
	return c, nil
}

func readResult(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read execution result %s: %w", path, err)
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse execution result %s: %w", path, err)
	}
	return result, nil
}
