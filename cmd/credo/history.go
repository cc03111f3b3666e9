package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/metalagman/credo/internal/ledger"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded executions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, closeFn, err := openLedger(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			entries, err := ledger.NewStore(db).History(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("no executions recorded yet")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%6d  %s  %s\n", e.ID, e.Timestamp, e.ExecutionStatus)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of entries to list")
	return cmd
}

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <id>",
		Short: "Print the full execution record for an id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid execution id %q", args[0])
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, closeFn, err := openLedger(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			payload, ok, err := ledger.NewStore(db).Export(context.Background(), id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("execution %d not found", id)
			}
			fmt.Println(payload)
			return nil
		},
	}
	return cmd
}
