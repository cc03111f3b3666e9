package main

import (
	"fmt"
	"net/http"

	"github.com/metalagman/credo/internal/ledger"
	"github.com/metalagman/credo/internal/web"
	"github.com/spf13/cobra"
)

func uiCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the read-only web view",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			drafts, err := openDraftStore(cfg)
			if err != nil {
				return err
			}
			db, closeFn, err := openLedger(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			server, err := web.NewServer(drafts, ledger.NewStore(db))
			if err != nil {
				return err
			}

			addr := fmt.Sprintf(":%d", port)
			fmt.Printf("Starting UI on http://localhost%s\n", addr)
			return http.ListenAndServe(addr, server.Routes())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	return cmd
}
