package main

import (
	"fmt"
	"sort"

	"github.com/metalagman/credo/internal/requirements"
	"github.com/spf13/cobra"
)

func configsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configs",
		Short: "List the model configurations with defined requirements",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loader := requirements.NewLoader(cfg.RequirementsPath)
			configs := loader.ListConfigurations()
			if len(configs) == 0 {
				fmt.Println("no configurations available")
				return nil
			}
			keys := make([]string, 0, len(configs))
			for k := range configs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				c := configs[k]
				fmt.Printf("%-40s purpose=%s model_type=%s\n", k, c.Purpose, c.ModelType)
			}
			return nil
		},
	}
	return cmd
}

func fieldsCmd() *cobra.Command {
	var modelType, purpose string
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Show the field schema resolved for a configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loader := requirements.NewLoader(cfg.RequirementsPath)
			set, err := loader.Resolve(purpose, modelType)
			if err != nil {
				return err
			}
			fmt.Printf("%s (%d fields)\n", set.Key, set.Len())
			for _, f := range set.Fields {
				req := "optional"
				if f.Mandatory {
					req = "mandatory"
				}
				fmt.Printf("  %-30s %-9s %-10s %s\n", f.FieldName, req, f.FieldType, f.DisplayName)
				if f.Context != "" {
					fmt.Printf("  %-30s %s\n", "", f.Context)
				}
				if f.Example != "" {
					fmt.Printf("  %-30s e.g. %s\n", "", f.Example)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&modelType, "model-type", "", "model type (e.g. PD, LGD, EAD)")
	cmd.Flags().StringVar(&purpose, "purpose", "", "purpose (e.g. AIRB, IFRS9, Adjudication)")
	_ = cmd.MarkFlagRequired("model-type")
	_ = cmd.MarkFlagRequired("purpose")
	return cmd
}
