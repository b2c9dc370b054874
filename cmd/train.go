package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	service "github.com/Anurag9000/Gram-Connect/internal/app"
	"github.com/Anurag9000/Gram-Connect/internal/domain/types"
)

func trainCmd(g *globalFlags) *cobra.Command {
	var req types.TrainRequest

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the compatibility model and write the artifact",
		Long: `Train fits the compatibility model on the historical pairs and writes
the artifact atomically. Paths default to the configured datasets.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := g.setup(ctx, os.Stderr)
			if err != nil {
				return err
			}
			res, err := service.NewTrainer(cfg, nil).Run(ctx, req)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	cmd.Flags().StringVar(&req.PeoplePath, "people", "", "People CSV (default: people_path)")
	cmd.Flags().StringVar(&req.ProposalsPath, "proposals", "", "Proposals CSV (default: proposals_path)")
	cmd.Flags().StringVar(&req.PairsPath, "pairs", "", "Labelled pairs CSV (default: pairs_path)")
	cmd.Flags().StringVarP(&req.OutputPath, "out", "o", "", "Artifact output path (default: model_path)")
	return cmd
}
