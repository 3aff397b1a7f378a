package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Retrain the symptom classifier and persist the artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			m, err := a.provider.Retrain(ctx)
			if err != nil {
				return fmt.Errorf("train classifier: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Trained model %s on %d classes at %s.\n",
				m.ID(), len(m.Classes()), m.TrainedAt().Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
