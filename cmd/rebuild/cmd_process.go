package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	intakeadapter "github.com/rebuildintel/rebuild-go/internal/adapters/intake"
	"github.com/rebuildintel/rebuild-go/internal/config"
)

var processOut string

// processCmd runs the pipeline once on a submission file.
var processCmd = &cobra.Command{
	Use:   "process [submission file]",
	Short: "Analyze one submission and print the report JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		process, cleanup, err := buildProcessUseCase(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		sub, err := intakeadapter.NewMultiLoader().Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("loading submission: %w", err)
		}

		record, err := process.Submit(cmd.Context(), *sub)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(record.Report, "", "  ")
		if err != nil {
			return err
		}

		if processOut == "" {
			fmt.Println(string(data))
			return nil
		}
		return os.WriteFile(processOut, data, 0644)
	},
}

func init() {
	processCmd.Flags().StringVarP(&processOut, "out", "o", "", "Write the report to a file instead of stdout")
}
