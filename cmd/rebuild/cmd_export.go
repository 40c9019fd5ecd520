package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	intakeadapter "github.com/rebuildintel/rebuild-go/internal/adapters/intake"
	"github.com/rebuildintel/rebuild-go/internal/config"
)

var exportOut string

// exportCmd analyzes a submission and emits its pieces as Wavefront OBJ.
var exportCmd = &cobra.Command{
	Use:   "export [submission file]",
	Short: "Analyze one submission and export its piece geometry as OBJ",
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

		if _, err := process.Submit(cmd.Context(), *sub); err != nil {
			return err
		}

		data, err := process.ExportLatest(cmd.Context())
		if err != nil {
			return err
		}

		if exportOut == "" {
			fmt.Print(string(data))
			return nil
		}
		return os.WriteFile(exportOut, data, 0644)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write the OBJ to a file instead of stdout")
}
