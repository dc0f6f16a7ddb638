package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string

	zapLog *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fprform",
	Short: "Customer profile form service",
	Long: `fprform serves the customer profile form: it renders the configured fields,
validates them as they are typed, resolves the city from the pincode and submits
the completed profile for verification.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zapLog != nil {
			_ = zapLog.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default configs/config.yaml)")
	rootCmd.AddCommand(serveCmd, checkFieldsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
