package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"checklist/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the data file is accessible",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		st, err := GetStore(logger)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if !st.IsAccessible() {
			return fmt.Errorf("data file %s is not accessible", config.DataFilePath())
		}
		fmt.Println("OK:", config.DataFilePath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
