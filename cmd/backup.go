package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a timestamped backup of the data file",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		st, err := GetStore(logger)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		path, err := st.BackupNow()
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		if path == "" {
			fmt.Println("No data file yet; nothing to back up.")
			return nil
		}
		fmt.Println("Backup written to", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
