package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Print all task lists with their completion stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		repos, st, err := GetRepositories(logger)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		lists, err := repos.Lists.ListAll()
		if err != nil {
			return err
		}
		if len(lists) == 0 {
			fmt.Println("No lists yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTASKS\tDONE\tPENDING\tRATE\tID")
		for _, l := range lists {
			stats, err := repos.Lists.Stats(l.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2f%%\t%s\n",
				l.Name, stats.TotalTasks, stats.CompletedTasks, stats.PendingTasks, stats.CompletionRate, l.ID)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listsCmd)
}
