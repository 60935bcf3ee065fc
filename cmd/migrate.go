package cmd

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "建立或更新資料表結構",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.close()

		a.logger.WithField("driver", a.cfg.DB.Driver).Info("資料庫遷移完成")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
