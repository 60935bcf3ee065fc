package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"homophone_dict/internal/repository"
	"homophone_dict/internal/service"
)

var purgeHistoryCmd = &cobra.Command{
	Use:   "purge-history",
	Short: "刪除超過保留期限的查詢歷史",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(false)
		if err != nil {
			return err
		}
		defer a.close()

		months, _ := cmd.Flags().GetInt("months")
		if months <= 0 {
			months = a.cfg.History.RetentionMonths
		}

		history := service.NewHistoryService(repository.NewRepositories(a.db), a.logger, time.Now)
		n, err := history.PurgeOlderThan(cmd.Context(), months)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已刪除 %d 筆 %d 個月前的查詢歷史\n", n, months)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeHistoryCmd)

	purgeHistoryCmd.Flags().Int("months", 0, "保留月數，預設使用配置 history.retention_months")
}
