package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"homophone_dict/internal/repository"
	"homophone_dict/internal/service"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "從 JSON 或 CSV 詞庫檔批次匯入詞條",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		format, _ := cmd.Flags().GetString("format")
		categoryID, _ := cmd.Flags().GetUint("category")
		submitterID, _ := cmd.Flags().GetUint("submitter")
		batchSize, _ := cmd.Flags().GetInt("batch")

		if path == "" {
			return fmt.Errorf("請通過 --file 指定詞庫檔")
		}
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("開啟詞庫檔失敗: %w", err)
		}
		defer f.Close()

		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.close()

		importer := service.NewImporter(repository.NewRepositories(a.db), a.logger)
		report, err := importer.Import(cmd.Context(), f, service.ImportOptions{
			Format:      service.ImportFormat(format),
			CategoryID:  categoryID,
			SubmitterID: submitterID,
			BatchSize:   batchSize,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "匯入 %d 筆詞條、%d 筆諧音，略過 %d 筆\n", report.Imported, report.Homophones, report.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("file", "", "詞庫檔路徑")
	importCmd.Flags().String("format", "", "json 或 csv，預設依副檔名判斷")
	importCmd.Flags().Uint("category", 0, "匯入詞條所屬的分類 ID")
	importCmd.Flags().Uint("submitter", 0, "諧音提交者的用戶 ID")
	importCmd.Flags().Int("batch", 1000, "每批寫入筆數")
}
