package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"homophone_dict/internal/models"
	"homophone_dict/internal/repository"
	"homophone_dict/internal/storage"
	"homophone_dict/internal/utils"
	"homophone_dict/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "homophone_dict",
	Short: "英文諧音詞典後端服務",
}

// Execute 執行根命令，供 main 呼叫
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app 各子命令共用的配置、日誌與資料庫連線
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	db     *storage.DB
}

// bootstrap 載入配置並連線資料庫，migrate 為 true 時同時遷移資料表
func bootstrap(migrate bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("載入配置失敗: %w", err)
	}
	logger := utils.NewLogger(cfg.Log)

	db, err := storage.Open(cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("連線資料庫失敗: %w", err)
	}
	if migrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("遷移資料庫失敗: %w", err)
		}
		n, err := repository.NewEntryRepository(db).BackfillLookupKeys(context.Background())
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("補齊詞條比對欄位失敗: %w", err)
		}
		if n > 0 {
			logger.WithField("entries", n).Info("詞條比對欄位已補齊")
		}
	}

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Warn("關閉資料庫連線失敗")
	}
}
