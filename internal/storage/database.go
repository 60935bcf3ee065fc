package storage

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"homophone_dict/pkg/config"
)

// DB 包裝 gorm 連線，支援 PostgreSQL 與 SQLite
type DB struct {
	*gorm.DB
}

// Open 依配置建立資料庫連線
func Open(cfg config.DBConfig, logger *logrus.Logger) (*DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("不支援的資料庫驅動: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, newGormConfig(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// SQLite 只允許單一寫入者
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return &DB{DB: db}, nil
}

// NewMemoryDB 建立記憶體中的 SQLite 資料庫並完成遷移，供測試與本地試用
func NewMemoryDB(models ...interface{}) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// 同一個記憶體資料庫必須共用單一連線
	sqlDB.SetMaxOpenConns(1)

	wrapped := &DB{DB: db}
	if err := wrapped.AutoMigrate(models...); err != nil {
		return nil, err
	}
	return wrapped, nil
}

func newGormConfig(logger *logrus.Logger) *gorm.Config {
	cfg := &gorm.Config{TranslateError: true}
	if logger != nil {
		cfg.Logger = gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}
	return cfg
}

// WithTx 回傳綁定到交易的 DB
func (db *DB) WithTx(tx *gorm.DB) *DB {
	return &DB{DB: tx}
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate 自動遷移資料庫結構
func (db *DB) AutoMigrate(models ...interface{}) error {
	return db.DB.AutoMigrate(models...)
}
