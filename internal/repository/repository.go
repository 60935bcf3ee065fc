package repository

import (
	"context"

	"gorm.io/gorm"

	"homophone_dict/internal/storage"
)

type Repositories struct {
	db *storage.DB

	User              UserRepository
	Category          CategoryRepository
	Entry             EntryRepository
	Homophone         HomophoneRepository
	AuditRecord       AuditRecordRepository
	History           HistoryRepository
	UnrecordedWord    UnrecordedWordRepository
	AuditorPermission AuditorPermissionRepository
	SystemConfig      SystemConfigRepository
}

func NewRepositories(db *storage.DB) *Repositories {
	return &Repositories{
		db:                db,
		User:              NewUserRepository(db),
		Category:          NewCategoryRepository(db),
		Entry:             NewEntryRepository(db),
		Homophone:         NewHomophoneRepository(db),
		AuditRecord:       NewAuditRecordRepository(db),
		History:           NewHistoryRepository(db),
		UnrecordedWord:    NewUnrecordedWordRepository(db),
		AuditorPermission: NewAuditorPermissionRepository(db),
		SystemConfig:      NewSystemConfigRepository(db),
	}
}

// Transaction 在單一交易中執行 fn，fn 收到的 Repositories 全部綁定到該交易
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(r.db.WithTx(tx)))
	})
}
