package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"homophone_dict/internal/repository"
	"homophone_dict/internal/utils"
)

type Services struct {
	Lookup     *LookupService
	Category   *CategoryService
	Entry      *EntryService
	Homophone  *HomophoneService
	Permission *AuditorPermissionService
	History    *HistoryService
	User       *UserService
	Stats      *StatsService
	Config     *SystemConfigService
	Importer   *Importer
	AuditHub   *AuditHub
}

type Options struct {
	Logger         *logrus.Logger
	Tokens         *utils.TokenManager
	DeadlineHours  int
	ApprovalQuorum int
	Now            func() time.Time
}

func NewServices(repos *repository.Repositories, opts Options) *Services {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DeadlineHours <= 0 {
		opts.DeadlineHours = 24
	}

	auditHub := NewAuditHub(opts.Logger)
	configService := NewSystemConfigService(repos.SystemConfig, opts.Logger, opts.DeadlineHours)
	permissionService := NewAuditorPermissionService(repos)

	return &Services{
		Lookup:   NewLookupService(repos, opts.Logger, opts.Now),
		Category: NewCategoryService(repos.Category),
		Entry:    NewEntryService(repos),
		Homophone: NewHomophoneService(repos, configService, permissionService, auditHub, opts.Logger, HomophoneServiceOptions{
			ApprovalQuorum: opts.ApprovalQuorum,
			Now:            opts.Now,
		}),
		Permission: permissionService,
		History:    NewHistoryService(repos, opts.Logger, opts.Now),
		User:       NewUserService(repos.User, opts.Tokens, opts.Logger, opts.Now),
		Stats:      NewStatsService(repos, opts.Now),
		Config:     configService,
		Importer:   NewImporter(repos, opts.Logger),
		AuditHub:   auditHub,
	}
}
