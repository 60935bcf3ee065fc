package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"homophone_dict/internal/models"
	"homophone_dict/internal/repository"
	"homophone_dict/internal/utils"
)

const maxOpinionLength = 1000

var errAlreadyAudited = conflictError("您已審核過此諧音")

type HomophoneService struct {
	repos          *repository.Repositories
	configs        *SystemConfigService
	permissions    *AuditorPermissionService
	notifier       Notifier
	logger         *logrus.Logger
	approvalQuorum int
	now            func() time.Time
}

type HomophoneServiceOptions struct {
	ApprovalQuorum int
	Now            func() time.Time
}

func NewHomophoneService(
	repos *repository.Repositories,
	configs *SystemConfigService,
	permissions *AuditorPermissionService,
	notifier Notifier,
	logger *logrus.Logger,
	opts HomophoneServiceOptions,
) *HomophoneService {
	if opts.ApprovalQuorum <= 0 {
		opts.ApprovalQuorum = 2
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &HomophoneService{
		repos:          repos,
		configs:        configs,
		permissions:    permissions,
		notifier:       notifier,
		logger:         logger,
		approvalQuorum: opts.ApprovalQuorum,
		now:            opts.Now,
	}
}

// Submit 任何登入用戶都可以提交諧音，提交後進入 pending 並依配置計算審核截止時間
func (s *HomophoneService) Submit(ctx context.Context, actor *Actor, entryID uint, text string) (*models.Homophone, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	text = utils.SanitizeInput(text, 0)
	if text == "" {
		return nil, validationError("諧音內容不能為空")
	}
	if utf8.RuneCountInString(text) > maxHomophoneLength {
		return nil, validationError("諧音內容不能超過 500 個字元")
	}
	if _, err := s.repos.Entry.FindByID(ctx, entryID); err != nil {
		return nil, storeError(err, "詞條不存在", "讀取詞條失敗")
	}

	deadline := s.now().Add(time.Duration(s.configs.DeadlineHours(ctx)) * time.Hour)
	homophone := &models.Homophone{
		EntryID:       entryID,
		Text:          text,
		AuditStatus:   models.AuditStatusPending,
		SubmitterID:   actor.ID,
		ApprovalCount: 0,
		AuditDeadline: &deadline,
	}
	if err := s.repos.Homophone.Create(ctx, homophone); err != nil {
		return nil, internalError("提交諧音失敗", err)
	}

	s.notifier.Notify(AuditEvent{
		Type:        EventHomophoneSubmitted,
		HomophoneID: homophone.ID,
		EntryID:     entryID,
		Status:      homophone.AuditStatus,
		ActorID:     actor.ID,
		Timestamp:   s.now(),
	})
	return homophone, nil
}

// PendingHomophone 待審核諧音及其詞條、提交者與審核紀錄。
// 詞條或提交者已被刪除時對應欄位為 nil
type PendingHomophone struct {
	models.Homophone
	Entry        *models.Entry        `json:"entry"`
	Submitter    *models.User         `json:"submitter"`
	AuditRecords []models.AuditRecord `json:"audit_records"`
	Overdue      bool                 `json:"overdue"`
}

func (s *HomophoneService) Pending(ctx context.Context, actor *Actor) ([]PendingHomophone, error) {
	if err := requireAuditor(actor); err != nil {
		return nil, err
	}

	homophones, err := s.repos.Homophone.FindPending(ctx)
	if err != nil {
		return nil, internalError("讀取待審核諧音失敗", err)
	}

	entryIDs := lo.Uniq(lo.Map(homophones, func(h models.Homophone, _ int) uint { return h.EntryID }))
	entries, err := s.repos.Entry.FindByIDs(ctx, entryIDs)
	if err != nil {
		return nil, internalError("讀取詞條失敗", err)
	}
	entryByID := lo.KeyBy(entries, func(e models.Entry) uint { return e.ID })

	scope, err := s.permissions.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if scope != nil {
		homophones = lo.Filter(homophones, func(h models.Homophone, _ int) bool {
			entry, ok := entryByID[h.EntryID]
			return ok && scope.allows(entry.CategoryID)
		})
	}

	submitterIDs := lo.Uniq(lo.Map(homophones, func(h models.Homophone, _ int) uint { return h.SubmitterID }))
	users, err := s.repos.User.FindByIDs(ctx, submitterIDs)
	if err != nil {
		return nil, internalError("讀取提交者失敗", err)
	}
	userByID := lo.KeyBy(users, func(u models.User) uint { return u.ID })

	records, err := s.repos.AuditRecord.FindByHomophones(ctx, lo.Map(homophones, func(h models.Homophone, _ int) uint { return h.ID }))
	if err != nil {
		return nil, internalError("讀取審核紀錄失敗", err)
	}
	recordsByHomophone := lo.GroupBy(records, func(r models.AuditRecord) uint { return r.HomophoneID })

	now := s.now()
	result := make([]PendingHomophone, 0, len(homophones))
	for _, h := range homophones {
		item := PendingHomophone{
			Homophone:    h,
			AuditRecords: recordsByHomophone[h.ID],
			Overdue:      h.AuditDeadline != nil && now.After(*h.AuditDeadline),
		}
		if item.AuditRecords == nil {
			item.AuditRecords = []models.AuditRecord{}
		}
		if entry, ok := entryByID[h.EntryID]; ok {
			item.Entry = &entry
		}
		if user, ok := userByID[h.SubmitterID]; ok {
			item.Submitter = &user
		}
		result = append(result, item)
	}
	return result, nil
}

type AuditInput struct {
	HomophoneID uint
	Action      models.AuditAction
	Opinion     string
}

// AuditOutcome 一次審核後諧音的狀態
type AuditOutcome struct {
	HomophoneID   uint               `json:"homophone_id"`
	Status        models.AuditStatus `json:"status"`
	ApprovalCount int                `json:"approval_count"`
}

// Audit 記錄一位審核員的決定並推進諧音狀態。
//
// 每位審核員對同一諧音只能投一票；一票拒絕即為 rejected，
// 通過票數達到門檻即為 approved。approved 與 rejected 都是終態。
// 整個決定在單一交易中完成，通過票數每次都從審核紀錄重新計算。
func (s *HomophoneService) Audit(ctx context.Context, actor *Actor, input AuditInput) (*AuditOutcome, error) {
	if err := requireAuditor(actor); err != nil {
		return nil, err
	}
	if !input.Action.Valid() {
		return nil, validationError("審核動作必須為 approve 或 reject")
	}
	opinion := utils.SanitizeInput(input.Opinion, maxOpinionLength)

	homophone, err := s.repos.Homophone.FindByID(ctx, input.HomophoneID)
	if err != nil {
		return nil, storeError(err, "諧音不存在", "讀取諧音失敗")
	}
	if err := s.checkScope(ctx, actor, homophone); err != nil {
		return nil, err
	}

	var outcome *AuditOutcome
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		current, err := tx.Homophone.FindByIDForUpdate(ctx, input.HomophoneID)
		if err != nil {
			return err
		}

		audited, err := tx.AuditRecord.ExistsForAuditor(ctx, current.ID, actor.ID)
		if err != nil {
			return err
		}
		if audited {
			return errAlreadyAudited
		}
		if current.AuditStatus.Terminal() {
			return conflictError("此諧音已審核完成")
		}

		record := &models.AuditRecord{
			HomophoneID: current.ID,
			AuditorID:   actor.ID,
			Action:      input.Action,
			Opinion:     opinion,
		}
		if err := tx.AuditRecord.Create(ctx, record); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyAudited
			}
			return err
		}

		approvals, err := tx.AuditRecord.CountByAction(ctx, current.ID, models.AuditActionApprove)
		if err != nil {
			return err
		}

		fields := map[string]interface{}{"approval_count": int(approvals)}
		status := models.AuditStatusPending
		switch {
		case input.Action == models.AuditActionReject:
			status = models.AuditStatusRejected
			fields["rejection_reason"] = opinion
		case int(approvals) >= s.approvalQuorum:
			status = models.AuditStatusApproved
		}
		fields["audit_status"] = status

		if _, err := tx.Homophone.Update(ctx, current.ID, fields); err != nil {
			return err
		}
		outcome = &AuditOutcome{HomophoneID: current.ID, Status: status, ApprovalCount: int(approvals)}
		return nil
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		return nil, storeError(err, "諧音不存在", "審核諧音失敗")
	}

	s.logger.WithFields(logrus.Fields{
		"homophone_id": outcome.HomophoneID,
		"auditor_id":   actor.ID,
		"action":       input.Action,
		"status":       outcome.Status,
	}).Info("homophone audited")

	s.notifier.Notify(AuditEvent{
		Type:          EventHomophoneAudited,
		HomophoneID:   outcome.HomophoneID,
		EntryID:       homophone.EntryID,
		Status:        outcome.Status,
		ApprovalCount: outcome.ApprovalCount,
		ActorID:       actor.ID,
		Timestamp:     s.now(),
	})
	return outcome, nil
}

// checkScope 審核員只能審核權限範圍內分類的諧音
func (s *HomophoneService) checkScope(ctx context.Context, actor *Actor, homophone *models.Homophone) error {
	scope, err := s.permissions.scopeFor(ctx, actor)
	if err != nil || scope == nil {
		return err
	}
	entry, err := s.repos.Entry.FindByID(ctx, homophone.EntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return forbiddenError("此諧音不在您的審核範圍內")
		}
		return internalError("讀取詞條失敗", err)
	}
	if !scope.allows(entry.CategoryID) {
		return forbiddenError("此諧音不在您的審核範圍內")
	}
	return nil
}

// ListByEntry 列出詞條的所有諧音，包含未通過的
func (s *HomophoneService) ListByEntry(ctx context.Context, actor *Actor, entryID uint) ([]models.Homophone, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	homophones, err := s.repos.Homophone.FindByEntry(ctx, entryID)
	if err != nil {
		return nil, internalError("讀取諧音失敗", err)
	}
	return homophones, nil
}

func (s *HomophoneService) Delete(ctx context.Context, actor *Actor, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	n, err := s.repos.Homophone.Delete(ctx, id)
	if err != nil {
		return internalError("刪除諧音失敗", err)
	}
	if n == 0 {
		return notFoundError("諧音不存在")
	}
	return nil
}
