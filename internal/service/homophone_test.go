package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"homophone_dict/internal/models"
)

func TestHomophoneQuorumApproval(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	userA := env.createUser(t, "user-a", models.RoleUser)
	auditorB := env.createUser(t, "auditor-b", models.RoleAuditor)
	auditorC := env.createUser(t, "auditor-c", models.RoleAuditor)
	env.createEntry(t, "apple", "蘋果", 1)

	entry, err := env.repos.Entry.FindByText(ctx, "apple")
	if err != nil {
		t.Fatalf("find entry: %v", err)
	}
	h, err := env.svc.Homophone.Submit(ctx, userA, entry.ID, "阿婆")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if h.AuditStatus != models.AuditStatusPending || h.ApprovalCount != 0 {
		t.Fatalf("unexpected submitted homophone %+v", h)
	}
	wantDeadline := env.clock.Now().Add(24 * time.Hour)
	if h.AuditDeadline == nil || !h.AuditDeadline.Equal(wantDeadline) {
		t.Fatalf("deadline = %v, want %v", h.AuditDeadline, wantDeadline)
	}

	out, err := env.svc.Homophone.Audit(ctx, auditorB, AuditInput{HomophoneID: h.ID, Action: models.AuditActionApprove})
	if err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if out.Status != models.AuditStatusPending || out.ApprovalCount != 1 {
		t.Fatalf("after first approve: %+v", out)
	}

	res, err := env.svc.Lookup.Search(ctx, nil, "apple")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Homophones) != 0 {
		t.Fatalf("pending homophone must not be visible, got %v", res.Homophones)
	}

	out, err = env.svc.Homophone.Audit(ctx, auditorC, AuditInput{HomophoneID: h.ID, Action: models.AuditActionApprove})
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if out.Status != models.AuditStatusApproved || out.ApprovalCount != 2 {
		t.Fatalf("after second approve: %+v", out)
	}

	res, err = env.svc.Lookup.Search(ctx, nil, "apple")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Homophones) != 1 || res.Homophones[0].Text != "阿婆" {
		t.Fatalf("expected approved homophone in results, got %v", res.Homophones)
	}
}

func TestHomophoneRejectIsTerminal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	userA := env.createUser(t, "user-a", models.RoleUser)
	auditorB := env.createUser(t, "auditor-b", models.RoleAuditor)
	auditorC := env.createUser(t, "auditor-c", models.RoleAuditor)
	entry := env.createEntry(t, "apple", "蘋果", 1)

	h, err := env.svc.Homophone.Submit(ctx, userA, entry.ID, "阿婆")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	out, err := env.svc.Homophone.Audit(ctx, auditorB, AuditInput{HomophoneID: h.ID, Action: models.AuditActionReject, Opinion: "不准确"})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if out.Status != models.AuditStatusRejected {
		t.Fatalf("expected rejected, got %s", out.Status)
	}

	_, err = env.svc.Homophone.Audit(ctx, auditorC, AuditInput{HomophoneID: h.ID, Action: models.AuditActionApprove})
	assertCode(t, err, CodeConflict)

	stored, err := env.repos.Homophone.FindByID(ctx, h.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.AuditStatus != models.AuditStatusRejected || stored.RejectionReason != "不准确" {
		t.Fatalf("unexpected stored homophone %+v", stored)
	}
	records, err := env.repos.AuditRecord.FindByHomophone(ctx, h.ID)
	if err != nil || len(records) != 1 {
		t.Fatalf("records = %v, %v", records, err)
	}
}

func TestHomophoneOneVotePerAuditor(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	user := env.createUser(t, "user", models.RoleUser)
	auditor := env.createUser(t, "auditor", models.RoleAuditor)
	entry := env.createEntry(t, "banana", "香蕉", 1)

	h, err := env.svc.Homophone.Submit(ctx, user, entry.ID, "爸娜娜")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.svc.Homophone.Audit(ctx, auditor, AuditInput{HomophoneID: h.ID, Action: models.AuditActionApprove}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	_, err = env.svc.Homophone.Audit(ctx, auditor, AuditInput{HomophoneID: h.ID, Action: models.AuditActionApprove})
	assertCode(t, err, CodeConflict)
	if MessageOf(err) != "您已審核過此諧音" {
		t.Fatalf("unexpected message %q", MessageOf(err))
	}

	stored, err := env.repos.Homophone.FindByID(ctx, h.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.AuditStatus != models.AuditStatusPending || stored.ApprovalCount != 1 {
		t.Fatalf("duplicate vote changed state: %+v", stored)
	}
}

func TestHomophoneCapabilityChecks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	user := env.createUser(t, "user", models.RoleUser)
	entry := env.createEntry(t, "cat", "貓", 1)

	_, err := env.svc.Homophone.Submit(ctx, nil, entry.ID, "凱特")
	assertCode(t, err, CodeUnauthenticated)

	h, err := env.svc.Homophone.Submit(ctx, user, entry.ID, "凱特")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, err = env.svc.Homophone.Audit(ctx, user, AuditInput{HomophoneID: h.ID, Action: models.AuditActionApprove})
	assertCode(t, err, CodeForbidden)

	_, err = env.svc.Homophone.Pending(ctx, user)
	assertCode(t, err, CodeForbidden)

	_, err = env.svc.Homophone.Submit(ctx, user, 9999, "不存在")
	assertCode(t, err, CodeNotFound)

	_, err = env.svc.Homophone.Submit(ctx, user, entry.ID, "   ")
	assertCode(t, err, CodeValidation)

	admin := env.createUser(t, "admin", models.RoleAdmin)
	_, err = env.svc.Homophone.Audit(ctx, admin, AuditInput{HomophoneID: h.ID, Action: "maybe"})
	assertCode(t, err, CodeValidation)
}

func TestHomophonePendingEnrichment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	submitter := env.createUser(t, "submitter", models.RoleUser)
	auditor := env.createUser(t, "auditor", models.RoleAuditor)
	entry := env.createEntry(t, "dog", "狗", 1)

	first, err := env.svc.Homophone.Submit(ctx, submitter, entry.ID, "道格")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.svc.Homophone.Audit(ctx, auditor, AuditInput{HomophoneID: first.ID, Action: models.AuditActionApprove, Opinion: "好記"}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	env.clock.Advance(25 * time.Hour)
	ghost := env.createUser(t, "ghost", models.RoleUser)
	second, err := env.svc.Homophone.Submit(ctx, ghost, entry.ID, "逗個")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.repos.User.Delete(ctx, ghost.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	pending, err := env.svc.Homophone.Pending(ctx, auditor)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}

	byID := map[uint]PendingHomophone{}
	for _, p := range pending {
		byID[p.ID] = p
	}
	p1 := byID[first.ID]
	if p1.Entry == nil || p1.Entry.EnglishText != "dog" {
		t.Fatalf("missing entry on %+v", p1)
	}
	if p1.Submitter == nil || p1.Submitter.ID != submitter.ID {
		t.Fatalf("missing submitter on %+v", p1)
	}
	if len(p1.AuditRecords) != 1 || p1.AuditRecords[0].Opinion != "好記" {
		t.Fatalf("unexpected audit records %+v", p1.AuditRecords)
	}
	if !p1.Overdue {
		t.Fatal("first submission should be overdue")
	}

	p2 := byID[second.ID]
	if p2.Submitter != nil {
		t.Fatalf("deleted submitter should be nil, got %+v", p2.Submitter)
	}
	if p2.Overdue {
		t.Fatal("second submission should not be overdue")
	}
	if p2.AuditRecords == nil || len(p2.AuditRecords) != 0 {
		t.Fatalf("expected empty audit records, got %v", p2.AuditRecords)
	}
}

func TestHomophoneDeadlineFromSystemConfig(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	admin := env.createUser(t, "admin", models.RoleAdmin)
	entry := env.createEntry(t, "egg", "蛋", 1)
	if err := env.svc.Config.Set(ctx, admin, models.ConfigKeyAuditDeadlineHours, "48", "審核時效"); err != nil {
		t.Fatalf("set config: %v", err)
	}

	h, err := env.svc.Homophone.Submit(ctx, admin, entry.ID, "愛格")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := env.clock.Now().Add(48 * time.Hour)
	if !h.AuditDeadline.Equal(want) {
		t.Fatalf("deadline = %v, want %v", h.AuditDeadline, want)
	}

	if err := env.svc.Config.Set(ctx, admin, models.ConfigKeyAuditDeadlineHours, "soon", ""); err != nil {
		t.Fatalf("set config: %v", err)
	}
	if got := env.svc.Config.DeadlineHours(ctx); got != 24 {
		t.Fatalf("invalid value should fall back to 24, got %d", got)
	}
}

func TestAuditorScope(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	admin := env.createUser(t, "admin", models.RoleAdmin)
	user := env.createUser(t, "user", models.RoleUser)
	scoped := env.createUser(t, "scoped", models.RoleAuditor)
	free := env.createUser(t, "free", models.RoleAuditor)

	fruit := env.createCategory(t, "水果", 0, 1)
	tropical := env.createCategory(t, "熱帶水果", fruit.ID, 2)
	animal := env.createCategory(t, "動物", 0, 1)

	mango := env.createEntry(t, "mango", "芒果", tropical.ID)
	tiger := env.createEntry(t, "tiger", "老虎", animal.ID)

	hMango, err := env.svc.Homophone.Submit(ctx, user, mango.ID, "忙狗")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	hTiger, err := env.svc.Homophone.Submit(ctx, user, tiger.ID, "太格")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := env.svc.Permission.Grant(ctx, admin, scoped.ID, fruit.ID); err != nil {
		t.Fatalf("grant: %v", err)
	}
	_, err = env.svc.Permission.Grant(ctx, admin, scoped.ID, fruit.ID)
	assertCode(t, err, CodeConflict)
	_, err = env.svc.Permission.Grant(ctx, admin, user.ID, fruit.ID)
	assertCode(t, err, CodeValidation)
	_, err = env.svc.Permission.Grant(ctx, admin, scoped.ID, 9999)
	assertCode(t, err, CodeNotFound)

	pending, err := env.svc.Homophone.Pending(ctx, scoped)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != hMango.ID {
		t.Fatalf("scoped auditor should see only the mango homophone, got %+v", pending)
	}
	_, err = env.svc.Homophone.Audit(ctx, scoped, AuditInput{HomophoneID: hTiger.ID, Action: models.AuditActionApprove})
	assertCode(t, err, CodeForbidden)
	if _, err := env.svc.Homophone.Audit(ctx, scoped, AuditInput{HomophoneID: hMango.ID, Action: models.AuditActionApprove}); err != nil {
		t.Fatalf("in-scope audit: %v", err)
	}

	pending, err = env.svc.Homophone.Pending(ctx, free)
	if err != nil || len(pending) != 2 {
		t.Fatalf("unrestricted auditor pending = %d, %v", len(pending), err)
	}

	if _, err := env.svc.Permission.Grant(ctx, admin, scoped.ID, AllCategories); err != nil {
		t.Fatalf("grant all: %v", err)
	}
	pending, err = env.svc.Homophone.Pending(ctx, scoped)
	if err != nil || len(pending) != 2 {
		t.Fatalf("all-category auditor pending = %d, %v", len(pending), err)
	}

	if err := env.svc.Permission.Revoke(ctx, admin, scoped.ID, fruit.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	assertCode(t, env.svc.Permission.Revoke(ctx, admin, scoped.ID, fruit.ID), CodeNotFound)
	perms, err := env.svc.Permission.List(ctx, admin, scoped.ID)
	if err != nil || len(perms) != 1 || perms[0].CategoryID != AllCategories {
		t.Fatalf("permissions = %v, %v", perms, err)
	}
}

func TestHomophoneAdminOperations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	admin := env.createUser(t, "admin", models.RoleAdmin)
	user := env.createUser(t, "user", models.RoleUser)
	entry := env.createEntry(t, "fish", "魚", 1)

	h, err := env.svc.Homophone.Submit(ctx, user, entry.ID, "廢使")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, err = env.svc.Homophone.ListByEntry(ctx, user, entry.ID)
	assertCode(t, err, CodeForbidden)

	all, err := env.svc.Homophone.ListByEntry(ctx, admin, entry.ID)
	if err != nil || len(all) != 1 {
		t.Fatalf("list by entry = %v, %v", all, err)
	}
	if err := env.svc.Homophone.Delete(ctx, admin, h.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertCode(t, env.svc.Homophone.Delete(ctx, admin, h.ID), CodeNotFound)
}

type recordingNotifier struct {
	events []AuditEvent
}

func (r *recordingNotifier) Notify(event AuditEvent) {
	r.events = append(r.events, event)
}

func TestHomophoneNotifiesAfterCommit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	rec := &recordingNotifier{}
	env.svc.Homophone.notifier = rec

	user := env.createUser(t, "user", models.RoleUser)
	auditor := env.createUser(t, "auditor", models.RoleAuditor)
	entry := env.createEntry(t, "goat", "山羊", 1)

	h, err := env.svc.Homophone.Submit(ctx, user, entry.ID, "狗特")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.svc.Homophone.Audit(ctx, auditor, AuditInput{HomophoneID: h.ID, Action: models.AuditActionReject}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	_, _ = env.svc.Homophone.Audit(ctx, auditor, AuditInput{HomophoneID: h.ID, Action: models.AuditActionReject})

	if len(rec.events) != 2 {
		t.Fatalf("expected 2 events, got %+v", rec.events)
	}
	if rec.events[0].Type != EventHomophoneSubmitted || rec.events[1].Type != EventHomophoneAudited {
		t.Fatalf("unexpected event order %+v", rec.events)
	}
	if rec.events[1].Status != models.AuditStatusRejected || rec.events[1].EntryID != entry.ID {
		t.Fatalf("unexpected audit event %+v", rec.events[1])
	}
}

func TestHomophoneConcurrentApprovalsStopAtQuorum(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	submitter := env.createUser(t, "submitter", models.RoleUser)
	entry := env.createEntry(t, "grandmother", "祖母", 1)
	h, err := env.svc.Homophone.Submit(ctx, submitter, entry.ID, "阿婆")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	const auditors = 6
	actors := make([]*Actor, auditors)
	for i := range actors {
		actors[i] = env.createUser(t, fmt.Sprintf("auditor-%d", i), models.RoleAuditor)
	}

	errs := make([]error, auditors)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, actor := range actors {
		wg.Add(1)
		go func(i int, actor *Actor) {
			defer wg.Done()
			<-start
			_, errs[i] = env.svc.Homophone.Audit(ctx, actor, AuditInput{HomophoneID: h.ID, Action: models.AuditActionApprove})
		}(i, actor)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for i, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if CodeOf(err) != CodeConflict {
			t.Fatalf("auditor %d: expected CONFLICT, got %v", i, err)
		}
	}
	if succeeded != 2 {
		t.Fatalf("expected exactly 2 accepted votes, got %d", succeeded)
	}

	got, err := env.repos.Homophone.FindByID(ctx, h.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.AuditStatus != models.AuditStatusApproved || got.ApprovalCount != 2 {
		t.Fatalf("unexpected final state %+v", got)
	}
	records, err := env.repos.AuditRecord.FindByHomophone(ctx, h.ID)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 audit records, got %d", len(records))
	}
}
