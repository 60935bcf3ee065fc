package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"homophone_dict/internal/models"
	"homophone_dict/internal/repository"
	"homophone_dict/internal/storage"
	"homophone_dict/internal/utils"
)

// testClock 可以手動推進的時鐘
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	repos *repository.Repositories
	svc   *Services
	clock *testClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := storage.NewMemoryDB(models.All()...)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	clock := &testClock{now: time.Now().Truncate(time.Second)}
	repos := repository.NewRepositories(db)
	svc := NewServices(repos, Options{
		Logger:         logger,
		Tokens:         utils.NewTokenManager("test-secret", time.Hour),
		DeadlineHours:  24,
		ApprovalQuorum: 2,
		Now:            clock.Now,
	})
	return &testEnv{repos: repos, svc: svc, clock: clock}
}

func (e *testEnv) createUser(t *testing.T, openID string, role models.UserRole) *Actor {
	t.Helper()
	user := &models.User{OpenID: openID, Name: openID, Role: role}
	if err := e.repos.User.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", openID, err)
	}
	return &Actor{ID: user.ID, Role: role}
}

func (e *testEnv) createEntry(t *testing.T, english, chinese string, categoryID uint) *models.Entry {
	t.Helper()
	entry := &models.Entry{EnglishText: english, ChineseTranslation: chinese, CategoryID: categoryID}
	if err := e.repos.Entry.Create(context.Background(), entry); err != nil {
		t.Fatalf("create entry %s: %v", english, err)
	}
	return entry
}

func (e *testEnv) createCategory(t *testing.T, name string, parentID uint, level int) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, ParentID: parentID, Level: level}
	if err := e.repos.Category.Create(context.Background(), category); err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return category
}

func assertCode(t *testing.T, err error, want Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := CodeOf(err); got != want {
		t.Fatalf("expected %s, got %s (%v)", want, got, err)
	}
}
