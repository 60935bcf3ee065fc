package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"homophone_dict/internal/models"
)

func TestHistoryDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.RoleUser)
	bob := env.createUser(t, "bob", models.RoleUser)
	env.createEntry(t, "sun", "太陽", 1)
	env.createEntry(t, "moon", "月亮", 1)

	for _, w := range []string{"sun", "moon"} {
		if _, err := env.svc.Lookup.Search(ctx, alice, w); err != nil {
			t.Fatalf("search: %v", err)
		}
	}
	if _, err := env.svc.Lookup.Search(ctx, bob, "sun"); err != nil {
		t.Fatalf("search: %v", err)
	}

	_, err := env.svc.History.List(ctx, nil, 10)
	assertCode(t, err, CodeUnauthenticated)

	bobs, err := env.svc.History.List(ctx, bob, 10)
	if err != nil || len(bobs) != 1 {
		t.Fatalf("bob history = %v, %v", bobs, err)
	}
	assertCode(t, env.svc.History.Delete(ctx, alice, bobs[0].ID), CodeNotFound)

	alices, err := env.svc.History.List(ctx, alice, 10)
	if err != nil || len(alices) != 2 {
		t.Fatalf("alice history = %v, %v", alices, err)
	}
	if err := env.svc.History.Delete(ctx, alice, alices[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	n, err := env.svc.History.Clear(ctx, alice)
	if err != nil || n != 1 {
		t.Fatalf("clear = %d, %v", n, err)
	}

	bobs, err = env.svc.History.List(ctx, bob, 10)
	if err != nil || len(bobs) != 1 {
		t.Fatalf("bob history after alice cleared = %v, %v", bobs, err)
	}
}

func TestHistoryPurge(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", models.RoleAdmin)
	user := env.createUser(t, "user", models.RoleUser)

	now := env.clock.Now()
	for _, at := range []time.Time{now.AddDate(0, -9, 0), now.AddDate(0, -7, 0), now.AddDate(0, 0, -3)} {
		if err := env.repos.History.Create(ctx, &models.QueryHistory{UserID: user.ID, EntryID: 1, QueryTime: at}); err != nil {
			t.Fatalf("create history: %v", err)
		}
	}

	_, err := env.svc.History.Purge(ctx, user, 6)
	assertCode(t, err, CodeForbidden)
	_, err = env.svc.History.Purge(ctx, admin, 0)
	assertCode(t, err, CodeValidation)

	n, err := env.svc.History.Purge(ctx, admin, 6)
	if err != nil || n != 2 {
		t.Fatalf("purge = %d, %v", n, err)
	}
}

func TestHistoryInsights(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.createUser(t, "learner", models.RoleUser)

	fruit := env.createCategory(t, "水果", 0, 1)
	animal := env.createCategory(t, "動物", 0, 1)
	color := env.createCategory(t, "顏色", 0, 1)
	verb := env.createCategory(t, "動詞", 0, 1)

	apple := env.createEntry(t, "apple", "蘋果", fruit.ID)
	pear := env.createEntry(t, "pear", "梨", fruit.ID)
	cat := env.createEntry(t, "cat", "貓", animal.ID)
	red := env.createEntry(t, "red", "紅", color.ID)
	run := env.createEntry(t, "run", "跑", verb.ID)

	now := env.clock.Now()
	rows := []struct {
		entry uint
		at    time.Time
	}{
		{apple.ID, now.Add(-1 * time.Hour)},
		{apple.ID, now.Add(-2 * time.Hour)},
		{pear.ID, now.Add(-3 * time.Hour)},
		{cat.ID, now.Add(-4 * time.Hour)},
		{cat.ID, now.AddDate(0, 0, -10)},
		{red.ID, now.AddDate(0, 0, -11)},
		{run.ID, now.AddDate(0, 0, -12)},
	}
	for _, r := range rows {
		if err := env.repos.History.Create(ctx, &models.QueryHistory{UserID: user.ID, EntryID: r.entry, QueryTime: r.at}); err != nil {
			t.Fatalf("create history: %v", err)
		}
	}

	insights, err := env.svc.History.Insights(ctx, user)
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if insights.TotalQueries != 7 || insights.RecentQueries != 4 {
		t.Fatalf("unexpected counts %+v", insights)
	}
	if len(insights.TopCategories) != 3 {
		t.Fatalf("expected 3 top categories, got %+v", insights.TopCategories)
	}
	if insights.TopCategories[0].Name != "水果" || insights.TopCategories[0].Count != 3 {
		t.Fatalf("unexpected top category %+v", insights.TopCategories[0])
	}
	if insights.TopCategories[1].Name != "動物" || insights.TopCategories[1].Count != 2 {
		t.Fatalf("unexpected second category %+v", insights.TopCategories[1])
	}
	if got := strings.Join(insights.RecentWords, ","); got != "apple,pear,cat,red,run" {
		t.Fatalf("recent words = %s", got)
	}
}
