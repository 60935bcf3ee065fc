package service

import (
	"context"
	"testing"

	"homophone_dict/internal/models"
)

func TestTopWords(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.createUser(t, "user", models.RoleUser)

	classic := &models.Entry{EnglishText: "classic", ChineseTranslation: "經典", CategoryID: 1, QueryCount: 50}
	if err := env.repos.Entry.Create(ctx, classic); err != nil {
		t.Fatalf("create: %v", err)
	}
	trending := env.createEntry(t, "trending", "趨勢", 1)

	old := env.clock.Now().AddDate(0, 0, -30)
	if err := env.repos.History.Create(ctx, &models.QueryHistory{UserID: user.ID, EntryID: classic.ID, QueryTime: old}); err != nil {
		t.Fatalf("history: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := env.svc.Lookup.Search(ctx, user, "trending"); err != nil {
			t.Fatalf("search: %v", err)
		}
	}

	lifetime, err := env.svc.Stats.TopWords(ctx, 10, 0)
	if err != nil {
		t.Fatalf("top words: %v", err)
	}
	if len(lifetime) != 2 || lifetime[0].ID != classic.ID || lifetime[0].Count != 50 {
		t.Fatalf("unexpected lifetime ranking %+v", lifetime)
	}

	weekly, err := env.svc.Stats.TopWords(ctx, 10, 7)
	if err != nil {
		t.Fatalf("top words: %v", err)
	}
	if len(weekly) != 1 || weekly[0].ID != trending.ID || weekly[0].Count != 2 {
		t.Fatalf("unexpected weekly ranking %+v", weekly)
	}

	_, err = env.svc.Stats.TopWords(ctx, 10, -1)
	assertCode(t, err, CodeValidation)
}

func TestUnrecordedWordCuration(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", models.RoleAdmin)
	user := env.createUser(t, "user", models.RoleUser)

	for _, w := range []string{"zebra", "zebra", "yak"} {
		if _, err := env.svc.Lookup.Search(ctx, nil, w); err != nil {
			t.Fatalf("search: %v", err)
		}
	}

	_, err := env.svc.Stats.UnrecordedWords(ctx, user, 10)
	assertCode(t, err, CodeForbidden)

	words, err := env.svc.Stats.UnrecordedWords(ctx, admin, 0)
	if err != nil || len(words) != 2 || words[0].Word != "zebra" || words[0].RequestCount != 2 {
		t.Fatalf("unrecorded = %+v, %v", words, err)
	}
	if err := env.svc.Stats.DeleteUnrecordedWord(ctx, admin, words[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertCode(t, env.svc.Stats.DeleteUnrecordedWord(ctx, admin, words[0].ID), CodeNotFound)
}

func TestSystemConfigAccess(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", models.RoleAdmin)
	auditor := env.createUser(t, "auditor", models.RoleAuditor)

	assertCode(t, env.svc.Config.Set(ctx, auditor, "k", "v", ""), CodeForbidden)
	_, err := env.svc.Config.Get(ctx, admin, "missing")
	assertCode(t, err, CodeNotFound)

	if err := env.svc.Config.Set(ctx, admin, "site_name", "諧音詞典", "網站名稱"); err != nil {
		t.Fatalf("set: %v", err)
	}
	cfg, err := env.svc.Config.Get(ctx, admin, "site_name")
	if err != nil || cfg.ConfigValue != "諧音詞典" {
		t.Fatalf("get = %+v, %v", cfg, err)
	}

	if got := env.svc.Config.DeadlineHours(ctx); got != 24 {
		t.Fatalf("default deadline = %d", got)
	}
}
