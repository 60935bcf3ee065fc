package service

import (
	"context"
	"testing"

	"homophone_dict/internal/models"
)

func TestCategoryPath(t *testing.T) {
	categories := []models.Category{
		{ID: 1, ParentID: 0, Name: "root", Level: 1},
		{ID: 2, ParentID: 1, Name: "mid", Level: 2},
		{ID: 3, ParentID: 2, Name: "leaf", Level: 3},
		{ID: 4, ParentID: 99, Name: "orphan", Level: 3},
		{ID: 5, ParentID: 6, Name: "loop-a", Level: 2},
		{ID: 6, ParentID: 5, Name: "loop-b", Level: 2},
	}

	cases := []struct {
		name string
		id   uint
		want string
	}{
		{"full chain", 3, "root > mid > leaf"},
		{"root only", 1, "root"},
		{"dangling parent", 4, "orphan"},
		{"missing category", 42, ""},
		{"cycle", 5, "loop-b > loop-a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CategoryPath(categories, tc.id); got != tc.want {
				t.Fatalf("CategoryPath(%d) = %q, want %q", tc.id, got, tc.want)
			}
		})
	}
}

func TestBuildCategoryTreeOrdering(t *testing.T) {
	categories := []models.Category{
		{ID: 3, ParentID: 1, Name: "b", Level: 2, SortOrder: 2},
		{ID: 1, ParentID: 0, Name: "root", Level: 1},
		{ID: 2, ParentID: 1, Name: "a", Level: 2, SortOrder: 2},
		{ID: 4, ParentID: 1, Name: "first", Level: 2, SortOrder: 1},
		{ID: 5, ParentID: 77, Name: "orphan", Level: 2},
	}

	tree := BuildCategoryTree(categories)
	if len(tree) != 1 || tree[0].ID != 1 {
		t.Fatalf("unexpected roots %+v", tree)
	}
	var got []uint
	for _, child := range tree[0].Children {
		got = append(got, child.ID)
	}
	want := []uint{4, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children = %v, want %v", got, want)
		}
	}
}

func TestCategoryCreateValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", models.RoleAdmin)
	user := env.createUser(t, "user", models.RoleUser)

	_, err := env.svc.Category.Create(ctx, user, CreateCategoryInput{Name: "x", Level: 1})
	assertCode(t, err, CodeForbidden)

	root, err := env.svc.Category.Create(ctx, admin, CreateCategoryInput{Name: "根", Level: 1})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}

	cases := []struct {
		name  string
		input CreateCategoryInput
		code  Code
	}{
		{"empty name", CreateCategoryInput{Name: " ", Level: 1}, CodeValidation},
		{"level too deep", CreateCategoryInput{Name: "x", Level: 4, ParentID: root.ID}, CodeValidation},
		{"root must be level 1", CreateCategoryInput{Name: "x", Level: 2}, CodeValidation},
		{"missing parent", CreateCategoryInput{Name: "x", Level: 2, ParentID: 999}, CodeNotFound},
		{"skipped level", CreateCategoryInput{Name: "x", Level: 3, ParentID: root.ID}, CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Category.Create(ctx, admin, tc.input)
			assertCode(t, err, tc.code)
		})
	}

	child, err := env.svc.Category.Create(ctx, admin, CreateCategoryInput{Name: "子", Level: 2, ParentID: root.ID})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	path, err := env.svc.Category.Path(ctx, child.ID)
	if err != nil || path != "根 > 子" {
		t.Fatalf("path = %q, %v", path, err)
	}

	name := "孩子"
	if err := env.svc.Category.Update(ctx, admin, child.ID, UpdateCategoryInput{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	children, err := env.svc.Category.GetChildren(ctx, root.ID)
	if err != nil || len(children) != 1 || children[0].Name != "孩子" {
		t.Fatalf("children = %v, %v", children, err)
	}

	if err := env.svc.Category.Delete(ctx, admin, root.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tree, err := env.svc.Category.GetAll(ctx)
	if err != nil || len(tree) != 0 {
		t.Fatalf("tree after deleting root = %v, %v", tree, err)
	}
}
