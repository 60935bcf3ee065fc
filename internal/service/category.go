package service

import (
	"context"
	"sort"
	"strings"

	"homophone_dict/internal/models"
	"homophone_dict/internal/repository"
	"homophone_dict/internal/utils"
)

// CategoryNode 分類樹中的一個節點
type CategoryNode struct {
	ID        uint            `json:"id"`
	ParentID  uint            `json:"parent_id"`
	Name      string          `json:"name"`
	Level     int             `json:"level"`
	SortOrder int             `json:"sort_order"`
	Children  []*CategoryNode `json:"children"`
}

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// GetAll 回傳完整的分類樹
func (s *CategoryService) GetAll(ctx context.Context) ([]*CategoryNode, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, internalError("讀取分類失敗", err)
	}
	return BuildCategoryTree(categories), nil
}

func (s *CategoryService) GetChildren(ctx context.Context, parentID uint) ([]models.Category, error) {
	categories, err := s.categoryRepo.FindByParentID(ctx, parentID)
	if err != nil {
		return nil, internalError("讀取子分類失敗", err)
	}
	return categories, nil
}

// Path 回傳 "一級 > 二級 > 三級" 形式的分類路徑
func (s *CategoryService) Path(ctx context.Context, categoryID uint) (string, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return "", internalError("讀取分類失敗", err)
	}
	return CategoryPath(categories, categoryID), nil
}

type CreateCategoryInput struct {
	ParentID  uint
	Name      string
	Level     int
	SortOrder int
}

func (s *CategoryService) Create(ctx context.Context, actor *Actor, input CreateCategoryInput) (*models.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	name := utils.SanitizeInput(input.Name, 100)
	if name == "" {
		return nil, validationError("分類名稱不能為空")
	}
	if input.Level < 1 || input.Level > models.MaxCategoryLevel {
		return nil, validationError("分類層級必須在 1 到 3 之間")
	}

	if input.ParentID == 0 {
		if input.Level != 1 {
			return nil, validationError("一級分類的層級必須為 1")
		}
	} else {
		parent, err := s.categoryRepo.FindByID(ctx, input.ParentID)
		if err != nil {
			return nil, storeError(err, "上級分類不存在", "讀取上級分類失敗")
		}
		if parent.Level != input.Level-1 {
			return nil, validationError("分類層級必須比上級分類多一級")
		}
	}

	category := &models.Category{
		ParentID:  input.ParentID,
		Name:      name,
		Level:     input.Level,
		SortOrder: input.SortOrder,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, internalError("創建分類失敗", err)
	}
	return category, nil
}

type UpdateCategoryInput struct {
	Name      *string
	SortOrder *int
}

// Update 只允許修改名稱與排序權重
func (s *CategoryService) Update(ctx context.Context, actor *Actor, id uint, input UpdateCategoryInput) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return storeError(err, "分類不存在", "讀取分類失敗")
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		name := utils.SanitizeInput(*input.Name, 100)
		if name == "" {
			return validationError("分類名稱不能為空")
		}
		fields["name"] = name
	}
	if input.SortOrder != nil {
		fields["sort_order"] = *input.SortOrder
	}
	if len(fields) == 0 {
		return nil
	}
	if _, err := s.categoryRepo.Update(ctx, id, fields); err != nil {
		return internalError("更新分類失敗", err)
	}
	return nil
}

// Delete 不會連帶刪除子分類或詞條，懸空的分類 ID 由讀取端容忍
func (s *CategoryService) Delete(ctx context.Context, actor *Actor, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	n, err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		return internalError("刪除分類失敗", err)
	}
	if n == 0 {
		return notFoundError("分類不存在")
	}
	return nil
}

// BuildCategoryTree 將平面的分類列表組成樹。
// 同層節點依 SortOrder 排序，相同時以 ID 排序；上級不存在的節點不會出現在樹中。
func BuildCategoryTree(categories []models.Category) []*CategoryNode {
	sorted := make([]models.Category, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].ID < sorted[j].ID
	})

	nodes := make(map[uint]*CategoryNode, len(sorted))
	for _, c := range sorted {
		nodes[c.ID] = &CategoryNode{
			ID:        c.ID,
			ParentID:  c.ParentID,
			Name:      c.Name,
			Level:     c.Level,
			SortOrder: c.SortOrder,
			Children:  []*CategoryNode{},
		}
	}

	roots := []*CategoryNode{}
	for _, c := range sorted {
		node := nodes[c.ID]
		if c.ParentID == 0 {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[c.ParentID]; ok && parent != node {
			parent.Children = append(parent.Children, node)
		}
	}
	return roots
}

// CategoryPath 沿上級分類往上走到根節點，回傳由根到葉的路徑。
// 遇到懸空的上級 ID 或環狀引用時停止，回傳已經走過的部分。
func CategoryPath(categories []models.Category, categoryID uint) string {
	byID := make(map[uint]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	var names []string
	visited := map[uint]bool{}
	current, ok := byID[categoryID]
	for ok && !visited[current.ID] {
		visited[current.ID] = true
		names = append(names, current.Name)
		if current.ParentID == 0 {
			break
		}
		current, ok = byID[current.ParentID]
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " > ")
}
