package category

import (
	"context"
	"errors"
	"strings"

	custom_error "securestock/pkg/errors"
	"securestock/pkg/metadata"
	"securestock/pkg/models"
)

var (
	ErrCategoryInUse  = errors.New("category still has stock items")
	ErrNameTaken      = errors.New("a category with this name already exists")
	ErrNameRequired   = errors.New("name is required")
	ErrNothingToPatch = errors.New("no fields to update")
)

// warningRatio widens the critical band: a category is in warning while
// available stays within 1.5x of its threshold.
const warningRatio = 1.5

type CategoryService struct {
	repository CategoryRepository
}

func NewCategoryService(r CategoryRepository) *CategoryService {
	return &CategoryService{repository: r}
}

func (s *CategoryService) GetCategories(ctx context.Context) ([]models.StockCategory, error) {
	return s.repository.GetCategories(ctx)
}

func (s *CategoryService) CreateCategory(ctx context.Context, req models.StockCategoryRequest) (*models.StockCategory, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	category := &models.StockCategory{Name: name}
	if req.CriticalThreshold != nil {
		category.CriticalThreshold = *req.CriticalThreshold
	}

	if err := s.repository.PersistCategory(ctx, category); err != nil {
		if custom_error.IsUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	return category, nil
}

// UpdateCategory renames or re-thresholds a category. Items follow a rename
// through the foreign key.
func (s *CategoryService) UpdateCategory(ctx context.Context, req models.PatchStockCategoryRequest) (*models.StockCategory, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		updates["name"] = name
	}
	if req.CriticalThreshold != nil {
		updates["critical_threshold"] = *req.CriticalThreshold
	}

	if len(updates) == 0 {
		return nil, ErrNothingToPatch
	}

	if err := s.repository.UpdateCategory(ctx, req.ID, updates); err != nil {
		if custom_error.IsUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	return s.repository.GetCategory(ctx, req.ID)
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id string) (*models.StockCategory, error) {
	category, err := s.repository.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	inUse, err := s.repository.HasRelatedItems(ctx, category.Name)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, ErrCategoryInUse
	}

	if err := s.repository.DeleteCategory(ctx, id); err != nil {
		if custom_error.IsForeignKeyViolation(err) {
			return nil, ErrCategoryInUse
		}
		return nil, err
	}

	return category, nil
}

// Summary returns one row per category, including categories with no items.
func (s *CategoryService) Summary(ctx context.Context) ([]models.CategorySummary, error) {
	categories, err := s.repository.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.repository.GetStockCounts(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]models.CategoryStockCount, len(counts))
	for _, count := range counts {
		byCategory[count.Category] = count
	}

	summary := make([]models.CategorySummary, 0, len(categories))
	for _, category := range categories {
		count := byCategory[category.Name]
		summary = append(summary, models.CategorySummary{
			Name:              category.Name,
			CriticalThreshold: category.CriticalThreshold,
			Total:             count.Total,
			Available:         count.Available,
			Allocated:         count.Allocated,
			InMaintenance:     count.InMaintenance,
			Level:             ClassifyLevel(count.Available, category.CriticalThreshold),
		})
	}

	return summary, nil
}

// ClassifyLevel maps available stock against a threshold:
// critical at or below the threshold, warning up to 1.5x of it.
func ClassifyLevel(available, threshold int) metadata.StockLevel {
	switch {
	case available <= threshold:
		return metadata.StockLevelCritical
	case float64(available) <= float64(threshold)*warningRatio:
		return metadata.StockLevelWarning
	default:
		return metadata.StockLevelNone
	}
}

// CountCritical returns how many summary rows are at the critical level.
func CountCritical(summary []models.CategorySummary) int {
	critical := 0
	for _, row := range summary {
		if row.Level == metadata.StockLevelCritical {
			critical++
		}
	}
	return critical
}
