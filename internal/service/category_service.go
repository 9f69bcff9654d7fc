package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"helpdesk/api/internal/ids"
	"helpdesk/api/internal/models"
)

var (
	ErrNameRequired    = errors.New("category name is required")
	ErrContactNotStaff = errors.New("contact person must have staff role")
	ErrParentCycle     = errors.New("parent link would create a cycle")
)

// maxTreeDepth bounds the ancestor walk during cycle detection and the
// recursive tree build.
const maxTreeDepth = 100

// StaffDirectory answers whether an account id names a staff account.
// Satisfied by AccountService.
type StaffDirectory interface {
	IsStaff(ctx context.Context, id string) (bool, error)
}

type CategoryService struct {
	categories CategoryStore
	staff      StaffDirectory
	log        zerolog.Logger
}

func NewCategoryService(categories CategoryStore, staff StaffDirectory, log zerolog.Logger) *CategoryService {
	return &CategoryService{categories: categories, staff: staff, log: log}
}

type CategoryInput struct {
	Name            string
	Answer          *string
	ContactPersonID *string
	ParentID        *string
	Active          *bool
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (models.Category, error) {
	if input.Name == "" {
		return models.Category{}, ErrNameRequired
	}
	if err := s.validateLinks(ctx, "", input); err != nil {
		return models.Category{}, err
	}

	category := models.Category{
		ID:              ids.New(),
		Name:            input.Name,
		Answer:          input.Answer,
		ContactPersonID: input.ContactPersonID,
		ParentID:        input.ParentID,
		Active:          true,
	}
	if input.Active != nil {
		category.Active = *input.Active
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, input CategoryInput) (models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return models.Category{}, err
	}

	if input.Name == "" {
		return models.Category{}, ErrNameRequired
	}
	if err := s.validateLinks(ctx, id, input); err != nil {
		return models.Category{}, err
	}

	category.Name = input.Name
	category.Answer = input.Answer
	category.ContactPersonID = input.ContactPersonID
	category.ParentID = input.ParentID
	if input.Active != nil {
		category.Active = *input.Active
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

// CategoryPatch carries only the fields the caller supplied; nil fields keep
// their stored value.
type CategoryPatch struct {
	Name            *string
	Answer          *string
	ContactPersonID *string
	ParentID        *string
	Active          *bool
}

// Patch applies a partial update. Supplied links go through the same
// contact-person and cycle checks as a full update.
func (s *CategoryService) Patch(ctx context.Context, id string, patch CategoryPatch) (models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return models.Category{}, err
	}

	if patch.Name != nil && *patch.Name == "" {
		return models.Category{}, ErrNameRequired
	}
	if err := s.validateLinks(ctx, id, CategoryInput{
		ContactPersonID: patch.ContactPersonID,
		ParentID:        patch.ParentID,
	}); err != nil {
		return models.Category{}, err
	}

	if patch.Name != nil {
		category.Name = *patch.Name
	}
	if patch.Answer != nil {
		category.Answer = patch.Answer
	}
	if patch.ContactPersonID != nil {
		category.ContactPersonID = patch.ContactPersonID
	}
	if patch.ParentID != nil {
		category.ParentID = patch.ParentID
	}
	if patch.Active != nil {
		category.Active = *patch.Active
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}

// validateLinks checks the contact-person role and, when a parent is set,
// that the link keeps the tree acyclic. id is empty on create.
func (s *CategoryService) validateLinks(ctx context.Context, id string, input CategoryInput) error {
	if input.ContactPersonID != nil {
		staff, err := s.staff.IsStaff(ctx, *input.ContactPersonID)
		if err != nil {
			return fmt.Errorf("contact person lookup: %w", err)
		}
		if !staff {
			return ErrContactNotStaff
		}
	}

	if input.ParentID != nil {
		if err := s.checkAcyclic(ctx, id, *input.ParentID); err != nil {
			return err
		}
	}
	return nil
}

// checkAcyclic walks the ancestor chain from the proposed parent and rejects
// the link if it revisits the node being written.
func (s *CategoryService) checkAcyclic(ctx context.Context, id string, parentID string) error {
	current := parentID
	for depth := 0; depth < maxTreeDepth; depth++ {
		if current == id {
			return ErrParentCycle
		}
		parent, err := s.categories.GetByID(ctx, current)
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
	return fmt.Errorf("ancestor chain deeper than %d: %w", maxTreeDepth, ErrParentCycle)
}

func (s *CategoryService) Get(ctx context.Context, id string) (models.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *CategoryService) ListParents(ctx context.Context) ([]models.Category, error) {
	return s.categories.ListParents(ctx)
}

func (s *CategoryService) ListLeaves(ctx context.Context) ([]models.Category, error) {
	return s.categories.ListLeaves(ctx)
}

func (s *CategoryService) ListRoots(ctx context.Context) ([]models.CategoryNode, error) {
	all, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	children := childIndex(all)
	var roots []models.CategoryNode
	for _, category := range all {
		if category.ParentID == nil {
			roots = append(roots, buildNode(category, children, 0))
		}
	}
	return roots, nil
}

// Tree returns the category with its subcategories expanded recursively.
func (s *CategoryService) Tree(ctx context.Context, id string) (models.CategoryNode, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return models.CategoryNode{}, err
	}

	all, err := s.categories.ListAll(ctx)
	if err != nil {
		return models.CategoryNode{}, err
	}

	return buildNode(category, childIndex(all), 0), nil
}

func childIndex(categories []models.Category) map[string][]models.Category {
	index := make(map[string][]models.Category)
	for _, category := range categories {
		if category.ParentID != nil {
			index[*category.ParentID] = append(index[*category.ParentID], category)
		}
	}
	return index
}

func buildNode(category models.Category, children map[string][]models.Category, depth int) models.CategoryNode {
	node := models.CategoryNode{Category: category}
	if depth >= maxTreeDepth {
		return node
	}
	for _, child := range children[category.ID] {
		node.Subcategories = append(node.Subcategories, buildNode(child, children, depth+1))
	}
	node.HasSubcategories = len(node.Subcategories) > 0
	return node
}
