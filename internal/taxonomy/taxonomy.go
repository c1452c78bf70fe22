// Package taxonomy manages the category/term hierarchy used to tag personas.
package taxonomy

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/voxarena/voxarena/internal/core"
	"github.com/voxarena/voxarena/internal/storage"
)

// Service provides taxonomy term and category operations.
type Service struct {
	store storage.Storage
}

// NewService creates a taxonomy service backed by the given store.
func NewService(store storage.Storage) *Service {
	return &Service{store: store}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9-]`)
var slugSeparators = regexp.MustCompile(`\s+`)

// Slugify converts a term into its URL-safe slug.
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = slugSeparators.ReplaceAllString(s, "-")
	return nonSlugChars.ReplaceAllString(s, "")
}

var nonKeyChars = regexp.MustCompile(`[^a-z0-9]+`)

// CategoryKey derives a canonical category key from a display name.
func CategoryKey(fullName string) string {
	s := strings.ToLower(strings.TrimSpace(fullName))
	s = nonKeyChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ResolveCategory resolves a caller-supplied category alias, matching the
// canonical key first and falling back to the display full name. Returns
// (nil, nil) when nothing matches; creation paths then keep the raw input
// so legacy free-text categories keep working.
func (s *Service) ResolveCategory(input string) (*core.Category, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		return nil, nil
	}
	return s.store.FindCategory(value)
}

/* -------------------------------- terms -------------------------------- */

// TermInput carries a term create/update payload. Nil fields are untouched
// on update.
type TermInput struct {
	Term        *string `json:"term"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// CreateTerm stores a new term. The category may be a key or a full name;
// the canonical key is persisted when it resolves.
func (s *Service) CreateTerm(in TermInput) (*core.Term, error) {
	term := ""
	if in.Term != nil {
		term = strings.TrimSpace(*in.Term)
	}
	categoryInput := ""
	if in.Category != nil {
		categoryInput = strings.TrimSpace(*in.Category)
	}
	if term == "" {
		return nil, &core.ValidationError{Message: "Term is required"}
	}
	if categoryInput == "" {
		return nil, &core.ValidationError{Message: "Category is required"}
	}

	cat, err := s.ResolveCategory(categoryInput)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	t := &core.Term{
		ID:        core.GenerateID(),
		Term:      term,
		Slug:      Slugify(term),
		Category:  categoryInput,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if cat != nil {
		t.Category = cat.Key
		t.CategoryID = cat.ID
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}

	if err := s.store.CreateTerm(t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTerm returns a term or ErrNotFound.
func (s *Service) GetTerm(id string) (*core.Term, error) {
	t, err := s.store.GetTerm(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load term: %w", err)
	}
	if t == nil {
		return nil, core.ErrNotFound
	}
	return t, nil
}

// UpdateTerm applies a partial update. A term rename re-generates the slug;
// a category change stores the canonical key when it resolves.
func (s *Service) UpdateTerm(id string, in TermInput) (*core.Term, error) {
	t, err := s.GetTerm(id)
	if err != nil {
		return nil, err
	}

	if in.Term != nil {
		term := strings.TrimSpace(*in.Term)
		if term == "" {
			return nil, &core.ValidationError{Message: "Term cannot be empty"}
		}
		t.Term = term
		t.Slug = Slugify(term)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		cat, err := s.ResolveCategory(*in.Category)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
		if cat != nil {
			t.Category = cat.Key
			t.CategoryID = cat.ID
		} else {
			t.Category = strings.TrimSpace(*in.Category)
			t.CategoryID = ""
		}
	}

	if err := s.store.UpdateTerm(t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTerm removes a term.
func (s *Service) DeleteTerm(id string) error {
	if _, err := s.GetTerm(id); err != nil {
		return err
	}
	return s.store.DeleteTerm(id)
}

// TermPage is one page of terms for a category.
type TermPage struct {
	Items    []*core.Term `json:"items"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// ListTerms returns a page of terms for the given category alias. Terms are
// matched on the resolved category id, its canonical key, and the legacy
// full-name storage; an unresolvable alias still filters on the raw value.
func (s *Service) ListTerms(category string, page, pageSize int) (*TermPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	filter := core.TermFilter{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if category != "" {
		cat, err := s.ResolveCategory(category)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
		if cat != nil {
			filter.CategoryID = cat.ID
			filter.Category = []string{cat.Key, cat.FullName}
		} else {
			filter.Category = []string{category}
		}
	}

	items, total, err := s.store.ListTerms(filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*core.Term{}
	}
	return &TermPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

/* ------------------------------ categories ------------------------------ */

// CategoryInput carries a category create/update payload.
type CategoryInput struct {
	FullName    string `json:"full_name"`
	Key         string `json:"key"`
	Description string `json:"description"`
}

// CreateCategory stores a new category, deriving the key from the full name
// when the caller omits one.
func (s *Service) CreateCategory(in CategoryInput) (*core.Category, error) {
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, &core.ValidationError{Message: "Full name is required"}
	}

	key := strings.TrimSpace(in.Key)
	if key == "" {
		key = CategoryKey(fullName)
	}

	c := &core.Category{
		ID:          core.GenerateID(),
		Key:         key,
		FullName:    fullName,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateCategory(c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetCategory returns a category or ErrNotFound.
func (s *Service) GetCategory(id string) (*core.Category, error) {
	c, err := s.store.GetCategory(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if c == nil {
		return nil, core.ErrNotFound
	}
	return c, nil
}

// UpdateCategory renames a category. The key is only replaced when a
// non-empty one is supplied; terms already stored under the old key keep
// matching through their category_id link.
func (s *Service) UpdateCategory(id string, in CategoryInput) (*core.Category, error) {
	c, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, &core.ValidationError{Message: "Full name is required"}
	}
	c.FullName = fullName
	c.Description = in.Description
	if key := strings.TrimSpace(in.Key); key != "" {
		c.Key = key
	}

	if err := s.store.UpdateCategory(c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes a category together with its terms.
func (s *Service) DeleteCategory(id string) error {
	if _, err := s.GetCategory(id); err != nil {
		return err
	}
	return s.store.DeleteCategory(id)
}

// CategoryPage is one page of categories with term-usage counts.
type CategoryPage struct {
	Items    []*core.Category `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// ListCategories returns a page of categories ordered by full name.
func (s *Service) ListCategories(page, pageSize int) (*CategoryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	items, total, err := s.store.ListCategories(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*core.Category{}
	}
	return &CategoryPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}
