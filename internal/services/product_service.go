// internal/services/product_service.go
package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/danalakshmi/freshtrack-backend/internal/apperrors"
	"github.com/danalakshmi/freshtrack-backend/internal/models"
	"github.com/danalakshmi/freshtrack-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Barcode     *string `json:"barcode,omitempty" validate:"omitempty,barcode"`
	Category    string  `json:"category" validate:"required,max=100"`
	Description string  `json:"description,omitempty"`
	Brand       string  `json:"brand,omitempty" validate:"omitempty,max=100"`
	Unit        string  `json:"unit" validate:"required,unit"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Barcode     *string `json:"barcode,omitempty" validate:"omitempty,barcode"`
	Category    *string `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	Brand       *string `json:"brand,omitempty" validate:"omitempty,max=100"`
	Unit        *string `json:"unit,omitempty" validate:"omitempty,unit"`
	Active      *bool   `json:"active,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	Active  *bool   `json:"active,omitempty"`
	Barcode *string `json:"barcode,omitempty"`
}

const maxSearchResults = 50

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) Create(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	if req.Barcode != nil {
		if taken, err := s.barcodeTaken(*req.Barcode, nil); err != nil {
			return nil, err
		} else if taken {
			return nil, apperrors.Conflict("a product with this barcode already exists")
		}
	}

	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Barcode:     req.Barcode,
		Category:    req.Category,
		Description: req.Description,
		Brand:       req.Brand,
		Unit:        models.UnitOfMeasure(req.Unit),
		Active:      true,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.Storage("failed to create product", err)
	}

	return product, nil
}

func (s *ProductService) Get(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.Storage("failed to fetch product", err)
	}
	return &product, nil
}

func (s *ProductService) Update(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Barcode != nil {
		if taken, err := s.barcodeTaken(*req.Barcode, &id); err != nil {
			return nil, err
		} else if taken {
			return nil, apperrors.Conflict("a product with this barcode already exists")
		}
		product.Barcode = req.Barcode
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Unit != nil {
		product.Unit = models.UnitOfMeasure(*req.Unit)
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, apperrors.Storage("failed to update product", err)
	}

	return product, nil
}

// Delete soft-deletes a product. Refused while any active lot still
// references it.
func (s *ProductService) Delete(id uuid.UUID) error {
	product, err := s.Get(id)
	if err != nil {
		return err
	}

	var activeLots int64
	if err := s.db.Model(&models.Lot{}).
		Where("product_id = ? AND status = ?", id, models.LotStatusActive).
		Count(&activeLots).Error; err != nil {
		return apperrors.Storage("failed to check active lots", err)
	}

	if activeLots > 0 {
		return apperrors.Conflict("cannot delete a product with active lots")
	}

	product.Active = false
	if err := s.db.Save(product).Error; err != nil {
		return apperrors.Storage("failed to delete product", err)
	}

	return nil
}

func (s *ProductService) List(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	} else {
		// Default to active products only
		query = query.Where("active = ?", true)
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.Barcode != nil {
		query = query.Where("barcode = ?", *params.Barcode)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(COALESCE(barcode, '')) LIKE ? OR LOWER(category) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Storage("failed to count products", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "category"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, apperrors.Storage("failed to fetch products", err)
	}

	return products, total, nil
}

// Search returns active products matching term on name, barcode or
// category. Name-prefix matches rank first, then alphabetical.
func (s *ProductService) Search(term string, limit int) ([]models.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.Validation("search term is required")
	}
	if limit < 1 || limit > maxSearchResults {
		limit = maxSearchResults
	}

	searchTerm := "%" + strings.ToLower(term) + "%"
	var products []models.Product
	err := s.db.Where("active = ?", true).
		Where(
			"LOWER(name) LIKE ? OR LOWER(COALESCE(barcode, '')) LIKE ? OR LOWER(category) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		).
		Order(searchOrder(term)).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, apperrors.Storage("failed to search products", err)
	}

	RankSearchResults(products, term)
	return products, nil
}

// searchOrder ranks name-prefix matches ahead of other matches in the
// database, before the limit is applied. Without it a large match set
// could push prefix hits out of the returned page entirely.
func searchOrder(term string) clause.OrderBy {
	prefix := strings.ToLower(term) + "%"
	return clause.OrderBy{
		Expression: clause.Expr{
			SQL:                "CASE WHEN LOWER(name) LIKE ? THEN 1 ELSE 2 END, LOWER(name) ASC",
			Vars:               []interface{}{prefix},
			WithoutParentheses: true,
		},
	}
}

// RankSearchResults orders products so that exact name-prefix matches
// come first, alphabetically within each group.
func RankSearchResults(products []models.Product, term string) {
	lowerTerm := strings.ToLower(term)
	sort.SliceStable(products, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(products[i].Name), lowerTerm)
		pj := strings.HasPrefix(strings.ToLower(products[j].Name), lowerTerm)
		if pi != pj {
			return pi
		}
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
}

// ListCategories returns the distinct categories of active products.
func (s *ProductService) ListCategories() ([]string, error) {
	var categories []string
	err := s.db.Model(&models.Product{}).
		Where("active = ? AND category <> ''", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, apperrors.Storage("failed to fetch categories", err)
	}
	return categories, nil
}

func (s *ProductService) barcodeTaken(barcode string, excludeID *uuid.UUID) (bool, error) {
	query := s.db.Model(&models.Product{}).Where("barcode = ?", barcode)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, apperrors.Storage("failed to check barcode", err)
	}
	return count > 0, nil
}
