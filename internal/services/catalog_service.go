package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	productImageFolder  = "products"
	imageCleanupWorkers = 4
)

var productSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
	"sales":     "sales",
	"views":     "views",
}

// CatalogService manages products and their stored images.
type CatalogService struct {
	products repository.ProductRepository
	store    storage.Store
}

func NewCatalogService(products repository.ProductRepository, store storage.Store) *CatalogService {
	return &CatalogService{products: products, store: store}
}

func (s *CatalogService) Create(ctx context.Context, in *dto.ProductInput, uploads []storage.Upload) (*models.Product, error) {
	urls, err := saveUploads(ctx, s.store, productImageFolder, uploads)
	if err != nil {
		return nil, err
	}
	p, err := newProduct(in)
	if err != nil {
		removeStored(ctx, s.store, urls)
		return nil, err
	}
	p.Image = append(p.Image, urls...)

	if err := s.products.Create(ctx, p); err != nil {
		removeStored(ctx, s.store, urls)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

// CreateBulk inserts all products or none.
func (s *CatalogService) CreateBulk(ctx context.Context, inputs []*dto.ProductInput) ([]models.Product, error) {
	if len(inputs) == 0 {
		return nil, invalid("Request body must be a non-empty array of products")
	}
	products := make([]models.Product, 0, len(inputs))
	for i, in := range inputs {
		p, err := newProduct(in)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return nil, invalid("Product %d: %s", i+1, ve.Message)
			}
			return nil, err
		}
		products = append(products, *p)
	}
	if err := s.products.CreateMany(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to insert products: %w", err)
	}
	return products, nil
}

// Get loads a product. Public reads count as a view.
func (s *CatalogService) Get(ctx context.Context, id uuid.UUID, countView bool) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if countView {
		if err := s.products.IncrementViews(ctx, id); err != nil {
			slog.Warn("failed to count product view", "component", "catalog", "product_id", id.String(), "error", err)
		} else {
			p.Views++
		}
	}
	return p, nil
}

type ProductListInput struct {
	Category string
	Brand    string
	Status   string
	Search   string
	Featured *bool
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	ListParams
}

func (s *CatalogService) List(ctx context.Context, in ProductListInput) ([]models.Product, int64, repository.Page, error) {
	page := in.page()
	products, total, err := s.products.List(ctx, repository.ProductFilter{
		Category: in.Category,
		Brand:    in.Brand,
		Status:   in.Status,
		Search:   strings.TrimSpace(in.Search),
		Featured: in.Featured,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Page:     page,
		Sort:     in.sort(productSortColumns),
	})
	if err != nil {
		return nil, 0, page, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, page, nil
}

// Update applies a partial edit. New uploads are stored first and merged
// according to the image flags; images no longer referenced are removed
// from storage after the row is saved.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, in *dto.ProductInput, uploads []storage.Upload) (*models.Product, error) {
	urls, err := saveUploads(ctx, s.store, productImageFolder, uploads)
	if err != nil {
		return nil, err
	}

	var before []string
	p, err := s.products.Mutate(ctx, id, func(p *models.Product) error {
		before = append([]string(nil), p.Image...)
		in.Apply(p)
		if images, ok := mergeImages(in, urls); ok {
			p.Image = images
		}
		if err := checkProduct(p); err != nil {
			return err
		}
		p.SyncStockStatus()
		return nil
	})
	if err != nil {
		removeStored(ctx, s.store, urls)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		if errors.Is(err, ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.removeImages(ctx, dropped(before, p.Image))
	return p, nil
}

// Delete removes the product and then its stored images.
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.products.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.removeImages(ctx, p.Image)
	return nil
}

func (s *CatalogService) removeImages(ctx context.Context, locators []string) {
	if len(locators) == 0 {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imageCleanupWorkers)
	for _, loc := range locators {
		loc := loc
		g.Go(func() error {
			if err := s.store.Delete(gctx, loc); err != nil {
				slog.Warn("failed to remove product image", "component", "catalog", "locator", loc, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// mergeImages resolves the final image list for an update. The flags are
// checked in order: removeAllImages, replaceImages, then existing plus new.
func mergeImages(in *dto.ProductInput, uploaded []string) ([]string, bool) {
	switch {
	case in.RemoveAllImages:
		return []string{}, true
	case in.ReplaceImages:
		return append([]string{}, uploaded...), true
	case len(in.ExistingImages) > 0 || len(uploaded) > 0:
		return append(append([]string{}, in.ExistingImages...), uploaded...), true
	case in.ImageSet:
		return in.Image, true
	}
	return nil, false
}

func dropped(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, a := range after {
		keep[a] = struct{}{}
	}
	var out []string
	for _, b := range before {
		if _, ok := keep[b]; !ok {
			out = append(out, b)
		}
	}
	return out
}

func newProduct(in *dto.ProductInput) (*models.Product, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, invalid("Product name is required")
	}
	if in.Price == nil {
		return nil, invalid("Product price is required")
	}
	p := &models.Product{
		ID:           uuid.New(),
		UnitType:     models.DefaultUnitType,
		Status:       models.ProductActive,
		Image:        []string{},
		MetaKeywords: []string{},
		Details:      map[string]any{},
	}
	in.Apply(p)
	if in.ImageSet {
		p.Image = append([]string{}, in.Image...)
	}
	if err := checkProduct(p); err != nil {
		return nil, err
	}
	p.SyncStockStatus()
	return p, nil
}

func checkProduct(p *models.Product) error {
	switch p.Status {
	case "", models.ProductActive, models.ProductInactive, models.ProductOutOfStock:
	default:
		return invalid("Status must be one of: active, inactive, out-of-stock")
	}
	if p.Stock < 0 {
		return invalid("Stock cannot be negative")
	}
	for _, v := range p.Variants {
		if v.Quantity < 1 {
			return invalid("Variant quantity must be at least 1")
		}
		if v.Discount.IsNegative() || v.Discount.GreaterThan(hundred) {
			return invalid("Variant discount must be between 0 and 100")
		}
	}
	return nil
}
