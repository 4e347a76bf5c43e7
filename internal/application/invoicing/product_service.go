package invoicing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/faktura/backend/internal/domain/invoicing"
)

// ProductService handles reusable line-item templates
type ProductService struct {
	productRepo invoicing.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo invoicing.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create creates a product template
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := invoicing.NewProduct(tenantID, req.Name, req.Description, req.DefaultUnitPrice)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", product.ID.String()))

	return toProductResponse(product), nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List returns all product templates of the tenant
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = *toProductResponse(&products[i])
	}
	return responses, nil
}

// Update applies a partial update to a product template. Invoices that
// copied the product earlier are unaffected.
func (s *ProductService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := product.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.DefaultUnitPrice != nil {
		product.DefaultUnitPrice = *req.DefaultUnitPrice
	}
	product.Touch()

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete removes a product template
func (s *ProductService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, tenantID, id)
}
