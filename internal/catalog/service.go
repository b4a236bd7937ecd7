package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/mobimart/mobimart-backend/pkg/errors"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes read operations over both catalog collections.
type Service interface {
	ListProducts(ctx context.Context, filter ListFilter, cursor string, limit int) (ProductsPageDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (ProductDTO, error)
	ListAccessories(ctx context.Context, filter ListFilter, cursor string, limit int) (AccessoriesPageDTO, error)
	GetAccessory(ctx context.Context, id uuid.UUID) (AccessoryDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// ListProducts returns a paginated slice of the primary collection.
func (s *service) ListProducts(ctx context.Context, filter ListFilter, cursor string, limit int) (ProductsPageDTO, error) {
	page, err := s.repo.ListProducts(ctx, filter, cursor, limit)
	if err != nil {
		return ProductsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return page, nil
}

// GetProduct loads one product by id.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (ProductDTO, error) {
	if id == uuid.Nil {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return productToDTO(*product), nil
}

// ListAccessories returns a paginated slice of the secondary collection.
func (s *service) ListAccessories(ctx context.Context, filter ListFilter, cursor string, limit int) (AccessoriesPageDTO, error) {
	page, err := s.repo.ListAccessories(ctx, filter, cursor, limit)
	if err != nil {
		return AccessoriesPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list accessories")
	}
	return page, nil
}

// GetAccessory loads one accessory by id.
func (s *service) GetAccessory(ctx context.Context, id uuid.UUID) (AccessoryDTO, error) {
	if id == uuid.Nil {
		return AccessoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "accessory id is required")
	}
	accessory, err := s.repo.FindAccessoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccessoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "accessory not found")
		}
		return AccessoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load accessory")
	}
	return accessoryToDTO(*accessory), nil
}
