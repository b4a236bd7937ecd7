package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mobimart/mobimart-backend/pkg/db/models"
	"github.com/mobimart/mobimart-backend/pkg/enums"
	"github.com/mobimart/mobimart-backend/pkg/pagination"
	"github.com/mobimart/mobimart-backend/pkg/types"
)

// Repository encapsulates catalog persistence for both item collections.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindProductByID loads the product without associations.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindAccessoryByID loads the accessory without associations.
func (r *Repository) FindAccessoryByID(ctx context.Context, id uuid.UUID) (*models.Accessory, error) {
	var accessory models.Accessory
	if err := r.db.WithContext(ctx).First(&accessory, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &accessory, nil
}

// ProductExists reports whether a product row exists for the id.
func (r *Repository) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Count(&count).
		Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AccessoryExists reports whether an accessory row exists for the id.
func (r *Repository) AccessoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Accessory{}).
		Where("id = ?", id).
		Count(&count).
		Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListProducts returns one cursor page of products matching the filter.
func (r *Repository) ListProducts(ctx context.Context, filter ListFilter, cursor string, limit int) (ProductsPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	cursorValue := strings.TrimSpace(cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return ProductsPageDTO{}, err
	}

	query := r.db.WithContext(ctx).Model(&models.Product{})
	query = applyFilter(query, filter)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []models.Product
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&records).Error; err != nil {
		return ProductsPageDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	total, err := r.countProducts(ctx, filter)
	if err != nil {
		return ProductsPageDTO{}, err
	}

	items := make([]ProductDTO, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, productToDTO(record))
	}

	return ProductsPageDTO{
		Products: items,
		Pagination: PageMeta{
			Total:   int(total),
			Current: cursorValue,
			Next:    nextCursor,
		},
	}, nil
}

// ListAccessories returns one cursor page of accessories matching the filter.
func (r *Repository) ListAccessories(ctx context.Context, filter ListFilter, cursor string, limit int) (AccessoriesPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	cursorValue := strings.TrimSpace(cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return AccessoriesPageDTO{}, err
	}

	query := r.db.WithContext(ctx).Model(&models.Accessory{})
	query = applyFilter(query, filter)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []models.Accessory
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&records).Error; err != nil {
		return AccessoriesPageDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	total, err := r.countAccessories(ctx, filter)
	if err != nil {
		return AccessoriesPageDTO{}, err
	}

	items := make([]AccessoryDTO, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, accessoryToDTO(record))
	}

	return AccessoriesPageDTO{
		Accessories: items,
		Pagination: PageMeta{
			Total:   int(total),
			Current: cursorValue,
			Next:    nextCursor,
		},
	}, nil
}

// FindSummaries hydrates the given references from both collections in two
// batched queries. References that no longer resolve are simply absent from
// the result map.
func (r *Repository) FindSummaries(ctx context.Context, refs []types.ItemRef) (map[types.ItemRef]ItemSummary, error) {
	productIDs := make([]uuid.UUID, 0, len(refs))
	accessoryIDs := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		switch ref.Kind {
		case enums.ItemKindProduct:
			productIDs = append(productIDs, ref.ID)
		case enums.ItemKindAccessory:
			accessoryIDs = append(accessoryIDs, ref.ID)
		}
	}

	summaries := make(map[types.ItemRef]ItemSummary, len(refs))

	if len(productIDs) > 0 {
		var products []models.Product
		if err := r.db.WithContext(ctx).
			Where("id IN ?", productIDs).
			Find(&products).
			Error; err != nil {
			return nil, err
		}
		for _, p := range products {
			summary := productSummary(p)
			summaries[summary.Ref] = summary
		}
	}

	if len(accessoryIDs) > 0 {
		var accessories []models.Accessory
		if err := r.db.WithContext(ctx).
			Where("id IN ?", accessoryIDs).
			Find(&accessories).
			Error; err != nil {
			return nil, err
		}
		for _, a := range accessories {
			summary := accessorySummary(a)
			summaries[summary.Ref] = summary
		}
	}

	return summaries, nil
}

func (r *Repository) countProducts(ctx context.Context, filter ListFilter) (int64, error) {
	var count int64
	query := applyFilter(r.db.WithContext(ctx).Model(&models.Product{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) countAccessories(ctx context.Context, filter ListFilter) (int64, error) {
	var count int64
	query := applyFilter(r.db.WithContext(ctx).Model(&models.Accessory{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyFilter(query *gorm.DB, filter ListFilter) *gorm.DB {
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.OffersOnly {
		query = query.Where("is_offer = ?", true)
	}
	if filter.BestSellersOnly {
		query = query.Where("is_best_seller = ?", true)
	}
	return query
}
