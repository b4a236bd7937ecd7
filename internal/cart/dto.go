package cart

import (
	"github.com/shopspring/decimal"

	"github.com/mobimart/mobimart-backend/internal/catalog"
	"github.com/mobimart/mobimart-backend/pkg/types"
)

// LineDTO is one hydrated cart line.
type LineDTO struct {
	Ref       types.ItemRef   `json:"ref"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
	InStock   bool            `json:"in_stock"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartDTO is the full hydrated cart.
type CartDTO struct {
	Items         []LineDTO       `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// RawLine is an untrusted replacement line from the client.
type RawLine struct {
	Item     catalog.RawRef `json:"item"`
	Quantity int            `json:"quantity"`
}

func buildCartDTO(lines []Line, summaries map[types.ItemRef]catalog.ItemSummary) (CartDTO, []types.ItemRef) {
	items := make([]LineDTO, 0, len(lines))
	totalQuantity := 0
	subtotal := decimal.Zero
	var skipped []types.ItemRef

	for _, line := range lines {
		summary, ok := summaries[line.Ref]
		if !ok {
			// The listing was removed from the catalog after the line was
			// written; drop it from the view.
			skipped = append(skipped, line.Ref)
			continue
		}
		lineTotal := summary.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, LineDTO{
			Ref:       line.Ref,
			Name:      summary.Name,
			Price:     summary.Price,
			Image:     summary.Image,
			Category:  summary.Category,
			InStock:   summary.InStock,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
		totalQuantity += line.Quantity
		subtotal = subtotal.Add(lineTotal)
	}

	return CartDTO{
		Items:         items,
		TotalQuantity: totalQuantity,
		Subtotal:      subtotal,
	}, skipped
}
