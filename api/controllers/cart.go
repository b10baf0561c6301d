package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/furnishd/furnishd-backend/api/responses"
	"github.com/furnishd/furnishd-backend/api/validators"
	"github.com/furnishd/furnishd-backend/internal/cart"
	"github.com/furnishd/furnishd-backend/pkg/logger"
)

type quoteCartRequest struct {
	Items []quoteCartLine `json:"items" validate:"required,min=1,dive"`
}

type quoteCartLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// QuoteCart reprices a client cart against the live catalog. The storefront
// calls this before checkout so stale snapshot prices get refreshed.
func QuoteCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload quoteCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]cart.QuoteLineInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			lines = append(lines, cart.QuoteLineInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		quote, err := svc.QuoteCart(r.Context(), lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}
