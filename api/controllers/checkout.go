package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/furnishd/furnishd-backend/api/middleware"
	"github.com/furnishd/furnishd-backend/api/responses"
	"github.com/furnishd/furnishd-backend/api/validators"
	"github.com/furnishd/furnishd-backend/internal/checkout"
	"github.com/furnishd/furnishd-backend/pkg/logger"
)

type placeOrderData struct {
	// UserID is accepted on the wire but never trusted; linkage comes from
	// the presented token below.
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	CustomerName    string     `json:"customer_name,omitempty"`
	CustomerEmail   string     `json:"customer_email,omitempty" validate:"omitempty,email"`
	Phone           string     `json:"phone" validate:"required"`
	ShippingAddress string     `json:"shipping_address" validate:"required"`
	TotalAmount     float64    `json:"total_amount" validate:"required,gt=0"`
}

type placeOrderLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type placeOrderRequest struct {
	OrderData  placeOrderData   `json:"orderData"`
	OrderItems []placeOrderLine `json:"orderItems" validate:"required,min=1,dive"`
}

func (req placeOrderRequest) toInput() checkout.PlaceOrderInput {
	input := checkout.PlaceOrderInput{
		CustomerName:    req.OrderData.CustomerName,
		CustomerEmail:   req.OrderData.CustomerEmail,
		Phone:           req.OrderData.Phone,
		ShippingAddress: req.OrderData.ShippingAddress,
		DeclaredTotal:   req.OrderData.TotalAmount,
		Lines:           make([]checkout.LineInput, 0, len(req.OrderItems)),
	}
	for _, line := range req.OrderItems {
		input.Lines = append(input.Lines, checkout.LineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return input
}

// PlaceOrder validates a checkout submission against the live catalog and
// persists the order. Works for guests; a logged-in caller gets the order
// attached to their account.
func PlaceOrder(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := payload.toInput()

		// Account linkage comes from the token, never the body.
		if userID := middleware.UserIDFromContext(r.Context()); userID != uuid.Nil {
			input.UserID = &userID
		}

		dto, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
