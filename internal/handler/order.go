package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/okravchenko/go-shop/internal/item"
	"github.com/okravchenko/go-shop/internal/member"
	"github.com/okravchenko/go-shop/internal/order"
)

type CreateOrderRequest struct {
	MemberID uuid.UUID `json:"member_id" validate:"required"`
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Count    int64     `json:"count" validate:"required,gt=0"`
}

type UpdateDeliveryStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ESTABLISHED PROGRESS DONE"`
}

// OrderResponse adds the computed total to the order payload.
type OrderResponse struct {
	order.Order
	TotalPrice int64 `json:"total_price"`
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handleCreateOrder)
	router.Get("/orders", h.handleListOrders)
	router.Get("/orders/{id}", h.handleGetOrderByID)
	router.Post("/orders/{id}/cancel", h.handleCancelOrder)
	router.Patch("/orders/{id}/delivery", h.handleUpdateDeliveryStatus)
	router.Get("/members/{id}/orders", h.handleListMemberOrders)
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateOrderRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithValidationErrors(w, validationErrors)
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	created, err := h.service.CreateOrder(r.Context(), requestPayload.MemberID, requestPayload.ItemID, requestPayload.Count)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)

		var clientMessage string
		switch {
		case errors.Is(err, item.ErrInsufficientStock):
			clientMessage = "Insufficient stock"
		case errors.Is(err, member.ErrNotFound):
			clientMessage = "Member not found"
		case errors.Is(err, item.ErrNotFound):
			clientMessage = "Item not found"
		default:
			log.Error().Err(err).Msg("Failed to create order via service")
			clientMessage = "Failed to create order"
		}

		respondWithError(w, statusCode, clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, OrderResponse{Order: *created, TotalPrice: created.TotalPrice()})
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	responsePayload := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responsePayload = append(responsePayload, OrderResponse{
			Order:      orders[i],
			TotalPrice: orders[i].TotalPrice(),
		})
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *OrderHandler) handleListMemberOrders(w http.ResponseWriter, r *http.Request) {
	memberID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListOrdersByMemberID(r.Context(), memberID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list member orders via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list member orders")
		return
	}

	responsePayload := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responsePayload = append(responsePayload, OrderResponse{
			Order:      orders[i],
			TotalPrice: orders[i].TotalPrice(),
		})
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *OrderHandler) handleGetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	found, err := h.service.GetOrderByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get order by id via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, OrderResponse{Order: *found, TotalPrice: found.TotalPrice()})
}

func (h *OrderHandler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.CancelOrder(r.Context(), orderID); err != nil {
		statusCode := mapErrorToStatusCode(err)

		var clientMessage string
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			clientMessage = "Order not found"
		case errors.Is(err, order.ErrAlreadyDelivered):
			clientMessage = "Order is already delivered"
		case errors.Is(err, order.ErrAlreadyCanceled):
			clientMessage = "Order is already cancelled"
		default:
			log.Error().Err(err).Msg("Failed to cancel order via service")
			clientMessage = "Failed to cancel order"
		}

		respondWithError(w, statusCode, clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": string(order.StatusCanceled)})
}

func (h *OrderHandler) handleUpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var requestPayload UpdateDeliveryStatusRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithValidationErrors(w, validationErrors)
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	newStatus := order.DeliveryStatus(requestPayload.Status)
	if err := h.service.UpdateDeliveryStatus(r.Context(), orderID, newStatus); err != nil {
		statusCode := mapErrorToStatusCode(err)

		var clientMessage string
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			clientMessage = "Order not found"
		case errors.Is(err, order.ErrInvalidDeliveryTransition):
			clientMessage = "Invalid delivery status transition"
		default:
			log.Error().Err(err).Msg("Failed to update delivery status via service")
			clientMessage = "Failed to update delivery status"
		}

		respondWithError(w, statusCode, clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": requestPayload.Status})
}

func (h *OrderHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	orderID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("order_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}
	return orderID, true
}
