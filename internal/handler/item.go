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
)

type CreateItemRequest struct {
	Brand string `json:"brand"`
	Name  string `json:"name" validate:"required,min=1"`
	Price int64  `json:"price" validate:"min=0"`
	Stock int64  `json:"stock" validate:"min=0"`
}

type UpdateItemRequest struct {
	Brand string `json:"brand"`
	Name  string `json:"name" validate:"required,min=1"`
	Price int64  `json:"price" validate:"min=0"`
}

type AddStockRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

type ItemHandler struct {
	service  item.Service
	validate *validator.Validate
}

func NewItemHandler(service item.Service) *ItemHandler {
	return &ItemHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *ItemHandler) RegisterRoutes(router chi.Router) {
	router.Post("/items", h.handleCreateItem)
	router.Get("/items", h.handleListItems)
	router.Get("/items/{id}", h.handleGetItemByID)
	router.Put("/items/{id}", h.handleUpdateItem)
	router.Post("/items/{id}/stock", h.handleAddStock)
}

func (h *ItemHandler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateItemRequest

	if ok := h.decodeAndValidate(w, r, &requestPayload); !ok {
		return
	}

	created, err := h.service.CreateItem(r.Context(), requestPayload.Brand, requestPayload.Name, requestPayload.Price, requestPayload.Stock)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create item via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create item")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *ItemHandler) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list items via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list items")
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) handleGetItemByID(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	found, err := h.service.GetItemByID(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Item not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get item by id via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get item")
		return
	}

	respondWithJSON(w, http.StatusOK, found)
}

func (h *ItemHandler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var requestPayload UpdateItemRequest
	if ok := h.decodeAndValidate(w, r, &requestPayload); !ok {
		return
	}

	updated, err := h.service.UpdateItem(r.Context(), itemID, requestPayload.Brand, requestPayload.Name, requestPayload.Price)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Item not found")
			return
		}
		log.Error().Err(err).Msg("Failed to update item via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update item")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *ItemHandler) handleAddStock(w http.ResponseWriter, r *http.Request) {
	itemID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var requestPayload AddStockRequest
	if ok := h.decodeAndValidate(w, r, &requestPayload); !ok {
		return
	}

	updated, err := h.service.AddStock(r.Context(), itemID, requestPayload.Quantity)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Item not found")
			return
		}
		log.Error().Err(err).Msg("Failed to add stock via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to add stock")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *ItemHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	itemID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("item_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}
	return itemID, true
}

func (h *ItemHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}

	if err := h.validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithValidationErrors(w, validationErrors)
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return false
	}

	return true
}
