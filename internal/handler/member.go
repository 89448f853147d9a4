package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/okravchenko/go-shop/internal/member"
)

type CreateMemberRequest struct {
	Name    string `json:"name" validate:"required,min=1"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Street  string `json:"street" validate:"required"`
	Zipcode string `json:"zipcode" validate:"required"`
}

type MemberHandler struct {
	service  member.Service
	validate *validator.Validate
}

func NewMemberHandler(service member.Service) *MemberHandler {
	return &MemberHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *MemberHandler) RegisterRoutes(router chi.Router) {
	router.Post("/members", h.handleCreateMember)
	router.Get("/members", h.handleListMembers)
	router.Get("/members/{id}", h.handleGetMemberByID)
}

func (h *MemberHandler) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateMemberRequest

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

	address := member.Address{
		City:    requestPayload.City,
		State:   requestPayload.State,
		Street:  requestPayload.Street,
		Zipcode: requestPayload.Zipcode,
	}

	created, err := h.service.CreateMember(r.Context(), requestPayload.Name, address)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create member via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create member")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *MemberHandler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list members via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list members")
		return
	}

	respondWithJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) handleGetMemberByID(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	memberID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("member_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	found, err := h.service.GetMemberByID(r.Context(), memberID)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Member not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get member by id via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get member")
		return
	}

	respondWithJSON(w, http.StatusOK, found)
}
