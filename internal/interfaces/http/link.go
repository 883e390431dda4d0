package http

import (
	"encoding/json"
	"log"
	"net/http"

	"copilot/internal/domain/item"
	"copilot/internal/domain/user"
	"copilot/internal/infrastructure/plaidapi"
)

// LinkHandler runs the institution-linking flow: issue a link token for
// the web client, then exchange the resulting public token for a stored
// item.
type LinkHandler struct {
	client plaidapi.ClientInterface
	users  user.Repository
	items  item.Repository
}

func NewLinkHandler(client plaidapi.ClientInterface, users user.Repository, items item.Repository) *LinkHandler {
	return &LinkHandler{
		client: client,
		users:  users,
		items:  items,
	}
}

// HandleCreateToken issues a short-lived link token.
func (h *LinkHandler) HandleCreateToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp, err := h.client.LinkTokenCreate(r.Context(), user.DefaultUserID)
	if err != nil {
		log.Printf("Error creating link token: %v", err)
		respondErrorDetails(w, http.StatusBadGateway, "failed to create link token", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

type exchangeRequest struct {
	PublicToken     string `json:"public_token"`
	InstitutionName string `json:"institution_name"`
}

type exchangeResponse struct {
	Item *item.Item `json:"item"`
}

// HandleExchange swaps the public token for an access token and stores
// the new item. The access token is encrypted at rest and never appears
// in the response.
func (h *LinkHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PublicToken == "" {
		respondError(w, http.StatusBadRequest, "public_token is required")
		return
	}

	if _, err := h.users.Ensure(r.Context(), user.DefaultUserID); err != nil {
		log.Printf("Error ensuring user: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to prepare user")
		return
	}

	exchanged, err := h.client.ExchangePublicToken(r.Context(), req.PublicToken)
	if err != nil {
		log.Printf("Error exchanging public token: %v", err)
		respondErrorDetails(w, http.StatusBadGateway, "failed to exchange public token", err.Error())
		return
	}

	created, err := h.items.Create(r.Context(), user.DefaultUserID, exchanged.AccessToken, req.InstitutionName)
	if err != nil {
		log.Printf("Error storing item: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to store item")
		return
	}

	log.Printf("Linked item %d (%s)", created.ID, created.InstitutionName)
	respondJSON(w, http.StatusCreated, exchangeResponse{Item: created})
}
