package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"tradepost.org/internal/auth"
	"tradepost.org/internal/listing"
)

type listingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents"`
}

func (a *API) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	sub, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req listingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	// Ownership comes from the authenticated subject, never from the body.
	item := &listing.Listing{
		OwnerID:     sub.UserID,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	}
	if err := item.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.listings.Create(r.Context(), item); err != nil {
		a.handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (a *API) handleGetListing(w http.ResponseWriter, r *http.Request) {
	item, err := a.listings.Find(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.handleListingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (a *API) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	sub, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	item, err := a.listings.Find(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.handleListingError(w, r, err)
		return
	}
	if err := auth.Authorize(sub.UserID, item.OwnerID); err != nil {
		a.handleAuthError(w, r, err)
		return
	}

	var req listingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	item.Title = req.Title
	item.Description = req.Description
	item.PriceCents = req.PriceCents
	if err := item.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.listings.Update(r.Context(), item); err != nil {
		a.handleListingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (a *API) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	sub, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	item, err := a.listings.Find(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.handleListingError(w, r, err)
		return
	}
	// The ownership check runs before the mutation is applied.
	if err := auth.Authorize(sub.UserID, item.OwnerID); err != nil {
		a.handleAuthError(w, r, err)
		return
	}
	if err := a.listings.Delete(r.Context(), item.ID); err != nil {
		a.handleListingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Listing deleted"})
}

func (a *API) handleListingError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, listing.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "Listing not found")
		return
	}
	a.handleAuthError(w, r, err)
}
