/*
handlers.go - HTTP API handlers for the card collection service

PURPOSE:
  Exposes the catalog, the two ledgers, set progress, and value aggregation
  via REST. Handles HTTP request/response, JSON serialization, and delegates
  to domain logic.

ENDPOINTS:
  Catalog (public):
    GET    /api/sets                 List sets
    GET    /api/sets/{id}            Get one set
    GET    /api/sets/{id}/cards      Cards in a set
    GET    /api/cards/{id}           Card variants (all languages)

  Collection (authenticated):
    GET    /api/collection           List owned cards
    POST   /api/collection           Add a card
    PATCH  /api/collection/{cardID}  Edit metadata
    DELETE /api/collection/{cardID}  Remove (all language copies)

  Wishlist (authenticated):
    GET    /api/wishlist             List wanted cards
    POST   /api/wishlist             Add a card
    PATCH  /api/wishlist/{entryID}   Edit by entry id
    DELETE /api/wishlist/{cardID}    Remove

  Derived (authenticated):
    GET    /api/progress             Set completion, all sets
    GET    /api/progress/{setID}     One set with rarity breakdown
    GET    /api/value                Collection value summary
    POST   /api/value/snapshots      Take a value snapshot
    GET    /api/value/snapshots      Value history

  Session:
    POST   /api/logout               Drop the user's cached state

AUTHENTICATION:
  Session management is out of scope; the signed-in user arrives as the
  X-User-ID header (set by the fronting auth proxy). A missing header on an
  authenticated route is a 401 before any store call.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input
  - 401: Not authenticated
  - 404: Card/set/entry not found
  - 409: Already in wishlist
  - 500: Persistence errors (schema problems carry a distinct reason)

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - cache/coordinator.go: The optimistic mutation path used here
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashir876/Catch-Collect-sub001/cache"
	"github.com/ashir876/Catch-Collect-sub001/catalog"
	"github.com/ashir876/Catch-Collect-sub001/collection"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Catalog     catalog.CatalogStore
	Sessions    *cache.Manager
	Snapshotter *collection.ValueSnapshotter
}

func NewHandler(cat catalog.CatalogStore, sessions *cache.Manager, snapshotter *collection.ValueSnapshotter) *Handler {
	return &Handler{Catalog: cat, Sessions: sessions, Snapshotter: snapshotter}
}

// userID extracts the signed-in user. Empty means not authenticated.
func userID(r *http.Request) catalog.UserID {
	return catalog.UserID(r.Header.Get("X-User-ID"))
}

// session returns the user's coordinator, or writes a 401 and returns nil.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *cache.Coordinator {
	uid := userID(r)
	if uid == "" {
		writeDomainError(w, catalog.ErrNotAuthenticated)
		return nil
	}
	return h.Sessions.For(uid)
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListSets returns all sets.
func (h *Handler) ListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.Catalog.ListSets(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]SetDTO, len(sets))
	for i, s := range sets {
		dtos[i] = toSetDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSet returns a single set.
func (h *Handler) GetSet(w http.ResponseWriter, r *http.Request) {
	set, err := h.Catalog.GetSet(r.Context(), catalog.SetID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if set == nil {
		writeError(w, http.StatusNotFound, "Set not found", string(cache.ReasonNotFound), "")
		return
	}
	writeJSON(w, http.StatusOK, toSetDTO(*set))
}

// ListSetCards returns all catalog rows for a set.
func (h *Handler) ListSetCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Catalog.ListCardsBySet(r.Context(), catalog.SetID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]CardDTO, len(cards))
	for i, c := range cards {
		dtos[i] = toCardDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCard returns every language variant of a card.
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	variants, err := h.Catalog.ListCardVariants(r.Context(), catalog.CardID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(variants) == 0 {
		writeError(w, http.StatusNotFound, "Card not found", string(cache.ReasonNotFound), "")
		return
	}
	dtos := make([]CardDTO, len(variants))
	for i, c := range variants {
		dtos[i] = toCardDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// COLLECTION HANDLERS
// =============================================================================

// ListCollection returns the user's collection.
func (h *Handler) ListCollection(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	if c == nil {
		return
	}
	entries, err := c.Collection(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]OwnershipEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toOwnershipDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CollectionCount returns the badge count for the collection.
func (h *Handler) CollectionCount(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	if c == nil {
		return
	}
	n, err := c.CollectionCount(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CountDTO{Count: n})
}

// AddToCollection adds a card to the user's collection.
func (h *Handler) AddToCollection(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	if c == nil {
		return
	}

	var req AddCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", err.Error())
		return
	}
	if req.CardID == "" {
		writeError(w, http.StatusBadRequest, "card_id is required", "", "")
		return
	}

	in := collection.AddOwnershipInput{
		CardID:    catalog.CardID(req.CardID),
		Language:  catalog.Language(req.Language),
		Condition: req.Condition,
		Price:     req.Price,
		Notes:     req.Notes,
		Quantity:  req.Quantity,
	}
	if req.AcquiredAt != "" {
		acquired, err := time.Parse("2006-01-02", req.AcquiredAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid acquired_at format (use YYYY-MM-DD)", "", err.Error())
			return
		}
		in.AcquiredAt = acquired
	}

	entry, err := c.AddToCollection(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOwnershipDTO(*entry))
}

// EditCollection partially updates owned-card metadata.
func (h *Handler) EditCollection(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	if c == nil {
		return
	}

	var req EditCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", err.Error())
		return
	}

	entry, err := c.EditCollection(r.Context(), catalog.CardID(chi.URLParam(r, "cardID")), collection.EditOwnershipInput{
		Condition: req.Condition,
		Price:     req.Price,
		Notes:     req.Notes,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOwnershipDTO(*entry))
}

// RemoveFromCollection deletes all language copies of a card.
func (h *Handler) RemoveFromCollection(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	if c == nil {
		return
	}
	if err := c.RemoveFromCollection(r.Context(), catalog.CardID(chi.URLParam(r, "cardID"))); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// WISHLIST HANDLERS
// =============================================================================

// ListWishlist returns the user's wishlist.
func (h *Handler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	if c == nil {
		return
	}
	entries, err := c.Wishlist(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]WishlistEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toWishlistDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// WishlistCount returns the badge count for the wishlist.
func (h *Handler) WishlistCount(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	if c == nil {
		return
	}
	n, err := c.WishlistCount(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CountDTO{Count: n})
}

// AddToWishlist adds a card to the user's wishlist.
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	if c == nil {
		return
	}

	var req AddWishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", err.Error())
		return
	}
	if req.CardID == "" {
		writeError(w, http.StatusBadRequest, "card_id is required", "", "")
		return
	}

	entry, err := c.AddToWishlist(r.Context(), collection.AddWishlistInput{
		CardID:       catalog.CardID(req.CardID),
		Language:     catalog.Language(req.Language),
		Priority:     req.Priority,
		DesiredPrice: req.DesiredPrice,
		Notes:        req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWishlistDTO(*entry))
}

// EditWishlist partially updates a wishlist entry by its id.
func (h *Handler) EditWishlist(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	if c == nil {
		return
	}

	var req EditWishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "", err.Error())
		return
	}

	entry, err := c.EditWishlist(r.Context(), catalog.EntryID(chi.URLParam(r, "entryID")), collection.EditWishlistInput{
		Priority:     req.Priority,
		DesiredPrice: req.DesiredPrice,
		Notes:        req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWishlistDTO(*entry))
}

// RemoveFromWishlist deletes a card from the wishlist.
func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	if c == nil {
		return
	}
	if err := c.RemoveFromWishlist(r.Context(), catalog.CardID(chi.URLParam(r, "cardID"))); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PROGRESS / VALUE HANDLERS
// =============================================================================

// GetProgress returns set completion for every set.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	if c == nil {
		return
	}
	results, err := c.Progress(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]SetProgressDTO, len(results))
	for i, p := range results {
		dtos[i] = toProgressDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSetProgress returns one set's completion with the rarity breakdown.
// This read skips the cache: the per-set view is rare and cheap.
func (h *Handler) GetSetProgress(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeDomainError(w, catalog.ErrNotAuthenticated)
		return
	}
	p, err := h.Sessions.Reconciler.ForSet(r.Context(), uid, catalog.SetID(chi.URLParam(r, "setID")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Set not found", string(cache.ReasonNotFound), "")
		return
	}
	writeJSON(w, http.StatusOK, toProgressDTO(*p))
}

// GetValue returns the collection value summary.
func (h *Handler) GetValue(w http.ResponseWriter, r *http.Request) {
	c := h.session(w, r)
	if c == nil {
		return
	}
	summary, err := c.Value(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toValueSummaryDTO(summary))
}

// TakeValueSnapshot persists the current collection value.
func (h *Handler) TakeValueSnapshot(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeDomainError(w, catalog.ErrNotAuthenticated)
		return
	}
	snap, err := h.Snapshotter.Take(r.Context(), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSnapshotDTO(*snap))
}

// ListValueSnapshots returns the value history for a period.
func (h *Handler) ListValueSnapshots(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeDomainError(w, catalog.ErrNotAuthenticated)
		return
	}

	to := time.Now()
	from := to.AddDate(0, -1, 0)
	switch r.URL.Query().Get("period") {
	case "week":
		from = to.AddDate(0, 0, -7)
	case "year":
		from = to.AddDate(-1, 0, 0)
	case "all":
		from = time.Time{}
	}

	snaps, err := h.Snapshotter.History(r.Context(), uid, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]ValueSnapshotDTO, len(snaps))
	for i, s := range snaps {
		dtos[i] = toSnapshotDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// Logout drops all cached state for the user so nothing leaks into the next
// identity on this client.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid != "" {
		h.Sessions.Logout(uid)
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, reason, detail string) {
	writeJSON(w, status, ErrorResponse{Error: message, Reason: reason, Detail: detail})
}

// writeDomainError maps classified ledger errors onto HTTP statuses with the
// user-readable message from the coordinator's classification.
func writeDomainError(w http.ResponseWriter, err error) {
	reason := cache.Classify(err)
	status := http.StatusInternalServerError
	switch reason {
	case cache.ReasonDuplicate:
		status = http.StatusConflict
	case cache.ReasonNotAuthenticated:
		status = http.StatusUnauthorized
	case cache.ReasonNotFound:
		status = http.StatusNotFound
	}

	detail := ""
	if reason == cache.ReasonSchema || reason == cache.ReasonGeneric {
		detail = err.Error()
	}
	if errors.Is(err, catalog.ErrEntryNotFound) {
		writeError(w, http.StatusNotFound, "Entry not found", string(reason), "")
		return
	}
	writeError(w, status, cache.UserMessage(err), string(reason), detail)
}
