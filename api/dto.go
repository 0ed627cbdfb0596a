/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

PRIORITY INPUT:
  AddWishlistRequest.Priority uses catalog.Priority, whose UnmarshalJSON
  accepts both the string enum ("high") and the numeric ordinal (2). The
  string form never leaves the JSON boundary.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ashir876/Catch-Collect-sub001/catalog"
	"github.com/ashir876/Catch-Collect-sub001/collection"
	"github.com/ashir876/Catch-Collect-sub001/progress"
)

// =============================================================================
// CATALOG TYPES
// =============================================================================

// CardDTO represents one catalog row in API responses.
type CardDTO struct {
	CardID      string  `json:"card_id"`
	Language    string  `json:"language"`
	SetID       string  `json:"set_id"`
	SeriesID    string  `json:"series_id,omitempty"`
	Name        string  `json:"name"`
	Rarity      string  `json:"rarity,omitempty"`
	Number      string  `json:"number,omitempty"`
	HP          int     `json:"hp,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	MarketPrice *string `json:"market_price,omitempty"`
}

// SetDTO represents a card set.
type SetDTO struct {
	SetID      string `json:"set_id"`
	SeriesID   string `json:"series_id,omitempty"`
	Name       string `json:"name"`
	TotalCards int    `json:"total_cards"`
	ReleasedAt string `json:"released_at,omitempty"`
}

// =============================================================================
// LEDGER TYPES
// =============================================================================

// OwnershipEntryDTO represents an owned card.
type OwnershipEntryDTO struct {
	ID          string  `json:"id"`
	CardID      string  `json:"card_id"`
	Language    string  `json:"language"`
	Name        string  `json:"name"`
	SetID       string  `json:"set_id,omitempty"`
	Rarity      string  `json:"rarity,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	MarketPrice *string `json:"market_price,omitempty"`
	Condition   string  `json:"condition,omitempty"`
	Price       *string `json:"price,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	AcquiredAt  string  `json:"acquired_at"`
	Quantity    int     `json:"quantity"`
}

// WishlistEntryDTO represents a wanted card.
type WishlistEntryDTO struct {
	ID           string  `json:"id"`
	CardID       string  `json:"card_id"`
	Language     string  `json:"language"`
	Name         string  `json:"name"`
	SetID        string  `json:"set_id,omitempty"`
	Rarity       string  `json:"rarity,omitempty"`
	ImageURL     string  `json:"image_url,omitempty"`
	MarketPrice  *string `json:"market_price,omitempty"`
	Priority     int     `json:"priority"`
	PriorityName string  `json:"priority_name"`
	DesiredPrice *string `json:"desired_price,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// AddCollectionRequest adds a card to the collection.
type AddCollectionRequest struct {
	CardID     string           `json:"card_id"`
	Language   string           `json:"language,omitempty"`
	Condition  string           `json:"condition,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Notes      string           `json:"notes,omitempty"`
	AcquiredAt string           `json:"acquired_at,omitempty"` // YYYY-MM-DD
	Quantity   int              `json:"quantity,omitempty"`
}

// EditCollectionRequest partially updates owned-card metadata.
type EditCollectionRequest struct {
	Condition *string          `json:"condition,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
	Quantity  *int             `json:"quantity,omitempty"`
}

// AddWishlistRequest adds a card to the wishlist.
type AddWishlistRequest struct {
	CardID       string            `json:"card_id"`
	Language     string            `json:"language,omitempty"`
	Priority     *catalog.Priority `json:"priority,omitempty"`
	DesiredPrice *decimal.Decimal  `json:"desired_price,omitempty"`
	Notes        string            `json:"notes,omitempty"`
}

// EditWishlistRequest partially updates a wishlist entry.
type EditWishlistRequest struct {
	Priority     *catalog.Priority `json:"priority,omitempty"`
	DesiredPrice *decimal.Decimal  `json:"desired_price,omitempty"`
	Notes        *string           `json:"notes,omitempty"`
}

// =============================================================================
// DERIVED TYPES
// =============================================================================

// SetProgressDTO is one set's completion state.
type SetProgressDTO struct {
	SetID          string                       `json:"set_id"`
	Name           string                       `json:"name"`
	TotalCards     int                          `json:"total_cards"`
	CollectedCards int                          `json:"collected_cards"`
	WishlistCards  int                          `json:"wishlist_cards"`
	CompletionPct  int                          `json:"completion_pct"`
	Completed      bool                         `json:"completed"`
	Rarities       map[string]RarityProgressDTO `json:"rarities,omitempty"`
}

type RarityProgressDTO struct {
	Total     int `json:"total"`
	Collected int `json:"collected"`
}

// ValueSummaryDTO aggregates prices over a ledger. Manual and market totals
// are separate currencies; clients must not add them together.
type ValueSummaryDTO struct {
	ManualTotal     string `json:"manual_total"`
	MarketTotal     string `json:"market_total"`
	CardsWithManual int    `json:"cards_with_manual_price"`
	CardsWithMarket int    `json:"cards_with_market_price"`
	CardsWithBoth   int    `json:"cards_with_both_prices"`
	ManualAverage   string `json:"manual_average"`
	MarketAverage   string `json:"market_average"`
}

// ValueSnapshotDTO is one persisted value snapshot.
type ValueSnapshotDTO struct {
	ID          string `json:"id"`
	TakenAt     string `json:"taken_at"`
	TotalCards  int    `json:"total_cards"`
	UniqueCards int    `json:"unique_cards"`
	ManualTotal string `json:"manual_total"`
	MarketTotal string `json:"market_total"`
}

// CountDTO carries a badge count.
type CountDTO struct {
	Count int `json:"count"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func decimalPtrString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func toCardDTO(c catalog.CardRecord) CardDTO {
	return CardDTO{
		CardID:      string(c.CardID),
		Language:    string(c.Language),
		SetID:       string(c.SetID),
		SeriesID:    string(c.SeriesID),
		Name:        c.Name,
		Rarity:      c.Rarity,
		Number:      c.Number,
		HP:          c.HP,
		ImageURL:    c.ImageURL,
		MarketPrice: decimalPtrString(c.MarketPrice),
	}
}

func toSetDTO(s catalog.CardSet) SetDTO {
	dto := SetDTO{
		SetID:      string(s.SetID),
		SeriesID:   string(s.SeriesID),
		Name:       s.Name,
		TotalCards: s.TotalCards,
	}
	if !s.ReleasedAt.IsZero() {
		dto.ReleasedAt = s.ReleasedAt.Format("2006-01-02")
	}
	return dto
}

func toOwnershipDTO(e catalog.OwnershipEntry) OwnershipEntryDTO {
	return OwnershipEntryDTO{
		ID:          string(e.ID),
		CardID:      string(e.CardID),
		Language:    string(e.Language),
		Name:        e.Name,
		SetID:       string(e.SetID),
		Rarity:      e.Rarity,
		ImageURL:    e.ImageURL,
		MarketPrice: decimalPtrString(e.MarketPrice),
		Condition:   e.Condition,
		Price:       decimalPtrString(e.Price),
		Notes:       e.Notes,
		AcquiredAt:  e.AcquiredAt.Format("2006-01-02"),
		Quantity:    e.Quantity,
	}
}

func toWishlistDTO(e catalog.WishlistEntry) WishlistEntryDTO {
	return WishlistEntryDTO{
		ID:           string(e.ID),
		CardID:       string(e.CardID),
		Language:     string(e.Language),
		Name:         e.Name,
		SetID:        string(e.SetID),
		Rarity:       e.Rarity,
		ImageURL:     e.ImageURL,
		MarketPrice:  decimalPtrString(e.MarketPrice),
		Priority:     int(e.Priority),
		PriorityName: e.Priority.String(),
		DesiredPrice: decimalPtrString(e.DesiredPrice),
		Notes:        e.Notes,
	}
}

func toProgressDTO(p progress.SetProgress) SetProgressDTO {
	dto := SetProgressDTO{
		SetID:          string(p.SetID),
		Name:           p.Name,
		TotalCards:     p.TotalCards,
		CollectedCards: p.CollectedCards,
		WishlistCards:  p.WishlistCards,
		CompletionPct:  p.CompletionPct,
		Completed:      p.Completed,
	}
	if len(p.Rarities) > 0 {
		dto.Rarities = make(map[string]RarityProgressDTO, len(p.Rarities))
		for rarity, rp := range p.Rarities {
			dto.Rarities[rarity] = RarityProgressDTO{Total: rp.Total, Collected: rp.Collected}
		}
	}
	return dto
}

func toValueSummaryDTO(s collection.ValueSummary) ValueSummaryDTO {
	return ValueSummaryDTO{
		ManualTotal:     s.ManualTotal.String(),
		MarketTotal:     s.MarketTotal.String(),
		CardsWithManual: s.CardsWithManual,
		CardsWithMarket: s.CardsWithMarket,
		CardsWithBoth:   s.CardsWithBoth,
		ManualAverage:   s.ManualAverage.String(),
		MarketAverage:   s.MarketAverage.String(),
	}
}

func toSnapshotDTO(s catalog.ValueSnapshot) ValueSnapshotDTO {
	return ValueSnapshotDTO{
		ID:          s.ID,
		TakenAt:     s.TakenAt.Format(time.RFC3339),
		TotalCards:  s.TotalCards,
		UniqueCards: s.UniqueCards,
		ManualTotal: s.ManualTotal.String(),
		MarketTotal: s.MarketTotal.String(),
	}
}
