package validation

import (
	"time"

	"github.com/imrishuroy/go-wardrobe-api/internal/items"
)

// CreateItemRequest is the payload for POST /items
type CreateItemRequest struct {
	Category      string   `json:"category" validate:"required,category"`
	Colour        string   `json:"colour" validate:"required"`
	UserID        string   `json:"user_id" validate:"required"`
	Brand         string   `json:"brand" validate:"required"`
	Size          string   `json:"size" validate:"required"`
	ImageURL      string   `json:"image_url" validate:"required,url"`
	PurchaseDate  string   `json:"purchase_date" validate:"required,isodate"` // YYYY-MM-DD or RFC 3339
	PurchasePrice *float64 `json:"purchase_price" validate:"required,min=0"`  // pointer so 0 passes "required"
}

// UpdateItemRequest is the payload for PATCH /items/:id. A field left out of
// the JSON body stays nil and is not touched.
type UpdateItemRequest struct {
	Category      *string  `json:"category,omitempty" validate:"omitempty,category"`
	Colour        *string  `json:"colour,omitempty"`
	UserID        *string  `json:"user_id,omitempty"`
	Brand         *string  `json:"brand,omitempty"`
	Size          *string  `json:"size,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	PurchaseDate  *string  `json:"purchase_date,omitempty" validate:"omitempty,isodate"`
	PurchasePrice *float64 `json:"purchase_price,omitempty" validate:"omitempty,min=0"`
}

// ListItemsQuery is the query string of GET /items
type ListItemsQuery struct {
	UserID    string `form:"user_id"`
	Category  string `form:"category" validate:"omitempty,category"`
	Limit     *int   `form:"limit" validate:"omitempty,min=0"`
	Offset    *int   `form:"offset" validate:"omitempty,min=0"`
	SortBy    string `form:"sort_by" validate:"omitempty,oneof=purchase_date brand purchase_price"`
	SortOrder string `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// ToFields converts a validated request.
func (r CreateItemRequest) ToFields() (items.Fields, error) {
	date, err := ParseDate(r.PurchaseDate)
	if err != nil {
		return items.Fields{}, err
	}
	var price float64
	if r.PurchasePrice != nil {
		price = *r.PurchasePrice
	}
	return items.Fields{
		Category:      items.Category(r.Category),
		Colour:        r.Colour,
		UserID:        r.UserID,
		Brand:         r.Brand,
		Size:          r.Size,
		ImageURL:      r.ImageURL,
		PurchaseDate:  date,
		PurchasePrice: price,
	}, nil
}

// ToPatch converts a validated request, keeping absent fields nil.
func (r UpdateItemRequest) ToPatch() (items.Patch, error) {
	p := items.Patch{
		Colour:        r.Colour,
		UserID:        r.UserID,
		Brand:         r.Brand,
		Size:          r.Size,
		ImageURL:      r.ImageURL,
		PurchasePrice: r.PurchasePrice,
	}
	if r.Category != nil {
		c := items.Category(*r.Category)
		p.Category = &c
	}
	if r.PurchaseDate != nil {
		d, err := ParseDate(*r.PurchaseDate)
		if err != nil {
			return items.Patch{}, err
		}
		p.PurchaseDate = &d
	}
	return p, nil
}

func (q ListItemsQuery) ToQuery() items.Query {
	return items.Query{
		UserID:    q.UserID,
		Category:  items.Category(q.Category),
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
}

// ParseDate accepts a plain date (UTC midnight) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
