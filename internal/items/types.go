package items

import "time"

// Category is the kind of clothing an item belongs to.
type Category string

const (
	CategoryTops        Category = "tops"
	CategoryBottoms     Category = "bottoms"
	CategoryDresses     Category = "dresses"
	CategoryOuterwear   Category = "outerwear"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
)

// Categories lists every valid category in declaration order.
var Categories = []Category{
	CategoryTops,
	CategoryBottoms,
	CategoryDresses,
	CategoryOuterwear,
	CategoryShoes,
	CategoryAccessories,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Item is a single wardrobe entry.
type Item struct {
	ID            string    `json:"id" dynamodbav:"id" bson:"_id"`
	Category      Category  `json:"category" dynamodbav:"category" bson:"category"`
	Colour        string    `json:"colour" dynamodbav:"colour" bson:"colour"`
	UserID        string    `json:"user_id" dynamodbav:"user_id" bson:"user_id"`
	Brand         string    `json:"brand" dynamodbav:"brand" bson:"brand"`
	Size          string    `json:"size" dynamodbav:"size" bson:"size"`
	ImageURL      string    `json:"image_url" dynamodbav:"image_url" bson:"image_url"`
	PurchaseDate  time.Time `json:"purchase_date" dynamodbav:"purchase_date" bson:"purchase_date"`
	PurchasePrice float64   `json:"purchase_price" dynamodbav:"purchase_price" bson:"purchase_price"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" dynamodbav:"updated_at" bson:"updated_at"`
}

// Fields holds everything a caller supplies when creating an item.
type Fields struct {
	Category      Category
	Colour        string
	UserID        string
	Brand         string
	Size          string
	ImageURL      string
	PurchaseDate  time.Time
	PurchasePrice float64
}

// Patch is a partial update. A nil pointer leaves the field untouched; a non-nil
// pointer overwrites it, even when it points at a zero value.
type Patch struct {
	Category      *Category
	Colour        *string
	UserID        *string
	Brand         *string
	Size          *string
	ImageURL      *string
	PurchaseDate  *time.Time
	PurchasePrice *float64
}

// Empty reports whether the patch sets no field at all.
func (p Patch) Empty() bool {
	return p.Category == nil && p.Colour == nil && p.UserID == nil && p.Brand == nil &&
		p.Size == nil && p.ImageURL == nil && p.PurchaseDate == nil && p.PurchasePrice == nil
}

// Apply returns a copy of it with every present field of p written over it.
// UpdatedAt is left to the caller.
func (p Patch) Apply(it Item) Item {
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Colour != nil {
		it.Colour = *p.Colour
	}
	if p.UserID != nil {
		it.UserID = *p.UserID
	}
	if p.Brand != nil {
		it.Brand = *p.Brand
	}
	if p.Size != nil {
		it.Size = *p.Size
	}
	if p.ImageURL != nil {
		it.ImageURL = *p.ImageURL
	}
	if p.PurchaseDate != nil {
		it.PurchaseDate = *p.PurchaseDate
	}
	if p.PurchasePrice != nil {
		it.PurchasePrice = *p.PurchasePrice
	}
	return it
}

// newItem builds a stored item from caller fields.
func newItem(id string, f Fields, now time.Time) Item {
	return Item{
		ID:            id,
		Category:      f.Category,
		Colour:        f.Colour,
		UserID:        f.UserID,
		Brand:         f.Brand,
		Size:          f.Size,
		ImageURL:      f.ImageURL,
		PurchaseDate:  f.PurchaseDate,
		PurchasePrice: f.PurchasePrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Sort keys accepted by FindAll.
const (
	SortByPurchaseDate  = "purchase_date"
	SortByBrand         = "brand"
	SortByPurchasePrice = "purchase_price"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// List defaults.
const (
	DefaultLimit     = 20
	DefaultSortBy    = SortByPurchaseDate
	DefaultSortOrder = SortDesc
)

// Query describes a FindAll request. Empty UserID/Category mean "no constraint";
// a nil Limit/Offset selects the default.
type Query struct {
	UserID    string
	Category  Category
	SortBy    string
	SortOrder string
	Limit     *int
	Offset    *int
}

// Page is one window of a FindAll result. Count is the number of matches before
// pagination was applied.
type Page struct {
	Data  []Item `json:"data"`
	Count int    `json:"count"`
}
