package domain

// WeddingService is a bookable catalog item (photography package,
// mandap decoration, catering per plate, ...). Price is stored in the
// smallest currency unit.
type WeddingService struct {
	ID          ServiceID
	Name        string
	Slug        string
	Category    string
	Description string
	Price       int64
	Active      bool
	CreatedAt   Timestamp
	UpdatedAt   Timestamp
}
