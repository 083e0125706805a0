package models

// MenuProduct is a normalized catalog entry. Immutable once fetched.
type MenuProduct struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Image       string   `json:"img"`
	Price       float64  `json:"price"`
	Rating      *float64 `json:"rate,omitempty"`
	Country     string   `json:"country"`
	Description string   `json:"description"`
}

// ShortDescription truncates the description for menu cards.
func (p MenuProduct) ShortDescription(limit int) string {
	r := []rune(p.Description)
	if len(r) <= limit {
		return p.Description
	}
	return string(r[:limit]) + "..."
}

// RatingStars splits the rating into full stars and a half marker.
func (p MenuProduct) RatingStars() (full int, half bool) {
	if p.Rating == nil {
		return 0, false
	}
	r := *p.Rating
	full = int(r)
	half = r-float64(full) >= 0.5
	return full, half
}
