package domain

// RecyclingPoint is a drop-off location. Distance is only set when the
// caller supplied coordinates.
type RecyclingPoint struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Hours    string   `json:"hours"`
	Types    []string `json:"types"`
	QRCode   string   `json:"qr_code"`
	Distance *float64 `json:"distance,omitempty"`
}

// Accepts reports whether the point takes material.
func (p *RecyclingPoint) Accepts(material string) bool {
	for _, t := range p.Types {
		if t == material {
			return true
		}
	}
	return false
}

const (
	RewardPromo    = "promo"
	RewardProduct  = "product"
	RewardDonation = "donation"
)

type Reward struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Type        string `json:"type"`
	Image       string `json:"image"`
	CharityID   string `json:"charity_id,omitempty"`
}
