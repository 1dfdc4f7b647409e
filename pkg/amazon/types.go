package amazon

import "encoding/json"

// Item is a raw product as returned by the search API.
type Item struct {
	ASIN         string  `json:"asin"`
	Title        string  `json:"title"`
	Price        Price   `json:"price"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviews_count"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
}

// Price tolerates the two shapes the API emits: an object carrying a
// current_price field, or a bare number/string. Value holds the resolved
// amount either way, with the nested current_price taking precedence.
type Price struct {
	Value string
}

func (p *Price) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '{' {
		var nested struct {
			CurrentPrice json.Number `json:"current_price"`
		}
		if err := json.Unmarshal(b, &nested); err != nil {
			return err
		}
		p.Value = nested.CurrentPrice.String()
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		p.Value = n.String()
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	p.Value = s
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Value)
}

// SearchResponse wraps the search payload.
type SearchResponse struct {
	Results []Item `json:"results"`
}
