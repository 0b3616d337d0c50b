package models

// Plan is a static credit pack offered for purchase.
type Plan struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
	Price   int    `json:"price"` // INR
}
