package model

// Customer mirrors the `customers` table. Phone and car description are
// optional.
type Customer struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Car   string `json:"car,omitempty"`
}
