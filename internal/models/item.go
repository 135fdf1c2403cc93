package models

import "time"

// Item представляет товар, выставленный пользователем на продажу.
type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	Purchased   bool      `json:"purchased"`
	OwnerUID    string    `json:"owner_uid"` // Владелец товара
	CreatedAt   time.Time `json:"created_at"`
}
