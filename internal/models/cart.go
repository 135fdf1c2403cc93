package models

// Cart корзина пользователя. Одна корзина на пользователя,
// создаётся лениво при первом обращении.
type Cart struct {
	ID      int64      `json:"id"`
	UserUID string     `json:"user_uid"`
	Items   []CartItem `json:"items"`
}

// CartItem позиция в корзине, ссылается на товар.
type CartItem struct {
	ID     int64 `json:"id"`
	CartID int64 `json:"cart_id"`
	Item   Item  `json:"item"`
}
