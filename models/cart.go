package models

type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

func (i CartItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

type Cart struct {
	Items []CartItem `json:"items"`
}

func (c Cart) Total() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.LineTotal()
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Line returns the cart line for productID, if any.
func (c Cart) Line(productID string) (CartItem, bool) {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return CartItem{}, false
}
