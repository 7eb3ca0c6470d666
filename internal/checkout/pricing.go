package checkout

import (
	"github.com/felixgeelhaar/maison/internal/cart"
	"github.com/felixgeelhaar/maison/internal/money"
)

func subtotal(lines []cart.Line) money.Amount {
	total := money.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
