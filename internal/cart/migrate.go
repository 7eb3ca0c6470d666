package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/felixgeelhaar/maison/internal/money"
)

// legacyItem covers both line shapes found in version 0 and 1 records: the
// flat snapshot line and the older entry embedding the whole product.
type legacyItem struct {
	ProductID looseString    `json:"productId"`
	Name      string         `json:"name"`
	Price     *money.Amount  `json:"price"`
	Image     string         `json:"image"`
	Size      string         `json:"size"`
	Quantity  int            `json:"quantity"`
	Product   *legacyProduct `json:"product"`
}

type legacyProduct struct {
	ID     looseString   `json:"id"`
	Name   string        `json:"name"`
	Price  *money.Amount `json:"price"`
	Images []string      `json:"images"`
	Sizes  []string      `json:"sizes"`
}

// looseString accepts ids written either as strings or as numbers.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*s = looseString(strconv.FormatInt(i, 10))
		return nil
	}
	*s = looseString(n.String())
	return nil
}

// Migrate upgrades a cart record written under fromVersion. Records older
// than version 2 may hold entries embedding a full product; those are
// flattened into snapshot lines. Entries that already have a product id and a
// price are kept as they are. It is pure and safe to call on any input.
func Migrate(raw json.RawMessage, fromVersion int) (State, error) {
	var legacy struct {
		Items []legacyItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return State{}, fmt.Errorf("failed to decode cart record v%d: %w", fromVersion, err)
	}

	state := State{Items: make([]Line, 0, len(legacy.Items))}
	if fromVersion >= StoreVersion {
		for _, item := range legacy.Items {
			state.Items = append(state.Items, item.flat())
		}
		return state, nil
	}

	for _, item := range legacy.Items {
		if item.ProductID != "" && item.Price != nil {
			state.Items = append(state.Items, item.flat())
			continue
		}
		state.Items = append(state.Items, item.normalize())
	}
	return state, nil
}

func (item legacyItem) flat() Line {
	line := Line{
		ProductID: string(item.ProductID),
		Name:      item.Name,
		Image:     item.Image,
		Size:      item.Size,
		Quantity:  item.Quantity,
	}
	if item.Price != nil {
		line.Price = *item.Price
	}
	return line
}

func (item legacyItem) normalize() Line {
	p := item.Product
	if p == nil {
		p = &legacyProduct{}
	}

	line := Line{
		ProductID: firstNonEmpty(string(p.ID), string(item.ProductID)),
		Name:      firstNonEmpty(p.Name, item.Name),
		Price:     firstNonZero(p.Price, item.Price),
		Image:     item.Image,
		Size:      item.Size,
		Quantity:  item.Quantity,
	}
	if len(p.Images) > 0 && p.Images[0] != "" {
		line.Image = p.Images[0]
	}
	if line.Size == "" {
		line.Size = "M"
		if len(p.Sizes) > 0 && p.Sizes[0] != "" {
			line.Size = p.Sizes[0]
		}
	}
	if line.Quantity == 0 {
		line.Quantity = 1
	}
	return line
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...*money.Amount) money.Amount {
	for _, v := range values {
		if v != nil && !v.IsZero() {
			return *v
		}
	}
	return money.Zero
}
