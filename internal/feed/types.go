package feed

// Product is a catalog record that passed the eligibility policy, with
// every derived field already computed. Invariants: at least one
// variant, a non-empty image link, prices formatted to two decimals.
type Product struct {
	ID          int64
	Title       string
	Description string
	Link        string
	ImageLink   string
	Brand       string
	Condition   string
	ProductType string
	Category    string
	Variants    []Variant
}

// Variant is one sellable configuration of a Product.
type Variant struct {
	ID                int64
	Title             string
	SKU               string
	Price             string
	InventoryQuantity int
	Availability      string
}

// InStock reports whether any variant has inventory.
func (p *Product) InStock() bool {
	for _, v := range p.Variants {
		if v.InventoryQuantity > 0 {
			return true
		}
	}
	return false
}

// Channel carries the top-level feed metadata.
type Channel struct {
	Title       string
	Link        string
	Description string
}

// Entry is one row of the rendered feed, one per eligible variant.
type Entry struct {
	ID               string
	Title            string
	Description      string
	Link             string
	ImageLink        string
	Price            string
	Condition        string
	Availability     string
	Category         string
	SKU              string
	Brand            string
	ProductType      string
	IdentifierExists string
}
