package models

// Item represents a single priced line on a receipt.
// Items can be shared among multiple people.
type Item struct {
	// ID is the item identifier, unique within one receipt. IDs supplied by
	// the extraction service are kept as-is.
	ID string `json:"id"`

	// Name is the line description from the receipt (e.g., "Burger", "Fries").
	Name string `json:"name"`

	// Price is the pre-tax price of this item.
	Price float64 `json:"price"`

	// AssignedTo is the list of participant names splitting this item.
	// Multiple names mean an equal split. Order is not meaningful and
	// duplicates are never stored.
	AssignedTo []string `json:"assignedTo"`
}

// Receipt is the canonical state of a bill-splitting session: the item list
// plus the totals the extraction service read off the receipt.
//
// Subtotal, Tax, Tip and Total are independent values, not derived from the
// item list. A human or assistant edit can leave them out of sync with the
// item sum; the engine preserves them as written.
type Receipt struct {
	// Items in presentation order. The order is stable across edits.
	Items []Item `json:"items"`

	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Tip      float64 `json:"tip"`
	Total    float64 `json:"total"`

	// Currency is a display symbol or code, e.g. "$", "€", "EUR".
	Currency string `json:"currency"`
}

// Clone returns a deep copy of the receipt. Callers that hand receipts across
// package boundaries clone first so the canonical copy cannot be mutated
// behind the store's back.
func (r *Receipt) Clone() *Receipt {
	if r == nil {
		return nil
	}
	out := *r
	out.Items = make([]Item, len(r.Items))
	for i, item := range r.Items {
		out.Items[i] = item
		out.Items[i].AssignedTo = append([]string(nil), item.AssignedTo...)
	}
	return &out
}

// Item returns the item with the given id, or false if no such item exists.
func (r *Receipt) Item(id string) (Item, bool) {
	for _, item := range r.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// PersonItem is one person's share of a single item.
type PersonItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`

	// Share is this person's slice of Price after the equal split.
	Share float64 `json:"share"`
}

// PersonSummary is one person's calculated share of the bill. It is derived
// by the calculator on every read and never stored.
type PersonSummary struct {
	// Name is the participant's display name.
	Name string `json:"name"`

	// Items are the receipt lines assigned to this person, in receipt order.
	Items []PersonItem `json:"items"`

	// Subtotal is the sum of this person's item shares (pre-tax).
	Subtotal float64 `json:"subtotal"`

	// TaxShare and TipShare are proportional to Subtotal:
	// share = subtotal * (tax / bill_subtotal), likewise for tip.
	TaxShare float64 `json:"taxShare"`
	TipShare float64 `json:"tipShare"`

	// TotalOwed is Subtotal + TaxShare + TipShare.
	TotalOwed float64 `json:"totalOwed"`
}
