// Package merge is the single gate through which proposed receipt changes
// pass before they become canonical state.
//
// Every mutation, whether a manual assignment toggle, a bulk select/clear
// on one item, or a whole receipt proposed by the assistant, is expressed as
// a Proposal and validated here, so the invariants are enforced exactly once
// regardless of where the change came from. Externally-sourced receipts are
// untrusted input; validation treats them accordingly.
//
// Rejection is all-or-nothing per proposal: a proposal that references an
// unknown item or carries a bad number leaves the current receipt untouched.
// Unknown assignee names are the one exception: an interpretation service's
// name matching is fallible, so a name not on the roster is dropped from that
// item rather than sinking the whole proposal.
package merge

import (
	"fmt"
	"math"

	"github.com/splitbills/splitbills/internal/models"
	"github.com/splitbills/splitbills/internal/roster"
)

// Proposal is a candidate change to the receipt. The two variants are
// ReplaceReceipt (whole-snapshot) and AssignItem (single-item).
type Proposal interface {
	// Describe names the proposal kind for logs and metrics.
	Describe() string

	proposal()
}

// ReplaceReceipt proposes replacing the item list, tax, tip, total and
// currency atomically. This is the shape assistant responses arrive in.
type ReplaceReceipt struct {
	Receipt *models.Receipt
}

func (ReplaceReceipt) Describe() string { return "replace_receipt" }
func (ReplaceReceipt) proposal()        {}

// AssignItem proposes replacing a single item's assignee set, leaving every
// other field untouched. This is the shape manual toggles arrive in; an
// empty AssignedTo clears the item.
type AssignItem struct {
	ItemID     string
	AssignedTo []string
}

func (AssignItem) Describe() string { return "assign_item" }
func (AssignItem) proposal()        {}

// Apply validates proposal against the current receipt and roster and
// returns the receipt that should replace it. The current receipt is never
// mutated; on error it remains the canonical state.
func Apply(current *models.Receipt, people *roster.Roster, proposal Proposal) (*models.Receipt, error) {
	if current == nil {
		return nil, ErrNoReceipt
	}

	switch p := proposal.(type) {
	case ReplaceReceipt:
		return applyReplace(current, people, p)
	case AssignItem:
		return applyAssign(current, people, p)
	default:
		return nil, fmt.Errorf("unsupported proposal %T", proposal)
	}
}

func applyReplace(current *models.Receipt, people *roster.Roster, p ReplaceReceipt) (*models.Receipt, error) {
	if p.Receipt == nil {
		return nil, fmt.Errorf("replace proposal carries no receipt")
	}
	if err := CheckNumbers(p.Receipt); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(current.Items))
	for _, item := range current.Items {
		known[item.ID] = true
	}

	next := p.Receipt.Clone()
	for i := range next.Items {
		if !known[next.Items[i].ID] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownItem, next.Items[i].ID)
		}
		next.Items[i].AssignedTo = validNames(next.Items[i].AssignedTo, people)
	}
	return next, nil
}

func applyAssign(current *models.Receipt, people *roster.Roster, p AssignItem) (*models.Receipt, error) {
	if _, ok := current.Item(p.ItemID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, p.ItemID)
	}

	next := current.Clone()
	for i := range next.Items {
		if next.Items[i].ID == p.ItemID {
			next.Items[i].AssignedTo = validNames(p.AssignedTo, people)
			break
		}
	}
	return next, nil
}

// CheckNumbers enforces the numeric-sanity rule: tax, tip, total, subtotal
// and every item price must be finite and non-negative. The same rule vets
// extraction-service output before a session is created from it.
func CheckNumbers(r *models.Receipt) error {
	checks := []struct {
		name  string
		value float64
	}{
		{"subtotal", r.Subtotal},
		{"tax", r.Tax},
		{"tip", r.Tip},
		{"total", r.Total},
	}
	for _, c := range checks {
		if !validAmount(c.value) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidNumber, c.name, c.value)
		}
	}
	for _, item := range r.Items {
		if !validAmount(item.Price) {
			return fmt.Errorf("%w: item %q price = %v", ErrInvalidNumber, item.ID, item.Price)
		}
	}
	return nil
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// validNames filters names down to exact roster matches, dropping duplicates
// and preserving the first-seen order. Fuzzy matching is the interpretation
// service's job; by the time a name reaches the gate it either matches the
// roster exactly or it is discarded.
func validNames(names []string, people *roster.Roster) []string {
	var out []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] || !people.Contains(name) {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
