// Package calculator derives per-person owed amounts from a receipt.
package calculator

import (
	"sort"

	"github.com/splitbills/splitbills/internal/models"
)

// Summary is the full derived view of a receipt: who owes what, plus the
// items nobody valid is assigned to and how much of the bill is covered.
type Summary struct {
	// People is sorted by TotalOwed descending; ties keep the order in which
	// the person was first encountered in the item list.
	People []models.PersonSummary `json:"people"`

	// Unassigned holds items with no valid assignee. Their price is in
	// nobody's subtotal.
	Unassigned []models.Item `json:"unassigned"`

	// CoveragePercent is 100 * sum(totalOwed) / receipt total, 0 when the
	// total is not positive. Advisory completeness signal for the UI.
	CoveragePercent float64 `json:"coveragePercent"`
}

// Summarize computes each person's share of the receipt: equal splits of
// assigned items, plus tax and tip in proportion to the person's subtotal.
//
// Assignee names not on the roster are ignored; an item whose assignees are
// all invalid counts as unassigned. Summarize is total over any well-formed
// receipt; malformed proposals are rejected by the merge gate before they
// ever reach here.
func Summarize(receipt *models.Receipt, rosterNames []string) Summary {
	valid := make(map[string]bool, len(rosterNames))
	for _, n := range rosterNames {
		valid[n] = true
	}

	byName := make(map[string]*models.PersonSummary)
	var order []string
	var unassigned []models.Item

	for _, item := range receipt.Items {
		var assignees []string
		for _, name := range item.AssignedTo {
			if valid[name] {
				assignees = append(assignees, name)
			}
		}
		if len(assignees) == 0 {
			unassigned = append(unassigned, item)
			continue
		}

		share := item.Price / float64(len(assignees))
		for _, name := range assignees {
			person, ok := byName[name]
			if !ok {
				person = &models.PersonSummary{Name: name}
				byName[name] = person
				order = append(order, name)
			}
			person.Items = append(person.Items, models.PersonItem{
				ID:    item.ID,
				Name:  item.Name,
				Price: item.Price,
				Share: share,
			})
			person.Subtotal += share
		}
	}

	// When no subtotal is known the tax and tip shares degrade to zero
	// instead of dividing by zero.
	var taxRatio, tipRatio float64
	if receipt.Subtotal > 0 {
		taxRatio = receipt.Tax / receipt.Subtotal
		tipRatio = receipt.Tip / receipt.Subtotal
	}

	people := make([]models.PersonSummary, 0, len(order))
	var owedSum float64
	for _, name := range order {
		person := byName[name]
		person.TaxShare = person.Subtotal * taxRatio
		person.TipShare = person.Subtotal * tipRatio
		person.TotalOwed = person.Subtotal + person.TaxShare + person.TipShare
		owedSum += person.TotalOwed
		people = append(people, *person)
	}

	sort.SliceStable(people, func(i, j int) bool {
		return people[i].TotalOwed > people[j].TotalOwed
	})

	var coverage float64
	if receipt.Total > 0 {
		coverage = 100 * owedSum / receipt.Total
	}

	return Summary{
		People:          people,
		Unassigned:      unassigned,
		CoveragePercent: coverage,
	}
}
