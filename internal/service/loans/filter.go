package loans

import (
	"strings"

	"github.com/muthuvel01/goldpledge/internal/domain/models"
)

// StatusAll is the sentinel that disables the status clause.
const StatusAll = "all"

// Filter applies the list view's client-side predicate: a case-insensitive
// substring match of the search term against the customer name or a raw
// containment match against the mobile number, then an exact case-insensitive
// status match. Records missing a name or number are excluded before the text
// clause runs. The input order is preserved and the predicate is idempotent.
func Filter(loans []models.Loan, searchTerm, status string) []models.Loan {
	term := strings.ToLower(searchTerm)

	filtered := make([]models.Loan, 0, len(loans))
	for _, loan := range loans {
		if loan.CustomerName == "" || loan.MobileNumber == "" {
			continue
		}

		if term != "" {
			nameMatch := strings.Contains(strings.ToLower(loan.CustomerName), term)
			mobileMatch := strings.Contains(loan.MobileNumber, term)
			if !nameMatch && !mobileMatch {
				continue
			}
		}

		if status != "" && !strings.EqualFold(status, StatusAll) {
			if !strings.EqualFold(loan.Status, status) {
				continue
			}
		}

		filtered = append(filtered, loan)
	}

	return filtered
}
