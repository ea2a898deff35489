package loans

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muthuvel01/goldpledge/internal/domain/models"
)

func loanFixture() []models.Loan {
	return []models.Loan{
		{CustomerName: "Alice Johnson", MobileNumber: "9876543210", Status: models.LoanStatusActive},
		{CustomerName: "Bob Kumar", MobileNumber: "9123456780", Status: models.LoanStatusClosed},
		{CustomerName: "Carla Mendes", MobileNumber: "9988776655", Status: models.LoanStatusActive},
	}
}

func TestFilterSearchTerm(t *testing.T) {
	tests := []struct {
		name       string
		searchTerm string
		status     string
		wantNames  []string
	}{
		{
			name:       "case-insensitive name match",
			searchTerm: "alice",
			status:     StatusAll,
			wantNames:  []string{"Alice Johnson"},
		},
		{
			name:       "mobile containment match",
			searchTerm: "912345",
			status:     StatusAll,
			wantNames:  []string{"Bob Kumar"},
		},
		{
			name:       "empty term keeps everything",
			searchTerm: "",
			status:     StatusAll,
			wantNames:  []string{"Alice Johnson", "Bob Kumar", "Carla Mendes"},
		},
		{
			name:       "no match",
			searchTerm: "zzz",
			status:     StatusAll,
			wantNames:  []string{},
		},
		{
			name:       "status clause selects exactly the closed loan",
			searchTerm: "",
			status:     "closed",
			wantNames:  []string{"Bob Kumar"},
		},
		{
			name:       "status clause is case-insensitive",
			searchTerm: "",
			status:     "ACTIVE",
			wantNames:  []string{"Alice Johnson", "Carla Mendes"},
		},
		{
			name:       "both clauses must pass",
			searchTerm: "alice",
			status:     "closed",
			wantNames:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(loanFixture(), tt.searchTerm, tt.status)

			names := make([]string, 0, len(got))
			for _, loan := range got {
				names = append(names, loan.CustomerName)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestFilterExcludesMalformedRecordsBeforeTextClause(t *testing.T) {
	loans := []models.Loan{
		{CustomerName: "", MobileNumber: "9876543210", Status: models.LoanStatusActive},
		{CustomerName: "Alice Johnson", MobileNumber: "", Status: models.LoanStatusActive},
		{CustomerName: "Alice Johnson", MobileNumber: "9876543210", Status: models.LoanStatusActive},
	}

	got := Filter(loans, "alice", StatusAll)
	assert.Len(t, got, 1)
	assert.Equal(t, "9876543210", got[0].MobileNumber)

	// Malformed records are excluded even with no search term.
	got = Filter(loans, "", StatusAll)
	assert.Len(t, got, 1)
}

func TestFilterPreservesOrder(t *testing.T) {
	loans := []models.Loan{
		{CustomerName: "Zed", MobileNumber: "111", Status: models.LoanStatusActive},
		{CustomerName: "Amy", MobileNumber: "222", Status: models.LoanStatusActive},
		{CustomerName: "Mia", MobileNumber: "333", Status: models.LoanStatusActive},
	}

	got := Filter(loans, "", StatusAll)
	assert.Equal(t, "Zed", got[0].CustomerName)
	assert.Equal(t, "Amy", got[1].CustomerName)
	assert.Equal(t, "Mia", got[2].CustomerName)
}

func TestFilterIsIdempotent(t *testing.T) {
	once := Filter(loanFixture(), "a", "active")
	twice := Filter(once, "a", "active")
	assert.Equal(t, once, twice)
}
