package domain

// DocumentCounts tallies a role's verdicts over the documents it may review.
type DocumentCounts struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}

// CountDocuments tallies role's verdicts over its qualifying documents.
func CountDocuments(docs []Document, role UserRole) DocumentCounts {
	var c DocumentCounts
	for _, d := range QualifyingDocuments(docs, role) {
		c.Total++
		v := d.Verification(role)
		switch {
		case v.Verified:
			c.Verified++
		case v.Rejected():
			c.Rejected++
		default:
			c.Pending++
		}
	}
	return c
}

// ClaimSummary is a claim list row as seen by one reviewer role.
type ClaimSummary struct {
	ClaimListRow
	StatusLabel      string         `json:"status_label"`
	Documents        DocumentCounts `json:"documents"`
	ReadyForApproval bool           `json:"ready_for_approval"`
}

// SummarizeClaim builds role's view of row from the claim's documents.
func SummarizeClaim(row ClaimListRow, docs []Document, role UserRole) ClaimSummary {
	return ClaimSummary{
		ClaimListRow:     row,
		StatusLabel:      row.Status.Label(),
		Documents:        CountDocuments(docs, role),
		ReadyForApproval: ReadyForApproval(docs, role),
	}
}
