package fees

import "schoolfees-backend/models"

// ReconcileOptions tunes the merge of catalog and demands.
type ReconcileOptions struct {
	// IncludeOrphaned appends demands whose fee structure is no longer in the
	// active catalog but which still carry a balance. With the default
	// structure-driven iteration such demands would otherwise be invisible to
	// the cashier.
	IncludeOrphaned bool
}

// Reconcile merges the active fee-structure catalog for a grade with the
// student's persisted demands, producing exactly one row per structure, in
// catalog order. Structures without a matching demand become placeholders.
func Reconcile(structures []models.FeeStructure, demands []models.FeeDemand, opts ReconcileOptions) []DemandRow {
	byStructure := make(map[string]models.FeeDemand, len(demands))
	for _, d := range demands {
		// First match wins if the data ever holds duplicates.
		if _, ok := byStructure[d.FeeStructureID]; !ok {
			byStructure[d.FeeStructureID] = d
		}
	}

	rows := make([]DemandRow, 0, len(structures))
	active := make(map[string]bool, len(structures))
	for _, s := range structures {
		active[s.Id] = true
		if d, ok := byStructure[s.Id]; ok {
			rows = append(rows, PersistedRow{Demand: d, FeeName: s.CategoryName()})
		} else {
			rows = append(rows, PlaceholderRow{Structure: s, FeeName: s.CategoryName()})
		}
	}

	if opts.IncludeOrphaned {
		for _, d := range demands {
			if active[d.FeeStructureID] || d.BalanceAmount <= 0 {
				continue
			}
			rows = append(rows, PersistedRow{Demand: d, FeeName: d.FeeStructure.CategoryName()})
		}
	}

	return rows
}

// FindRow looks up a reconciled row by its id (demand id or placeholder id).
func FindRow(rows []DemandRow, id string) (DemandRow, bool) {
	for _, r := range rows {
		if r.RowID() == id {
			return r, true
		}
	}
	return nil, false
}
