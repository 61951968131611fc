package classify

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/harish176/plum-project/internal/domain"
)

// resolveConflicts deduplicates canonical financial types. When several
// amounts carry the same canonical label, the highest value keeps it and the
// rest are renamed with a positional suffix ("paid_2"). Service labels are
// never touched; two consultations on one bill are legitimate.
func (c *Classifier) resolveConflicts(items []domain.AmountItem) []domain.AmountItem {
	if len(items) <= 1 {
		return items
	}

	groups := map[string][]domain.AmountItem{}
	var groupOrder []string
	resolved := make([]domain.AmountItem, 0, len(items))

	for _, item := range items {
		if !domain.CanonicalFinancialTypes[item.Type] {
			resolved = append(resolved, item)
			continue
		}
		if _, ok := groups[item.Type]; !ok {
			groupOrder = append(groupOrder, item.Type)
		}
		groups[item.Type] = append(groups[item.Type], item)
	}

	for _, typ := range groupOrder {
		group := groups[typ]
		if len(group) == 1 {
			resolved = append(resolved, group[0])
			continue
		}

		switch typ {
		case domain.TypeTotalBill, domain.TypeDue, domain.TypePaid:
			// The plausible total/paid/due is the largest one.
			bestIdx := 0
			for i, item := range group {
				if item.Value > group[bestIdx].Value {
					bestIdx = i
				}
			}
			resolved = append(resolved, group[bestIdx])
			for i, item := range group {
				if i == bestIdx {
					continue
				}
				item.Type = fmt.Sprintf("%s_%d", typ, i+1)
				resolved = append(resolved, item)
			}
		default:
			for i, item := range group {
				if i > 0 {
					item.Type = fmt.Sprintf("%s_%d", typ, i+1)
				}
				resolved = append(resolved, item)
			}
		}
	}

	c.checkRelationships(resolved)
	return resolved
}

// checkRelationships verifies the total = paid + due identity when exactly one
// of each is present. Diagnostic only.
func (c *Classifier) checkRelationships(items []domain.AmountItem) {
	var totals, paids, dues []float64
	for _, item := range items {
		switch item.Type {
		case domain.TypeTotalBill:
			totals = append(totals, item.Value)
		case domain.TypePaid:
			paids = append(paids, item.Value)
		case domain.TypeDue:
			dues = append(dues, item.Value)
		}
	}
	if len(totals) != 1 || len(paids) != 1 || len(dues) != 1 {
		return
	}

	diff := totals[0] - (paids[0] + dues[0])
	if diff < 0.01 && diff > -0.01 {
		c.logger.Debug("amount relationship verified",
			zap.Float64("total", totals[0]),
			zap.Float64("paid", paids[0]),
			zap.Float64("due", dues[0]))
	}
}
