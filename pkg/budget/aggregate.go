package budget

import "github.com/Pelestrom/mondjai-budget-manager/pkg/model"

// SumExpenses totals expense amounts inside the interval, optionally
// filtered to one category name. Category is the join key transactions
// carry, not the category id. Records whose date does not parse are
// skipped; transaction data is untrusted client input and a bad row must
// never abort a whole evaluation pass.
func SumExpenses(txs []model.Transaction, category string, interval model.Interval) float64 {
	var sum float64
	for _, tx := range txs {
		if tx.Type != model.TypeExpense {
			continue
		}
		if category != "" && tx.Category != category {
			continue
		}
		date, err := model.ParseDate(tx.Date)
		if err != nil {
			continue
		}
		if !interval.Contains(date) {
			continue
		}
		sum += tx.Amount
	}
	return sum
}
