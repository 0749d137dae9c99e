package core

import (
	"sort"
	"time"
)

// TransactionView is a transaction joined with its category's display
// metadata, as returned by list endpoints and embedded in the home summary.
type TransactionView struct {
	ID            int64           `json:"id"`
	CategoryID    int64           `json:"categoryId"`
	CategoryName  string          `json:"categoryName"`
	CategoryColor string          `json:"categoryColor"`
	CategoryIcon  string          `json:"categoryIcon"`
	Type          TransactionType `json:"type"`
	Amount        Amount          `json:"amount"`
	Description   *string         `json:"description"`
	Date          DateTime        `json:"date"`
	CreatedAt     DateTime        `json:"createdAt"`
}

// CategoryExpense is one row of the current-month expense breakdown.
// Percentage is a display value only.
type CategoryExpense struct {
	CategoryName string  `json:"categoryName"`
	Amount       Amount  `json:"amount"`
	Color        string  `json:"color"`
	Percentage   float64 `json:"percentage"`
}

// HomeSummary is the aggregated financial snapshot for the dashboard view.
type HomeSummary struct {
	TotalBalance       Amount            `json:"totalBalance"`
	MonthIncome        Amount            `json:"monthIncome"`
	MonthExpense       Amount            `json:"monthExpense"`
	MonthChange        Amount            `json:"monthChange"`
	CategoryExpenses   []CategoryExpense `json:"categoryExpenses"`
	RecentTransactions []TransactionView `json:"recentTransactions"`
}

const (
	topCategories      = 5
	recentTransactions = 5
)

// BuildHomeSummary derives the home summary from a user's full transaction
// ledger. The reference instant now is an explicit parameter: the month
// boundary is the first instant of now's calendar month in now's location.
// The function is pure, so tests inject a fixed clock.
func BuildHomeSummary(now time.Time, txs []TransactionView) HomeSummary {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var totalIncome, totalExpense, monthIncome, monthExpense Amount

	type categoryGroup struct {
		id    int64
		name  string
		color string
		sum   Amount
	}
	groups := make(map[int64]*categoryGroup)

	for _, t := range txs {
		switch t.Type {
		case Income:
			totalIncome = totalIncome.Add(t.Amount)
		case Expense:
			totalExpense = totalExpense.Add(t.Amount)
		}

		if t.Date.Before(startOfMonth) {
			continue
		}
		switch t.Type {
		case Income:
			monthIncome = monthIncome.Add(t.Amount)
		case Expense:
			monthExpense = monthExpense.Add(t.Amount)
			g, ok := groups[t.CategoryID]
			if !ok {
				g = &categoryGroup{id: t.CategoryID, name: t.CategoryName, color: t.CategoryColor}
				groups[t.CategoryID] = g
			}
			g.sum = g.sum.Add(t.Amount)
		}
	}

	ordered := make([]*categoryGroup, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if c := ordered[i].sum.Cmp(ordered[j].sum); c != 0 {
			return c > 0
		}
		return ordered[i].id < ordered[j].id
	})
	if len(ordered) > topCategories {
		ordered = ordered[:topCategories]
	}

	breakdown := make([]CategoryExpense, 0, len(ordered))
	for _, g := range ordered {
		pct := 0.0
		if monthExpense.IsPositive() {
			pct = g.sum.InexactFloat64() / monthExpense.InexactFloat64() * 100
		}
		breakdown = append(breakdown, CategoryExpense{
			CategoryName: g.name,
			Amount:       g.sum,
			Color:        g.color,
			Percentage:   pct,
		})
	}

	recent := make([]TransactionView, len(txs))
	copy(recent, txs)
	sort.SliceStable(recent, func(i, j int) bool {
		if !recent[i].Date.Equal(recent[j].Date.Time) {
			return recent[i].Date.After(recent[j].Date.Time)
		}
		return recent[i].ID < recent[j].ID
	})
	if len(recent) > recentTransactions {
		recent = recent[:recentTransactions]
	}

	return HomeSummary{
		TotalBalance:       totalIncome.Sub(totalExpense),
		MonthIncome:        monthIncome,
		MonthExpense:       monthExpense,
		MonthChange:        monthIncome.Sub(monthExpense),
		CategoryExpenses:   breakdown,
		RecentTransactions: recent,
	}
}
