package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

// MonthSummary totals one calendar month of transactions.
type MonthSummary struct {
	Month       string  `json:"month"`
	Income      float64 `json:"income"`
	Expenses    float64 `json:"expenses"`
	Balance     float64 `json:"balance"`
	SavingsRate int     `json:"savings_rate"`
}

// CategoryTotal is the expense total for one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// MonthlyPoint is one month of the growth chart.
type MonthlyPoint struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

const monthLayout = "2006-01"

func monthOf(date string) string {
	if d, ok := normalizeDate(date); ok {
		return d[:len(monthLayout)]
	}
	return ""
}

func monthTotals(month string, txs []records.Transaction) (income, expenses float64) {
	for _, t := range txs {
		if monthOf(t.TransactionDate) != month {
			continue
		}
		switch t.TransactionType {
		case records.TransactionIncome:
			income += nonNegativeFloat(t.Amount)
		case records.TransactionExpense:
			expenses += nonNegativeFloat(t.Amount)
		}
	}
	return income, expenses
}

// SummarizeMonth totals the calendar month containing today. The savings
// rate is round((income-expenses)/income*100), 0 without income.
func SummarizeMonth(today time.Time, txs []records.Transaction) MonthSummary {
	month := DayKey(today, today.Location())[:len(monthLayout)]
	income, expenses := monthTotals(month, txs)

	ms := MonthSummary{
		Month:    month,
		Income:   roundCents(income),
		Expenses: roundCents(expenses),
		Balance:  roundCents(income - expenses),
	}
	if income > 0 {
		ms.SavingsRate = int(math.Round((income - expenses) / income * 100))
	}
	return ms
}

// ExpensesByCategory groups the current month's expenses by category,
// largest first. Uncategorized expenses fall under "Other".
func ExpensesByCategory(today time.Time, txs []records.Transaction) []CategoryTotal {
	month := DayKey(today, today.Location())[:len(monthLayout)]
	totals := make(map[string]float64)
	for _, t := range txs {
		if t.TransactionType != records.TransactionExpense || monthOf(t.TransactionDate) != month {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = "Other"
		}
		totals[cat] += nonNegativeFloat(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for cat, amount := range totals {
		out = append(out, CategoryTotal{Category: cat, Amount: roundCents(amount)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// DailySpending buckets expense amounts by transaction date.
func DailySpending(today time.Time, txs []records.Transaction, windowDays int) []DayValue[float64] {
	loc := today.Location()
	series := Bucket(today, windowDays, txs,
		func(t records.Transaction) (time.Time, bool) {
			if t.TransactionType != records.TransactionExpense {
				return time.Time{}, false
			}
			return records.ParseDate(t.TransactionDate, loc)
		},
		func(t records.Transaction) float64 { return nonNegativeFloat(t.Amount) },
	)
	for i := range series {
		series[i].Value = roundCents(series[i].Value)
	}
	return series
}

// MonthlyGrowth reports income, expenses, and net for the last `months`
// calendar months ending with today's month, oldest first.
func MonthlyGrowth(today time.Time, txs []records.Transaction, months int) []MonthlyPoint {
	if months < 1 {
		months = 1
	}
	y, m, _ := today.In(today.Location()).Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)

	out := make([]MonthlyPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		month := first.AddDate(0, -i, 0).Format(monthLayout)
		income, expenses := monthTotals(month, txs)
		out = append(out, MonthlyPoint{
			Month:    month,
			Income:   math.Round(income),
			Expenses: math.Round(expenses),
			Net:      math.Round(income - expenses),
		})
	}
	return out
}
