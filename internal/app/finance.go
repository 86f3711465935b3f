package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/disciplineos/internal/metrics"
	"github.com/blackwell-systems/disciplineos/internal/output"
	"github.com/blackwell-systems/disciplineos/internal/records"
	"github.com/blackwell-systems/disciplineos/internal/store"
)

// Suggested categories shown in help text. Any category is accepted.
var (
	expenseCategories = []string{"Food", "Transport", "Housing", "Entertainment", "Health",
		"Education", "Shopping", "Subscriptions", "Other"}
	incomeCategories = []string{"Salary", "Freelance", "Investment", "Gift", "Other"}
)

var (
	financeIncome   bool
	financeCategory string
	financeDesc     string
	financeDate     string
	financeLimit    int
)

var financeCmd = &cobra.Command{
	Use:     "finance",
	Aliases: []string{"money"},
	Short:   "Track income and expenses",
}

var financeAddCmd = &cobra.Command{
	Use:   "add <amount>",
	Short: "Record an expense, or income with --income",
	Long: fmt.Sprintf(`Record a transaction. Amounts are positive; --income marks it as income.

Expense categories: %s
Income categories:  %s

Examples:
  disciplineos finance add 12.50 -c Food -d "lunch"
  disciplineos finance add 3200 --income -c Salary --date 2026-10-01`,
		strings.Join(expenseCategories, ", "), strings.Join(incomeCategories, ", ")),
	Args: cobra.ExactArgs(1),
	RunE: runFinanceAdd,
}

var financeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent transactions",
	RunE:  runFinanceList,
}

var financeSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show this month's totals, categories, and trends",
	RunE:  runFinanceSummary,
}

var financeRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a transaction",
	Args:    cobra.ExactArgs(1),
	RunE:    runFinanceRm,
}

func init() {
	financeAddCmd.Flags().BoolVar(&financeIncome, "income", false, "Record as income")
	financeAddCmd.Flags().StringVarP(&financeCategory, "category", "c", "", "Category (default Other)")
	financeAddCmd.Flags().StringVarP(&financeDesc, "desc", "d", "", "Description")
	financeAddCmd.Flags().StringVar(&financeDate, "date", "", "Transaction date (YYYY-MM-DD, default today)")
	financeListCmd.Flags().IntVarP(&financeLimit, "limit", "n", 20, "Maximum rows to show (0 for all)")

	financeCmd.AddCommand(financeAddCmd, financeListCmd, financeSummaryCmd, financeRmCmd)
	rootCmd.AddCommand(financeCmd)
}

func runFinanceAdd(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	db, err := s.writable()
	if err != nil {
		return err
	}

	kind := records.TransactionExpense
	if financeIncome {
		kind = records.TransactionIncome
	}
	date := financeDate
	if date == "" {
		date = s.today()
	}
	t, err := db.AddTransaction(cmd.Context(), store.TransactionInput{
		Amount:          amount,
		TransactionType: kind,
		Category:        financeCategory,
		Description:     financeDesc,
		TransactionDate: date,
	})
	if err != nil {
		return err
	}
	if flagJSON {
		return s.printJSON(t)
	}
	s.printf(" %s Recorded %s %s %s (%s)\n", output.Check(true), shortID(t.ID), t.TransactionType, signedMoney(*t), t.Category)
	return nil
}

func runFinanceList(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	txs, err := s.src.Transactions(cmd.Context())
	if err != nil {
		return err
	}
	if financeLimit > 0 && len(txs) > financeLimit {
		txs = txs[:financeLimit]
	}
	if flagJSON {
		if txs == nil {
			txs = []records.Transaction{}
		}
		return s.printJSON(txs)
	}
	if len(txs) == 0 {
		s.println(" " + output.StyleMuted.Render("No transactions."))
		return nil
	}

	tbl := output.NewTable("ID", "Date", "Amount", "Category", "Description").AlignRight(2)
	for _, t := range txs {
		tbl.AddRow(shortID(t.ID), t.TransactionDate, signedMoney(t), t.Category, t.Description)
	}
	tbl.Print(s.out)
	return nil
}

// financeSummaryResult is the JSON shape of 'finance summary'.
type financeSummaryResult struct {
	Month      metrics.MonthSummary        `json:"month"`
	Categories []metrics.CategoryTotal     `json:"categories"`
	Spending   []metrics.DayValue[float64] `json:"spending"`
	Growth     []metrics.MonthlyPoint      `json:"growth"`
}

func runFinanceSummary(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	txs, err := s.src.Transactions(cmd.Context())
	if err != nil {
		return err
	}
	now := s.now()
	opts := s.cfg.DeriveOptions()
	res := financeSummaryResult{
		Month:      metrics.SummarizeMonth(now, txs),
		Categories: metrics.ExpensesByCategory(now, txs),
		Spending:   metrics.DailySpending(now, txs, opts.SpendingDays),
		Growth:     metrics.MonthlyGrowth(now, txs, opts.GrowthMonths),
	}
	if flagJSON {
		return s.printJSON(res)
	}

	m := res.Month
	s.println(output.Section("Money (" + m.Month + ")"))
	s.println(output.KeyValue("Income", output.StyleSuccess.Render(output.Money(m.Income))))
	s.println(output.KeyValue("Expenses", output.StyleError.Render(output.Money(m.Expenses))))
	s.println(output.KeyValue("Balance", output.Money(m.Balance)))
	s.println(output.KeyValue("Savings rate", fmt.Sprintf("%d%%", m.SavingsRate)))

	spend := make([]float64, len(res.Spending))
	for i, d := range res.Spending {
		spend[i] = d.Value
	}
	s.println(output.KeyValue(fmt.Sprintf("Spending (%dd)", len(spend)),
		output.Sparkline(spend)+"  "+output.StyleMuted.Render(output.Money(metrics.SeriesTotal(res.Spending)))))

	if len(res.Categories) > 0 {
		s.println(output.Section("Expenses by category"))
		for _, c := range res.Categories {
			share := 0.0
			if m.Expenses > 0 {
				share = c.Amount / m.Expenses * 100
			}
			s.println(output.KeyValue(c.Category, output.ProgressBar(share, 20)+"  "+output.Money(c.Amount)))
		}
	}

	s.println(output.Section("Monthly growth"))
	tbl := output.NewTable("Month", "Income", "Expenses", "Net").AlignRight(1, 2, 3)
	for _, p := range res.Growth {
		net := output.Money(p.Net)
		if p.Net < 0 {
			net = output.StyleError.Render(net)
		}
		tbl.AddRow(p.Month, output.Money(p.Income), output.Money(p.Expenses), net)
	}
	s.println()
	tbl.Print(s.out)
	return nil
}

func runFinanceRm(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	db, err := s.writable()
	if err != nil {
		return err
	}
	id, err := s.resolve(cmd.Context(), store.TableFinances, args[0])
	if err != nil {
		return err
	}
	if err := db.DeleteTransaction(cmd.Context(), id); err != nil {
		return err
	}
	s.printf(" Deleted transaction %s\n", shortID(id))
	return nil
}

func signedMoney(t records.Transaction) string {
	if t.TransactionType == records.TransactionIncome {
		return output.StyleSuccess.Render("+" + output.Money(t.Amount))
	}
	return output.StyleError.Render("-" + output.Money(t.Amount))
}
