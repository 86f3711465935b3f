package metrics

import (
	"math"

	"github.com/blackwell-systems/disciplineos/internal/records"
)

// BookProgress is a read-only projection of a book's page progress.
type BookProgress struct {
	Title       string `json:"title"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
	Completed   bool   `json:"completed"`
	Percent     int    `json:"percent"`
	PagesLeft   int    `json:"pages_left"`
	DaysLeft    int    `json:"days_left"`
}

// ProgressPercent is round(current/total*100); 0 when total is 0.
func ProgressPercent(currentPage, totalPages int) int {
	return percent(currentPage, totalPages)
}

// ProjectBook derives the progress projection for one book. DaysLeft is
// the number of days at the book's daily goal needed to finish.
func ProjectBook(b records.Book) BookProgress {
	current := nonNegative(b.CurrentPage)
	total := nonNegative(b.TotalPages)
	left := nonNegative(total - current)

	days := 0
	if goal := nonNegative(b.DailyGoalPages); goal > 0 {
		days = int(math.Ceil(float64(left) / float64(goal)))
	}

	return BookProgress{
		Title:       b.Title,
		CurrentPage: current,
		TotalPages:  total,
		Completed:   b.Completed,
		Percent:     ProgressPercent(current, total),
		PagesLeft:   left,
		DaysLeft:    days,
	}
}

// ReadingSnapshot projects every book, preserving input order.
func ReadingSnapshot(books []records.Book) []BookProgress {
	out := make([]BookProgress, 0, len(books))
	for _, b := range books {
		out = append(out, ProjectBook(b))
	}
	return out
}

// ActiveBook returns the first book not yet completed, or nil.
func ActiveBook(books []records.Book) *records.Book {
	for i := range books {
		if !books[i].Completed {
			return &books[i]
		}
	}
	return nil
}

// AdvancePages applies a reading session to a book: the page advances by
// pagesRead without passing the last page, and the book completes when it
// reaches the end.
func AdvancePages(b records.Book, pagesRead int) (currentPage int, completed bool) {
	total := nonNegative(b.TotalPages)
	currentPage = min(nonNegative(b.CurrentPage)+nonNegative(pagesRead), total)
	return currentPage, currentPage >= total
}
