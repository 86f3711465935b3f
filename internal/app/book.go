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

var (
	bookPages     int
	bookCurrent   int
	bookDailyGoal int
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Track reading progress",
}

var bookAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a book to the reading list",
	Long: `Add a book with its page count and an optional daily page goal, which
is used to project how many days are left.

Example:
  disciplineos book add "Deep Work" --pages 296 --goal 20`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBookAdd,
}

var bookPagesCmd = &cobra.Command{
	Use:   "pages <id> <pages-read>",
	Short: "Log pages read; the book completes at its last page",
	Args:  cobra.ExactArgs(2),
	RunE:  runBookPages,
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books with progress",
	RunE:  runBookList,
}

var bookRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a book",
	Args:    cobra.ExactArgs(1),
	RunE:    runBookRm,
}

func init() {
	bookAddCmd.Flags().IntVar(&bookPages, "pages", 0, "Total pages (required)")
	bookAddCmd.Flags().IntVar(&bookCurrent, "current", 0, "Current page")
	bookAddCmd.Flags().IntVar(&bookDailyGoal, "goal", 0, "Daily page goal")
	_ = bookAddCmd.MarkFlagRequired("pages")

	bookCmd.AddCommand(bookAddCmd, bookPagesCmd, bookListCmd, bookRmCmd)
	rootCmd.AddCommand(bookCmd)
}

func runBookAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	db, err := s.writable()
	if err != nil {
		return err
	}

	b, err := db.AddBook(cmd.Context(), store.BookInput{
		Title:          strings.Join(args, " "),
		TotalPages:     bookPages,
		CurrentPage:    bookCurrent,
		DailyGoalPages: bookDailyGoal,
	})
	if err != nil {
		return err
	}
	if flagJSON {
		return s.printJSON(b)
	}
	s.printf(" %s Added %s %s (%d pages)\n", output.Check(true), shortID(b.ID), b.Title, b.TotalPages)
	return nil
}

func runBookPages(cmd *cobra.Command, args []string) error {
	read, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid page count %q", args[1])
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

	ctx := cmd.Context()
	id, err := s.resolve(ctx, store.TableBooks, args[0])
	if err != nil {
		return err
	}
	b, err := db.LogPages(ctx, id, read)
	if err != nil {
		return err
	}
	if flagJSON {
		return s.printJSON(metrics.ProjectBook(*b))
	}
	p := metrics.ProjectBook(*b)
	s.println(output.KeyValue(b.Title, output.ProgressBar(float64(p.Percent), 20)+
		fmt.Sprintf("  p.%d/%d", p.CurrentPage, p.TotalPages)))
	if p.Completed {
		s.printf(" %s Finished %s\n", output.StyleSuccess.Render("✓"), b.Title)
	}
	return nil
}

func runBookList(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	books, err := s.src.Books(cmd.Context())
	if err != nil {
		return err
	}
	progress := metrics.ReadingSnapshot(books)
	if flagJSON {
		type row struct {
			ID string `json:"id"`
			metrics.BookProgress
		}
		rows := make([]row, len(books))
		for i, b := range books {
			rows[i] = row{ID: b.ID, BookProgress: progress[i]}
		}
		return s.printJSON(rows)
	}
	if len(books) == 0 {
		s.println(" " + output.StyleMuted.Render("No books."))
		return nil
	}

	tbl := output.NewTable("ID", "Title", "Progress", "Pages", "Left")
	for i, b := range books {
		p := progress[i]
		tbl.AddRow(shortID(b.ID), b.Title, output.ProgressBar(float64(p.Percent), 10),
			fmt.Sprintf("%d/%d", p.CurrentPage, p.TotalPages), daysLeft(b, p))
	}
	tbl.Print(s.out)
	return nil
}

func daysLeft(b records.Book, p metrics.BookProgress) string {
	switch {
	case p.Completed:
		return output.StyleSuccess.Render("done")
	case b.DailyGoalPages <= 0:
		return fmt.Sprintf("%d pages", p.PagesLeft)
	default:
		return fmt.Sprintf("~%d days", p.DaysLeft)
	}
}

func runBookRm(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	db, err := s.writable()
	if err != nil {
		return err
	}
	id, err := s.resolve(cmd.Context(), store.TableBooks, args[0])
	if err != nil {
		return err
	}
	if err := db.DeleteBook(cmd.Context(), id); err != nil {
		return err
	}
	s.printf(" Deleted book %s\n", shortID(id))
	return nil
}
