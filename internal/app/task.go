package app

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/disciplineos/internal/output"
	"github.com/blackwell-systems/disciplineos/internal/records"
	"github.com/blackwell-systems/disciplineos/internal/store"
)

var (
	taskPriority string
	taskCategory string
	taskDue      string
	taskEstimate int
	taskNotes    string
	taskListAll  bool
	taskListCat  string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Add, list, complete, and remove tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Long: `Add a task to one of the three lists: today, upcoming, or long-term.

Examples:
  disciplineos task add "Write weekly review"
  disciplineos task add "Renew passport" --category upcoming --due 2026-11-01
  disciplineos task add "Learn Go generics" -c long-term -p high --estimate 120`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed (+10 XP)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskCompleted(cmd, args[0], true)
	},
}

var taskUndoCmd = &cobra.Command{
	Use:   "undo <id>",
	Short: "Mark a completed task open again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskCompleted(cmd, args[0], false)
	},
}

var taskRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskRm,
}

func init() {
	taskAddCmd.Flags().StringVarP(&taskPriority, "priority", "p", store.PriorityMedium, "Priority: low, medium, high")
	taskAddCmd.Flags().StringVarP(&taskCategory, "category", "c", store.CategoryToday, "List: today, upcoming, long-term")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")
	taskAddCmd.Flags().IntVar(&taskEstimate, "estimate", 0, "Estimated minutes")
	taskAddCmd.Flags().StringVar(&taskNotes, "notes", "", "Longer description")

	taskListCmd.Flags().StringVarP(&taskListCat, "category", "c", "", "Only this list: today, upcoming, long-term")
	taskListCmd.Flags().BoolVarP(&taskListAll, "all", "a", false, "Include completed tasks")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskUndoCmd, taskRmCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	db, err := s.writable()
	if err != nil {
		return err
	}

	t, err := db.AddTask(cmd.Context(), store.TaskInput{
		Title:            strings.Join(args, " "),
		Description:      taskNotes,
		Priority:         taskPriority,
		Category:         taskCategory,
		DueDate:          taskDue,
		EstimatedMinutes: taskEstimate,
	})
	if err != nil {
		return err
	}
	if flagJSON {
		return s.printJSON(t)
	}
	s.printf(" %s Added %s %s\n", output.Check(true), shortID(t.ID), t.Title)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var tasks []records.Task
	if s.db != nil {
		tasks, err = s.db.ListTasks(cmd.Context(), taskListCat)
	} else {
		tasks, err = s.src.Tasks(cmd.Context())
		tasks = filterCategory(tasks, taskListCat)
	}
	if err != nil {
		return err
	}
	if !taskListAll {
		open := tasks[:0]
		for _, t := range tasks {
			if !t.Completed {
				open = append(open, t)
			}
		}
		tasks = open
	}

	if flagJSON {
		if tasks == nil {
			tasks = []records.Task{}
		}
		return s.printJSON(tasks)
	}
	if len(tasks) == 0 {
		s.println(" " + output.StyleMuted.Render("No tasks."))
		return nil
	}

	tbl := output.NewTable("ID", "", "Title", "Priority", "List", "Due", "Est")
	for _, t := range tasks {
		est := ""
		if t.EstimatedMinutes > 0 {
			est = output.Minutes(t.EstimatedMinutes)
		}
		tbl.AddRow(shortID(t.ID), output.Check(t.Completed), t.Title, priorityStyle(t.Priority), t.Category, t.DueDate, est)
	}
	tbl.Print(s.out)
	return nil
}

func setTaskCompleted(cmd *cobra.Command, prefix string, completed bool) error {
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
	id, err := s.resolve(ctx, store.TableTasks, prefix)
	if err != nil {
		return err
	}
	t, err := db.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if t.Completed == completed {
		s.printf(" %s is already %s\n", t.Title, completionWord(completed))
		return nil
	}
	if err := db.SetTaskCompleted(ctx, id, completed); err != nil {
		return err
	}
	s.printf(" %s %s marked %s\n", output.Check(completed), t.Title, completionWord(completed))
	if completed {
		s.award(ctx, db, xpTaskCompleted)
	}
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	db, err := s.writable()
	if err != nil {
		return err
	}
	id, err := s.resolve(cmd.Context(), store.TableTasks, args[0])
	if err != nil {
		return err
	}
	if err := db.DeleteTask(cmd.Context(), id); err != nil {
		return err
	}
	s.printf(" Deleted task %s\n", shortID(id))
	return nil
}

func filterCategory(tasks []records.Task, category string) []records.Task {
	if category == "" || category == "all" {
		return tasks
	}
	var out []records.Task
	for _, t := range tasks {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

func completionWord(completed bool) string {
	if completed {
		return "done"
	}
	return "open"
}

func priorityStyle(p string) string {
	switch p {
	case store.PriorityHigh:
		return output.StyleError.Render(p)
	case store.PriorityLow:
		return output.StyleMuted.Render(p)
	default:
		return p
	}
}

// shortID is the prefix the CLI prints and ResolveID accepts back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
