package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pablasso/todo/internal/exitcode"
	"github.com/pablasso/todo/internal/service"
	"github.com/pablasso/todo/internal/state"
	"github.com/pablasso/todo/internal/store"
	"github.com/pablasso/todo/internal/task"
)

func newListCmd(a *app) *cobra.Command {
	var filter string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List your tasks. The number in the first column identifies the task
for done, undone and rm.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			f := state.NewFilter()
			f.Set(filter)
			all := svc.Store().Tasks()

			var rows []row
			matched := []task.Task{}
			for i, t := range all {
				if !f.Match(t) {
					continue
				}
				rows = append(rows, row{Position: i + 1, Task: t})
				matched = append(matched, t)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, matched)
			}
			if len(rows) == 0 {
				if len(all) == 0 {
					fmt.Fprintln(out, "No tasks yet. Add one with 'todo add'.")
				} else {
					fmt.Fprintln(out, "No tasks found.")
				}
				return nil
			}
			return printTasks(out, rows)
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "show only tasks matching this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tasks as JSON")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var in addInput

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a task",
		Long: `Create a task. Without a name, a form asks for the task details when
running in a terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				in.name = args[0]
			}
			if in.name == "" {
				if !interactive() {
					return exitcode.User(errors.New("task name required"))
				}
				if err := runForm(addForm(&in)); err != nil {
					return err
				}
			}

			difficulty, err := task.ParseDifficulty(in.difficulty)
			if err != nil {
				return exitcode.User(err)
			}
			priority, err := task.ParsePriority(in.priority)
			if err != nil {
				return exitcode.User(err)
			}

			client, err := a.authedClient()
			if err != nil {
				return err
			}
			svc := service.New(a.newStore(), client)

			created, err := svc.Create(cmd.Context(), task.Draft{
				Name:        in.name,
				Description: in.description,
				Difficulty:  difficulty,
				Priority:    priority,
			})
			if err != nil {
				return a.checkAuth(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %q (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.name, "name", "n", "", "task name")
	cmd.Flags().StringVarP(&in.description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&in.difficulty, "difficulty", "", "low|medium|high")
	cmd.Flags().StringVar(&in.priority, "priority", "", "1 (lowest) to 5 (highest)")
	return cmd
}

func newDoneCmd(a *app, done bool) *cobra.Command {
	use, short, label := "done <task>", "Mark a task as done", "done"
	if !done {
		use, short, label = "undone <task>", "Mark a task as not done", "not done"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `. The task is identified by its id or by its number in
'todo list'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			t, err := lookup(svc, args[0])
			if err != nil {
				return err
			}
			if _, err := svc.SetDone(cmd.Context(), t.ID, done); err != nil {
				return a.checkAuth(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %q as %s\n", t.Name, label)
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			t, err := lookup(svc, args[0])
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), t.ID); err != nil {
				return a.checkAuth(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", t.Name)
			return nil
		},
	}
}

func lookup(svc *service.Service, ref string) (task.Task, error) {
	t, err := svc.Lookup(ref)
	if err != nil {
		return task.Task{}, exitcode.User(err)
	}
	return t, nil
}

func (a *app) newStore() *store.Store {
	return store.New(
		store.WithRollbackPolicy(a.cfg.Rollback),
		store.WithLogger(a.logger),
	)
}
