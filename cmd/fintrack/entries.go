package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/form"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/nav"
	"github.com/spf13/cobra"
)

func entriesCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entries",
		Aliases: []string{"entry"},
		Short:   "Manage income and expense entries",
	}

	cmd.AddCommand(listEntriesCmd(s))
	cmd.AddCommand(addEntryCmd(s))
	cmd.AddCommand(editEntryCmd(s))
	cmd.AddCommand(deleteEntryCmd(s))
	cmd.AddCommand(importEntriesCmd(s))

	return cmd
}

func listEntriesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, entries, err := s.services()
			if err != nil {
				return err
			}

			deps := s.listDeps(s.console(false))
			ctrl, err := loadList(cmd.Context(), entries, deps)
			if err != nil {
				return err
			}
			records := ctrl.Records()
			if len(records) == 0 {
				fmt.Fprintln(s.out, cli.InfoStyle.Render("No entries found. Use 'fintrack entries add' to create one."))
				return nil
			}

			names := map[int]string{}
			cats, err := loadList(cmd.Context(), categories, deps)
			if err != nil {
				// Entries still render with numeric category ids.
				s.logger.Warn("Failed to load category names", "error", err)
			} else {
				for _, c := range cats.Records() {
					if id, ok := c.RecordID(); ok {
						names[id] = c.Name
					}
				}
			}

			fmt.Fprintln(s.out, cli.RenderEntries(records, names))
			return nil
		},
	}
}

// entryFlags are the editable entry fields.
type entryFlags struct {
	name        string
	description string
	entryType   string
	amount      string
	date        string
	paid        bool
	categoryID  int
}

func (f *entryFlags) register(cmd *cobra.Command, withName bool) {
	if withName {
		cmd.Flags().StringVarP(&f.name, "name", "n", "", "Entry name")
	}
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Entry description")
	cmd.Flags().StringVarP(&f.entryType, "type", "t", string(model.EntryTypeExpense), "Entry type (expense, revenue)")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "Amount, without sign")
	cmd.Flags().StringVar(&f.date, "date", time.Now().Format(model.DateLayout), "Date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&f.paid, "paid", true, "Whether the entry is settled")
	cmd.Flags().IntVarP(&f.categoryID, "category-id", "c", 0, "Category id")
}

// values maps flags to form fields. Flag names differ from field names
// only for the category.
func (f *entryFlags) values() map[string]string {
	category := ""
	if f.categoryID != 0 {
		category = strconv.Itoa(f.categoryID)
	}
	return map[string]string{
		"name":        f.name,
		"description": f.description,
		"type":        f.entryType,
		"amount":      f.amount,
		"date":        f.date,
		"paid":        strconv.FormatBool(f.paid),
		"categoryId":  category,
	}
}

func flagChanged(cmd *cobra.Command) func(string) bool {
	return func(field string) bool {
		if field == "categoryId" {
			field = "category-id"
		}
		return cmd.Flags().Changed(field)
	}
}

func addEntryCmd(s *session) *cobra.Command {
	f := &entryFlags{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new entry",
		Example: `  fintrack entries add "Rent" --amount 950 --category-id 2
  fintrack entries add "Salary" --type revenue --amount 3200.50 --category-id 1 --date 2024-06-05`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.name = args[0]
			values := f.values()
			if !cmd.Flags().Changed("description") {
				delete(values, "description")
			}
			return s.saveEntry(cmd, form.EntryForm.Path+"/new", values)
		},
	}

	f.register(cmd, false)
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category-id")
	return cmd
}

func editEntryCmd(s *session) *cobra.Command {
	f := &entryFlags{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing entry",
		Long:  `Change fields of an entry. Only the flags given are changed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			values := changedValues(flagChanged(cmd), f.values())
			if len(values) == 0 {
				return common.NewUserError("nothing to change: pass at least one field flag", nil)
			}
			return s.saveEntry(cmd, form.EntryForm.EditPath(id), values)
		},
	}

	f.register(cmd, true)
	return cmd
}

func (s *session) saveEntry(cmd *cobra.Command, path string, values map[string]string) error {
	categories, entries, err := s.services()
	if err != nil {
		return err
	}

	history := nav.NewHistory(path)
	ctrl := form.NewEntryController(cmd.Context(), entries, categories, s.formDeps(s.console(false), history))
	defer ctrl.Close()

	if err := openForm(ctrl, path); err != nil {
		return err
	}
	if err := submitForm(ctrl, values); err != nil {
		return err
	}

	names := map[int]string{}
	for _, c := range ctrl.Categories() {
		if id, ok := c.RecordID(); ok {
			names[id] = c.Name
		}
	}
	saved, _ := ctrl.Record()
	fmt.Fprintln(s.out, cli.RenderEntries([]*model.Entry{&saved}, names))
	s.logger.Debug("Entry saved", "location", history.Current())
	return nil
}

func deleteEntryCmd(s *session) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			_, entries, err := s.services()
			if err != nil {
				return err
			}

			notifier := &tally{Notifier: s.console(yes)}
			ctrl, err := loadList(cmd.Context(), entries, s.listDeps(notifier))
			if err != nil {
				return err
			}
			defer ctrl.Close()

			deleted, err := deleteByID(ctrl, id)
			if err != nil {
				return err
			}
			return s.reportDelete("entry", id, deleted, notifier)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}
