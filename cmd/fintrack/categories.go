package main

import (
	"fmt"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/form"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/nav"
	"github.com/spf13/cobra"
)

func categoriesCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage categories",
		Long:    `List, add, edit, and delete the categories entries are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd(s))
	cmd.AddCommand(addCategoryCmd(s))
	cmd.AddCommand(editCategoryCmd(s))
	cmd.AddCommand(deleteCategoryCmd(s))

	return cmd
}

func listCategoriesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, _, err := s.services()
			if err != nil {
				return err
			}

			ctrl, err := loadList(cmd.Context(), categories, s.listDeps(s.console(false)))
			if err != nil {
				return err
			}

			records := ctrl.Records()
			if len(records) == 0 {
				fmt.Fprintln(s.out, cli.InfoStyle.Render("No categories found. Use 'fintrack categories add' to create one."))
				return nil
			}
			fmt.Fprintln(s.out, cli.RenderCategories(records))
			return nil
		},
	}
}

func addCategoryCmd(s *session) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := map[string]string{"name": args[0]}
			if cmd.Flags().Changed("description") {
				values["description"] = description
			}
			return s.saveCategory(cmd, form.CategoryForm.Path+"/new", values)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Category description")
	return cmd
}

func editCategoryCmd(s *session) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing category",
		Long: `Change the name or description of a category. Only the flags given are
changed; pass an empty --description to clear it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			values := changedValues(cmd.Flags().Changed, map[string]string{
				"name":        name,
				"description": description,
			})
			if len(values) == 0 {
				return common.NewUserError("nothing to change: use --name or --description", nil)
			}
			return s.saveCategory(cmd, form.CategoryForm.EditPath(id), values)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func (s *session) saveCategory(cmd *cobra.Command, path string, values map[string]string) error {
	categories, _, err := s.services()
	if err != nil {
		return err
	}

	history := nav.NewHistory(path)
	ctrl := form.New(cmd.Context(), form.CategoryForm, categories, s.formDeps(s.console(false), history))
	defer ctrl.Close()

	if err := openForm(ctrl, path); err != nil {
		return err
	}
	if err := submitForm(ctrl, values); err != nil {
		return err
	}

	saved, _ := ctrl.Record()
	fmt.Fprintln(s.out, cli.RenderCategories([]*model.Category{&saved}))
	s.logger.Debug("Category saved", "location", history.Current())
	return nil
}

func deleteCategoryCmd(s *session) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a category. Categories that still have entries cannot be deleted.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			categories, _, err := s.services()
			if err != nil {
				return err
			}

			notifier := &tally{Notifier: s.console(yes)}
			ctrl, err := loadList(cmd.Context(), categories, s.listDeps(notifier))
			if err != nil {
				return err
			}
			defer ctrl.Close()

			deleted, err := deleteByID(ctrl, id)
			if err != nil {
				return err
			}
			return s.reportDelete("category", id, deleted, notifier)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

func (s *session) reportDelete(what string, id int, deleted bool, notifier *tally) error {
	switch {
	case deleted:
		fmt.Fprintln(s.out, cli.FormatSuccess(fmt.Sprintf("Deleted %s %d", what, id)))
		return nil
	case notifier.failures > 0:
		return common.NewUserError(fmt.Sprintf("%s %d was not deleted", what, id), errNotSaved)
	default:
		fmt.Fprintln(s.out, cli.FormatInfo("Nothing deleted"))
		return nil
	}
}
