package main

import (
	"fmt"
	"io"

	"github.com/phbpx/prits"
	"github.com/phbpx/prits/review"
	"github.com/spf13/cobra"
)

func newEnquiriesCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "enquiries",
		Aliases: []string{"enq"},
		Short:   "Review contact enquiries",
	}

	load := func(cmd *cobra.Command) (*review.EnquiryBoard, error) {
		ctx, cancel := opts.context(cmd)
		defer cancel()

		board := review.NewEnquiryBoard(opts.client())
		return board, board.Load(ctx)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List enquiries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := load(cmd)
			if err != nil {
				return err
			}
			printEnquiries(cmd.OutOrStdout(), board.Items())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one enquiry in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := load(cmd)
			if err != nil {
				return err
			}
			if err := board.Select(args[0]); err != nil {
				return err
			}
			e, _ := board.Selected()
			printDetail(cmd.OutOrStdout(), [][2]string{
				{"ID", e.ID},
				{"Submitted", e.SubmittedAt.Format(timeLayout)},
				{"Status", string(e.Status)},
				{"Name", e.Name},
				{"Email", e.Email},
				{"Phone", e.Phone},
				{"Message", e.Message},
			})
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status <id> <new|contacted|closed>",
		Short: "Move an enquiry to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := prits.ParseStatus(args[1])
			if err != nil {
				return err
			}
			board, err := load(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			e, err := board.SetStatus(ctx, args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", e.ID, e.Status)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an enquiry for good",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := load(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			if err := board.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s deleted\n", args[0])
			return nil
		},
	})

	return cmd
}

func newServiceEnquiriesCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service-enquiries",
		Aliases: []string{"senq"},
		Short:   "Review service plan enquiries",
	}

	load := func(cmd *cobra.Command) (*review.ServiceEnquiryBoard, error) {
		ctx, cancel := opts.context(cmd)
		defer cancel()

		board := review.NewServiceEnquiryBoard(opts.client())
		return board, board.Load(ctx)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List service enquiries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := load(cmd)
			if err != nil {
				return err
			}
			printServiceEnquiries(cmd.OutOrStdout(), board.Items())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one service enquiry in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := load(cmd)
			if err != nil {
				return err
			}
			if err := board.Select(args[0]); err != nil {
				return err
			}
			e, _ := board.Selected()
			printDetail(cmd.OutOrStdout(), [][2]string{
				{"ID", e.ID},
				{"Submitted", e.SubmittedAt.Format(timeLayout)},
				{"Status", string(e.Status)},
				{"Name", e.Name},
				{"Email", e.Email},
				{"Phone", e.Phone},
				{"Company", e.Company},
				{"Plan", fmt.Sprintf("%s %s (%s)", e.Plan.Name, e.Plan.Price, e.Plan.Type)},
				{"Message", e.Message},
			})
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status <id> <new|contacted|closed>",
		Short: "Move a service enquiry to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := prits.ParseStatus(args[1])
			if err != nil {
				return err
			}
			board, err := load(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			e, err := board.SetStatus(ctx, args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", e.ID, e.Status)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a service enquiry for good",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := load(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			if err := board.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s deleted\n", args[0])
			return nil
		},
	})

	return cmd
}

func printEnquiries(w io.Writer, items []prits.Enquiry) {
	t := newTable(w, "ID", "Submitted", "Status", "Name", "Email", "Phone")
	for _, e := range items {
		t.Append([]string{e.ID, e.SubmittedAt.Format(timeLayout), string(e.Status), e.Name, e.Email, e.Phone})
	}
	t.Render()
}

func printServiceEnquiries(w io.Writer, items []prits.ServiceEnquiry) {
	t := newTable(w, "ID", "Submitted", "Status", "Name", "Company", "Plan", "Price")
	for _, e := range items {
		t.Append([]string{
			e.ID, e.SubmittedAt.Format(timeLayout), string(e.Status), e.Name, e.Company,
			e.Plan.Type + " / " + e.Plan.Name, e.Plan.Price,
		})
	}
	t.Render()
}
