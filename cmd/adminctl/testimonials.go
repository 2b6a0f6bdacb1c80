package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/phbpx/prits"
	"github.com/phbpx/prits/review"
	"github.com/spf13/cobra"
)

func newTestimonialsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testimonials",
		Short: "Moderate testimonials",
	}

	load := func(cmd *cobra.Command) (*review.TestimonialBoard, error) {
		ctx, cancel := opts.context(cmd)
		defer cancel()

		board := review.NewTestimonialBoard(opts.client())
		return board, board.Load(ctx)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all testimonials, inactive included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := load(cmd)
			if err != nil {
				return err
			}
			printTestimonials(cmd.OutOrStdout(), board.Items())
			return nil
		},
	})

	cmd.AddCommand(newTestimonialCreateCommand(opts, load))
	cmd.AddCommand(newTestimonialEditCommand(opts, load))

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Show or hide a testimonial on the public site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := load(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			t, err := board.Toggle(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", t.ID, visibility(t.IsActive))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a testimonial for good",
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

type testimonialFields struct {
	name    string
	role    string
	company string
	content string
	avatar  string
	rating  int
	active  bool
}

func (f *testimonialFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "author name")
	cmd.Flags().StringVar(&f.role, "role", "", "author role")
	cmd.Flags().StringVar(&f.company, "company", "", "author company")
	cmd.Flags().StringVar(&f.content, "content", "", "quote text")
	cmd.Flags().StringVar(&f.avatar, "avatar", "", "avatar image URL")
	cmd.Flags().IntVar(&f.rating, "rating", 0, "rating from 1 to 5, 0 for none")
}

func (f *testimonialFields) ratingPtr() *int {
	if f.rating == 0 {
		return nil
	}
	r := f.rating
	return &r
}

func newTestimonialCreateCommand(opts *options, load func(*cobra.Command) (*review.TestimonialBoard, error)) *cobra.Command {
	var f testimonialFields

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a testimonial, shown on the public site right away",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := load(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			t, err := board.Create(ctx, prits.NewTestimonial{
				Name:    f.name,
				Role:    f.role,
				Company: f.company,
				Content: f.content,
				Avatar:  f.avatar,
				Rating:  f.ratingPtr(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s created\n", t.ID)
			return nil
		},
	}
	f.register(cmd)

	return cmd
}

func newTestimonialEditCommand(opts *options, load func(*cobra.Command) (*review.TestimonialBoard, error)) *cobra.Command {
	var f testimonialFields

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a testimonial; flags left out keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := load(cmd)
			if err != nil {
				return err
			}
			if err := board.Select(args[0]); err != nil {
				return err
			}
			current, _ := board.Selected()

			flags := cmd.Flags()
			u := prits.TestimonialUpdate{
				ID:       current.ID,
				Name:     current.Name,
				Role:     current.Role,
				Company:  current.Company,
				Content:  current.Content,
				Avatar:   current.Avatar,
				Rating:   current.Rating,
				IsActive: &current.IsActive,
			}
			if flags.Changed("name") {
				u.Name = f.name
			}
			if flags.Changed("role") {
				u.Role = f.role
			}
			if flags.Changed("company") {
				u.Company = f.company
			}
			if flags.Changed("content") {
				u.Content = f.content
			}
			if flags.Changed("avatar") {
				u.Avatar = f.avatar
			}
			if flags.Changed("rating") {
				u.Rating = f.ratingPtr()
			}
			if flags.Changed("active") {
				u.IsActive = &f.active
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			t, err := board.Update(ctx, u)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated (%s)\n", t.ID, visibility(t.IsActive))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.active, "active", false, "show on the public site")

	return cmd
}

func newStatsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			s, err := opts.client().Stats(ctx)
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout(), "", "Total", "New", "Last 7 days")
			t.Append(submissionRow("Enquiries", s.Enquiries))
			t.Append(submissionRow("Service enquiries", s.ServiceEnquiries))
			t.Render()

			fmt.Fprintf(cmd.OutOrStdout(), "Testimonials: %d total, %d active\n", s.Testimonials.Total, s.Testimonials.Active)
			return nil
		},
	}
}

func submissionRow(label string, s prits.SubmissionStats) []string {
	return []string{label, strconv.Itoa(s.Total), strconv.Itoa(s.New), strconv.Itoa(s.Recent)}
}

func printTestimonials(w io.Writer, items []prits.Testimonial) {
	t := newTable(w, "ID", "Created", "Visibility", "Name", "Company", "Rating")
	for _, item := range items {
		rating := "-"
		if item.Rating != nil {
			rating = strconv.Itoa(*item.Rating)
		}
		t.Append([]string{item.ID, item.CreatedAt.Format(timeLayout), visibility(item.IsActive), item.Name, item.Company, rating})
	}
	t.Render()
}

func visibility(active bool) string {
	if active {
		return "active"
	}
	return "hidden"
}
