package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskd-dev/deskd/internal/api"
	"github.com/deskd-dev/deskd/internal/session"
)

// NewTicketsCmd creates the tickets command group
func NewTicketsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Create and browse support tickets",
	}

	cmd.AddCommand(newTicketsListCmd())
	cmd.AddCommand(newTicketsShowCmd())
	cmd.AddCommand(newTicketsCreateCmd())
	cmd.AddCommand(newTicketsReplyCmd())
	cmd.AddCommand(newTicketsStatusCmd())
	cmd.AddCommand(newTicketsStatsCmd())

	return cmd
}

func newTicketsListCmd() *cobra.Command {
	var status, category string
	var mine bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireView("/tickets"); err != nil {
				return err
			}

			tickets, err := app.client.ListTickets(context.Background(), api.TicketFilter{
				Status:   status,
				Category: category,
				Mine:     mine,
				Limit:    limit,
			})
			if err != nil {
				return err
			}

			if len(tickets) == 0 {
				fmt.Println("No tickets found")
				return nil
			}

			for _, t := range tickets {
				fmt.Printf("%-10s  %-14s  %-9s  %s\n", t.ID, t.Status, t.Category, t.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (open, triaged, waiting_human, resolved, closed)")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category (billing, tech, shipping, other)")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only tickets created by me")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of tickets to return")

	return cmd
}

func newTicketsShowCmd() *cobra.Command {
	var withAudit bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one ticket with its reply thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireView("/tickets/" + args[0]); err != nil {
				return err
			}

			ctx := context.Background()
			ticket, err := app.client.GetTicket(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("#%s  %s\n", ticket.ID, ticket.Title)
			fmt.Printf("Status: %s   Category: %s   Opened by: %s\n", ticket.Status, ticket.Category, ticket.CreatedBy.Name)
			fmt.Printf("\n%s\n", ticket.Description)

			for _, reply := range ticket.Replies {
				fmt.Printf("\n--- %s (%s)\n%s\n", reply.Author.Name, reply.CreatedAt, reply.Content)
			}

			// Agent suggestions are an agent/admin affordance, mirroring
			// the role check in the web detail view.
			user := app.store.CurrentUser()
			if ticket.AgentSuggestionID != "" && user != nil && user.Role != session.RoleUser {
				if suggestion, err := app.client.TicketSuggestion(ctx, ticket.ID); err == nil {
					fmt.Printf("\nSuggested reply (confidence %.2f):\n%s\n", suggestion.Confidence, suggestion.Content)
				}
			}

			if withAudit {
				logs, err := app.client.TicketAuditLog(ctx, ticket.ID)
				if err != nil {
					return err
				}
				fmt.Println("\nAudit trail:")
				for _, entry := range logs {
					fmt.Printf("  %s  %-20s  %s\n", entry.CreatedAt, entry.Action, entry.Detail)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&withAudit, "audit", false, "Include the audit trail")

	return cmd
}

func newTicketsCreateCmd() *cobra.Command {
	var title, description, category string
	var attachments []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateForm(ticketForm{Title: title, Description: description, Category: category}); err != nil {
				return err
			}

			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireView("/tickets/new"); err != nil {
				return err
			}

			ticket, err := app.client.CreateTicket(context.Background(), api.CreateTicketRequest{
				Title:          title,
				Description:    description,
				Category:       category,
				AttachmentURLs: attachments,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Ticket created: #%s\n", ticket.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Short summary of the issue")
	cmd.Flags().StringVar(&description, "description", "", "Full description")
	cmd.Flags().StringVar(&category, "category", "other", "Category (billing, tech, shipping, other)")
	cmd.Flags().StringArrayVar(&attachments, "attach", nil, "Attachment URL (repeatable)")

	return cmd
}

func newTicketsReplyCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "reply <id>",
		Short: "Reply to a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("message is required (use --message)")
			}

			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireView("/tickets/" + args[0]); err != nil {
				return err
			}

			if err := app.client.ReplyToTicket(context.Background(), args[0], message); err != nil {
				return err
			}

			fmt.Println("✓ Reply posted")
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Reply content")

	return cmd
}

func newTicketsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Transition a ticket to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireView("/tickets/" + args[0]); err != nil {
				return err
			}

			if err := app.client.UpdateTicketStatus(context.Background(), args[0], args[1]); err != nil {
				return err
			}

			fmt.Printf("✓ Ticket #%s is now %s\n", args[0], args[1])
			return nil
		},
	}
}

func newTicketsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-status ticket counts (agents and admins)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireView("/"); err != nil {
				return err
			}

			counts, err := app.client.TicketStats(context.Background())
			if err != nil {
				return err
			}

			for _, status := range []string{api.TicketOpen, api.TicketTriaged, api.TicketWaitingHuman, api.TicketResolved, api.TicketClosed} {
				fmt.Printf("%-14s %d\n", status, counts[status])
			}
			return nil
		},
	}
}
