package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Ticket statuses used by the backend.
const (
	TicketOpen         = "open"
	TicketTriaged      = "triaged"
	TicketWaitingHuman = "waiting_human"
	TicketResolved     = "resolved"
	TicketClosed       = "closed"
)

// Ticket represents a support ticket
type Ticket struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Category          string        `json:"category"`
	Status            string        `json:"status"`
	Priority          string        `json:"priority"`
	CreatedBy         UserPayload   `json:"createdBy"`
	AssignedTo        *UserPayload  `json:"assignedTo,omitempty"`
	AttachmentURLs    []string      `json:"attachmentUrls,omitempty"`
	Replies           []TicketReply `json:"replies,omitempty"`
	AgentSuggestionID string        `json:"agentSuggestionId,omitempty"`
	CreatedAt         string        `json:"createdAt"`
	UpdatedAt         string        `json:"updatedAt"`
}

// TicketReply is one message on a ticket's thread.
type TicketReply struct {
	ID        string      `json:"id"`
	Author    UserPayload `json:"author"`
	Content   string      `json:"content"`
	CreatedAt string      `json:"createdAt"`
}

// TicketFilter narrows ListTickets. Zero values are omitted from the query.
type TicketFilter struct {
	Status   string
	Category string
	Mine     bool
	Limit    int
}

// CreateTicketRequest represents the ticket creation request
type CreateTicketRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	AttachmentURLs []string `json:"attachmentUrls"`
}

// AuditLog is one entry of a ticket's audit trail.
type AuditLog struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	Actor     string `json:"actor"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"createdAt"`
}

// AgentSuggestion is an automated reply draft attached to a ticket.
type AgentSuggestion struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
}

// ListTickets returns tickets matching the filter
func (c *Client) ListTickets(ctx context.Context, filter TicketFilter) ([]Ticket, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Mine {
		query.Set("my", "true")
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var resp struct {
		Tickets []Ticket `json:"tickets"`
	}
	if err := c.do(ctx, http.MethodGet, "/tickets", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tickets, nil
}

// GetTicket returns one ticket with its reply thread
func (c *Client) GetTicket(ctx context.Context, id string) (*Ticket, error) {
	var resp struct {
		Ticket Ticket `json:"ticket"`
	}
	if err := c.do(ctx, http.MethodGet, "/tickets/"+id, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Ticket, nil
}

// CreateTicket creates a new ticket
func (c *Client) CreateTicket(ctx context.Context, req CreateTicketRequest) (*Ticket, error) {
	var resp struct {
		Ticket Ticket `json:"ticket"`
	}
	if err := c.do(ctx, http.MethodPost, "/tickets", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Ticket, nil
}

// ReplyToTicket appends a reply to the ticket's thread
func (c *Client) ReplyToTicket(ctx context.Context, id, content string) error {
	body := map[string]string{"content": content}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/tickets/%s/reply", id), nil, body, nil)
}

// UpdateTicketStatus transitions the ticket to a new status
func (c *Client) UpdateTicketStatus(ctx context.Context, id, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/tickets/%s/status", id), nil, body, nil)
}

// TicketStats returns the per-status ticket counts (agents and admins only)
func (c *Client) TicketStats(ctx context.Context) (map[string]int, error) {
	var resp struct {
		StatusCounts map[string]int `json:"statusCounts"`
	}
	if err := c.do(ctx, http.MethodGet, "/tickets/meta/stats", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.StatusCounts, nil
}

// TicketAuditLog returns the audit trail for a ticket
func (c *Client) TicketAuditLog(ctx context.Context, id string) ([]AuditLog, error) {
	var resp struct {
		AuditLogs []AuditLog `json:"auditLogs"`
	}
	if err := c.do(ctx, http.MethodGet, "/audit/tickets/"+id, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.AuditLogs, nil
}

// TicketSuggestion returns the agent suggestion for a ticket, if any
func (c *Client) TicketSuggestion(ctx context.Context, id string) (*AgentSuggestion, error) {
	var resp struct {
		Suggestion AgentSuggestion `json:"suggestion"`
	}
	if err := c.do(ctx, http.MethodGet, "/agent/suggestion/"+id, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Suggestion, nil
}
