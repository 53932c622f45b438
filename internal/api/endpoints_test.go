package api

import (
	"context"
	"net/http"
	"testing"
)

func TestListTickets_BuildsFilterQuery(t *testing.T) {
	var gotQuery map[string][]string

	client, _, closeFn := newTestClient(t, "t1", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"tickets":[{"id":"42","title":"Printer on fire","status":"open","category":"tech"}]}`))
	})
	defer closeFn()

	tickets, err := client.ListTickets(context.Background(), TicketFilter{
		Status:   TicketOpen,
		Category: "tech",
		Mine:     true,
		Limit:    5,
	})
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}

	if len(tickets) != 1 || tickets[0].ID != "42" {
		t.Fatalf("tickets = %+v, want one ticket with ID 42", tickets)
	}

	for key, want := range map[string]string{
		"status":   "open",
		"category": "tech",
		"my":       "true",
		"limit":    "5",
	} {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Errorf("query[%s] = %v, want %q", key, got, want)
		}
	}
}

func TestListTickets_OmitsZeroFilters(t *testing.T) {
	var gotQuery map[string][]string

	client, _, closeFn := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"tickets":[]}`))
	})
	defer closeFn()

	if _, err := client.ListTickets(context.Background(), TicketFilter{}); err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}

	for _, key := range []string{"status", "category", "my", "limit"} {
		if _, present := gotQuery[key]; present {
			t.Errorf("query should omit zero-valued filter %q", key)
		}
	}
}

func TestLogin_DecodesSessionPayload(t *testing.T) {
	client, _, closeFn := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		w.Write([]byte(`{"token":"t1","user":{"id":1,"name":"A","email":"a@x.com","role":"agent"}}`))
	})
	defer closeFn()

	resp, err := client.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if resp.Token != "t1" {
		t.Errorf("Token = %q, want %q", resp.Token, "t1")
	}
	if resp.User.Role != "agent" || resp.User.ID != 1 {
		t.Errorf("User = %+v, want agent with ID 1", resp.User)
	}
}

func TestUpdateSystemConfig_RoundTrips(t *testing.T) {
	client, _, closeFn := newTestClient(t, "t1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/config" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"config":{"autoCloseEnabled":true,"confidenceThreshold":0.8,"slaHours":24,"maxTicketsPerUser":10,"emailNotificationsEnabled":false}}`))
	})
	defer closeFn()

	updated, err := client.UpdateSystemConfig(context.Background(), SystemConfig{
		AutoCloseEnabled:    true,
		ConfidenceThreshold: 0.8,
		SLAHours:            24,
		MaxTicketsPerUser:   10,
	})
	if err != nil {
		t.Fatalf("UpdateSystemConfig() error = %v", err)
	}

	if updated.SLAHours != 24 || !updated.AutoCloseEnabled {
		t.Errorf("config = %+v, want the echoed settings", updated)
	}
}

func TestNotifierFunc(t *testing.T) {
	var got string
	NotifierFunc(func(message string) { got = message }).Notify("boom")
	if got != "boom" {
		t.Errorf("Notify() delivered %q, want %q", got, "boom")
	}
}
