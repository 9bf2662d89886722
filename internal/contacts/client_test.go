package contacts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"

	"github.com/graphdesk/graphdesk/internal/graph"
)

type stubTokenProvider struct{}

func (stubTokenProvider) GetTokenForAccount(_ context.Context, _ string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "test-token"}, nil
}

func (stubTokenProvider) HasTokenForAccount(_ string) bool { return true }

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := graph.DefaultConfig()
	cfg.BaseURL = baseURL
	client, err := NewClientForAccountWithConfig(context.Background(), "default", stubTokenProvider{}, cfg)
	if err != nil {
		t.Fatalf("NewClientForAccountWithConfig() error = %v", err)
	}
	return client
}

func TestListContacts(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/contacts" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"value": [
			{"id": "c1", "displayName": "Ada Lovelace", "emailAddresses": [{"address": "ada@example.com"}]},
			{"id": "c2", "displayName": "Grace Hopper"}
		]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	result, err := client.ListContacts(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListContacts() error = %v", err)
	}

	if got := gotQuery["$orderby"]; len(got) != 1 || got[0] != "displayName" {
		t.Errorf("$orderby = %v", gotQuery["$orderby"])
	}
	if len(result) != 2 {
		t.Fatalf("got %d contacts, want 2", len(result))
	}
	if result[0].EmailAddresses[0].Address != "ada@example.com" {
		t.Errorf("first contact = %+v", result[0])
	}
}

func TestSearchContacts(t *testing.T) {
	var gotSearch string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("$search")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"value": [{"id": "c1", "displayName": "Ada Lovelace"}]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	result, err := client.SearchContacts(context.Background(), "ada", 10)
	if err != nil {
		t.Fatalf("SearchContacts() error = %v", err)
	}

	if gotSearch != `"ada"` {
		t.Errorf("$search = %q, want quoted expression", gotSearch)
	}
	if len(result) != 1 || result[0].DisplayName != "Ada Lovelace" {
		t.Errorf("result = %+v", result)
	}
}

func TestSearchContactsRequiresQuery(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	if _, err := client.SearchContacts(context.Background(), "", 0); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestCreateContact(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/me/contacts" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id": "c1", "displayName": "Ada Lovelace", "givenName": "Ada", "surname": "Lovelace"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	created, err := client.CreateContact(context.Background(), ContactInput{
		GivenName:      "Ada",
		Surname:        "Lovelace",
		EmailAddresses: []string{"ada@example.com"},
		CompanyName:    "Analytical Engines",
	})
	if err != nil {
		t.Fatalf("CreateContact() error = %v", err)
	}

	if created.ID != "c1" {
		t.Errorf("created.ID = %q", created.ID)
	}
	if gotBody["givenName"] != "Ada" || gotBody["companyName"] != "Analytical Engines" {
		t.Errorf("body = %v", gotBody)
	}
	if _, ok := gotBody["mobilePhone"]; ok {
		t.Error("zero-valued fields should be omitted")
	}
}

func TestUpdateContact(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": "c1", "displayName": "Ada Lovelace", "jobTitle": "Mathematician"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	updated, err := client.UpdateContact(context.Background(), "c1", ContactInput{JobTitle: "Mathematician"})
	if err != nil {
		t.Fatalf("UpdateContact() error = %v", err)
	}

	if gotMethod != "PATCH" {
		t.Errorf("method = %q", gotMethod)
	}
	if len(gotBody) != 1 || gotBody["jobTitle"] != "Mathematician" {
		t.Errorf("body = %v", gotBody)
	}
	if updated.JobTitle != "Mathematician" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestUpdateContactRequiresFields(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	if _, err := client.UpdateContact(context.Background(), "c1", ContactInput{}); err == nil {
		t.Error("expected error for empty update")
	}
}

func TestDeleteContact(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if err := client.DeleteContact(context.Background(), "c1"); err != nil {
		t.Fatalf("DeleteContact() error = %v", err)
	}
	if gotMethod != "DELETE" || gotPath != "/me/contacts/c1" {
		t.Errorf("%s %s", gotMethod, gotPath)
	}
}
