package files

import (
	"bytes"
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

func TestListChildrenOfRoot(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"value": [
			{"id": "i1", "name": "reports", "folder": {"childCount": 2}},
			{"id": "i2", "name": "notes.txt", "size": 120, "file": {"mimeType": "text/plain"}}
		]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	items, err := client.ListChildren(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("ListChildren() error = %v", err)
	}

	if gotPath != "/me/drive/root/children" {
		t.Errorf("path = %q", gotPath)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if !items[0].IsFolder() {
		t.Error("expected first item to be a folder")
	}
	if items[1].IsFolder() || items[1].File.MimeType != "text/plain" {
		t.Errorf("second item = %+v", items[1])
	}
}

func TestListChildrenOfItem(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"value": []}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if _, err := client.ListChildren(context.Background(), "i1", 0); err != nil {
		t.Fatalf("ListChildren() error = %v", err)
	}
	if gotPath != "/me/drive/items/i1/children" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestSearchFiles(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"value": [{"id": "i1", "name": "q1 report.pdf"}]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	items, err := client.SearchFiles(context.Background(), "q1 report", 0)
	if err != nil {
		t.Fatalf("SearchFiles() error = %v", err)
	}

	if gotPath != "/me/drive/root/search(q='q1 report')" {
		t.Errorf("path = %q", gotPath)
	}
	if len(items) != 1 || items[0].Name != "q1 report.pdf" {
		t.Errorf("items = %+v", items)
	}
}

func TestSearchFilesRequiresQuery(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	if _, err := client.SearchFiles(context.Background(), "", 0); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestGetItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/drive/items/i1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": "i1", "name": "notes.txt", "size": 120, "parentReference": {"path": "/drive/root:"}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	item, err := client.GetItem(context.Background(), "i1")
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if item.Size != 120 || item.ParentReference == nil {
		t.Errorf("item = %+v", item)
	}
}

func TestDownloadFile(t *testing.T) {
	content := []byte("file content, not JSON")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/drive/items/i1/content" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(content)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	data, err := client.DownloadFile(context.Background(), "i1")
	if err != nil {
		t.Fatalf("DownloadFile() error = %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Errorf("data = %q", data)
	}
}

func TestUploadFile(t *testing.T) {
	content := []byte{0x25, 0x50, 0x44, 0x46}
	var gotPath, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id": "i9", "name": "q1.pdf", "size": 4}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	item, err := client.UploadFile(context.Background(), "reports/q1.pdf", content)
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}

	if gotPath != "/me/drive/root:/reports/q1.pdf:/content" {
		t.Errorf("path = %q", gotPath)
	}
	if gotContentType != "application/octet-stream" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if !bytes.Equal(gotBody, content) {
		t.Errorf("body = %v", gotBody)
	}
	if item.ID != "i9" {
		t.Errorf("item = %+v", item)
	}
}

func TestDeleteItem(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if err := client.DeleteItem(context.Background(), "i1"); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	if gotMethod != "DELETE" || gotPath != "/me/drive/items/i1" {
		t.Errorf("%s %s", gotMethod, gotPath)
	}
}

func TestCreateFolder(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/me/drive/root/children" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id": "i3", "name": "archive", "folder": {"childCount": 0}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	folder, err := client.CreateFolder(context.Background(), "", "archive")
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}

	if gotBody["name"] != "archive" {
		t.Errorf("body = %v", gotBody)
	}
	if _, ok := gotBody["folder"]; !ok {
		t.Error("expected folder facet in request")
	}
	if !folder.IsFolder() {
		t.Errorf("folder = %+v", folder)
	}
}
