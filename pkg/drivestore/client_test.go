package drivestore_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"session-reconciler/pkg/drivestore"
)

func newTestClient(t *testing.T, handler http.Handler) (*drivestore.Client, func()) {
	t.Helper()
	ts := httptest.NewServer(handler)

	client := drivestore.NewFromHTTP(ts.Client(), drivestore.Config{
		DriveID: "drive-1",
		BaseURL: ts.URL,
	})
	return client, ts.Close
}

func TestEnsureFolder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a new folder", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/drives/drive-1/root:/Invoices%202024-25:/children", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": "f-1", "name": "1. July 24", "folder": {"childCount": 0}}`))
		})

		client, closeFn := newTestClient(t, mux)
		defer closeFn()

		item, err := client.EnsureFolder(ctx, "Invoices 2024-25", "1. July 24")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.ID != "f-1" || !item.IsFolder {
			t.Errorf("unexpected item: %+v", item)
		}
	})

	t.Run("returns the existing folder on conflict", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/drives/drive-1/root:/Invoices%202024-25:/children", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"error": {"code": "nameAlreadyExists", "message": "exists"}}`))
			case http.MethodGet:
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"value": [
					{"id": "f-existing", "name": "1. July 24", "folder": {"childCount": 2}},
					{"id": "f-other", "name": "2. August 24", "folder": {"childCount": 0}}
				]}`))
			}
		})

		client, closeFn := newTestClient(t, mux)
		defer closeFn()

		item, err := client.EnsureFolder(ctx, "Invoices 2024-25", "1. July 24")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.ID != "f-existing" {
			t.Errorf("expected existing folder, got %+v", item)
		}
	})

	t.Run("surfaces api errors", func(t *testing.T) {
		client, closeFn := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": {"code": "accessDenied", "message": "no access"}}`))
		}))
		defer closeFn()

		_, err := client.EnsureFolder(ctx, "Invoices 2024-25", "1. July 24")
		if err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("puts content at the path", func(t *testing.T) {
		var gotBody []byte
		mux := http.NewServeMux()
		mux.HandleFunc("/drives/drive-1/root:/Invoices%202024-25/Jane%20Doe/invoice-42.json:/content",
			func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut {
					t.Errorf("expected PUT, got %s", r.Method)
				}
				gotBody, _ = io.ReadAll(r.Body)
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"id": "i-1", "name": "invoice-42.json", "size": 12, "webUrl": "https://drive/invoice-42"}`))
			})

		client, closeFn := newTestClient(t, mux)
		defer closeFn()

		item, err := client.Upload(ctx, "Invoices 2024-25/Jane Doe/invoice-42.json", []byte(`{"total": 70}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(gotBody) != `{"total": 70}` {
			t.Errorf("unexpected uploaded body: %s", gotBody)
		}
		if item.WebURL != "https://drive/invoice-42" {
			t.Errorf("unexpected item: %+v", item)
		}
	})

	t.Run("surfaces api errors", func(t *testing.T) {
		client, closeFn := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInsufficientStorage)
		}))
		defer closeFn()

		if _, err := client.Upload(ctx, "a/b.json", []byte("x")); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestListChildren(t *testing.T) {
	ctx := context.Background()

	t.Run("lists the drive root", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/drives/drive-1/root/children", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"value": [
				{"id": "f-1", "name": "Invoices 2024-25", "folder": {"childCount": 3}},
				{"id": "d-1", "name": "readme.txt", "size": 10}
			]}`))
		})

		client, closeFn := newTestClient(t, mux)
		defer closeFn()

		items, err := client.ListChildren(ctx, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if !items[0].IsFolder || items[1].IsFolder {
			t.Errorf("unexpected folder flags: %+v", items)
		}
	})
}
