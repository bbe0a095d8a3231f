package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"session-reconciler/internal/document"
	"session-reconciler/pkg/drivestore"
	"session-reconciler/pkg/log"
)

type driveCall struct {
	method string
	path   string
	body   string
}

func newRepo(t *testing.T, calls *[]driveCall, failUpload bool) document.Repository {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*calls = append(*calls, driveCall{method: r.Method, path: r.URL.Path, body: string(body)})

		switch {
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": "f-1", "name": "folder", "folder": {}}`))
		case r.Method == http.MethodPut:
			if failUpload {
				w.WriteHeader(http.StatusInsufficientStorage)
				return
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": "i-1", "name": "doc.json"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)

	client := drivestore.NewFromHTTP(ts.Client(), drivestore.Config{
		DriveID: "drive-1",
		BaseURL: ts.URL,
	})
	l := log.Init(log.ZapConfig{Level: "error", Mode: "production", Encoding: "json"})
	return New(l, client)
}

func TestStoreInvoice(t *testing.T) {
	period := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	inv := document.Invoice{
		InvoiceNumber: 42,
		ParticipantID: "7",
		PayeeName:     "jane doe",
		Period:        period,
		TotalAmount:   70,
	}

	t.Run("creates the folder chain and uploads", func(t *testing.T) {
		var calls []driveCall
		repo := newRepo(t, &calls, false)

		path, err := repo.StoreInvoice(context.Background(), inv)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "Invoices 2024-25/1. July 24/Jane Doe/invoice-42.json" {
			t.Errorf("unexpected path: %q", path)
		}

		var folders []string
		var uploads []driveCall
		for _, c := range calls {
			switch c.method {
			case http.MethodPost:
				var req struct {
					Name string `json:"name"`
				}
				json.Unmarshal([]byte(c.body), &req)
				folders = append(folders, req.Name)
			case http.MethodPut:
				uploads = append(uploads, c)
			}
		}

		wantFolders := []string{"Invoices 2024-25", "1. July 24", "Jane Doe"}
		if len(folders) != len(wantFolders) {
			t.Fatalf("expected %d folder creations, got %v", len(wantFolders), folders)
		}
		for i, want := range wantFolders {
			if folders[i] != want {
				t.Errorf("folder %d: expected %q, got %q", i, want, folders[i])
			}
		}

		if len(uploads) != 1 {
			t.Fatalf("expected 1 upload, got %d", len(uploads))
		}
		if !strings.Contains(uploads[0].path, "invoice-42.json") {
			t.Errorf("unexpected upload path: %q", uploads[0].path)
		}

		var uploaded document.Invoice
		if err := json.Unmarshal([]byte(uploads[0].body), &uploaded); err != nil {
			t.Fatalf("uploaded body is not an invoice: %v", err)
		}
		if uploaded.InvoiceNumber != 42 || uploaded.TotalAmount != 70 {
			t.Errorf("unexpected uploaded invoice: %+v", uploaded)
		}
	})

	t.Run("upload failures propagate", func(t *testing.T) {
		var calls []driveCall
		repo := newRepo(t, &calls, true)

		if _, err := repo.StoreInvoice(context.Background(), inv); err == nil {
			t.Errorf("expected error")
		}
	})
}

func TestStoreTimesheet(t *testing.T) {
	var calls []driveCall
	repo := newRepo(t, &calls, false)

	ts := document.Timesheet{
		ParticipantID: "7",
		DisplayName:   "jane doe",
		Period:        time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		TotalMinutes:  180,
	}

	path, err := repo.StoreTimesheet(context.Background(), ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "Timesheets 2024-25/7. January 25/Jane Doe/timesheet-2025-01.json" {
		t.Errorf("unexpected path: %q", path)
	}
}
