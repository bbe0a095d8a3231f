package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"session-reconciler/internal/document"
	"session-reconciler/pkg/drivestore"
	"session-reconciler/pkg/log"
)

// driveRepository stores rendered documents on the shared drive under the
// academic-year folder layout:
//
//	Invoices 2024-25 / 1. July 24 / Jane Doe / invoice-42.json
//	Timesheets 2024-25 / 1. July 24 / Jane Doe / timesheet-2024-07.json
type driveRepository struct {
	l      log.Logger
	client *drivestore.Client
}

func New(l log.Logger, client *drivestore.Client) document.Repository {
	return &driveRepository{l: l, client: client}
}

func (r *driveRepository) StoreInvoice(ctx context.Context, inv document.Invoice) (string, error) {
	folder, err := r.ensurePeriodFolder(ctx, "Invoices", inv.Period, inv.PayeeName)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("invoice-%d.json", inv.InvoiceNumber)
	return r.upload(ctx, folder, name, inv)
}

func (r *driveRepository) StoreTimesheet(ctx context.Context, ts document.Timesheet) (string, error) {
	folder, err := r.ensurePeriodFolder(ctx, "Timesheets", ts.Period, ts.DisplayName)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("timesheet-%s.json", ts.Period.Format("2006-01"))
	return r.upload(ctx, folder, name, ts)
}

// ensurePeriodFolder creates (or finds) the nested year/month/participant
// folder chain and returns its path.
func (r *driveRepository) ensurePeriodFolder(ctx context.Context, kind string, period time.Time, participantName string) (string, error) {
	yearFolder := fmt.Sprintf("%s %s", kind, document.AcademicYear(period))
	monthFolder := document.MonthFolderName(period)
	participantFolder := document.ParticipantFolderName(participantName)

	path := ""
	for _, name := range []string{yearFolder, monthFolder, participantFolder} {
		if _, err := r.client.EnsureFolder(ctx, path, name); err != nil {
			return "", fmt.Errorf("failed to ensure folder %q under %q: %w", name, path, err)
		}
		if path == "" {
			path = name
		} else {
			path = path + "/" + name
		}
	}

	return path, nil
}

func (r *driveRepository) upload(ctx context.Context, folder, name string, payload any) (string, error) {
	content, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	path := folder + "/" + name
	if _, err := r.client.Upload(ctx, path, content); err != nil {
		return "", err
	}

	r.l.Infof(ctx, "document: stored %s", path)
	return path, nil
}
