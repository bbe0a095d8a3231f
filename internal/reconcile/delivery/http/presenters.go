package http

import (
	"fmt"

	"session-reconciler/internal/model"
	"session-reconciler/internal/reconcile"
	"session-reconciler/pkg/timenorm"
)

// --- Request DTOs ---

type claimReq struct {
	ParticipantID string `json:"participant_id" binding:"required"`
	Date          string `json:"date"           binding:"required"`
	StartTime     string `json:"start_time"     binding:"required"`
	EndTime       string `json:"end_time"       binding:"required"`
	Activity      string `json:"activity"       binding:"max=255"`
}

type runReq struct {
	Claims []claimReq `json:"claims" binding:"required,min=1,dive"`
}

// validate rejects structurally malformed dates up front; per-claim time
// range problems are left to the engine so they yield Rejected outcomes
// instead of failing the whole request.
func (r runReq) validate() error {
	for i, c := range r.Claims {
		if _, err := timenorm.ParseDate(c.Date); err != nil {
			return fmt.Errorf("claim %d: invalid date %q", i, c.Date)
		}
	}
	return nil
}

func (r runReq) toInput() reconcile.RunInput {
	claims := make([]model.SessionClaim, len(r.Claims))
	for i, c := range r.Claims {
		claims[i] = model.SessionClaim{
			ParticipantID: c.ParticipantID,
			Date:          c.Date,
			StartTime:     c.StartTime,
			EndTime:       c.EndTime,
			ActivityLabel: c.Activity,
			Source:        model.SourceUserSubmitted,
		}
	}
	return reconcile.RunInput{Claims: claims}
}

// --- Response DTOs ---

type outcomeResp struct {
	ClaimRef string `json:"claim_ref"`
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
}

type lineItemResp struct {
	ParticipantID   string  `json:"participant_id"`
	Date            string  `json:"date"`
	DurationMinutes int     `json:"duration_minutes"`
	Activity        string  `json:"activity"`
	Amount          float64 `json:"amount"`
}

type failureResp struct {
	ParticipantID string `json:"participant_id"`
	Reason        string `json:"reason"`
}

type documentResp struct {
	ParticipantID string `json:"participant_id"`
	Kind          string `json:"kind"`
	Path          string `json:"path"`
}

type runResp struct {
	RunID     string         `json:"run_id"`
	Outcomes  []outcomeResp  `json:"outcomes"`
	LineItems []lineItemResp `json:"line_items"`
	Failures  []failureResp  `json:"failures"`
	Documents []documentResp `json:"documents"`
}

func (h *handler) newRunResp(out reconcile.RunOutput) runResp {
	resp := runResp{
		RunID:     out.RunID,
		Outcomes:  make([]outcomeResp, len(out.Outcomes)),
		LineItems: make([]lineItemResp, len(out.LineItems)),
		Failures:  make([]failureResp, len(out.Failures)),
		Documents: make([]documentResp, len(out.Documents)),
	}

	for i, o := range out.Outcomes {
		resp.Outcomes[i] = outcomeResp{
			ClaimRef: o.ClaimRef,
			Decision: string(o.Decision),
			Reason:   o.Reason,
		}
	}
	for i, item := range out.LineItems {
		resp.LineItems[i] = lineItemResp{
			ParticipantID:   item.ParticipantID,
			Date:            item.Date,
			DurationMinutes: item.DurationMinutes,
			Activity:        item.ActivityLabel,
			Amount:          item.Amount,
		}
	}
	for i, f := range out.Failures {
		resp.Failures[i] = failureResp{ParticipantID: f.ParticipantID, Reason: f.Reason}
	}
	for i, d := range out.Documents {
		resp.Documents[i] = documentResp{ParticipantID: d.ParticipantID, Kind: d.Kind, Path: d.Path}
	}

	return resp
}
