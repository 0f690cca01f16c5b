package bot

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kwasu-works/lostfound-bot/models"
	"github.com/kwasu-works/lostfound-bot/storage"
	"github.com/kwasu-works/lostfound-bot/utils"
)

// ResolveOutcome is the result of attempting to mark a report resolved.
type ResolveOutcome int

const (
	ResolveOK ResolveOutcome = iota
	ResolveCodeMismatch
	ResolveNotFound
	ResolveNotAuthorized
)

// ErrReportNotFound is returned by GetByID for unknown report ids.
var ErrReportNotFound = errors.New("report not found")

// ReportRepository owns the durable report records stored under
// reports/{id}.
type ReportRepository struct {
	Store storage.DocumentStore
}

func NewReportRepository(store storage.DocumentStore) *ReportRepository {
	return &ReportRepository{Store: store}
}

// Create assigns the id, verification code and creation timestamp, persists
// the report and returns the new id. Required fields are re-checked here so
// the repository never stores a half-built record.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) (string, error) {
	if strings.TrimSpace(report.Item) == "" {
		return "", &models.ValidationError{Field: "item", Reason: "required"}
	}
	if strings.TrimSpace(report.Location) == "" {
		return "", &models.ValidationError{Field: "location", Reason: "required"}
	}
	if report.Kind == models.KindFound && strings.TrimSpace(report.ContactPhone) == "" {
		return "", &models.ValidationError{Field: "contact_phone", Reason: "required"}
	}

	report.ID = uuid.New().String()
	report.VerificationCode = utils.GenerateVerificationCode()
	report.CreatedAt = time.Now()
	report.Resolved = false
	report.ResolvedAt = nil

	if err := r.Store.Set(ctx, "reports/"+report.ID, report); err != nil {
		return "", err
	}
	return report.ID, nil
}

// GetAll returns every report, oldest first.
func (r *ReportRepository) GetAll(ctx context.Context) ([]*models.Report, error) {
	raw, err := r.Store.List(ctx, "reports")
	if err != nil {
		return nil, err
	}
	reports := make([]*models.Report, 0, len(raw))
	for _, data := range raw {
		var report models.Report
		if err := json.Unmarshal(data, &report); err != nil {
			return nil, err
		}
		reports = append(reports, &report)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.Before(reports[j].CreatedAt)
	})
	return reports, nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	err := r.Store.Get(ctx, "reports/"+id, &report)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// FindByReporter returns the reports a user submitted, oldest first.
func (r *ReportRepository) FindByReporter(ctx context.Context, userID string) ([]*models.Report, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var mine []*models.Report
	for _, report := range all {
		if report.ReporterID == userID {
			mine = append(mine, report)
		}
	}
	return mine, nil
}

// FindByExactName returns reports whose item name equals name after
// trimming and case folding, filtered to kind when kind is non-empty.
func (r *ReportRepository) FindByExactName(ctx context.Context, name string, kind models.ReportKind) ([]*models.Report, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*models.Report
	for _, report := range all {
		if kind != "" && report.Kind != kind {
			continue
		}
		if report.NameEquals(name) {
			matches = append(matches, report)
		}
	}
	return matches, nil
}

// Resolve marks a report claimed or recovered. Only the reporter may
// resolve, and only with the report's verification code. Resolving an
// already-resolved report is an idempotent success: the original
// ResolvedAt is never overwritten.
func (r *ReportRepository) Resolve(ctx context.Context, id, code, requesterID string) (ResolveOutcome, error) {
	report, err := r.GetByID(ctx, id)
	if errors.Is(err, ErrReportNotFound) {
		return ResolveNotFound, nil
	}
	if err != nil {
		return 0, err
	}

	if report.ReporterID != requesterID {
		return ResolveNotAuthorized, nil
	}
	if strings.ToUpper(strings.TrimSpace(code)) != report.VerificationCode {
		return ResolveCodeMismatch, nil
	}
	if report.Resolved {
		return ResolveOK, nil
	}

	now := time.Now()
	err = r.Store.Update(ctx, "reports/"+id, map[string]interface{}{
		"resolved":    true,
		"resolved_at": now.Format(time.RFC3339Nano),
	})
	if err != nil {
		return 0, err
	}
	return ResolveOK, nil
}
