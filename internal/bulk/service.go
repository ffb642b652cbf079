package bulk

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/cillii/catalog-backend/internal/classes"
	"github.com/cillii/catalog-backend/pkg/db"
	"github.com/cillii/catalog-backend/pkg/db/models"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
	"github.com/cillii/catalog-backend/pkg/logger"
)

// rowConcurrency bounds the per-row fan-out. SQLite serializes writes anyway,
// but normalization and lookups overlap usefully.
const rowConcurrency = 4

// Options controls a reconciliation run.
type Options struct {
	// UpdateOnly skips rows whose special id has no existing match instead of
	// inserting them.
	UpdateOnly bool
}

// SkippedRow reports one row that did not make it into the store. Index is
// the 1-based spreadsheet row number including the header row, so it matches
// what the admin sees in their sheet.
type SkippedRow struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Result aggregates a reconciliation run.
type Result struct {
	ProcessedCount int          `json:"processedCount"`
	SkippedCount   int          `json:"skippedCount"`
	Skipped        []SkippedRow `json:"skipped"`
}

// Service reconciles spreadsheet rows against the class store.
type Service struct {
	repo *classes.Repository
	logg *logger.Logger
}

func NewService(repo *classes.Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// Reconcile applies every data row of the sheet independently. Rows never
// abort the batch; each one ends processed or skipped-with-reason, and the
// result is only assembled once all rows are terminal.
func (s *Service) Reconcile(ctx context.Context, sheet Sheet, opts Options) (Result, error) {
	cols := resolveColumns(sheet.Header)
	if _, ok := cols[fieldSpecialID]; !ok {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "sheet has no special id column")
	}

	skipReasons := make([]string, len(sheet.Rows))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(rowConcurrency)

	for i := range sheet.Rows {
		i := i
		group.Go(func() error {
			skipReasons[i] = s.reconcileRow(groupCtx, sheet.Rows[i], cols, opts)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{Skipped: []SkippedRow{}}
	for i, reason := range skipReasons {
		if reason == "" {
			result.ProcessedCount++
			continue
		}
		result.SkippedCount++
		// +2 converts the slice index to the sheet's own numbering: rows are
		// 1-based and the header occupies row 1.
		result.Skipped = append(result.Skipped, SkippedRow{Index: i + 2, Reason: reason})
	}
	sort.Slice(result.Skipped, func(a, b int) bool {
		return result.Skipped[a].Index < result.Skipped[b].Index
	})
	return result, nil
}

// reconcileRow returns an empty string on success or the skip reason.
func (s *Service) reconcileRow(ctx context.Context, cells []string, cols columnMap, opts Options) string {
	patch, err := classes.Normalize(rowPayload(cells, cols))
	if err != nil {
		return skipReason(err)
	}
	if patch.SpecialID == nil {
		return "Special ID is required."
	}

	existing, err := s.repo.FindBySpecialID(ctx, *patch.SpecialID)
	switch {
	case err == nil:
		return s.updateRow(ctx, existing, patch)
	case classes.IsNotFound(err):
		if opts.UpdateOnly {
			return "Record not found (update-only mode)."
		}
		return s.insertRow(ctx, patch)
	default:
		s.logg.Error(s.logg.WithField(ctx, "specialId", *patch.SpecialID), "row lookup failed", err)
		return "Lookup failed."
	}
}

func (s *Service) updateRow(ctx context.Context, existing *models.Class, patch classes.Patch) string {
	classes.ApplyPatch(existing, patch)
	switch patch.VideoAction {
	case classes.VideoReplace:
		url := patch.VideoURL
		existing.ClassVideo = &url
	case classes.VideoRemove:
		existing.ClassVideo = nil
	}
	// VideoKeep leaves the stored video alone; sheet exports routinely omit
	// links that were attached by hand.

	if err := s.repo.Save(ctx, existing); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "specialId", existing.SpecialID), "row update failed", err)
		return "Update failed."
	}
	return ""
}

func (s *Service) insertRow(ctx context.Context, patch classes.Patch) string {
	class := models.Class{SpecialID: *patch.SpecialID}
	classes.ApplyPatch(&class, patch)
	if patch.VideoAction == classes.VideoReplace {
		url := patch.VideoURL
		class.ClassVideo = &url
	}

	err := s.repo.Create(ctx, &class)
	if err == nil {
		return ""
	}
	if db.IsUniqueViolation(err, "special_id") {
		// Another row in the same batch created it first; fold this row into
		// an update of the now-existing record.
		existing, lookupErr := s.repo.FindBySpecialID(ctx, *patch.SpecialID)
		if lookupErr == nil {
			return s.updateRow(ctx, existing, patch)
		}
		err = lookupErr
	}
	s.logg.Error(s.logg.WithField(ctx, "specialId", *patch.SpecialID), "row insert failed", err)
	return "Insert failed."
}

// skipReason renders a normalization failure the way it is shown to the
// admin, naming the offending field when known.
func skipReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return err.Error()
	}
	if details, ok := typed.Details().(map[string]string); ok {
		if field := details["field"]; field != "" {
			return fmt.Sprintf("%s: invalid value %q", field, details["value"])
		}
	}
	return typed.Message()
}
