package reconcile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dalemusser/wallcharts/internal/app/system/apperr"
	"github.com/dalemusser/wallcharts/internal/app/system/auditlog"
	"github.com/dalemusser/wallcharts/internal/app/system/csvutil"
	"github.com/dalemusser/wallcharts/internal/app/system/scope"
)

// ImportCSV parses a personnel extract and reconciles it. Only administrators
// may import. Structural problems with the file (size, row count, missing
// columns) reject the whole file; unreadable rows are reported and skipped.
func (r *Reconciler) ImportCSV(ctx context.Context, rd io.Reader, actor scope.Actor) (Report, error) {
	if err := scope.RequireAdmin(scope.Resolve(actor)); err != nil {
		return Report{}, err
	}

	data, err := io.ReadAll(io.LimitReader(rd, csvutil.MaxUploadSize+1))
	if err != nil {
		return Report{}, fmt.Errorf("read personnel file: %w", err)
	}
	if len(data) > csvutil.MaxUploadSize {
		return Report{}, fmt.Errorf("%w: file exceeds %d MB", apperr.ErrValidation, csvutil.MaxUploadSize>>20)
	}

	parsed, err := csvutil.ParsePersonnelCSV(bytes.NewReader(data), csvutil.ParseOptions{MaxRows: csvutil.MaxRows})
	if err != nil {
		var mh *csvutil.MissingHeaderError
		switch {
		case errors.As(err, &mh):
			return Report{}, fmt.Errorf("%w: %s", apperr.ErrValidation, mh.Error())
		case errors.Is(err, csvutil.ErrTooManyRows):
			return Report{}, fmt.Errorf("%w: file has more than %d rows", apperr.ErrValidation, csvutil.MaxRows)
		default:
			return Report{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
		}
	}

	records := make([]RawRecord, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		records = append(records, RawRecord{
			DepartmentLabel: row.DepartmentLabel,
			WorkerName:      row.WorkerName,
			JobCode:         row.JobCode,
			UnitLabel:       row.UnitLabel,
			Line:            row.Line,
		})
	}

	rep, err := r.Reconcile(ctx, records)
	if err != nil {
		return rep, err
	}

	if parsed.HasErrors() {
		readErrs := make([]RowError, 0, len(parsed.Errors)+len(rep.Errors))
		for _, e := range parsed.Errors {
			readErrs = append(readErrs, RowError{Line: e.Line, Reason: e.Reason})
		}
		rep.Errors = append(readErrs, rep.Errors...)
	}

	r.Audit.Roster(auditlog.EventRosterImported, actor.UserID, actor.Email, map[string]string{
		"run_id":  rep.RunID,
		"created": strconv.Itoa(rep.Created),
		"matched": strconv.Itoa(rep.Matched),
		"errors":  strconv.Itoa(len(rep.Errors)),
	})
	return rep, nil
}
