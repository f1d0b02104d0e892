// Package localstore imports data exported from the browser-only version of
// Staff Hive, where every collection lived under its own local-storage key.
package localstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"staffhive/internal/domain/attendance"
	"staffhive/internal/domain/leave"
	"staffhive/internal/domain/postings"
)

const (
	KeyLeaveRequests    = "leaveRequests"
	KeyJobs             = "adminJobs"
	attendanceKeyPrefix = "attendance_"
	importActor         = "local-storage-import"
)

var ErrMalformedExport = errors.New("malformed local storage export")

type AttendanceImporter interface {
	Import(ctx context.Context, rec attendance.Record) (attendance.Record, error)
}

type LeaveImporter interface {
	Submit(ctx context.Context, in leave.SubmitInput) (leave.Request, error)
	Approve(ctx context.Context, requestID, approver string) (leave.Request, error)
	Reject(ctx context.Context, requestID, approver string) (leave.Request, error)
	Cancel(ctx context.Context, requestID, actor string) (leave.Request, error)
}

type PostingImporter interface {
	CreatePosting(ctx context.Context, posting postings.Posting) (postings.Posting, error)
	SetStatus(ctx context.Context, postingID, status string) (postings.Posting, error)
}

type Importer struct {
	Attendance AttendanceImporter
	Leave      LeaveImporter
	Postings   PostingImporter
	validate   *validator.Validate
}

func NewImporter(att AttendanceImporter, lv LeaveImporter, jobs PostingImporter) *Importer {
	return &Importer{Attendance: att, Leave: lv, Postings: jobs, validate: validator.New()}
}

type Skipped struct {
	Key    string `json:"key"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type Result struct {
	Attendance int       `json:"attendance"`
	Leave      int       `json:"leave"`
	Jobs       int       `json:"jobs"`
	Ignored    []string  `json:"ignoredKeys,omitempty"`
	Skipped    []Skipped `json:"skipped,omitempty"`
}

// Import reads a JSON object mapping storage keys to their stored values. Values
// may be JSON-encoded strings, as local storage holds them, or raw JSON arrays.
// Records that fail validation are reported in Result.Skipped and never loaded.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedExport, err)
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var res Result
	for _, key := range keys {
		items, err := unwrapArray(raw[key])
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Key: key, Index: -1, Reason: err.Error()})
			continue
		}
		switch {
		case strings.HasPrefix(key, attendanceKeyPrefix):
			im.importAttendance(ctx, key, strings.TrimPrefix(key, attendanceKeyPrefix), items, &res)
		case key == KeyLeaveRequests:
			im.importLeave(ctx, key, items, &res)
		case key == KeyJobs:
			im.importJobs(ctx, key, items, &res)
		default:
			res.Ignored = append(res.Ignored, key)
		}
	}
	slog.Info("local storage import finished",
		"attendance", res.Attendance, "leave", res.Leave, "jobs", res.Jobs, "skipped", len(res.Skipped))
	return res, nil
}

func (im *Importer) importAttendance(ctx context.Context, key, date string, items []json.RawMessage, res *Result) {
	if _, err := attendance.ParseDate(date); err != nil {
		res.Skipped = append(res.Skipped, Skipped{Key: key, Index: -1, Reason: err.Error()})
		return
	}
	for i, item := range items {
		var entry attendanceEntry
		if err := im.decode(item, &entry); err != nil {
			res.skip(key, i, err)
			continue
		}
		_, err := im.Attendance.Import(ctx, attendance.Record{
			EmployeeID: entry.EmployeeID,
			Date:       date,
			CheckIn:    *entry.CheckInTime,
			CheckOut:   entry.CheckOutTime,
			Location:   entry.Location,
		})
		if err != nil {
			res.skip(key, i, err)
			continue
		}
		res.Attendance++
	}
}

func (im *Importer) importLeave(ctx context.Context, key string, items []json.RawMessage, res *Result) {
	for i, item := range items {
		var entry leaveEntry
		if err := im.decode(item, &entry); err != nil {
			res.skip(key, i, err)
			continue
		}
		start, err := parseDay(entry.StartDate)
		if err != nil {
			res.skip(key, i, err)
			continue
		}
		end, err := parseDay(entry.EndDate)
		if err != nil {
			res.skip(key, i, err)
			continue
		}
		req, err := im.Leave.Submit(ctx, leave.SubmitInput{
			EmployeeID: entry.EmployeeID,
			LeaveType:  entry.LeaveType,
			StartDate:  start,
			EndDate:    end,
			Reason:     entry.Reason,
		})
		if err != nil {
			res.skip(key, i, err)
			continue
		}
		switch entry.Status {
		case leave.StatusApproved:
			_, err = im.Leave.Approve(ctx, req.ID, entry.Approver)
		case leave.StatusRejected:
			_, err = im.Leave.Reject(ctx, req.ID, entry.Approver)
		}
		if err != nil {
			// Release the hold taken by Submit.
			if _, cerr := im.Leave.Cancel(ctx, req.ID, importActor); cerr != nil {
				slog.Warn("leave import rollback failed", "requestId", req.ID, "err", cerr)
			}
			res.skip(key, i, err)
			continue
		}
		res.Leave++
	}
}

func (im *Importer) importJobs(ctx context.Context, key string, items []json.RawMessage, res *Result) {
	for i, item := range items {
		var entry jobEntry
		if err := im.decode(item, &entry); err != nil {
			res.skip(key, i, err)
			continue
		}
		posting, err := im.Postings.CreatePosting(ctx, postings.Posting{
			Title:        entry.Title,
			Company:      entry.Company,
			Location:     entry.Location,
			Type:         entry.Type,
			Salary:       entry.Salary,
			Description:  entry.Description,
			Requirements: entry.Requirements,
			Benefits:     entry.Benefits,
		})
		if err != nil {
			res.skip(key, i, err)
			continue
		}
		if entry.Status == postings.StatusInactive {
			if _, err := im.Postings.SetStatus(ctx, posting.ID, postings.StatusInactive); err != nil {
				res.skip(key, i, err)
				continue
			}
		}
		res.Jobs++
	}
}

func (im *Importer) decode(item json.RawMessage, dst any) error {
	if err := json.Unmarshal(item, dst); err != nil {
		return err
	}
	return im.validate.Struct(dst)
}

func (r *Result) skip(key string, index int, err error) {
	r.Skipped = append(r.Skipped, Skipped{Key: key, Index: index, Reason: err.Error()})
}

func unwrapArray(value json.RawMessage) ([]json.RawMessage, error) {
	value = bytes.TrimSpace(value)
	if len(value) > 0 && value[0] == '"' {
		var inner string
		if err := json.Unmarshal(value, &inner); err != nil {
			return nil, err
		}
		value = []byte(inner)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, fmt.Errorf("expected a JSON array: %w", err)
	}
	return items, nil
}

// parseDay accepts plain dates and full timestamps as the browser stored both.
func parseDay(value string) (time.Time, error) {
	if t, err := time.Parse(attendance.DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t, nil
}
