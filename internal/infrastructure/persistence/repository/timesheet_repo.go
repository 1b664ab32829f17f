package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Jackela/catams/internal/application/port"
	"github.com/Jackela/catams/internal/domain/entity"
	"github.com/Jackela/catams/internal/domain/workflow"
)

// TimesheetRepository implements port.TimesheetRepository
type TimesheetRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTimesheetRepository creates a new timesheet repository
func NewTimesheetRepository(db *sql.DB, logger *zap.Logger) port.TimesheetRepository {
	return &TimesheetRepository{
		db:     db,
		logger: logger,
	}
}

const timesheetColumns = `id, tutor_id, course_id, week_start, hours, hourly_rate, description, status, version, created_at, updated_at`

// Create inserts a new timesheet
func (r *TimesheetRepository) Create(ctx context.Context, ts *entity.Timesheet) error {
	query := `
		INSERT INTO timesheets (
			tutor_id, course_id, week_start, hours, hourly_rate,
			description, status, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		ts.TutorID,
		ts.CourseID,
		ts.WeekStart,
		ts.Hours,
		ts.HourlyRate,
		ts.Description,
		string(ts.Status),
		ts.Version,
		ts.CreatedAt,
		ts.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create timesheet", zap.Error(err))
		return fmt.Errorf("failed to create timesheet: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	ts.ID = id
	return nil
}

// GetByID retrieves a timesheet by ID. Returns (nil, nil) when absent.
func (r *TimesheetRepository) GetByID(ctx context.Context, id int64) (*entity.Timesheet, error) {
	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE id = ?`

	ts, err := r.scanOne(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get timesheet by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get timesheet: %w", err)
	}
	return ts, nil
}

// Update persists the timesheet guarded by the optimistic version check. The
// write is refused with workflow.ErrVersionConflict when a concurrent writer
// advanced the row since this timesheet was loaded.
func (r *TimesheetRepository) Update(ctx context.Context, ts *entity.Timesheet) error {
	query := `
		UPDATE timesheets
		SET hours = ?, hourly_rate = ?, description = ?, status = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		ts.Hours,
		ts.HourlyRate,
		ts.Description,
		string(ts.Status),
		ts.UpdatedAt,
		ts.ID,
		ts.Version,
	)
	if err != nil {
		r.logger.Error("Failed to update timesheet", zap.Int64("id", ts.ID), zap.Error(err))
		return fmt.Errorf("failed to update timesheet: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: timesheet %d at version %d was modified concurrently",
			workflow.ErrVersionConflict, ts.ID, ts.Version)
	}

	ts.Version++
	return nil
}

// ListByStatuses retrieves timesheets in any of the given statuses
func (r *TimesheetRepository) ListByStatuses(ctx context.Context, statuses []workflow.ApprovalStatus, limit, offset int) ([]*entity.Timesheet, error) {
	if len(statuses) == 0 {
		return []*entity.Timesheet{}, nil
	}

	query := `SELECT ` + timesheetColumns + ` FROM timesheets
		WHERE status IN (` + placeholders(len(statuses)) + `)
		ORDER BY updated_at DESC LIMIT ? OFFSET ?`

	args := statusArgs(statuses)
	args = append(args, limit, offset)
	return r.queryMany(ctx, query, args...)
}

// ListByTutorAndStatuses retrieves a tutor's timesheets in any of the given statuses
func (r *TimesheetRepository) ListByTutorAndStatuses(ctx context.Context, tutorID int64, statuses []workflow.ApprovalStatus, limit, offset int) ([]*entity.Timesheet, error) {
	if len(statuses) == 0 {
		return []*entity.Timesheet{}, nil
	}

	query := `SELECT ` + timesheetColumns + ` FROM timesheets
		WHERE tutor_id = ? AND status IN (` + placeholders(len(statuses)) + `)
		ORDER BY updated_at DESC LIMIT ? OFFSET ?`

	args := append([]interface{}{tutorID}, statusArgs(statuses)...)
	args = append(args, limit, offset)
	return r.queryMany(ctx, query, args...)
}

// ListByLecturerAndStatuses retrieves timesheets of a lecturer's courses in
// any of the given statuses
func (r *TimesheetRepository) ListByLecturerAndStatuses(ctx context.Context, lecturerID int64, statuses []workflow.ApprovalStatus, limit, offset int) ([]*entity.Timesheet, error) {
	if len(statuses) == 0 {
		return []*entity.Timesheet{}, nil
	}

	query := `SELECT t.id, t.tutor_id, t.course_id, t.week_start, t.hours, t.hourly_rate,
			t.description, t.status, t.version, t.created_at, t.updated_at
		FROM timesheets t
		JOIN courses c ON c.id = t.course_id
		WHERE c.lecturer_id = ? AND t.status IN (` + placeholders(len(statuses)) + `)
		ORDER BY t.updated_at DESC LIMIT ? OFFSET ?`

	args := append([]interface{}{lecturerID}, statusArgs(statuses)...)
	args = append(args, limit, offset)
	return r.queryMany(ctx, query, args...)
}

func (r *TimesheetRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*entity.Timesheet, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list timesheets", zap.Error(err))
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	defer rows.Close()

	var timesheets []*entity.Timesheet
	for rows.Next() {
		var ts entity.Timesheet
		var status string
		if err := rows.Scan(
			&ts.ID, &ts.TutorID, &ts.CourseID, &ts.WeekStart, &ts.Hours,
			&ts.HourlyRate, &ts.Description, &status, &ts.Version,
			&ts.CreatedAt, &ts.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		ts.Status = workflow.ApprovalStatus(status)
		timesheets = append(timesheets, &ts)
	}

	return timesheets, rows.Err()
}

func (r *TimesheetRepository) scanOne(row *sql.Row) (*entity.Timesheet, error) {
	var ts entity.Timesheet
	var status string
	err := row.Scan(
		&ts.ID, &ts.TutorID, &ts.CourseID, &ts.WeekStart, &ts.Hours,
		&ts.HourlyRate, &ts.Description, &status, &ts.Version,
		&ts.CreatedAt, &ts.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ts.Status = workflow.ApprovalStatus(status)
	return &ts, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func statusArgs(statuses []workflow.ApprovalStatus) []interface{} {
	args := make([]interface{}, 0, len(statuses))
	for _, s := range statuses {
		args = append(args, string(s))
	}
	return args
}

// Verify interface compliance
var _ port.TimesheetRepository = (*TimesheetRepository)(nil)
