package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jackela/catams/internal/application/port"
	"github.com/Jackela/catams/internal/domain/entity"
	"github.com/Jackela/catams/internal/domain/workflow"
)

// ApprovalRepository implements port.ApprovalRepository. The approvals table
// is append-only: no update or delete statements exist here.
type ApprovalRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApprovalRepository creates a new approval repository
func NewApprovalRepository(db *sql.DB, logger *zap.Logger) port.ApprovalRepository {
	return &ApprovalRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a new approval record
func (r *ApprovalRepository) Create(ctx context.Context, approval *entity.Approval) error {
	query := `
		INSERT INTO approvals (
			timesheet_id, approver_id, action, previous_status,
			new_status, comment, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var comment sql.NullString
	if approval.Comment != "" {
		comment = sql.NullString{String: approval.Comment, Valid: true}
	}

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		approval.TimesheetID,
		approval.ApproverID,
		string(approval.Action),
		string(approval.PreviousStatus),
		string(approval.NewStatus),
		comment,
		approval.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create approval record", zap.Error(err))
		return fmt.Errorf("failed to create approval: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	approval.ID = id
	return nil
}

// GetByTimesheetID retrieves the full approval trail of a timesheet in
// chronological order
func (r *ApprovalRepository) GetByTimesheetID(ctx context.Context, timesheetID int64) ([]*entity.Approval, error) {
	query := `
		SELECT id, timesheet_id, approver_id, action, previous_status,
			new_status, comment, timestamp
		FROM approvals
		WHERE timesheet_id = ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, timesheetID)
	if err != nil {
		r.logger.Error("Failed to get approval history", zap.Int64("timesheet_id", timesheetID), zap.Error(err))
		return nil, fmt.Errorf("failed to get approvals: %w", err)
	}
	defer rows.Close()

	var approvals []*entity.Approval
	for rows.Next() {
		var a entity.Approval
		var action, prev, next string
		var comment sql.NullString
		if err := rows.Scan(
			&a.ID, &a.TimesheetID, &a.ApproverID, &action, &prev, &next,
			&comment, &a.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		a.Action = workflow.ApprovalAction(action)
		a.PreviousStatus = workflow.ApprovalStatus(prev)
		a.NewStatus = workflow.ApprovalStatus(next)
		if comment.Valid {
			a.Comment = comment.String
		}
		approvals = append(approvals, &a)
	}

	return approvals, rows.Err()
}

// Verify interface compliance
var _ port.ApprovalRepository = (*ApprovalRepository)(nil)
