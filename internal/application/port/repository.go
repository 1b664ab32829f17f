package port

import (
	"context"

	"github.com/Jackela/catams/internal/domain/entity"
	"github.com/Jackela/catams/internal/domain/workflow"
)

// TimesheetRepository defines persistence operations for Timesheet.
// GetByID returns (nil, nil) when no row matches.
type TimesheetRepository interface {
	Create(ctx context.Context, ts *entity.Timesheet) error
	GetByID(ctx context.Context, id int64) (*entity.Timesheet, error)

	// Update persists the timesheet with an optimistic concurrency check:
	// the row is only written when its stored version still matches
	// ts.Version, and the version is advanced on success. A lost race
	// returns workflow.ErrVersionConflict and writes nothing.
	Update(ctx context.Context, ts *entity.Timesheet) error

	ListByStatuses(ctx context.Context, statuses []workflow.ApprovalStatus, limit, offset int) ([]*entity.Timesheet, error)
	ListByTutorAndStatuses(ctx context.Context, tutorID int64, statuses []workflow.ApprovalStatus, limit, offset int) ([]*entity.Timesheet, error)
	ListByLecturerAndStatuses(ctx context.Context, lecturerID int64, statuses []workflow.ApprovalStatus, limit, offset int) ([]*entity.Timesheet, error)
}

// UserRepository defines persistence operations for User
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// CourseRepository defines persistence operations for Course
type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	GetByID(ctx context.Context, id int64) (*entity.Course, error)
	ListByLecturerID(ctx context.Context, lecturerID int64) ([]*entity.Course, error)
}

// ApprovalRepository defines persistence operations for the append-only
// approval trail. Records are created, never updated or deleted.
type ApprovalRepository interface {
	Create(ctx context.Context, approval *entity.Approval) error
	GetByTimesheetID(ctx context.Context, timesheetID int64) ([]*entity.Approval, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
