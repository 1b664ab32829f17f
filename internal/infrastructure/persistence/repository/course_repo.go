package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jackela/catams/internal/application/port"
	"github.com/Jackela/catams/internal/domain/entity"
)

// CourseRepository implements port.CourseRepository
type CourseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB, logger *zap.Logger) port.CourseRepository {
	return &CourseRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *entity.Course) error {
	query := `INSERT INTO courses (code, name, lecturer_id, created_at) VALUES (?, ?, ?, ?)`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		course.Code, course.Name, course.LecturerID, course.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create course", zap.Error(err))
		return fmt.Errorf("failed to create course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	course.ID = id
	return nil
}

// GetByID retrieves a course by ID. Returns (nil, nil) when absent.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*entity.Course, error) {
	query := `SELECT id, code, name, lecturer_id, created_at FROM courses WHERE id = ?`

	var course entity.Course
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&course.ID, &course.Code, &course.Name, &course.LecturerID, &course.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get course", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &course, nil
}

// ListByLecturerID retrieves all courses supervised by a lecturer
func (r *CourseRepository) ListByLecturerID(ctx context.Context, lecturerID int64) ([]*entity.Course, error) {
	query := `SELECT id, code, name, lecturer_id, created_at FROM courses WHERE lecturer_id = ? ORDER BY code`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, lecturerID)
	if err != nil {
		r.logger.Error("Failed to list courses", zap.Int64("lecturer_id", lecturerID), zap.Error(err))
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*entity.Course
	for rows.Next() {
		var course entity.Course
		if err := rows.Scan(&course.ID, &course.Code, &course.Name, &course.LecturerID, &course.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, &course)
	}

	return courses, rows.Err()
}

// Verify interface compliance
var _ port.CourseRepository = (*CourseRepository)(nil)
