package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/timetable-api/internal/models"
)

// TimetableRepository persists saved timetables and their course rows.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a timetable with its course rows in one logical write.
func (r *TimetableRepository) Create(ctx context.Context, exec sqlx.ExtContext, timetable *models.Timetable, courses []models.TimetableCourse) error {
	if timetable == nil {
		return fmt.Errorf("timetable payload is nil")
	}
	if timetable.OwnerID == "" {
		return fmt.Errorf("owner_id is required")
	}
	if timetable.ID == "" {
		timetable.ID = uuid.NewString()
	}
	if len(timetable.Meta) == 0 {
		timetable.Meta = types.JSONText(`{}`)
	}
	now := time.Now().UTC()
	if timetable.CreatedAt.IsZero() {
		timetable.CreatedAt = now
	}
	timetable.UpdatedAt = now

	target := r.exec(exec)

	const insertQuery = `
INSERT INTO timetables (id, owner_id, title, meta, created_at, updated_at)
VALUES (:id, :owner_id, :title, :meta, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, timetable); err != nil {
		return fmt.Errorf("insert timetable: %w", err)
	}

	const insertCourseQuery = `
INSERT INTO timetable_courses (id, timetable_id, course_id, course_name, professor, day_of_week, start_period, end_period, credit, category, room, recommended_grade)
VALUES (:id, :timetable_id, :course_id, :course_name, :professor, :day_of_week, :start_period, :end_period, :credit, :category, :room, :recommended_grade)`
	for i := range courses {
		courses[i].TimetableID = timetable.ID
		if courses[i].ID == "" {
			courses[i].ID = uuid.NewString()
		}
		if _, err := sqlx.NamedExecContext(ctx, target, insertCourseQuery, courses[i]); err != nil {
			return fmt.Errorf("insert timetable course: %w", err)
		}
	}
	return nil
}

// ListByOwner returns the owner's saved timetables, most recent first.
func (r *TimetableRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Timetable, error) {
	const query = `SELECT id, owner_id, title, meta, created_at, updated_at
FROM timetables WHERE owner_id = $1 ORDER BY created_at DESC`
	var timetables []models.Timetable
	if err := r.db.SelectContext(ctx, &timetables, query, ownerID); err != nil {
		return nil, fmt.Errorf("list timetables: %w", err)
	}
	return timetables, nil
}

// FindByID loads a timetable by its identifier.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	const query = `SELECT id, owner_id, title, meta, created_at, updated_at FROM timetables WHERE id = $1`
	var timetable models.Timetable
	if err := r.db.GetContext(ctx, &timetable, query, id); err != nil {
		return nil, err
	}
	return &timetable, nil
}

// ListCourses returns the stored course rows belonging to one timetable.
func (r *TimetableRepository) ListCourses(ctx context.Context, timetableID string) ([]models.TimetableCourse, error) {
	const query = `SELECT id, timetable_id, course_id, course_name, professor, day_of_week, start_period, end_period, credit, category, room, recommended_grade
FROM timetable_courses WHERE timetable_id = $1 ORDER BY day_of_week, start_period`
	var courses []models.TimetableCourse
	if err := r.db.SelectContext(ctx, &courses, query, timetableID); err != nil {
		return nil, fmt.Errorf("list timetable courses: %w", err)
	}
	return courses, nil
}

// Delete removes a stored timetable. Course rows cascade at the schema level.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM timetables WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
