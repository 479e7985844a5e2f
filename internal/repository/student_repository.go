package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campusiq-api/internal/models"
)

var studentColumns = []string{
	"s.student_id", "s.user_id", "s.enrollment_number", "s.first_name", "s.last_name", "s.email", "s.phone",
	"s.course_id", "c.course_name", "s.current_semester", "s.batch", "s.guardian_name", "s.guardian_phone",
	"s.is_active", "s.created_at",
}

// StudentRepository looks up student profiles.
type StudentRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db, sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

// FindByID returns a student by primary key. sql.ErrNoRows is returned
// unwrapped when no row matches.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.findOne(ctx, squirrel.Eq{"s.student_id": id})
}

// FindByUserID returns the student profile linked to a user account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return r.findOne(ctx, squirrel.Eq{"s.user_id": userID})
}

func (r *StudentRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*models.Student, error) {
	query, args, err := r.sb.Select(studentColumns...).
		From("students s").
		LeftJoin("courses c ON c.course_id = s.course_id").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, args...); err != nil {
		return nil, err
	}
	return &student, nil
}
