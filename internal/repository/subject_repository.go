package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campusiq-api/internal/models"
)

// SubjectRepository looks up subjects.
type SubjectRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db, sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

// FindByID returns a subject or sql.ErrNoRows.
func (r *SubjectRepository) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	query, args, err := r.sb.Select("subject_id", "subject_code", "subject_name", "credits", "course_id", "semester_number", "passing_marks", "faculty_id").
		From("subjects").
		Where(squirrel.Eq{"subject_id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, args...); err != nil {
		return nil, err
	}
	return &subject, nil
}
