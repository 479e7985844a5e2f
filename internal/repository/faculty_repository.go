package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campusiq-api/internal/models"
)

// FacultyRepository looks up faculty profiles.
type FacultyRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db, sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

// FindByUserID returns the active faculty profile of a user or sql.ErrNoRows.
func (r *FacultyRepository) FindByUserID(ctx context.Context, userID int64) (*models.Faculty, error) {
	query, args, err := r.sb.Select("faculty_id", "user_id", "is_active").
		From("faculty").
		Where(squirrel.Eq{"user_id": userID, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, args...); err != nil {
		return nil, err
	}
	return &faculty, nil
}
