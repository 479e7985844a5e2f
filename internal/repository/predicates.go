package repository

import (
	"github.com/Masterminds/squirrel"

	"github.com/noah-isme/campusiq-api/internal/models"
)

// Predicate maps one optional field of an analytics filter onto a WHERE
// clause. It returns nil when the field is unset.
type Predicate func(models.AnalyticsFilter) squirrel.Sqlizer

// CourseOn restricts column to the filter's course.
func CourseOn(column string) Predicate {
	return func(f models.AnalyticsFilter) squirrel.Sqlizer {
		if f.CourseID == nil {
			return nil
		}
		return squirrel.Eq{column: *f.CourseID}
	}
}

// SemesterOn restricts column to the filter's semester.
func SemesterOn(column string) Predicate {
	return func(f models.AnalyticsFilter) squirrel.Sqlizer {
		if f.SemesterID == nil {
			return nil
		}
		return squirrel.Eq{column: *f.SemesterID}
	}
}

// SubjectOn restricts column to the filter's subject.
func SubjectOn(column string) Predicate {
	return func(f models.AnalyticsFilter) squirrel.Sqlizer {
		if f.SubjectID == nil {
			return nil
		}
		return squirrel.Eq{column: *f.SubjectID}
	}
}

// StudentOn restricts column to the filter's student.
func StudentOn(column string) Predicate {
	return func(f models.AnalyticsFilter) squirrel.Sqlizer {
		if f.StudentID == nil {
			return nil
		}
		return squirrel.Eq{column: *f.StudentID}
	}
}

// FacultyOn restricts column to the filter's faculty member.
func FacultyOn(column string) Predicate {
	return func(f models.AnalyticsFilter) squirrel.Sqlizer {
		if f.FacultyID == nil {
			return nil
		}
		return squirrel.Eq{column: *f.FacultyID}
	}
}

// BatchOn restricts column to the filter's batch.
func BatchOn(column string) Predicate {
	return func(f models.AnalyticsFilter) squirrel.Sqlizer {
		if f.Batch == "" {
			return nil
		}
		return squirrel.Eq{column: f.Batch}
	}
}

// SemesterActivityOn keeps students, identified by column, that have a mark or
// an attendance row in the filter's semester.
func SemesterActivityOn(column string) Predicate {
	return func(f models.AnalyticsFilter) squirrel.Sqlizer {
		if f.SemesterID == nil {
			return nil
		}
		return squirrel.Or{
			squirrel.Expr("EXISTS (SELECT 1 FROM marks sm WHERE sm.student_id = "+column+" AND sm.semester_id = ?)", *f.SemesterID),
			squirrel.Expr("EXISTS (SELECT 1 FROM attendance sa WHERE sa.student_id = "+column+" AND sa.semester_id = ?)", *f.SemesterID),
		}
	}
}

// DateFromOn keeps rows on or after the filter's start date.
func DateFromOn(column string) Predicate {
	return func(f models.AnalyticsFilter) squirrel.Sqlizer {
		if f.DateFrom == nil {
			return nil
		}
		return squirrel.GtOrEq{column: *f.DateFrom}
	}
}

// DateToOn keeps rows on or before the filter's end date.
func DateToOn(column string) Predicate {
	return func(f models.AnalyticsFilter) squirrel.Sqlizer {
		if f.DateTo == nil {
			return nil
		}
		return squirrel.LtOrEq{column: *f.DateTo}
	}
}

// Where evaluates the predicates against filter and returns the clauses that
// apply, in order.
func Where(filter models.AnalyticsFilter, predicates ...Predicate) squirrel.And {
	clauses := squirrel.And{}
	for _, p := range predicates {
		if clause := p(filter); clause != nil {
			clauses = append(clauses, clause)
		}
	}
	return clauses
}

func applyWhere(q squirrel.SelectBuilder, filter models.AnalyticsFilter, predicates ...Predicate) squirrel.SelectBuilder {
	for _, clause := range Where(filter, predicates...) {
		q = q.Where(clause)
	}
	return q
}
