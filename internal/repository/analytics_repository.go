package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campusiq-api/internal/models"
)

// CompanyPlacementLimit caps the company-wise placement table.
const CompanyPlacementLimit = 15

const studentNameColumn = "TRIM(CONCAT(s.first_name, ' ', s.last_name)) AS student_name"

// AnalyticsRepository exposes read-only aggregate queries. It returns counts
// and sums; percentages and averages are derived by the caller.
type AnalyticsRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// InstitutionCounts returns the headline totals of the admin dashboard.
func (r *AnalyticsRepository) InstitutionCounts(ctx context.Context) (*models.InstitutionCounts, error) {
	q := r.sb.Select().
		Column("(SELECT COUNT(*) FROM students WHERE is_active = TRUE) AS total_students").
		Column("(SELECT COUNT(*) FROM faculty WHERE is_active = TRUE) AS total_faculty").
		Column("(SELECT COUNT(*) FROM courses) AS total_courses").
		Column("(SELECT COUNT(DISTINCT student_id) FROM placements WHERE placement_status = ? AND is_internship = FALSE) AS placed_students", models.PlacementAccepted)

	var counts models.InstitutionCounts
	if err := r.get(ctx, "institution counts", q, &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

// StudentPerformance returns final-exam marks and attendance counts for every
// active student in scope. Students without marks or attendance carry zeros.
// With a semester set, only students active in that semester are in scope.
func (r *AnalyticsRepository) StudentPerformance(ctx context.Context, filter models.AnalyticsFilter) ([]models.StudentPerformance, error) {
	q, err := r.performanceQuery(filter, models.ExamFinal)
	if err != nil {
		return nil, err
	}
	q = applyWhere(q, filter,
		CourseOn("s.course_id"), BatchOn("s.batch"), StudentOn("s.student_id"), SemesterActivityOn("s.student_id"))

	var rows []models.StudentPerformance
	if err := r.selectAll(ctx, "student performance", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ClassRoster returns the students enrolled in the subject's course and
// semester, scored on that subject's marks of any exam type and its attendance.
func (r *AnalyticsRepository) ClassRoster(ctx context.Context, subject models.Subject) ([]models.StudentPerformance, error) {
	q, err := r.performanceQuery(models.AnalyticsFilter{SubjectID: &subject.ID}, "")
	if err != nil {
		return nil, err
	}
	q = q.Where(squirrel.Eq{"s.course_id": subject.CourseID, "s.current_semester": subject.SemesterNumber})

	var rows []models.StudentPerformance
	if err := r.selectAll(ctx, "class roster", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalyticsRepository) performanceQuery(filter models.AnalyticsFilter, examType models.ExamType) (squirrel.SelectBuilder, error) {
	marks := squirrel.Select("m.student_id", "COUNT(*) AS marks_count", "SUM(m.marks_obtained) AS marks_sum").
		From("marks m").
		GroupBy("m.student_id")
	if examType != "" {
		marks = marks.Where(squirrel.Eq{"m.exam_type": examType})
	}
	marks = applyWhere(marks, filter, SubjectOn("m.subject_id"), SemesterOn("m.semester_id"))

	attendance := squirrel.Select("a.student_id").
		Column("SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END) AS present_count", models.AttendancePresent).
		Column("COUNT(*) AS attendance_total").
		From("attendance a").
		GroupBy("a.student_id")
	attendance = applyWhere(attendance, filter,
		SubjectOn("a.subject_id"), SemesterOn("a.semester_id"), DateFromOn("a.attendance_date"), DateToOn("a.attendance_date"))

	marksJoin, marksArgs, err := joinSubquery(marks, "fm", "fm.student_id = s.student_id")
	if err != nil {
		return squirrel.SelectBuilder{}, fmt.Errorf("build marks subquery: %w", err)
	}
	attendanceJoin, attendanceArgs, err := joinSubquery(attendance, "att", "att.student_id = s.student_id")
	if err != nil {
		return squirrel.SelectBuilder{}, fmt.Errorf("build attendance subquery: %w", err)
	}

	return r.sb.Select(
		"s.student_id",
		"s.enrollment_number",
		studentNameColumn,
		"s.email",
		"s.phone",
		"c.course_name",
		"s.current_semester",
		"s.batch",
		"s.guardian_name",
		"s.guardian_phone",
		"COALESCE(fm.marks_count, 0) AS marks_count",
		"COALESCE(fm.marks_sum, 0) AS marks_sum",
		"COALESCE(att.present_count, 0) AS present_count",
		"COALESCE(att.attendance_total, 0) AS attendance_total",
	).
		From("students s").
		LeftJoin("courses c ON c.course_id = s.course_id").
		LeftJoin(marksJoin, marksArgs...).
		LeftJoin(attendanceJoin, attendanceArgs...).
		Where(squirrel.Eq{"s.is_active": true}).
		OrderBy("s.student_id"), nil
}

// SubjectMarkAggregates returns final-exam sums for every subject in scope,
// including subjects nobody has been examined in yet.
func (r *AnalyticsRepository) SubjectMarkAggregates(ctx context.Context, filter models.AnalyticsFilter) ([]models.SubjectMarkAggregate, error) {
	on := append(squirrel.And{
		squirrel.Expr("m.subject_id = sub.subject_id"),
		squirrel.Eq{"m.exam_type": models.ExamFinal},
	}, Where(filter, SemesterOn("m.semester_id"))...)
	onSQL, onArgs, err := on.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build subject marks join: %w", err)
	}

	q := r.sb.Select(
		"sub.subject_id",
		"sub.subject_code",
		"sub.subject_name",
		"sub.semester_number",
		"sub.passing_marks",
		"COUNT(m.mark_id) AS attempts",
		"COUNT(DISTINCT m.student_id) AS students",
		"COALESCE(SUM(m.marks_obtained), 0) AS marks_sum",
		"COALESCE(SUM(m.marks_obtained * m.marks_obtained), 0) AS marks_squares",
		"COUNT(m.mark_id) FILTER (WHERE m.marks_obtained >= sub.passing_marks) AS passed",
	).
		From("subjects sub").
		LeftJoin("marks m ON "+onSQL, onArgs...).
		GroupBy("sub.subject_id", "sub.subject_code", "sub.subject_name", "sub.semester_number", "sub.passing_marks").
		OrderBy("sub.subject_id")
	q = applyWhere(q, filter, CourseOn("sub.course_id"), SubjectOn("sub.subject_id"), FacultyOn("sub.faculty_id"))

	var rows []models.SubjectMarkAggregate
	if err := r.selectAll(ctx, "subject marks", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SemesterMarkAggregates returns final-exam sums per semester, ordered by
// semester number.
func (r *AnalyticsRepository) SemesterMarkAggregates(ctx context.Context, filter models.AnalyticsFilter) ([]models.SemesterMarkAggregate, error) {
	q := r.sb.Select(
		"sem.semester_id",
		"sem.semester_number",
		"sem.semester_name",
		"COUNT(DISTINCT m.student_id) AS students",
		"COUNT(*) AS marks_count",
		"SUM(m.marks_obtained) AS marks_sum",
	).
		From("semesters sem").
		Join("marks m ON m.semester_id = sem.semester_id").
		Join("subjects sub ON sub.subject_id = m.subject_id").
		Where(squirrel.Eq{"m.exam_type": models.ExamFinal}).
		GroupBy("sem.semester_id", "sem.semester_number", "sem.semester_name").
		OrderBy("sem.semester_number")
	q = applyWhere(q, filter, CourseOn("sub.course_id"), SemesterOn("m.semester_id"), SubjectOn("m.subject_id"), StudentOn("m.student_id"))

	var rows []models.SemesterMarkAggregate
	if err := r.selectAll(ctx, "semester marks", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SubjectAttendance returns present/total counts per active student and subject.
func (r *AnalyticsRepository) SubjectAttendance(ctx context.Context, filter models.AnalyticsFilter) ([]models.SubjectAttendance, error) {
	q := r.sb.Select("s.student_id", "s.enrollment_number", studentNameColumn, "sub.subject_id", "sub.subject_code", "sub.subject_name").
		Column("SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END) AS present", models.AttendancePresent).
		Column("COUNT(*) AS total").
		From("attendance a").
		Join("students s ON s.student_id = a.student_id").
		Join("subjects sub ON sub.subject_id = a.subject_id").
		Where(squirrel.Eq{"s.is_active": true}).
		GroupBy("s.student_id", "s.enrollment_number", "s.first_name", "s.last_name", "sub.subject_id", "sub.subject_code", "sub.subject_name").
		OrderBy("s.student_id", "sub.subject_id")
	q = applyWhere(q, filter,
		CourseOn("s.course_id"),
		SemesterOn("a.semester_id"),
		SubjectOn("a.subject_id"),
		StudentOn("a.student_id"),
		BatchOn("s.batch"),
		DateFromOn("a.attendance_date"),
		DateToOn("a.attendance_date"),
	)

	var rows []models.SubjectAttendance
	if err := r.selectAll(ctx, "subject attendance", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// DailyAttendance returns present/total counts of the latest limit class dates
// of a subject, oldest first.
func (r *AnalyticsRepository) DailyAttendance(ctx context.Context, subjectID int64, limit uint64) ([]models.AttendanceBucket, error) {
	latest := squirrel.Select("to_char(a.attendance_date, 'YYYY-MM-DD') AS bucket").
		Column("SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END) AS present", models.AttendancePresent).
		Column("COUNT(*) AS total").
		From("attendance a").
		Where(squirrel.Eq{"a.subject_id": subjectID}).
		GroupBy("a.attendance_date").
		OrderBy("a.attendance_date DESC").
		Limit(limit)

	q := r.sb.Select("d.bucket", "d.present", "d.total").
		FromSelect(latest, "d").
		OrderBy("d.bucket")

	var rows []models.AttendanceBucket
	if err := r.selectAll(ctx, "daily attendance", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlyAttendance returns a student's present/total counts per YYYY-MM month.
func (r *AnalyticsRepository) MonthlyAttendance(ctx context.Context, studentID int64) ([]models.AttendanceBucket, error) {
	q := r.sb.Select("to_char(a.attendance_date, 'YYYY-MM') AS bucket").
		Column("SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END) AS present", models.AttendancePresent).
		Column("COUNT(*) AS total").
		From("attendance a").
		Where(squirrel.Eq{"a.student_id": studentID}).
		GroupBy("bucket").
		OrderBy("bucket")

	var rows []models.AttendanceBucket
	if err := r.selectAll(ctx, "monthly attendance", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SubjectMarks returns the raw marks of one subject and exam type.
func (r *AnalyticsRepository) SubjectMarks(ctx context.Context, subjectID int64, examType models.ExamType) ([]float64, error) {
	q := r.sb.Select("m.marks_obtained").
		From("marks m").
		Where(squirrel.Eq{"m.subject_id": subjectID, "m.exam_type": examType}).
		OrderBy("m.marks_obtained DESC")

	var marks []float64
	if err := r.selectAll(ctx, "subject marks distribution", q, &marks); err != nil {
		return nil, err
	}
	return marks, nil
}

// StudentMarkStats summarises one student's final-exam marks.
func (r *AnalyticsRepository) StudentMarkStats(ctx context.Context, studentID int64) (*models.StudentMarkStats, error) {
	q := r.sb.Select(
		"COUNT(*) AS marks_count",
		"COALESCE(SUM(m.marks_obtained), 0) AS marks_sum",
		"MAX(m.marks_obtained) AS highest",
		"MIN(m.marks_obtained) AS lowest",
		"COUNT(DISTINCT m.subject_id) AS subjects",
	).
		From("marks m").
		Where(squirrel.Eq{"m.student_id": studentID, "m.exam_type": models.ExamFinal})

	var stats models.StudentMarkStats
	if err := r.get(ctx, "student mark stats", q, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// StudentSubjectMarks lists every recorded mark of a student.
func (r *AnalyticsRepository) StudentSubjectMarks(ctx context.Context, studentID int64) ([]models.StudentSubjectMark, error) {
	q := r.sb.Select(
		"sub.subject_id",
		"sub.subject_code",
		"sub.subject_name",
		"sub.semester_number",
		"m.exam_type",
		"m.marks_obtained",
		"m.max_marks",
		"sub.passing_marks",
	).
		From("marks m").
		Join("subjects sub ON sub.subject_id = m.subject_id").
		Where(squirrel.Eq{"m.student_id": studentID}).
		OrderBy("sub.semester_number", "sub.subject_name", "m.exam_date")

	var rows []models.StudentSubjectMark
	if err := r.selectAll(ctx, "student subject marks", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// PeerRank returns one plus the number of students whose final-exam average is
// strictly above the given student's.
func (r *AnalyticsRepository) PeerRank(ctx context.Context, studentID int64) (int64, error) {
	peers := squirrel.Select("m.student_id", "AVG(m.marks_obtained) AS avg_marks").
		From("marks m").
		Where(squirrel.Eq{"m.exam_type": models.ExamFinal}).
		GroupBy("m.student_id")

	q := r.sb.Select("COUNT(*) + 1").
		FromSelect(peers, "peers").
		Where("peers.avg_marks > (SELECT AVG(marks_obtained) FROM marks WHERE student_id = ? AND exam_type = ?)", studentID, models.ExamFinal)

	var rank int64
	if err := r.get(ctx, "peer rank", q, &rank); err != nil {
		return 0, err
	}
	return rank, nil
}

// PlacementOverview aggregates eligible students and their accepted
// non-internship offers.
func (r *AnalyticsRepository) PlacementOverview(ctx context.Context, filter models.AnalyticsFilter) (*models.PlacementOverview, error) {
	q := r.sb.Select(
		"COUNT(DISTINCT s.student_id) AS eligible",
		"COUNT(DISTINCT p.student_id) AS placed",
		"AVG(p.package_lpa) AS average_package",
		"MAX(p.package_lpa) AS highest_package",
		"MIN(CASE WHEN p.package_lpa > 0 THEN p.package_lpa END) AS lowest_package",
	).
		From("students s").
		LeftJoin("placements p ON p.student_id = s.student_id AND p.placement_status = ? AND p.is_internship = FALSE", models.PlacementAccepted).
		Where(squirrel.Eq{"s.is_active": true}).
		Where(squirrel.GtOrEq{"s.current_semester": models.PlacementEligibleSemester})
	q = applyWhere(q, filter, BatchOn("s.batch"), CourseOn("s.course_id"))

	var overview models.PlacementOverview
	if err := r.get(ctx, "placement overview", q, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// AcceptedPackages returns the packages of accepted non-internship offers.
func (r *AnalyticsRepository) AcceptedPackages(ctx context.Context, filter models.AnalyticsFilter) ([]float64, error) {
	q := r.sb.Select("p.package_lpa").
		From("placements p").
		Join("students s ON s.student_id = p.student_id").
		Where(squirrel.Eq{"p.placement_status": models.PlacementAccepted, "p.is_internship": false}).
		Where(squirrel.Gt{"p.package_lpa": 0})
	q = applyWhere(q, filter, BatchOn("s.batch"), CourseOn("s.course_id"))

	var packages []float64
	if err := r.selectAll(ctx, "accepted packages", q, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

// CompanyPlacements aggregates accepted non-internship offers per company,
// busiest companies first.
func (r *AnalyticsRepository) CompanyPlacements(ctx context.Context, filter models.AnalyticsFilter) ([]models.CompanyPlacement, error) {
	q := r.sb.Select(
		"p.company_name",
		"COUNT(*) AS offers",
		"COALESCE(AVG(p.package_lpa), 0) AS average_package",
		"COALESCE(MAX(p.package_lpa), 0) AS highest_package",
		"COALESCE(STRING_AGG(DISTINCT p.job_role, ', '), '') AS roles",
	).
		From("placements p").
		Join("students s ON s.student_id = p.student_id").
		Where(squirrel.Eq{"p.placement_status": models.PlacementAccepted, "p.is_internship": false}).
		GroupBy("p.company_name").
		OrderBy("offers DESC", "p.company_name").
		Limit(CompanyPlacementLimit)
	q = applyWhere(q, filter, BatchOn("s.batch"), CourseOn("s.course_id"))

	var rows []models.CompanyPlacement
	if err := r.selectAll(ctx, "company placements", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// BatchPlacements aggregates placement outcomes per batch, newest batch first.
func (r *AnalyticsRepository) BatchPlacements(ctx context.Context, filter models.AnalyticsFilter) ([]models.BatchPlacement, error) {
	q := r.sb.Select(
		"s.batch",
		"COUNT(DISTINCT s.student_id) AS eligible",
		"COUNT(DISTINCT p.student_id) AS placed",
		"AVG(p.package_lpa) AS average_package",
	).
		From("students s").
		LeftJoin("placements p ON p.student_id = s.student_id AND p.placement_status = ? AND p.is_internship = FALSE", models.PlacementAccepted).
		Where(squirrel.Eq{"s.is_active": true}).
		Where(squirrel.GtOrEq{"s.current_semester": models.PlacementEligibleSemester}).
		Where(squirrel.NotEq{"s.batch": nil}).
		GroupBy("s.batch").
		OrderBy("s.batch DESC")
	q = applyWhere(q, filter, BatchOn("s.batch"), CourseOn("s.course_id"))

	var rows []models.BatchPlacement
	if err := r.selectAll(ctx, "batch placements", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// StudentPlacements returns every offer of a student, latest first.
func (r *AnalyticsRepository) StudentPlacements(ctx context.Context, studentID int64) ([]models.Placement, error) {
	q := r.sb.Select(
		"p.placement_id",
		"p.student_id",
		"p.company_name",
		"p.job_role",
		"COALESCE(p.package_lpa, 0) AS package_lpa",
		"p.placement_status",
		"p.is_internship",
		"p.placement_date",
	).
		From("placements p").
		Where(squirrel.Eq{"p.student_id": studentID}).
		OrderBy("p.placement_date DESC NULLS LAST", "p.placement_id DESC")

	var rows []models.Placement
	if err := r.selectAll(ctx, "student placements", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalyticsRepository) selectAll(ctx context.Context, name string, q squirrel.Sqlizer, dest interface{}) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build %s query: %w", name, err)
	}
	if err := r.db.SelectContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	return nil
}

func (r *AnalyticsRepository) get(ctx context.Context, name string, q squirrel.Sqlizer, dest interface{}) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build %s query: %w", name, err)
	}
	if err := r.db.GetContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	return nil
}

// joinSubquery renders b as an aliased derived table for a JOIN clause. b must
// use question placeholders so the outer builder can number every argument.
func joinSubquery(b squirrel.SelectBuilder, alias, on string) (string, []interface{}, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("(%s) %s ON %s", query, alias, on), args, nil
}
