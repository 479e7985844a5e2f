package service

import (
	"sort"

	"github.com/noah-isme/campusiq-api/internal/analytics"
	"github.com/noah-isme/campusiq-api/internal/dto"
	"github.com/noah-isme/campusiq-api/internal/models"
)

type scoredStudent struct {
	row        models.StudentPerformance
	average    float64
	attendance float64
	risk       models.RiskLevel
}

// scoreStudent applies the calculators and classifier to one snapshot row.
// Missing marks or attendance score as zero.
func scoreStudent(row models.StudentPerformance) scoredStudent {
	avg := analytics.AverageMarks(row.MarksSum, row.MarksCount)
	att := analytics.AttendancePercentage(row.PresentCount, row.AttendanceTotal)
	return scoredStudent{row: row, average: avg, attendance: att, risk: analytics.Classify(avg, att)}
}

func (s scoredStudent) riskStudent() dto.RiskStudent {
	return dto.RiskStudent{
		StudentID:            s.row.StudentID,
		EnrollmentNumber:     s.row.EnrollmentNumber,
		StudentName:          s.row.StudentName,
		Email:                s.row.Email,
		Phone:                s.row.Phone,
		CourseName:           s.row.CourseName,
		CurrentSemester:      s.row.CurrentSemester,
		Batch:                s.row.Batch,
		GuardianName:         s.row.GuardianName,
		GuardianPhone:        s.row.GuardianPhone,
		AverageMarks:         s.average,
		AttendancePercentage: s.attendance,
		RiskLevel:            s.risk,
	}
}

// sortRiskStudents orders High before Medium before Low, then by ascending
// average marks, then by student id.
func sortRiskStudents(list []dto.RiskStudent) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.RiskLevel.Rank() != b.RiskLevel.Rank() {
			return a.RiskLevel.Rank() < b.RiskLevel.Rank()
		}
		if a.AverageMarks != b.AverageMarks {
			return a.AverageMarks < b.AverageMarks
		}
		return a.StudentID < b.StudentID
	})
}

func semesterTrend(rows []models.SemesterMarkAggregate) []dto.SemesterTrendPoint {
	out := make([]dto.SemesterTrendPoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.SemesterTrendPoint{
			SemesterNumber: row.SemesterNumber,
			SemesterName:   row.SemesterName,
			AverageMarks:   analytics.AverageMarks(row.MarksSum, row.MarksCount),
			StudentsCount:  row.Students,
		})
	}
	return out
}

// summariseStudentAttendance folds (student, subject) pairs into one line per
// student, best attendance first.
func summariseStudentAttendance(pairs []models.SubjectAttendance) []dto.StudentAttendance {
	index := map[int64]int{}
	out := make([]dto.StudentAttendance, 0)
	for _, p := range pairs {
		i, ok := index[p.StudentID]
		if !ok {
			i = len(out)
			index[p.StudentID] = i
			out = append(out, dto.StudentAttendance{
				StudentID:        p.StudentID,
				StudentName:      p.StudentName,
				EnrollmentNumber: p.EnrollmentNumber,
			})
		}
		out[i].TotalClasses += p.Total
		out[i].Attended += p.Present
	}
	for i := range out {
		out[i].Percentage = analytics.AttendancePercentage(out[i].Attended, out[i].TotalClasses)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Percentage > out[j].Percentage })
	return out
}

// summariseSubjectAttendance folds (student, subject) pairs into one line per
// subject, best attendance first.
func summariseSubjectAttendance(pairs []models.SubjectAttendance) []dto.SubjectAttendanceSummary {
	type totals struct {
		name             string
		students         int64
		present, records int64
	}
	bySubject := map[int64]*totals{}
	ids := make([]int64, 0)
	for _, p := range pairs {
		t, ok := bySubject[p.SubjectID]
		if !ok {
			t = &totals{name: p.SubjectName}
			bySubject[p.SubjectID] = t
			ids = append(ids, p.SubjectID)
		}
		t.students++
		t.present += p.Present
		t.records += p.Total
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]dto.SubjectAttendanceSummary, 0, len(ids))
	for _, id := range ids {
		t := bySubject[id]
		out = append(out, dto.SubjectAttendanceSummary{
			SubjectID:         id,
			SubjectName:       t.name,
			TotalStudents:     t.students,
			AverageAttendance: analytics.AttendancePercentage(t.present, t.records),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageAttendance > out[j].AverageAttendance })
	return out
}

func placementStats(o *models.PlacementOverview) dto.PlacementStats {
	if o == nil {
		return dto.PlacementStats{}
	}
	return dto.PlacementStats{
		TotalStudents:       o.Eligible,
		PlacedStudents:      o.Placed,
		PlacementPercentage: analytics.Percentage(float64(o.Placed), float64(o.Eligible)),
		AveragePackage:      roundOrZero(o.AveragePackage),
		HighestPackage:      roundPtr(o.HighestPackage),
		LowestPackage:       roundPtr(o.LowestPackage),
	}
}

func packageRanges(packages []float64) []dto.PackageRange {
	dist := analytics.PackageDistribution(packages)
	out := make([]dto.PackageRange, 0, len(dist))
	for _, b := range dist {
		out = append(out, dto.PackageRange{PackageRange: b.Label, Count: b.Count})
	}
	return out
}

func roundOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return analytics.Round2(*v)
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := analytics.Round2(*v)
	return &r
}
