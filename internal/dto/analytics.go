package dto

import "github.com/noah-isme/campusiq-api/internal/models"

// DashboardSummary is the admin dashboard payload.
type DashboardSummary struct {
	TotalStudents  int64 `json:"totalStudents"`
	TotalFaculty   int64 `json:"totalFaculty"`
	TotalCourses   int64 `json:"totalCourses"`
	PlacedStudents int64 `json:"placedStudents"`
	AtRiskStudents int64 `json:"atRiskStudents"`
}

// AcademicReport aggregates final-exam performance.
type AcademicReport struct {
	SubjectMarks  []SubjectMarks       `json:"subjectMarks"`
	TopPerformers []StudentAverage     `json:"topPerformers"`
	SemesterTrend []SemesterTrendPoint `json:"semesterTrend"`
	PassFailStats []PassFailStat       `json:"passFailStats"`
}

// SubjectMarks summarises final marks for one subject.
type SubjectMarks struct {
	SubjectID      int64   `json:"subjectId"`
	SubjectCode    string  `json:"subjectCode"`
	SubjectName    string  `json:"subjectName"`
	AverageMarks   float64 `json:"averageMarks"`
	TotalStudents  int64   `json:"totalStudents"`
	PassPercentage float64 `json:"passPercentage"`
}

// StudentAverage is one entry of the top performers ranking.
type StudentAverage struct {
	StudentID        int64   `json:"studentId"`
	EnrollmentNumber string  `json:"enrollmentNumber"`
	StudentName      string  `json:"studentName"`
	CourseName       *string `json:"courseName,omitempty"`
	CurrentSemester  int     `json:"currentSemester"`
	AverageMarks     float64 `json:"averageMarks"`
}

// SemesterTrendPoint is the average final mark of one semester.
type SemesterTrendPoint struct {
	SemesterNumber int     `json:"semesterNumber"`
	SemesterName   string  `json:"semesterName"`
	AverageMarks   float64 `json:"averageMarks"`
	StudentsCount  int64   `json:"studentsCount"`
}

// PassFailStat counts final-exam outcomes for one subject.
type PassFailStat struct {
	SubjectID   int64  `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	Passed      int64  `json:"passed"`
	Failed      int64  `json:"failed"`
}

// AttendanceReport aggregates attendance records.
type AttendanceReport struct {
	AttendanceSummary []StudentAttendance        `json:"attendanceSummary"`
	LowAttendance     []LowAttendanceAlert       `json:"lowAttendance"`
	Correlation       []AttendanceCorrelation    `json:"correlation"`
	SubjectAttendance []SubjectAttendanceSummary `json:"subjectAttendance"`
}

// StudentAttendance is the overall attendance of one student.
type StudentAttendance struct {
	StudentID        int64   `json:"studentId"`
	StudentName      string  `json:"studentName"`
	EnrollmentNumber string  `json:"enrollmentNumber"`
	TotalClasses     int64   `json:"totalClasses"`
	Attended         int64   `json:"attended"`
	Percentage       float64 `json:"percentage"`
}

// LowAttendanceAlert flags a student below the alert threshold in one subject.
type LowAttendanceAlert struct {
	StudentID        int64   `json:"studentId"`
	StudentName      string  `json:"studentName"`
	EnrollmentNumber string  `json:"enrollmentNumber"`
	SubjectID        int64   `json:"subjectId"`
	SubjectName      string  `json:"subjectName"`
	Percentage       float64 `json:"percentage"`
}

// AttendanceCorrelation pairs attendance with average final marks.
type AttendanceCorrelation struct {
	StudentID            int64   `json:"studentId"`
	StudentName          string  `json:"studentName"`
	AttendancePercentage float64 `json:"attendancePercentage"`
	AverageMarks         float64 `json:"averageMarks"`
}

// SubjectAttendanceSummary is the attendance of one subject across students.
type SubjectAttendanceSummary struct {
	SubjectID         int64   `json:"subjectId"`
	SubjectName       string  `json:"subjectName"`
	TotalStudents     int64   `json:"totalStudents"`
	AverageAttendance float64 `json:"avgAttendance"`
}

// RiskReport lists at-risk students with the band counts of the whole scope.
type RiskReport struct {
	AtRiskStudents []RiskStudent `json:"atRiskStudents"`
	RiskSummary    []RiskBand    `json:"riskSummary"`
}

// RiskStudent is one classified student with contact details for follow-up.
type RiskStudent struct {
	StudentID            int64            `json:"studentId"`
	EnrollmentNumber     string           `json:"enrollmentNumber"`
	StudentName          string           `json:"studentName"`
	Email                string           `json:"email"`
	Phone                *string          `json:"phone,omitempty"`
	CourseName           *string          `json:"courseName,omitempty"`
	CurrentSemester      int              `json:"currentSemester"`
	Batch                *string          `json:"batch,omitempty"`
	GuardianName         *string          `json:"guardianName,omitempty"`
	GuardianPhone        *string          `json:"guardianPhone,omitempty"`
	AverageMarks         float64          `json:"averageMarks"`
	AttendancePercentage float64          `json:"attendancePercentage"`
	RiskLevel            models.RiskLevel `json:"riskLevel"`
}

// RiskBand counts students in one risk level.
type RiskBand struct {
	RiskLevel models.RiskLevel `json:"riskLevel"`
	Count     int64            `json:"count"`
}

// PlacementReport aggregates placement outcomes.
type PlacementReport struct {
	OverallStats        PlacementStats          `json:"overallStats"`
	CompanyWise         []CompanyPlacement      `json:"companyWise"`
	PackageDistribution []PackageRange          `json:"packageDistribution"`
	BatchTrend          []BatchPlacementSummary `json:"batchTrend"`
}

// PlacementStats summarises eligible students and accepted packages.
type PlacementStats struct {
	TotalStudents       int64    `json:"totalStudents"`
	PlacedStudents      int64    `json:"placedStudents"`
	PlacementPercentage float64  `json:"placementPercentage"`
	AveragePackage      float64  `json:"averagePackage"`
	HighestPackage      *float64 `json:"highestPackage"`
	LowestPackage       *float64 `json:"lowestPackage"`
}

// CompanyPlacement summarises accepted offers of one company.
type CompanyPlacement struct {
	CompanyName    string  `json:"companyName"`
	StudentsPlaced int64   `json:"studentsPlaced"`
	AveragePackage float64 `json:"avgPackage"`
	MaxPackage     float64 `json:"maxPackage"`
	Roles          string  `json:"roles"`
}

// PackageRange is one bucket of the package histogram.
type PackageRange struct {
	PackageRange string `json:"packageRange"`
	Count        int64  `json:"count"`
}

// BatchPlacementSummary is the placement outcome of one batch.
type BatchPlacementSummary struct {
	Batch               string  `json:"batch"`
	Total               int64   `json:"total"`
	Placed              int64   `json:"placed"`
	PlacementPercentage float64 `json:"placementPercentage"`
	AveragePackage      float64 `json:"avgPackage"`
}

// SubjectDifficulty scores a subject by its final-exam outcomes.
type SubjectDifficulty struct {
	SubjectID         int64   `json:"subjectId"`
	SubjectCode       string  `json:"subjectCode"`
	SubjectName       string  `json:"subjectName"`
	SemesterNumber    int     `json:"semesterNumber"`
	AverageMarks      float64 `json:"averageMarks"`
	StdDeviation      float64 `json:"stdDeviation"`
	FailRate          float64 `json:"failRate"`
	StudentsAttempted int64   `json:"studentsAttempted"`
	DifficultyLevel   string  `json:"difficultyLevel"`
}

// StudentAnalytics is the risk snapshot of a single student.
type StudentAnalytics struct {
	StudentID            int64            `json:"studentId"`
	EnrollmentNumber     string           `json:"enrollmentNumber"`
	StudentName          string           `json:"studentName"`
	CourseName           *string          `json:"courseName,omitempty"`
	CurrentSemester      int              `json:"currentSemester"`
	Batch                *string          `json:"batch,omitempty"`
	AverageMarks         float64          `json:"averageMarks"`
	AttendancePercentage float64          `json:"attendancePercentage"`
	RiskLevel            models.RiskLevel `json:"riskLevel"`
}

// StudentPerformanceReport is the self-service marks view of a student.
type StudentPerformanceReport struct {
	Overall       PerformanceOverview  `json:"overall"`
	SubjectMarks  []StudentSubjectMark `json:"subjectMarks"`
	SemesterTrend []SemesterTrendPoint `json:"semesterTrend"`
	Rank          *int64               `json:"rank,omitempty"`
}

// PerformanceOverview summarises a student's final marks.
type PerformanceOverview struct {
	AverageMarks  float64  `json:"averageMarks"`
	HighestMarks  *float64 `json:"highestMarks"`
	LowestMarks   *float64 `json:"lowestMarks"`
	TotalSubjects int64    `json:"totalSubjects"`
}

// StudentSubjectMark is one recorded mark of a student.
type StudentSubjectMark struct {
	SubjectCode    string          `json:"subjectCode"`
	SubjectName    string          `json:"subjectName"`
	SemesterNumber int             `json:"semesterNumber"`
	ExamType       models.ExamType `json:"examType"`
	MarksObtained  float64         `json:"marksObtained"`
	MaxMarks       float64         `json:"maxMarks"`
	Percentage     float64         `json:"percentage"`
	Passed         bool            `json:"passed"`
}

// StudentAttendanceReport is the self-service attendance view of a student.
type StudentAttendanceReport struct {
	Overall      AttendanceTotals    `json:"overall"`
	SubjectWise  []SubjectAttendance `json:"subjectWise"`
	MonthlyTrend []MonthlyAttendance `json:"monthlyTrend"`
}

// StudentPlacementReport is the self-service placement view of a student.
type StudentPlacementReport struct {
	CurrentSemester int              `json:"currentSemester"`
	Eligible        bool             `json:"eligible"`
	Placed          bool             `json:"placed"`
	Offers          []PlacementOffer `json:"offers"`
}

// PlacementOffer is one offer made to a student.
type PlacementOffer struct {
	PlacementID   int64                  `json:"placementId"`
	CompanyName   string                 `json:"companyName"`
	JobRole       *string                `json:"jobRole,omitempty"`
	PackageLPA    float64                `json:"packageLpa"`
	Status        models.PlacementStatus `json:"status"`
	IsInternship  bool                   `json:"isInternship"`
	PlacementDate *string                `json:"placementDate,omitempty"`
}

// AttendanceTotals is a present/total pair with its percentage.
type AttendanceTotals struct {
	TotalClasses int64   `json:"totalClasses"`
	Attended     int64   `json:"attended"`
	Percentage   float64 `json:"percentage"`
}

// SubjectAttendance is a student's attendance in one subject.
type SubjectAttendance struct {
	SubjectID   int64  `json:"subjectId"`
	SubjectCode string `json:"subjectCode"`
	SubjectName string `json:"subjectName"`
	AttendanceTotals
}

// MonthlyAttendance is a student's attendance in one YYYY-MM month.
type MonthlyAttendance struct {
	Month string `json:"month"`
	AttendanceTotals
}

// ClassAnalytics is the faculty view of a single subject.
type ClassAnalytics struct {
	SubjectID         int64              `json:"subjectId"`
	SubjectCode       string             `json:"subjectCode"`
	SubjectName       string             `json:"subjectName"`
	MarksDistribution []GradeCount       `json:"marksDistribution"`
	AttendanceTrend   []DailyAttendance  `json:"attendanceTrend"`
	AtRiskStudents    []ClassRiskStudent `json:"atRiskStudents"`
}

// GradeCount is the number of final marks in one grade band.
type GradeCount struct {
	Grade string `json:"grade"`
	Count int64  `json:"count"`
}

// DailyAttendance is the attendance of a subject on one date.
type DailyAttendance struct {
	Date    string `json:"date"`
	Present int64  `json:"present"`
	Absent  int64  `json:"absent"`
}

// ClassRiskStudent is an at-risk student scored on one subject.
type ClassRiskStudent struct {
	StudentID            int64            `json:"studentId"`
	EnrollmentNumber     string           `json:"enrollmentNumber"`
	StudentName          string           `json:"studentName"`
	AverageMarks         float64          `json:"averageMarks"`
	AttendancePercentage float64          `json:"attendancePercentage"`
	RiskLevel            models.RiskLevel `json:"riskLevel"`
}

// FacultyDashboard lists the subjects a faculty member teaches.
type FacultyDashboard struct {
	Subjects []FacultySubject `json:"subjects"`
}

// FacultySubject summarises final marks of a taught subject.
type FacultySubject struct {
	SubjectID      int64   `json:"subjectId"`
	SubjectCode    string  `json:"subjectCode"`
	SubjectName    string  `json:"subjectName"`
	SemesterNumber int     `json:"semesterNumber"`
	AverageMarks   float64 `json:"averageMarks"`
	TotalStudents  int64   `json:"totalStudents"`
	PassPercentage float64 `json:"passPercentage"`
}

// PlacementDashboard is the placement officer landing view.
type PlacementDashboard struct {
	OverallStats        PlacementStats `json:"overallStats"`
	PackageDistribution []PackageRange `json:"packageDistribution"`
}
