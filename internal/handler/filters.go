package handler

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/campusiq-api/internal/analytics"
	"github.com/noah-isme/campusiq-api/internal/models"
	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// analyticsQuery is the raw query string of an analytics endpoint.
type analyticsQuery struct {
	CourseID   string `form:"courseId" validate:"omitempty,entity_id"`
	SemesterID string `form:"semesterId" validate:"omitempty,entity_id"`
	SubjectID  string `form:"subjectId" validate:"omitempty,entity_id"`
	StudentID  string `form:"studentId" validate:"omitempty,entity_id"`
	Batch      string `form:"batch" validate:"omitempty,max=20"`
	RiskLevel  string `form:"riskLevel" validate:"omitempty,risk_level"`
	DateFrom   string `form:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"dateTo" validate:"omitempty,datetime=2006-01-02"`
}

// filterField names a query parameter an endpoint honours.
type filterField int

const (
	byCourse filterField = iota
	bySemester
	bySubject
	byStudent
	byBatch
	byRiskLevel
	byDateRange
)

// FilterBinder turns query strings into validated analytics filters.
type FilterBinder struct {
	validate *validator.Validate
}

// NewFilterBinder registers the analytics validations on validate.
func NewFilterBinder(validate *validator.Validate) *FilterBinder {
	if validate == nil {
		validate = validator.New()
	}
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("entity_id", func(fl validator.FieldLevel) bool {
		_, err := parseEntityID(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("risk_level", func(fl validator.FieldLevel) bool {
		_, err := analytics.ParseRiskLevel(fl.Field().String())
		return err == nil
	})
	return &FilterBinder{validate: validate}
}

// Bind validates the query and keeps only the given fields. Parameters an
// endpoint does not honour are ignored.
func (b *FilterBinder) Bind(c *gin.Context, fields ...filterField) (models.AnalyticsFilter, error) {
	var q analyticsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return models.AnalyticsFilter{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters")
	}
	if err := b.validate.Struct(q); err != nil {
		return models.AnalyticsFilter{}, validationError(err)
	}

	var filter models.AnalyticsFilter
	for _, f := range fields {
		switch f {
		case byCourse:
			filter.CourseID = optionalID(q.CourseID)
		case bySemester:
			filter.SemesterID = optionalID(q.SemesterID)
		case bySubject:
			filter.SubjectID = optionalID(q.SubjectID)
		case byStudent:
			filter.StudentID = optionalID(q.StudentID)
		case byBatch:
			filter.Batch = strings.TrimSpace(q.Batch)
		case byRiskLevel:
			if q.RiskLevel != "" {
				level, err := analytics.ParseRiskLevel(q.RiskLevel)
				if err != nil {
					return models.AnalyticsFilter{}, err
				}
				filter.RiskLevel = &level
			}
		case byDateRange:
			filter.DateFrom = optionalDate(q.DateFrom)
			filter.DateTo = optionalDate(q.DateTo)
			if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
				return models.AnalyticsFilter{}, appErrors.Clone(appErrors.ErrValidation, "dateFrom must not be after dateTo")
			}
		}
	}
	return filter, nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+fieldErrs[0].Field()+" parameter")
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters")
}

func parseEntityID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// pathID reads a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := parseEntityID(c.Param(name))
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+" parameter")
	}
	return id, nil
}

func optionalID(raw string) *int64 {
	if raw == "" {
		return nil
	}
	id, err := parseEntityID(raw)
	if err != nil {
		return nil
	}
	return &id
}

func optionalDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}
