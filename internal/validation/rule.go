// Package validation проверяет входные данные до построения правила повторения.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

// RuleInput сырое описание правила повторения из запроса
type RuleInput struct {
	Type            string     `json:"type" validate:"required,oneof=daily weekly custom_days custom_weeks"`
	Interval        int        `json:"interval" validate:"required_if=Type custom_days,required_if=Type custom_weeks,gte=0,max=3660"`
	Weekdays        []string   `json:"weekdays" validate:"required_if=Type custom_weeks,unique,dive,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	EndDate         *time.Time `json:"end_date"`
	OccurrenceCount int        `json:"occurrence_count" validate:"gte=0"`
}

// FieldError ошибка одного поля
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Error структурированная ошибка валидации
type Error struct {
	Fields []FieldError `json:"errors"`
}

func (e *Error) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// Validator проверка входных данных правил
type Validator struct {
	validate *validator.Validate
}

// New создаёт валидатор; имена полей берутся из json тегов
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct проверяет структуру по тегам validate
func (v *Validator) Struct(in any) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("validate %T: %w", in, err)
	}

	out := &Error{}
	for _, fe := range validationErrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: formatFieldError(fe),
		})
	}
	return out
}

// Check проверяет входные данные правила без его построения
func (v *Validator) Check(in RuleInput) error {
	if err := v.Struct(in); err != nil {
		return err
	}

	if in.Type == string(model.RecurrenceCustomWeeks) && len(in.Weekdays) == 0 {
		return &Error{Fields: []FieldError{{
			Field:   "weekdays",
			Tag:     "min",
			Param:   "1",
			Message: "field 'weekdays' must contain at least one day",
		}}}
	}
	return nil
}

// Rule проверяет входные данные и строит правило
func (v *Validator) Rule(in RuleInput) (*model.RecurrenceRule, error) {
	if err := v.Check(in); err != nil {
		return nil, err
	}

	weekdays, err := model.ParseWeekdaySet(in.Weekdays)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidRule, err)
	}

	term := model.Termination{EndDate: in.EndDate, Count: in.OccurrenceCount}
	return model.RestoreRule(model.RecurrenceKind(in.Type), in.Interval, weekdays, term)
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", fe.Field())
	case "required_if":
		return fmt.Sprintf("field '%s' is required when %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", fe.Field(), fe.Param())
	case "unique":
		return fmt.Sprintf("field '%s' must not contain duplicates", fe.Field())
	case "gte":
		return fmt.Sprintf("field '%s' must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("field '%s' failed validation: %s", fe.Field(), fe.Tag())
	}
}
