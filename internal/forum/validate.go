package forum

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"forum-service/internal/util"
)

// ThreadDraft is the user's unsubmitted thread. Operations take it by value
// so a failed submission leaves the caller's copy intact for a retry.
type ThreadDraft struct {
	Title    string     `json:"title" validate:"notblank,max=255"`
	Body     string     `json:"body" validate:"richtext"`
	Type     ThreadType `json:"type" validate:"threadtype"`
	TagNames []string   `json:"tagNames" validate:"max=10,dive,max=50"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "richtext", func(fl validator.FieldLevel) bool {
		return !util.IsBlank(fl.Field().String())
	})
	mustRegister(v, "threadtype", func(fl validator.FieldLevel) bool {
		return ThreadType(fl.Field().String()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate checks the draft without contacting the authority
func (d ThreadDraft) Validate() error {
	return validationError("validate thread", validate.Struct(d))
}

func validateCommentBody(op, body string) error {
	return validationError(op, validate.Var(body, "richtext"))
}

func validationError(op string, err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewError(Validation, op, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		if field == "" {
			field = "body"
		}
		switch fe.Tag() {
		case "notblank", "richtext":
			msgs = append(msgs, field+" is required")
		case "threadtype":
			msgs = append(msgs, fmt.Sprintf("%s must be one of discussion, resource, announcement (got %q)", field, fe.Value()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s is too long (max %s)", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return NewError(Validation, op, errors.New(strings.Join(msgs, "; ")))
}
