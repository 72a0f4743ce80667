package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	eeerrors "github.com/alexisbeaulieu97/eetest/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := field.Tag.Get("flag")
			if name == "" || name == "-" {
				return strings.ToLower(field.Name)
			}
			return name
		})

		_ = v.RegisterValidation("collection", func(fl validator.FieldLevel) bool {
			info, err := os.Stat(filepath.Join(fl.Field().String(), TargetsSubdir))
			return err == nil && info.IsDir()
		})

		validateInst = v
	})

	return validateInst
}

// ValidateRunOptions checks the options collected from the command line.
func ValidateRunOptions(opts *RunOptions) error {
	if opts == nil {
		return eeerrors.NewValidationError("options", "run options are nil", nil)
	}

	if err := validatorInstance().Struct(opts); err != nil {
		return convertValidationError(err)
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		ve := ves[0]
		return eeerrors.NewValidationError(ve.Field(), describeFailure(ve), err)
	}

	return eeerrors.NewValidationError("options", err.Error(), err)
}

func describeFailure(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "collection":
		return fmt.Sprintf("%q does not contain a %s directory", fe.Value(), TargetsSubdir)
	case "file":
		return fmt.Sprintf("%q is not a readable file", fe.Value())
	case "dir":
		return fmt.Sprintf("%q is not a directory", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed validation for tag '%s'", fe.Tag())
	}
}
