package customvalidator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex      = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	branchCodeRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _./-]{0,63}$`)

	// Разделители, допустимые в записи номера: "+1 555-123-4567", "(900) 00.00".
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

// RegisterCustomValidations регистрирует правила проекта и адаптер для null-типов.
func RegisterCustomValidations(v *validator.Validate) error {
	registerNullTypes(v)

	if err := v.RegisterValidation("phone", isPhoneNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("branch_code", isBranchCode); err != nil {
		return err
	}
	if err := v.RegisterValidation("email", isGoodEmailFormat); err != nil {
		return err
	}

	return nil
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isPhoneNumber(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(phoneSeparators.Replace(fl.Field().String()))
}

func isBranchCode(fl validator.FieldLevel) bool {
	return branchCodeRegex.MatchString(fl.Field().String())
}

// registerNullTypes учит валидатор смотреть внутрь null.String.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})
}
