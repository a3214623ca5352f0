package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	pkPhonePattern = regexp.MustCompile(`^(\+92|0)?3\d{9}$|^(\+92|0)?2\d{7,8}$`)
	phoneNoise     = strings.NewReplacer(" ", "", "-", "")
)

// IsValidPKPhone accepts Pakistani mobile and landline numbers, ignoring spaces and dashes.
func IsValidPKPhone(phone string) bool {
	return pkPhonePattern.MatchString(phoneNoise.Replace(phone))
}

func validatePKPhone(fl validator.FieldLevel) bool {
	return IsValidPKPhone(fl.Field().String())
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Completed", "Pending", "Failed":
		return true
	}
	return false
}

func validateHeadStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "active", "inactive":
		return true
	}
	return false
}

// RegisterValidators adds the voucher-specific rules to v.
func RegisterValidators(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"pkphone":       validatePKPhone,
		"paymentstatus": validatePaymentStatus,
		"headstatus":    validateHeadStatus,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}
	return nil
}

// RegisterBindingValidators installs the rules on gin's default binding engine.
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("gin binding engine is not go-playground/validator")
	}
	return RegisterValidators(v)
}

// DescribeValidationError flattens validator errors into a single readable message.
func DescribeValidationError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
