package validators

import (
	"reflect"
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/timeline"
	"pontodigital/cmd/internal/utils"
)

var (
	hasSpaces  = regexp.MustCompile(`\s+`)
	badgeRegex = regexp.MustCompile(`^[A-Za-z0-9-]{1,20}$`)
)

// Register installs every custom tag used by the contract package.
func Register(validate *validator.Validate) {
	_ = validate.RegisterValidation("hasdigit", HasDigit)
	_ = validate.RegisterValidation("hasletter", HasLetter)
	_ = validate.RegisterValidation("nodupes", NoDupes)
	_ = validate.RegisterValidation("nospaces", NoWhiteSpaces)
	_ = validate.RegisterValidation("badge", Badge)
	_ = validate.RegisterValidation("holidaydate", HolidayDate)
	_ = validate.RegisterValidation("cnpj", CNPJ)
}

func HasDigit(fl validator.FieldLevel) bool {
	return containsRune(fl, unicode.IsDigit)
}

func HasLetter(fl validator.FieldLevel) bool {
	return containsRune(fl, unicode.IsLetter)
}

func containsRune(fl validator.FieldLevel, match func(rune) bool) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	for _, ch := range field.String() {
		if match(ch) {
			return true
		}
	}
	return false
}

// NoWhiteSpaces returns false if the string contains any whitespace (rejecting the user input).
func NoWhiteSpaces(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return !hasSpaces.MatchString(field.String())
}

func NoDupes(fl validator.FieldLevel) bool {
	slice := fl.Field()
	if slice.Kind() != reflect.Slice {
		log.Warnf("validator 'nodupes' applied to non-slice type: %s", slice.Kind().String())
		return false
	}

	length := slice.Len()
	seen := make(map[any]bool, length)
	for i := 0; i < length; i++ {
		val := slice.Index(i).Interface()
		if seen[val] {
			return false
		}
		seen[val] = true
	}
	return true
}

// Badge accepts registration numbers ("matrícula") like "1042" or "RH-07".
func Badge(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return badgeRegex.MatchString(field.String())
}

func HolidayDate(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	_, err := timeline.NormalizeDate(field.String())
	return err == nil
}

func CNPJ(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return utils.IsCNPJValid(utils.NormalizeCNPJ(field.String()))
}
