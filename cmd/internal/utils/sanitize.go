package utils

import (
	"reflect"
	"strings"
	"unicode"
)

// Sanitize cleans every string field of the struct pointed by o, including
// string pointers and string slices. Surrounding whitespace is trimmed and
// control characters other than line breaks and tabs are dropped.
func Sanitize(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		panic("sanitize: expected pointer to struct")
	}

	v = v.Elem()
	for i := 0; i < v.NumField(); i++ {
		sanitizeValue(v.Field(i))
	}
}

func sanitizeValue(field reflect.Value) {
	switch field.Kind() {
	case reflect.String:
		if field.CanSet() {
			field.SetString(cleanString(field.String()))
		}
	case reflect.Ptr:
		if !field.IsNil() && field.Elem().Kind() == reflect.String {
			sanitizeValue(field.Elem())
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			for j := 0; j < field.Len(); j++ {
				sanitizeValue(field.Index(j))
			}
		}
	}
}

func cleanString(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
