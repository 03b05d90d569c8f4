package utils

import "strings"

const CNPJLength = 14

// NormalizeCNPJ strips the usual mask characters ("12.345.678/0001-95").
func NormalizeCNPJ(cnpj string) string {
	r := strings.NewReplacer(".", "", "/", "", "-", "", " ", "")
	return r.Replace(cnpj)
}

func IsCNPJValid(cnpj string) bool {
	if len(cnpj) != CNPJLength || !IsOnlyNumbers(cnpj) {
		return false
	}

	// Reject known invalid patterns that trick the math algorithm
	if hasAllSameDigits(cnpj) {
		return false
	}

	// RFB weights for both verifying digits
	first := cnpjDigit(cnpj[:12], []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	second := cnpjDigit(cnpj[:13], []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	return first == int(cnpj[12]-'0') && second == int(cnpj[13]-'0')
}

func IsOnlyNumbers(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func hasAllSameDigits(s string) bool {
	return strings.Count(s, s[:1]) == len(s)
}

func cnpjDigit(base string, weights []int) int {
	sum := 0
	for i, weight := range weights {
		sum += int(base[i]-'0') * weight
	}

	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}
