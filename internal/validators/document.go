package validators

import "strings"

// OnlyDigits strips punctuation from CPF/CNPJ input.
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsDocument accepts a CPF (11 digits) or CNPJ (14 digits) with valid check
// digits. Punctuation is ignored.
func IsDocument(s string) bool {
	d := OnlyDigits(s)
	switch len(d) {
	case 11:
		return isCPF(d)
	case 14:
		return isCNPJ(d)
	default:
		return false
	}
}

func allSame(d string) bool {
	return strings.Count(d, d[:1]) == len(d)
}

func isCPF(d string) bool {
	if allSame(d) {
		return false
	}
	for _, n := range []int{9, 10} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(d[i]-'0') * (n + 1 - i)
		}
		check := (sum * 10) % 11
		if check == 10 {
			check = 0
		}
		if check != int(d[n]-'0') {
			return false
		}
	}
	return true
}

func isCNPJ(d string) bool {
	if allSame(d) {
		return false
	}
	weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	for _, n := range []int{12, 13} {
		sum := 0
		w := weights[13-n:]
		for i := 0; i < n; i++ {
			sum += int(d[i]-'0') * w[i]
		}
		check := sum % 11
		if check < 2 {
			check = 0
		} else {
			check = 11 - check
		}
		if check != int(d[n]-'0') {
			return false
		}
	}
	return true
}
