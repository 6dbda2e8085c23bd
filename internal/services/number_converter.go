package services

import (
	"fmt"
	"strings"
)

// AmountInWords converts a rupee amount to English words using the Indian
// numbering system (lakh, crore), for printing on receipts.
// Example: 125000 -> "RUPEES ONE LAKH TWENTY FIVE THOUSAND ONLY"
func AmountInWords(amount float64) string {
	n := int64(amount)
	if n == 0 {
		return "RUPEES ZERO ONLY"
	}

	words := numberToWords(n)
	return fmt.Sprintf("RUPEES %s ONLY", strings.ToUpper(words))
}

// FormatCurrency renders a whole-rupee amount with Indian digit grouping,
// e.g. 125000 -> "1,25,000". Paise are not modeled; fractions are truncated.
func FormatCurrency(amount float64) string {
	n := int64(amount)
	if n < 0 {
		return "-" + FormatCurrency(-amount)
	}

	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	// Last group of three, then groups of two.
	groups := []string{s[len(s)-3:]}
	s = s[:len(s)-3]
	for len(s) > 2 {
		groups = append([]string{s[len(s)-2:]}, groups...)
		s = s[:len(s)-2]
	}
	if len(s) > 0 {
		groups = append([]string{s}, groups...)
	}
	return strings.Join(groups, ",")
}

func numberToWords(n int64) string {
	if n == 0 {
		return "ZERO"
	}
	if n < 0 {
		return "MINUS " + numberToWords(-n)
	}

	if n < 20 {
		return belowTwenty[n]
	}

	if n < 100 {
		u := n % 10
		t := n / 10
		if u == 0 {
			return tensWords[t]
		}
		return fmt.Sprintf("%s %s", tensWords[t], belowTwenty[u])
	}

	if n < 1000 {
		remainder := n % 100
		if remainder == 0 {
			return belowTwenty[n/100] + " HUNDRED"
		}
		return fmt.Sprintf("%s HUNDRED %s", belowTwenty[n/100], numberToWords(remainder))
	}

	// Indian grouping: thousand (10^3), lakh (10^5), crore (10^7)
	if n < 100000 {
		return groupWords(n, 1000, "THOUSAND")
	}
	if n < 10000000 {
		return groupWords(n, 100000, "LAKH")
	}
	return groupWords(n, 10000000, "CRORE")
}

func groupWords(n, unit int64, name string) string {
	head := n / unit
	remainder := n % unit
	text := fmt.Sprintf("%s %s", numberToWords(head), name)
	if remainder == 0 {
		return text
	}
	return fmt.Sprintf("%s %s", text, numberToWords(remainder))
}

var belowTwenty = []string{
	"", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
	"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN",
	"SEVENTEEN", "EIGHTEEN", "NINETEEN",
}

var tensWords = []string{
	"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY", "EIGHTY", "NINETY",
}
