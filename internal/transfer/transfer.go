// Package transfer recognizes bank-side debits that pay a credit card bill.
package transfer

import (
	"regexp"
	"strings"

	"github.com/ryanuber/go-glob"
)

// cardIssuerGlobs are matched case-insensitively against the whole description.
var cardIssuerGlobs = []string{
	"*isracard*",
	"*ישראכרט*",
	"*american express*",
	"*אמריקן אקספרס*",
	"*amex*",
	"*אמקס*",
	"*max it*",
	"*max-it*",
	"*מקס איט*",
	"*מקס-איט*",
	"*leumi card*",
	"*לאומי קארד*",
	"*לאומי כרטיסי אשראי*",
	"*visa cal*",
	"*ויזה כאל*",
	"*כרטיסי אשראי*",
	"*diners*",
	"*דיינרס*",
	"*חיוב כרטיס*",
	"*credit card payment*",
}

// Short abbreviations would produce false positives as plain substrings
// ("cal" in "local"), so they only match as whole words. A bare "max" is a
// retail chain as often as it is the issuer and is not matched.
var cardIssuerWords = regexp.MustCompile(`(?i)(^|[^\p{L}])(cal|כאל|כ\.א\.ל)([^\p{L}]|$)`)

// IsCardPayment reports whether description names a known credit card issuer.
// Unknown issuers are not recognized and the debit stays an expense.
func IsCardPayment(description string) bool {
	d := strings.ToLower(strings.TrimSpace(description))
	if d == "" {
		return false
	}

	for _, pattern := range cardIssuerGlobs {
		if glob.Glob(pattern, d) {
			return true
		}
	}

	return cardIssuerWords.MatchString(d)
}
