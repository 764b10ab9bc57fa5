package clean

import (
	"log"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"scrub/internal/frame"
)

// lower is shared; cases.Caser values are cheap but not concurrency-safe,
// and this package runs stages sequentially.
var lower = cases.Lower(language.Und)

// StandardizeCategorical normalizes every text column in place. The
// sub-step order is fixed: trim, case-fold, whitespace-collapse, then the
// optional token remap. Token remapping is a lookup table supplied by the
// caller (e.g. {"yes":"y","true":"y","1":"y"}), applied to the already
// normalized value.
//
// Values are also brought to Unicode NFC so visually identical categories
// compare equal.
func StandardizeCategorical(f *frame.Frame, tokenMap map[string]string, rep *Report) {
	for _, c := range f.Columns() {
		if c.Kind != frame.Text {
			continue
		}
		for i, v := range c.Values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			c.Values[i] = NormalizeToken(s, tokenMap)
		}
		rep.CategoricalCols = append(rep.CategoricalCols, c.Name)
		log.Printf("categorical: standardized column %q", c.Name)
	}
}

// NormalizeToken applies the normalization chain to a single value.
func NormalizeToken(s string, tokenMap map[string]string) string {
	s = norm.NFC.String(s)
	s = strings.TrimSpace(s)
	s = lower.String(s)
	s = strings.Join(strings.Fields(s), " ")
	if mapped, ok := tokenMap[s]; ok {
		return mapped
	}
	return s
}
