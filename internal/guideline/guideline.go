// Package guideline evaluates ordered underwriting rules against quote data.
package guideline

import (
	"fmt"

	"github.com/wonny/underwriter/internal/quote"
)

// Guideline is one underwriting rule.
// Breaches returns true when the data must be rejected.
type Guideline struct {
	Code         string
	ShortCircuit bool
	Breaches     func(quote.Data) bool
}

// Evaluate runs guidelines in order and returns the breached codes in the same order.
// A breach of a ShortCircuit guideline stops evaluation; a pass never does.
// ⭐ SSOT: 가이드라인 평가 루프는 여기서만
func Evaluate(guidelines []Guideline, data quote.Data) []string {
	var breached []string
	for _, g := range guidelines {
		if !g.Breaches(data) {
			continue
		}
		breached = append(breached, g.Code)
		if g.ShortCircuit {
			break
		}
	}
	return breached
}

// forVariant adapts a predicate over one variant into a Guideline.
// Applying it to another variant is a programmer error and panics.
func forVariant[T quote.Data](code string, shortCircuit bool, breaches func(T) bool) Guideline {
	return Guideline{
		Code:         code,
		ShortCircuit: shortCircuit,
		Breaches: func(d quote.Data) bool {
			v, ok := d.(T)
			if !ok {
				var want T
				panic(fmt.Sprintf("guideline %s is for %T, applied to %T", code, want, d))
			}
			return breaches(v)
		},
	}
}
