package cli

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: NormalizeTickers yields unique upper-case tickers and is
// idempotent.
func TestProperty_NormalizeTickers(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	tickerGen := gen.OneConstOf("spx", "SPX", "_spx", " ndx ", "qqq", "iwm,spy", "RUT,rut", "", ",")

	properties.Property("unique, upper-case and idempotent", prop.ForAll(
		func(args []string) bool {
			out := NormalizeTickers(args, []string{"DEF"})
			if len(out) == 0 {
				t.Logf("empty result for %q", args)
				return false
			}

			seen := make(map[string]bool)
			for _, tk := range out {
				if tk != strings.ToUpper(tk) || strings.ContainsAny(tk, " ,_") || seen[tk] {
					t.Logf("bad ticker %q in %v", tk, out)
					return false
				}
				seen[tk] = true
			}

			again := NormalizeTickers(out, nil)
			if strings.Join(again, ",") != strings.Join(out, ",") {
				t.Logf("not idempotent: %v -> %v", out, again)
				return false
			}
			return true
		},
		gen.SliceOf(tickerGen, reflect.TypeOf("")),
	))

	properties.Property("defaults used only when args are empty", prop.ForAll(
		func(args []string) bool {
			out := NormalizeTickers(args, []string{"DEF"})
			hasDefault := len(out) == 1 && out[0] == "DEF"
			anyTicker := false
			for _, a := range args {
				if strings.Trim(a, " ,_") != "" {
					anyTicker = true
				}
			}
			return hasDefault != anyTicker
		},
		gen.SliceOf(tickerGen, reflect.TypeOf("")),
	))

	properties.TestingRun(t)
}

// Property: any civil date formats and parses back to itself.
func TestProperty_EvaluationDateRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	never := func() time.Time { panic("today must not be called") }

	properties.Property("format then parse is identity", prop.ForAll(
		func(days int) bool {
			d := base.AddDate(0, 0, days)
			got, err := ParseEvaluationDate(d.Format(dateLayout), never)
			return err == nil && got.Equal(d)
		},
		gen.IntRange(0, 20000),
	))

	properties.TestingRun(t)
}
