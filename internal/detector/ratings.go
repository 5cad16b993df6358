package detector

import "strings"

// Letter-grade ratings map to an ordinal scale, AAA=1 .. D=10. Higher
// ordinal means worse credit quality. Unknown codes default to the
// mid-scale value so a missing rating neither fires nor suppresses a
// divergence on its own.
const unknownRatingScore = 5

var ratingScores = map[string]int{
	"AAA": 1,
	"AA":  2,
	"A":   3,
	"BBB": 4,
	"BB":  5,
	"B":   6,
	"CCC": 7,
	"CC":  8,
	"C":   9,
	"D":   10,
}

// ratingScore returns the ordinal score for a rating code. Modifier
// suffixes (+/-) are ignored; "BBB-" scores as "BBB".
func ratingScore(code string) int {
	normalized := strings.TrimRight(strings.ToUpper(strings.TrimSpace(code)), "+-")
	if score, ok := ratingScores[normalized]; ok {
		return score
	}
	return unknownRatingScore
}
