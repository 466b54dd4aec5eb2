package extract

import "strings"

// Stopword counting is enough here: the service only distinguishes
// German from English, and falls back to German for everything else.
var (
	germanStopwords  = []string{" der ", " die ", " das ", " und ", " ist ", " nicht ", " mit ", " für ", " eine ", " werden ", " sind ", " auf ", " von "}
	englishStopwords = []string{" the ", " and ", " is ", " not ", " with ", " for ", " are ", " this ", " that ", " shall ", " must ", " will ", " of "}
)

// DetectLanguage returns "de" or "en"; German wins ties and empty input.
func DetectLanguage(text string) string {
	sample := text
	if len(sample) > 4000 {
		sample = sample[:4000]
	}
	sample = " " + strings.ToLower(sample) + " "

	var de, en int
	for _, w := range germanStopwords {
		de += strings.Count(sample, w)
	}
	for _, w := range englishStopwords {
		en += strings.Count(sample, w)
	}
	if en > de {
		return "en"
	}
	return "de"
}
