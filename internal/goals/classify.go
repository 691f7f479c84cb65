package goals

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	MetricRecoveryScore    = "recovery_score"
	MetricHRV              = "hrv"
	MetricRestingHeartRate = "resting_heart_rate"
	MetricSleepDuration    = "sleep_duration"
)

type Classification struct {
	Direction Direction
	Category  Category
	MetricKey string
	// Ambiguous is set when nothing in the name matched; the goal is then
	// treated as generic and higher-is-better.
	Ambiguous bool
}

type aliasGroup struct {
	key     string
	aliases []string
}

// order matters: the first group with a matching alias wins
var wearableAliases = []aliasGroup{
	{key: MetricRecoveryScore, aliases: []string{"recovery score", "recovery", "erholung"}},
	{key: MetricHRV, aliases: []string{"hrv rmssd", "heart rate variability", "herzfrequenzvariabilität", "hrv"}},
	{key: MetricRestingHeartRate, aliases: []string{"resting heart rate", "resting hr", "ruhepuls", "rhr"}},
	{key: MetricSleepDuration, aliases: []string{"sleep duration", "schlafdauer", "schlaf", "sleep"}},
}

var bodyCompositionVocabulary = []struct {
	category Category
	terms    []string
}{
	{category: CategoryBodyFat, terms: []string{"body fat", "bodyfat", "body-fat", "körperfett", "koerperfett", "fettanteil", "kfa"}},
	{category: CategoryMuscleMass, terms: []string{"muscle mass", "skeletal muscle", "muskelmasse"}},
	{category: CategoryWeight, terms: []string{"body weight", "bodyweight", "körpergewicht", "gewicht", "weight"}},
}

var (
	lowerIsBetterTerms = []string{"fat", "fett", "kfa", "weight", "gewicht"}
	runningTimeTerms   = []string{
		"5k", "10k", "5 km", "10 km", "half marathon", "halbmarathon", "marathon",
		"mile time", "meilenzeit", "run time", "laufzeit",
	}
	durationStyleTerms = []string{"plank", "hold", "halten", "vo2max", "vo2 max", "vo₂max"}
	distanceUnits      = map[string]bool{"km": true, "m": true, "mi": true, "miles": true, "meter": true}
	// loaded exercises, not body weight
	ignoredTerms = []string{"weighted", "gewichtet", "weight vest"}
)

// CanonicalWearableMetric maps a free-text wearable metric name to its canonical key.
func CanonicalWearableMetric(name string) (string, bool) {
	n := normalize(name)
	if n == "" {
		return "", false
	}
	if n == MetricRecoveryScore || n == MetricHRV || n == MetricRestingHeartRate || n == MetricSleepDuration {
		return n, true
	}
	for _, group := range wearableAliases {
		if containsAny(n, group.aliases) {
			return group.key, true
		}
	}
	return "", false
}

// Classify derives direction, category and wearable metric key from a goal's
// name and unit. Matching is substring based, in English and German.
func Classify(name, unit string, durationTarget bool) Classification {
	n := normalize(name)
	for _, t := range ignoredTerms {
		n = strings.ReplaceAll(n, t, " ")
	}
	c := Classification{
		Direction: HigherIsBetter,
		Category:  CategoryGeneric,
	}

	matched := false
	if key, ok := CanonicalWearableMetric(n); ok {
		c.Category = CategoryWearableMetric
		c.MetricKey = key
		matched = true
	} else {
		for _, v := range bodyCompositionVocabulary {
			if containsAny(n, v.terms) {
				c.Category = v.category
				c.MetricKey = string(v.category)
				matched = true
				break
			}
		}
	}

	if isLowerIsBetter(n, normalize(unit), durationTarget) {
		c.Direction = LowerIsBetter
		matched = true
	}

	if !matched {
		c.Ambiguous = true
		log.Debugf("goal [%s] not classified, using generic / higher is better", name)
	}
	return c
}

func isLowerIsBetter(name, unit string, durationTarget bool) bool {
	if durationTarget || containsAny(name, durationStyleTerms) {
		return false
	}
	if containsAny(name, lowerIsBetterTerms) {
		return true
	}
	// "marathon" with a distance unit is a volume goal, not a finishing time
	return containsAny(name, runningTimeTerms) && !distanceUnits[unit]
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
