package probe

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var digitsRe = regexp.MustCompile(`\d+`)

// QualityRank orders a quality key: best above everything, worst below
// everything, audio entries just above worst, the rest by their embedded
// resolution number (1 when none parses).
func QualityRank(q string) int {
	switch {
	case q == "best":
		return math.MaxInt
	case q == "worst":
		return -1
	case strings.Contains(q, "audio"):
		return 0
	}
	m := digitsRe.FindString(q)
	if m == "" {
		return 1
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 1
	}
	return n
}

// RankQualities returns a copy of qs sorted by QualityRank, highest first.
// Equal ranks fall back to descending key order so the result never depends
// on input order.
func RankQualities(qs []string) []string {
	out := append([]string(nil), qs...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := QualityRank(out[i]), QualityRank(out[j])
		if ri != rj {
			return ri > rj
		}
		return out[i] > out[j]
	})
	return out
}
