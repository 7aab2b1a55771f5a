// Package version orders recipe version labels and compiler version strings.
//
// Labels are split into segments on '.', '-' and '_', and each segment is
// further split into runs of digits and letters. Numeric runs compare by
// value, letter runs compare lexically, and a letter run sorts below a
// numeric run. A trailing letter run marks a pre-release, so "12.0.0-rc1"
// sorts below "12.0.0". Branch-like labels such as "main" or "develop" sort
// above every numeric version.
package version

import (
	"slices"
	"strconv"
	"strings"
)

// infinity lists the branch labels that outrank numeric versions, lowest first.
var infinity = []string{"stable", "trunk", "head", "master", "main", "develop"}

type part struct {
	num   int
	text  string
	isNum bool
}

// IsBranch reports whether label names a branch-like version.
func IsBranch(label string) bool {
	return slices.Contains(infinity, label)
}

// Compare returns -1, 0 or 1 as a sorts before, equal to, or after b.
func Compare(a, b string) int {
	ia, ib := slices.Index(infinity, a), slices.Index(infinity, b)
	switch {
	case ia >= 0 && ib >= 0:
		return sign(ia - ib)
	case ia >= 0:
		return 1
	case ib >= 0:
		return -1
	}

	pa, pb := split(a), split(b)
	n := min(len(pa), len(pb))
	for i := 0; i < n; i++ {
		if c := comparePart(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(pa) == len(pb):
		return 0
	case len(pa) > len(pb):
		if pa[n].isNum {
			return 1
		}
		return -1
	default:
		if pb[n].isNum {
			return -1
		}
		return 1
	}
}

// HasPrefix reports whether v starts with every segment of prefix, so that
// "11.7.1" has prefix "11" and "11.7", but not "1".
func HasPrefix(v, prefix string) bool {
	pv, pp := split(v), split(prefix)
	if len(pp) > len(pv) {
		return false
	}
	for i := range pp {
		if comparePart(pv[i], pp[i]) != 0 {
			return false
		}
	}
	return true
}

// InRange reports whether v lies in the inclusive range lo:hi. An empty
// bound is open. The upper bound admits any version it prefixes, so
// "11.7.1" lies in ":11".
func InRange(v, lo, hi string) bool {
	if lo != "" && Compare(v, lo) < 0 && !HasPrefix(v, lo) {
		return false
	}
	if hi != "" && Compare(v, hi) > 0 && !HasPrefix(v, hi) {
		return false
	}
	return true
}

// Major returns the leading integer of a version string such as the output
// of "gfortran -dumpversion" ("9", "13.2.0").
func Major(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func split(s string) []part {
	var parts []part
	for _, seg := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	}) {
		for len(seg) > 0 {
			end := 1
			digit := isDigit(seg[0])
			for end < len(seg) && isDigit(seg[end]) == digit {
				end++
			}
			p := part{text: seg[:end], isNum: digit}
			if digit {
				p.num, _ = strconv.Atoi(p.text)
			}
			parts = append(parts, p)
			seg = seg[end:]
		}
	}
	return parts
}

func comparePart(a, b part) int {
	switch {
	case a.isNum && b.isNum:
		return sign(a.num - b.num)
	case a.isNum:
		return 1
	case b.isNum:
		return -1
	}
	return strings.Compare(a.text, b.text)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
