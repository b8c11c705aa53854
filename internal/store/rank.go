package store

import (
	"errors"
	"strings"
)

const rankAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const (
	rankMin = 0
	rankMax = len(rankAlphabet) - 1
)

var ErrNoRankSpace = errors.New("no space between ranks")

func rankDigit(c byte) (int, bool) {
	i := strings.IndexByte(rankAlphabet, c)
	return i, i >= 0
}

func normRank(r string) string {
	return strings.ToLower(strings.TrimSpace(r))
}

// RankBetween returns a rank strictly between a and b in lexicographic order.
// Either bound may be empty, meaning unbounded on that side.
func RankBetween(a, b string) (string, error) {
	a, b = normRank(a), normRank(b)
	if a != "" && b != "" && a >= b {
		return "", errors.New("RankBetween requires a < b")
	}
	inside := func(r string) bool {
		return r != "" && (a == "" || a < r) && (b == "" || r < b)
	}

	prefix := make([]byte, 0, 8)
	for i := 0; i < 256; i++ {
		lo, hi := rankMin, rankMax
		if i < len(a) {
			d, ok := rankDigit(a[i])
			if !ok {
				return "", errors.New("invalid rank character in a")
			}
			lo = d
		}
		if i < len(b) {
			d, ok := rankDigit(b[i])
			if !ok {
				return "", errors.New("invalid rank character in b")
			}
			hi = d
		}

		switch {
		case lo == hi:
			prefix = append(prefix, rankAlphabet[lo])
			continue
		case hi-lo > 1:
			prefix = append(prefix, rankAlphabet[lo+(hi-lo)/2])
			r := string(prefix)
			if !inside(r) {
				// "y" < "y0" leaves nothing strictly between.
				return "", ErrNoRankSpace
			}
			return r, nil
		}

		// Adjacent digits: any extension of a stays below b.
		r := a + "0"
		if !inside(r) {
			return "", ErrNoRankSpace
		}
		return r, nil
	}
	return "", errors.New("unable to compute rank between")
}

func RankAfter(a string) (string, error) { return RankBetween(a, "") }

func RankInitial() (string, error) { return RankBetween("", "") }

// Rerank returns ranks for items already in their final order. Ranks that still increase
// are kept; the others are rewritten between their neighbours.
func Rerank(ranks []string) ([]string, error) {
	out := make([]string, len(ranks))
	prev := ""
	for i, r := range ranks {
		r = normRank(r)
		if r != "" && r > prev && validRank(r) {
			out[i] = r
			prev = r
			continue
		}
		upper := ""
		if i+1 < len(ranks) {
			if next := normRank(ranks[i+1]); next > prev && validRank(next) {
				upper = next
			}
		}
		nr, err := RankBetween(prev, upper)
		if err != nil {
			if nr, err = RankAfter(prev); err != nil {
				return nil, err
			}
		}
		out[i] = nr
		prev = nr
	}
	return out, nil
}

func validRank(r string) bool {
	for i := 0; i < len(r); i++ {
		if _, ok := rankDigit(r[i]); !ok {
			return false
		}
	}
	return true
}
