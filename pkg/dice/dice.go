package dice

import (
	"math/rand"
	"regexp"
	"sort"
	"strconv"

	fclerrors "persona-hq/animus/pkg/fcl/errors"
)

// MaxRerolls is the cap on exploding rerolls per die.
const MaxRerolls = 100

// MaxDice and MaxSides bound a roll so a grammar-matching spec cannot
// demand an arbitrarily large allocation.
const (
	MaxDice  = 1000
	MaxSides = 1000000
)

// rollPattern captures: count, sides, keep/drop kind, keep/drop N,
// exploding flag, flat modifier, comparator, threshold.
var rollPattern = regexp.MustCompile(
	`^(\d+)d(\d+)(?:(kh|kl|dh|dl)(\d+)|(!))?([+-]\d+)?(?:(>=|<=|>|<)(\d+))?$`)

// Roll parses and rolls a dice expression. A string not matching the
// grammar raises a descriptive error.
func Roll(spec string) (int, error) {
	return roll(spec, rand.Intn)
}

// roll is the deterministic core; intn returns a uniform integer in
// [0,n) and is replaced in tests.
func roll(spec string, intn func(n int) int) (int, error) {
	m := rollPattern.FindStringSubmatch(spec)
	if m == nil {
		return 0, fclerrors.New(fclerrors.ErrorTypeFormat, 0,
			"Invalid dice expression %q: expected <count>d<sides> with optional kh/kl/dh/dl, !, modifier, and comparison", spec)
	}

	// Atoi reports ErrRange for digit runs past the integer range, so the
	// checks here must not discard its error.
	count, err := strconv.Atoi(m[1])
	if err != nil || count > MaxDice {
		return 0, fclerrors.New(fclerrors.ErrorTypeFormat, 0,
			"Invalid dice expression %q: count must be at most %d", spec, MaxDice)
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil || sides > MaxSides {
		return 0, fclerrors.New(fclerrors.ErrorTypeFormat, 0,
			"Invalid dice expression %q: sides must be at most %d", spec, MaxSides)
	}
	if count < 1 {
		return 0, fclerrors.New(fclerrors.ErrorTypeFormat, 0,
			"Invalid dice expression %q: count must be at least 1", spec)
	}
	if sides < 1 {
		return 0, fclerrors.New(fclerrors.ErrorTypeFormat, 0,
			"Invalid dice expression %q: sides must be at least 1", spec)
	}

	exploding := m[5] == "!"

	dice := make([]int, count)
	for i := range dice {
		die := intn(sides) + 1
		if exploding {
			total := die
			for rerolls := 0; die == sides && rerolls < MaxRerolls; rerolls++ {
				die = intn(sides) + 1
				total += die
			}
			die = total
		}
		dice[i] = die
	}

	// Keep/drop modifiers are only meaningful without exploding.
	if m[3] != "" {
		n, err := strconv.Atoi(m[4])
		if err != nil || n > len(dice) {
			n = len(dice)
		}
		sorted := make([]int, len(dice))
		copy(sorted, dice)
		sort.Ints(sorted)

		switch m[3] {
		case "kh":
			dice = sorted[len(sorted)-n:]
		case "kl":
			dice = sorted[:n]
		case "dh":
			dice = sorted[:len(sorted)-n]
		case "dl":
			dice = sorted[n:]
		}
	}

	// A trailing comparison counts successes instead of summing.
	if m[7] != "" {
		threshold, err := strconv.Atoi(m[8])
		if err != nil {
			return 0, fclerrors.New(fclerrors.ErrorTypeFormat, 0,
				"Invalid dice expression %q: comparison threshold out of range", spec)
		}
		successes := 0
		for _, die := range dice {
			if compare(m[7], die, threshold) {
				successes++
			}
		}
		return successes, nil
	}

	sum := 0
	for _, die := range dice {
		sum += die
	}
	if m[6] != "" {
		modifier, err := strconv.Atoi(m[6])
		if err != nil {
			return 0, fclerrors.New(fclerrors.ErrorTypeFormat, 0,
				"Invalid dice expression %q: modifier out of range", spec)
		}
		sum += modifier
	}
	return sum, nil
}

func compare(op string, die, threshold int) bool {
	switch op {
	case ">=":
		return die >= threshold
	case "<=":
		return die <= threshold
	case ">":
		return die > threshold
	case "<":
		return die < threshold
	}
	return false
}
