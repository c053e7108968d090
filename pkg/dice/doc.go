// Package dice rolls dice expressions of the form
//
//	<count>d<sides>[kh|kl|dh|dl<N> | !][+|-<int>][>=|<=|>|< <threshold>]
//
// Examples: "2d6", "4d6kh3", "1d20+5", "3d6!", "8d6>=5".
//
// Exploding dice (!) reroll and accumulate each die that lands on its
// maximum face, capped at 100 rerolls per die. Keep/drop modifiers sort
// the results and retain or remove the highest or lowest N. A trailing
// comparison turns the roll into success counting: the result is the
// number of dice satisfying the comparison rather than a sum.
//
// Randomness is drawn directly from the host's source; there is no
// seeding or reproducibility contract.
package dice
