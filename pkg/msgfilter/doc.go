// Package msgfilter compiles the message-inclusion filter sub-language
// and applies it to chat history.
//
// The sub-language is a narrower grammar than full FCL: exactly six
// numeric identifiers (chars, count, age in milliseconds, and age_h,
// age_m, age_s) plus
// true, false, Infinity, and NaN. Any other identifier is a compile
// error.
//
// The host walks chat history newest-first. Running totals are updated
// per candidate message and the compiled predicate is evaluated against
// them; selection always includes at least one message and stops,
// after that, at the first message for which the predicate is false.
package msgfilter
