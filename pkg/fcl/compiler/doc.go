// Package compiler translates FCL ASTs into executable predicates under
// a compile-time security gate.
//
// Two gates run before any executable form is produced:
//
//  1. Identifier gate: every bare identifier must belong to the fixed
//     field set derived from EvalContext's declared shape (plus an
//     explicit extra-identifier capability set). Host runtime globals
//     are unreachable simply because they are not declared fields.
//
//  2. Property/method gate: member-access property names are checked
//     against a fixed blocked set (constructor, __proto__, prototype,
//     and the getter/setter definition hooks), methods resolve against
//     a closed enumeration, pattern-compiling methods require a literal
//     argument validated against a catastrophic-backtracking heuristic,
//     and methods capable of unbounded allocation are bound to wrappers
//     enforcing a maximum output length computed before allocation.
//
// The compiled result is a pure tree-walking closure over no mutable
// state; it is safe to invoke concurrently. Results are memoized in an
// append-only cache keyed by source text plus the ordered
// extra-identifier set.
package compiler
