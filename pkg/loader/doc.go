// Package loader reads character definition files from disk and watches
// them for changes.
//
// A definition file is a YAML document with a name, optional owner and
// avatar, and the ordered fact lines the evaluator consumes:
//
//	name: Iris
//	owner: "12345678901234567"
//	facts:
//	  - is a dragon librarian
//	  - $if mentioned: $respond
//
// LoadDir reads every .yaml/.yml file in a directory; Watcher re-loads the
// directory after a debounced quiet period whenever a definition changes.
package loader
