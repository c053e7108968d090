// Animus is a sandboxed expression and directive engine for
// character-chat platforms.
//
// It evaluates character fact lines (plain facts plus $-directives with
// optional $if guards) against a per-message context, and manages the
// character definitions behind them:
//
//	# Start the engine with default configuration
//	animus run
//
//	# Start with a custom configuration file
//	animus run --config /etc/animus/config.yaml
//
//	# Validate character definition files
//	animus lint --dir characters/
//
//	# Evaluate a character against a context file
//	animus eval --file characters/iris.yaml --context ctx.yaml
//
//	# Roll a dice expression
//	animus roll 4d6kh3
//
//	# Show version information
//	animus version
package main

func main() {
	Execute()
}
