/*
Package cli provides command-line utilities for the animus command.

It includes output formatters (text and JSON), a progress reporter for
bulk operations like character imports, and signal handling for graceful
shutdown:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

	ctx := cli.SetupSignalHandler()
	// ctx is cancelled on SIGINT/SIGTERM
*/
package cli
