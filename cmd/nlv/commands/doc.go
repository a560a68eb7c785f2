// Package commands defines the nlv CLI and wires configuration and logging
// for subcommands.
//
// Commands
//
//   - (root)   Interactive linked numberline viewer
//   - render   Print the numberlines once, without interaction
//   - ticks    Show the tick denominator chosen for a range
//   - export   Write SVG or PNG snapshots
//   - preview  Serve a live snapshot to the browser
//   - init     Create a config file interactively
//
// # Implementation
//
// The root command resolves the config file and the logger before any
// subcommand runs. With --debug the log goes to nlv-debug.log, since the
// interactive viewer owns the terminal.
package commands
