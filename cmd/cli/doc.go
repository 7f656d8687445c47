// Package cli constructs the packtools command-line interface: the Cobra
// root command with its configuration and logging flags, the sources and
// wiki subcommands, and the embedded default configuration.
package cli
