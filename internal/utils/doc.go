// Package utils exposes the ambient helpers shared by every packtools command.
//
// ConfigurationLoader layers embedded defaults, configuration files and
// PACKTOOLS_* environment variables through Viper, and LoggerFactory builds
// the zap loggers selected by --log-level and --log-format.
package utils
