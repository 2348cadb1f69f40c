// Package utils exposes reusable helpers consumed by multiple commands.
//
// ConfigurationLoader layers the embedded defaults, an optional configuration file and
// TEMPO_ environment variables through Viper. LoggerFactory builds the zap loggers.
package utils
