package wiki

import (
	"strings"
)

const (
	// DefaultRepositoryURL is the wiki converted when no repository is configured.
	DefaultRepositoryURL = "https://github.com/makeworld-the-better-one/amfora.wiki.git"
	// DefaultOutputDirectory writes the capsule into the working directory.
	DefaultOutputDirectory = "."

	configurationRepositoryKeyConstant       = "repository"
	configurationOutputDirectoryKeyConstant  = "output_directory"
	configurationFooterKeyConstant           = "footer"
	configurationHomeKeyConstant             = "home"
	configurationExcludedPatternsKeyConstant = "excluded_patterns"
	configurationKeySeparatorConstant        = "."
)

// CommandConfiguration captures configuration values for the wiki command.
type CommandConfiguration struct {
	Repository       string   `mapstructure:"repository"`
	OutputDirectory  string   `mapstructure:"output_directory"`
	Footer           string   `mapstructure:"footer"`
	Home             string   `mapstructure:"home"`
	ExcludedPatterns []string `mapstructure:"excluded_patterns"`
}

// DefaultCommandConfiguration provides baseline configuration values for the wiki command.
func DefaultCommandConfiguration() CommandConfiguration {
	layout := DefaultLayout()
	return CommandConfiguration{
		Repository:       DefaultRepositoryURL,
		OutputDirectory:  DefaultOutputDirectory,
		Footer:           layout.FooterName,
		Home:             layout.HomeName,
		ExcludedPatterns: layout.ExcludedPatterns,
	}
}

// DefaultConfigurationValues exposes the defaults as Viper keys nested under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + configurationRepositoryKeyConstant:       defaults.Repository,
		prefix + configurationKeySeparatorConstant + configurationOutputDirectoryKeyConstant:  defaults.OutputDirectory,
		prefix + configurationKeySeparatorConstant + configurationFooterKeyConstant:           defaults.Footer,
		prefix + configurationKeySeparatorConstant + configurationHomeKeyConstant:             defaults.Home,
		prefix + configurationKeySeparatorConstant + configurationExcludedPatternsKeyConstant: defaults.ExcludedPatterns,
	}
}

// sanitize trims values and restores defaults for blank strings.
// A nil pattern list keeps the defaults; an explicitly empty list excludes nothing.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.Repository = valueOrDefault(configuration.Repository, defaults.Repository)
	sanitized.OutputDirectory = valueOrDefault(configuration.OutputDirectory, defaults.OutputDirectory)
	sanitized.Footer = valueOrDefault(configuration.Footer, defaults.Footer)
	sanitized.Home = valueOrDefault(configuration.Home, defaults.Home)
	if configuration.ExcludedPatterns == nil {
		sanitized.ExcludedPatterns = defaults.ExcludedPatterns
	}

	return sanitized
}

func (configuration CommandConfiguration) layout() Layout {
	return Layout{
		FooterName:       configuration.Footer,
		HomeName:         configuration.Home,
		ExcludedPatterns: configuration.ExcludedPatterns,
	}
}

func valueOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}
