package sources

import (
	"strings"

	"github.com/temirov/packtools/internal/gitrepo"
)

const (
	configurationRemoteKeyConstant             = "remote"
	configurationBackendKeyConstant            = "backend"
	configurationOutputSuffixKeyConstant       = "output_suffix"
	configurationCheckoutMarkerKeyConstant     = "checkout_marker"
	configurationIgnoreNonCheckoutsKeyConstant = "ignore_non_checkout_directories"
	configurationKeySeparatorConstant          = "."
)

// CommandConfiguration captures configuration values for the sources command.
type CommandConfiguration struct {
	RemoteName                   string `mapstructure:"remote"`
	Backend                      string `mapstructure:"backend"`
	OutputSuffix                 string `mapstructure:"output_suffix"`
	CheckoutMarker               string `mapstructure:"checkout_marker"`
	IgnoreNonCheckoutDirectories bool   `mapstructure:"ignore_non_checkout_directories"`
}

// DefaultCommandConfiguration provides baseline configuration values for the sources command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RemoteName:                   DefaultRemoteName,
		Backend:                      gitrepo.BackendShell,
		OutputSuffix:                 DefaultOutputSuffix,
		CheckoutMarker:               DefaultCheckoutMarker,
		IgnoreNonCheckoutDirectories: DefaultTraversalPolicy().IgnoreNonCheckoutDirectories,
	}
}

// DefaultConfigurationValues exposes the defaults as Viper keys nested under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + configurationRemoteKeyConstant:             defaults.RemoteName,
		prefix + configurationKeySeparatorConstant + configurationBackendKeyConstant:            defaults.Backend,
		prefix + configurationKeySeparatorConstant + configurationOutputSuffixKeyConstant:       defaults.OutputSuffix,
		prefix + configurationKeySeparatorConstant + configurationCheckoutMarkerKeyConstant:     defaults.CheckoutMarker,
		prefix + configurationKeySeparatorConstant + configurationIgnoreNonCheckoutsKeyConstant: defaults.IgnoreNonCheckoutDirectories,
	}
}

// sanitize trims values and restores defaults for blank strings.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.RemoteName = valueOrDefault(configuration.RemoteName, defaults.RemoteName)
	sanitized.Backend = valueOrDefault(configuration.Backend, defaults.Backend)
	sanitized.OutputSuffix = valueOrDefault(configuration.OutputSuffix, defaults.OutputSuffix)
	sanitized.CheckoutMarker = valueOrDefault(configuration.CheckoutMarker, defaults.CheckoutMarker)

	return sanitized
}

func (configuration CommandConfiguration) traversalPolicy() TraversalPolicy {
	return TraversalPolicy{IgnoreNonCheckoutDirectories: configuration.IgnoreNonCheckoutDirectories}
}

func valueOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}
