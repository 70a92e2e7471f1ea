// Package config provides the configuration of blossomchef: where the site
// lives, which languages and pipeline stages to run, where artifacts and
// the response cache are stored, and the metadata of the channel root.
//
// A Config starts from NewConfig defaults, is overlaid with the optional
// .blossomchef YAML file, and finally with command line flags.
package config
