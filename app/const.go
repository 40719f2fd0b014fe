package app

const (
	// AppName is the application name
	AppName = "counterd"

	// ConfigDir is the config directory relative to home
	ConfigDir = "config"

	// ConfigFileName is the config file written by `config init`
	ConfigFileName = "counter.toml"
)
