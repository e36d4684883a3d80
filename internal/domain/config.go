package domain

// Config mirrors ~/.ekupkaran/config.yaml.
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	Daemon              DaemonSettings  `yaml:"daemon"`
	History             HistorySettings `yaml:"history"`
}

// DaemonSettings locate the automation daemon.
type DaemonSettings struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// HistorySettings control the local run history store.
type HistorySettings struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"`
}
