package structures

import "time"

type Server struct {
	Host string `yaml:"host" mapstructure:"host" validate:"required"`
	Port int    `yaml:"port" mapstructure:"port" validate:"required|uint|min:1|max:65535"`
}

type Storage struct {
	FilePath string `yaml:"filePath" mapstructure:"filePath" validate:"required|unixPath"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode       uint32 `yaml:"mode" mapstructure:"mode" validate:"required|uint"`
	Dir        string `yaml:"dir" mapstructure:"dir" validate:"required|unixPath"`
	MaxSizeMB  int    `yaml:"maxSizeMB" mapstructure:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups" mapstructure:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays" mapstructure:"maxAgeDays"`
}

// SystemConfig describes how the device is driven: where the dashboard
// checkout lives, which kiosk process to restart and the setup hotspot.
type SystemConfig struct {
	Simulate          bool          `yaml:"simulate" mapstructure:"simulate"`
	DashboardDir      string        `yaml:"dashboardDir" mapstructure:"dashboardDir" validate:"required"`
	Branch            string        `yaml:"branch" mapstructure:"branch" validate:"required"`
	KioskProcess      string        `yaml:"kioskProcess" mapstructure:"kioskProcess" validate:"required"`
	HotspotSSID       string        `yaml:"hotspotSSID" mapstructure:"hotspotSSID" validate:"required"`
	HotspotPassword   string        `yaml:"hotspotPassword" mapstructure:"hotspotPassword" validate:"required|minLen:8"`
	HotspotConnection string        `yaml:"hotspotConnection" mapstructure:"hotspotConnection" validate:"required"`
	CommandTimeout    time.Duration `yaml:"commandTimeout" mapstructure:"commandTimeout" validate:"required|min:1"`
}

type NightscoutConfig struct {
	ProxyTimeout time.Duration `yaml:"proxyTimeout" mapstructure:"proxyTimeout" validate:"required|min:1"`
	TestTimeout  time.Duration `yaml:"testTimeout" mapstructure:"testTimeout" validate:"required|min:1"`
	UserAgent    string        `yaml:"userAgent" mapstructure:"userAgent" validate:"required"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Size    int           `yaml:"size" mapstructure:"size"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

type Config struct {
	AppName    string
	Debug      bool
	Path       string
	WebServer  Server           `yaml:"webServer" mapstructure:"webServer"`
	Storage    Storage          `yaml:"storage" mapstructure:"storage"`
	Logger     LoggerConfig     `yaml:"logger" mapstructure:"logger"`
	System     SystemConfig     `yaml:"system" mapstructure:"system"`
	Nightscout NightscoutConfig `yaml:"nightscout" mapstructure:"nightscout"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
}
