package providers

import (
	"dashcfg/internal/structures"
	"fmt"
	"github.com/spf13/viper"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const AppName = "DashboardConfigServer"

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 3000)

	v.SetDefault("storage.filePath", "/etc/dashboard/config.json")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "/var/log/dashboard")
	v.SetDefault("logger.maxSizeMB", 10)
	v.SetDefault("logger.maxBackups", 3)
	v.SetDefault("logger.maxAgeDays", 28)

	v.SetDefault("system.simulate", false)
	v.SetDefault("system.dashboardDir", "/opt/dashboard")
	v.SetDefault("system.branch", "main")
	v.SetDefault("system.kioskProcess", "chromium")
	v.SetDefault("system.hotspotSSID", "OrangePi-Setup")
	v.SetDefault("system.hotspotPassword", "dashboard123")
	v.SetDefault("system.hotspotConnection", "Hotspot")
	v.SetDefault("system.commandTimeout", 30*time.Second)

	v.SetDefault("nightscout.proxyTimeout", 15*time.Second)
	v.SetDefault("nightscout.testTimeout", 10*time.Second)
	v.SetDefault("nightscout.userAgent", "OrangePi-Dashboard")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 1)
	v.SetDefault("cache.ttl", 30*time.Second)

	v.SetDefault("metrics.enabled", false)
}

// applyDevMode points storage and the checkout at the working directory
// and replaces OS commands with simulated results.
func applyDevMode(v *viper.Viper) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	v.Set("storage.filePath", filepath.Join(wd, "config", "config.json"))
	v.Set("system.dashboardDir", wd)
	v.Set("system.simulate", true)
	v.Set("logger.dir", wd)
	return nil
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config
	v := viper.New()
	setDefaults(v)

	v.BindEnv("webServer.host", "DASHCFG_HOST")
	v.BindEnv("webServer.port", "DASHCFG_PORT")
	v.BindEnv("storage.filePath", "DASHCFG_SETTINGS_FILE")
	v.BindEnv("logger.level", "DASHCFG_LOG_LEVEL")
	v.BindEnv("logger.dir", "DASHCFG_LOG_DIR")
	v.BindEnv("system.dashboardDir", "DASHCFG_DASHBOARD_DIR")
	v.BindEnv("system.simulate", "DASHCFG_SIMULATE")
	v.BindEnv("metrics.enabled", "DASHCFG_METRICS_ENABLED")
	v.BindEnv("cache.enabled", "DASHCFG_CACHE_ENABLED")

	if flags.ConfigPath != "" {
		filename := filepath.Base(flags.ConfigPath)
		v.AddConfigPath(filepath.Dir(flags.ConfigPath))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	if flags.DevMode {
		if err := applyDevMode(v); err != nil {
			return nil, err
		}
	}

	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	if err := cnfValidator.Validate(); err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
