package models

// MConfig Structure
type MConfig struct {
	Name      string           `yaml:"name"`
	Host      string           `yaml:"host"`
	Port      int              `yaml:"port"`
	LogLevel  string           `yaml:"log_level"`
	LogPretty bool             `yaml:"log_pretty"`
	GrpcHost  string           `yaml:"grpc_host"`
	GrpcPort  int              `yaml:"grpc_port"`
	Backend   MBackendConfig   `yaml:"backend"`
	Selection MSelectionConfig `yaml:"selection"`
	Window    MWindowConfig    `yaml:"window"`
	Catalog   []MAsset         `yaml:"catalog"`
	Storage   MStorageConfig   `yaml:"storage"`
	Refresh   MRefreshConfig   `yaml:"refresh"`
}

// MBackendConfig points at the external seasonality backend.
type MBackendConfig struct {
	SeasonalityURL string `yaml:"seasonality_url"`
	VolumeURL      string `yaml:"volume_url"`
	PassYearRange  bool   `yaml:"pass_year_range"` // adds ?start=&end= to both requests
	UserAgent      string `yaml:"user_agent"`
	Proxy          string `yaml:"proxy"` // Optional
}

// MSelectionConfig holds the explicit defaults consulted when the selection
// state is created. Zero years mean "relative to the current year".
type MSelectionConfig struct {
	DefaultTicker string `yaml:"default_ticker"`
	DefaultFrom   int    `yaml:"default_from"`
	DefaultTo     int    `yaml:"default_to"`
	PickerYears   int    `yaml:"picker_years"`
}

type MWindowConfig struct {
	DefaultTimeRange string `yaml:"default_time_range"` // all, 90d, 30d, 7d
	ReferenceDate    string `yaml:"reference_date"`     // YYYY-MM-DD, empty = last trading day
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MRefreshConfig struct {
	Cron string `yaml:"cron"`
}
