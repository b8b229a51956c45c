// Package config defines process configuration and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and env vars.
// - Errors are wrapped with this package's sentinels.
package config

// Sink names accepted in Config.Sinks.
const (
	SinkFile  = "file"
	SinkS3    = "s3"
	SinkRedis = "redis"
	SinkSQL   = "sql"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address for serve mode, e.g. ":9080".
	Addr string `koanf:"addr"`

	// RobotEvents API access.
	APIBaseURL       string `koanf:"api_base_url"`
	APIToken         string `koanf:"api_token"`
	SeasonID         int    `koanf:"season_id"`
	ProgramID        int    `koanf:"program_id"`
	PageSize         int    `koanf:"page_size"`
	RequestTimeoutMS int    `koanf:"request_timeout_ms"`

	// TeamIDs lists the RobotEvents team identifiers to poll.
	TeamIDs []int `koanf:"team_ids"`

	// IncludeGlobalMax adds highest_auto/highest_driver to every record.
	IncludeGlobalMax bool `koanf:"include_global_max"`

	// Sinks lists where documents are published: file, s3, redis, sql.
	Sinks []string `koanf:"sinks"`

	// Document names.
	SkillsName string `koanf:"skills_name"`
	TeamsName  string `koanf:"teams_name"`

	// FileSink.
	OutputDir string `koanf:"output_dir"`

	// ObjectStorageSink.
	S3Bucket   string `koanf:"s3_bucket"`
	S3Prefix   string `koanf:"s3_prefix"`
	S3Region   string `koanf:"s3_region"`
	S3Endpoint string `koanf:"s3_endpoint"`

	// RedisSink.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`

	// Snapshot archive: driver is sqlite or postgres.
	SQLDriver string `koanf:"sql_driver"`
	SQLDSN    string `koanf:"sql_dsn"`

	// RefreshIntervalSec sets the serve-mode collection period.
	RefreshIntervalSec int `koanf:"refresh_interval_sec"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// QualifiedTeams lists team names already qualified; QualifiedSlots is the
	// total number of highlighted rows on the leaderboard.
	QualifiedTeams []string `koanf:"qualified_teams"`
	QualifiedSlots int      `koanf:"qualified_slots"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		APIBaseURL:          "https://www.robotevents.com/api/v2",
		SeasonID:            190,
		ProgramID:           1,
		PageSize:            250,
		RequestTimeoutMS:    15_000,
		IncludeGlobalMax:    true,
		Sinks:               []string{SinkFile},
		SkillsName:          "skills_list.json",
		TeamsName:           "team_list.json",
		OutputDir:           ".",
		RedisAddr:           "localhost:6379",
		RedisPrefix:         "skillboard:",
		SQLDriver:           "sqlite",
		SQLDSN:              "skillboard.db",
		RefreshIntervalSec:  900,
		MaxLeaderboardLimit: 200,
		QualifiedSlots:      56,
	}
}

// HasSink reports whether name is among the configured sinks.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.Sinks {
		if s == name {
			return true
		}
	}
	return false
}
