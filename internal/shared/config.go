package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultFileID = "14dYWSmP0JQ1Gh2Mp-ZsN1BUQv-aWdrTp"

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	RequestTimeout time.Duration

	// review source: a local path wins over Drive when set
	FileID        string
	LocalPath     string
	GoogleKeyFile string
	DriveBaseURL  string
	DriveRPS      int

	Location    *time.Location
	DropUndated bool

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	MySQLDSN string

	WarmStoreIDs []string
	WarmWorkers  int
}

// Load reads .env (when present) and then the process environment.
// Variables already set in the environment take precedence over .env.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be loaded")
	}
	return FromEnv()
}

func FromEnv() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":"+env("PORT", "3000")),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 120)) * time.Second,
		FileID:         env("REV_FILE_ID", defaultFileID),
		LocalPath:      os.Getenv("REVIEWS_LOCAL_PATH"),
		GoogleKeyFile:  env("GOOGLE_KEY_FILE", "/etc/secrets/drive-key.json"),
		DriveBaseURL:   env("DRIVE_BASE_URL", "https://www.googleapis.com/drive/v3"),
		DriveRPS:       atoi("DRIVE_RPS", 5),
		Location:       loadLocation(os.Getenv("REVIEWS_TZ")),
		DropUndated:    envBool("REVIEWS_DROP_UNDATED", false),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		MySQLDSN:       os.Getenv("MYSQL_DSN"),
		WarmStoreIDs:   splitList(os.Getenv("WARM_STORE_IDS")),
		WarmWorkers:    atoi("WARM_WORKERS", 4),
	}
	if c.LocalPath == "" && c.FileID == defaultFileID {
		log.Warn().Msg("REV_FILE_ID not set, using built-in file id")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not a boolean, using default")
		return def
	}
	return b
}

func loadLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("tz", name).Msg("unknown time zone, using local")
		return time.Local
	}
	return loc
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
