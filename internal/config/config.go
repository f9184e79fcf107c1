package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shabelski89/pushups/internal/exercise"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is built once at startup and passed by reference into every
// component; nothing reads the environment after Load returns.
type Config struct {
	Port          string
	DatabaseURL   string
	TelegramToken string

	AdminChatID int64
	GroupChatID int64

	// Goals holds the daily target per exercise kind, in the kind's stored
	// unit (count for push-ups, seconds for plank).
	Goals map[exercise.Kind]int

	// Location is the fixed zone all day bucketing happens in.
	Location *time.Location

	RemindEvery      time.Duration
	RemindFromHour   int // inclusive
	RemindToHour     int // exclusive
	ReportHour       int
	ReportMinute     int
	RemindInGroup    bool
	RemindOncePerDay bool

	LogLevel string
	LogJSON  bool
}

func Load() *Config {
	_ = godotenv.Load()

	offset := getInt("TZ_OFFSET_HOURS", 3)
	cfg := &Config{
		Port:          get("PORT", "8080"),
		DatabaseURL:   get("DATABASE_URL", "pushups.db"),
		TelegramToken: must("TELEGRAM_BOT_TOKEN"),

		AdminChatID: getInt64("ADMIN_CHAT_ID", 0),
		GroupChatID: getInt64("GROUP_CHAT_ID", 0),

		Goals: map[exercise.Kind]int{
			exercise.Pushups: getInt("PUSHUPS_GOAL", 100),
			exercise.Plank:   getSeconds("PLANK_GOAL", 120),
		},

		Location: time.FixedZone("UTC"+signed(offset), offset*3600),

		RemindEvery:      getDuration("REMIND_EVERY", 2*time.Hour),
		RemindFromHour:   getInt("REMIND_FROM_HOUR", 9),
		RemindToHour:     getInt("REMIND_TO_HOUR", 21),
		ReportHour:       getInt("REPORT_HOUR", 22),
		ReportMinute:     getInt("REPORT_MINUTE", 0),
		RemindInGroup:    getBool("REMIND_IN_GROUP", false),
		RemindOncePerDay: getBool("REMIND_ONCE_PER_DAY", false),

		LogLevel: get("LOG_LEVEL", "info"),
		LogJSON:  getBool("LOG_JSON", false),
	}
	return cfg
}

// Goal looks up the configured daily target for a kind.
func (c *Config) Goal(k exercise.Kind) (int, bool) {
	g, ok := c.Goals[k]
	return g, ok
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		logrus.Fatalf("missing env %s", k)
	}
	return v
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Fatalf("env %s: %s", k, err)
	}
	return n
}

func getInt64(k string, def int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logrus.Fatalf("env %s: %s", k, err)
	}
	return n
}

func getBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.Fatalf("env %s: %s", k, err)
	}
	return b
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.Fatalf("env %s: %s", k, err)
	}
	return d
}

// getSeconds reads a duration goal given either as bare seconds or as m:ss.
func getSeconds(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	sec, err := exercise.ToSeconds(v)
	if err != nil {
		logrus.Fatalf("env %s: %s", k, err)
	}
	return sec
}

func signed(h int) string {
	if h < 0 {
		return strconv.Itoa(h)
	}
	return "+" + strconv.Itoa(h)
}
