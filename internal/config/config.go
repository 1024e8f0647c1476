package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/reminder"
)

type Config struct {
	Port          string
	AllowedOrigin string
	ShopName      string
	DatabaseURL   string

	// CacheDriver selects the durable local cache: sqlite, redis or memory.
	CacheDriver   string
	CachePath     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	AuthSecret            string
	AccessTokenTTLMinutes int
	SeedAdminPassword     string

	MonthlyGoalCents int64
	ReminderLead     time.Duration
	ReminderSchedule string
	Twilio           reminder.TwilioConfig
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] WARN: .env not loaded: %v", err)
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", "720"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 720
	}
	goal, err := strconv.ParseInt(getEnv("MONTHLY_GOAL_CENTS", strconv.FormatInt(domain.DefaultMonthlyGoalCents, 10)), 10, 64)
	if err != nil || goal < 1 {
		goal = domain.DefaultMonthlyGoalCents
	}
	lead, err := time.ParseDuration(getEnv("REMINDER_LEAD", reminder.DefaultLead.String()))
	if err != nil || lead <= 0 {
		lead = reminder.DefaultLead
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		ShopName:      getEnv("SHOP_NAME", "BARBERCASH"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		CacheDriver:   strings.ToLower(getEnv("CACHE_DRIVER", "sqlite")),
		CachePath:     getEnv("CACHE_PATH", "barbercash.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		RedisPrefix:   getEnv("REDIS_PREFIX", "barbercash:"),

		AuthSecret:            strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes: tokenTTL,
		SeedAdminPassword:     strings.TrimSpace(os.Getenv("SEED_ADMIN_PASSWORD")),

		MonthlyGoalCents: goal,
		ReminderLead:     lead,
		ReminderSchedule: getEnv("REMINDER_SCHEDULE", reminder.DefaultSchedule),
		Twilio: reminder.TwilioConfig{
			AccountSID:     strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")),
			AuthToken:      strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN")),
			FromNumber:     strings.TrimSpace(os.Getenv("TWILIO_FROM_NUMBER")),
			WhatsAppNumber: strings.TrimSpace(os.Getenv("TWILIO_WHATSAPP_NUMBER")),
		},
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
