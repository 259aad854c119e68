package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var loadEnvOnce sync.Once

func Config(key string) string {
	loadEnvOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("Warning: .env file not found, reading from system environment variables")
		}
	})

	return os.Getenv(key)
}

type MailSettings struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
	ReplyTo   string `yaml:"reply_to"`
}

type SchedulingSettings struct {
	MaxPanels           int `yaml:"max_panels"`
	MaxSlotMinutes      int `yaml:"max_slot_minutes"`
	ReminderLeadMinutes int `yaml:"reminder_lead_minutes"`
	ScheduleRequestsMin int `yaml:"schedule_requests_per_minute"`
}

type Settings struct {
	Port        string             `yaml:"port"`
	DatabaseURL string             `yaml:"database_url"`
	JWTSecret   string             `yaml:"jwt_secret"`
	Timezone    string             `yaml:"timezone"`
	SQLLogLevel string             `yaml:"sql_log_level"`
	Mail        MailSettings       `yaml:"mail"`
	Scheduling  SchedulingSettings `yaml:"scheduling"`

	SeedClubID    string `yaml:"seed_club_id"`
	SeedClubName  string `yaml:"seed_club_name"`
	SeedClubEmail string `yaml:"seed_club_email"`
}

func Defaults() Settings {
	return Settings{
		Port:        "8080",
		Timezone:    "Asia/Kolkata",
		SQLLogLevel: "warn",
		Mail: MailSettings{
			FromName: "Clubs Plus Plus",
		},
		Scheduling: SchedulingSettings{
			MaxPanels:           20,
			MaxSlotMinutes:      240,
			ReminderLeadMinutes: 60,
			ScheduleRequestsMin: 10,
		},
	}
}

// Load builds the settings from defaults, then the environment (and .env),
// then the YAML file named by CONFIG_FILE when it is set.
func Load() (Settings, error) {
	s := Defaults()

	setString(&s.Port, "PORT")
	setString(&s.DatabaseURL, "DATABASE_URL")
	setString(&s.JWTSecret, "JWT_SECRET")
	setString(&s.Timezone, "TIMEZONE")
	setString(&s.SQLLogLevel, "SQL_LOG_LEVEL")
	setString(&s.Mail.APIKey, "MAILERSEND_API_KEY")
	setString(&s.Mail.FromEmail, "EMAIL_SENDER")
	setString(&s.Mail.FromName, "EMAIL_SENDER_NAME")
	setString(&s.Mail.ReplyTo, "EMAIL_REPLY_TO")
	setInt(&s.Scheduling.MaxPanels, "MAX_INTERVIEW_PANELS")
	setInt(&s.Scheduling.MaxSlotMinutes, "MAX_SLOT_MINUTES")
	setInt(&s.Scheduling.ReminderLeadMinutes, "REMINDER_LEAD_MINUTES")
	setInt(&s.Scheduling.ScheduleRequestsMin, "SCHEDULE_REQUESTS_PER_MINUTE")
	setString(&s.SeedClubID, "SEED_CLUB_ID")
	setString(&s.SeedClubName, "SEED_CLUB_NAME")
	setString(&s.SeedClubEmail, "SEED_CLUB_EMAIL")

	if path := Config("CONFIG_FILE"); path != "" {
		if err := overlayFile(&s, path); err != nil {
			return s, err
		}
	}
	return s, nil
}

func overlayFile(s *Settings, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, s); err != nil {
		return err
	}
	log.Printf("✅ Loaded configuration overrides from %s", path)
	return nil
}

func setString(dst *string, key string) {
	if v := Config(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := Config(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ Ignoring %s=%q: not a number", key, v)
		return
	}
	*dst = n
}
