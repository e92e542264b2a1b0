package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBName    string
	JWTKey    string
	SaltRound int

	// Governance parameters
	VotingWindowHours   int // how long a proposal stays open after activation
	MinProposalWeight   int // minimum voting weight required to create a proposal
	DefaultQuorum       int // default quorum threshold (percent) when none supplied
	DefaultApproval     int // default approval threshold (percent) when none supplied
	GovernanceSweepCron string

	// External course service (optional; local DB is used when empty)
	CourseServiceURL string
	CourseServiceKey string

	EmailSender string
	Password    string // SMTP Password
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		DBName:    getEnv("DB_NAME", "eduledger.db"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		VotingWindowHours:   getEnvInt("VOTING_WINDOW_HOURS", 168), // 1 week
		MinProposalWeight:   getEnvInt("MIN_PROPOSAL_WEIGHT", 100),
		DefaultQuorum:       getEnvInt("DEFAULT_QUORUM_PERCENT", 30),
		DefaultApproval:     getEnvInt("DEFAULT_APPROVAL_PERCENT", 51),
		GovernanceSweepCron: getEnv("GOVERNANCE_SWEEP_CRON", "@every 1m"),

		CourseServiceURL: getEnv("COURSE_SERVICE_URL", ""),
		CourseServiceKey: getEnv("COURSE_SERVICE_KEY", ""),

		EmailSender: getEnv("EMAIL_SENDER", ""),
		Password:    getEnv("PASSWORD", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.VotingWindowHours < 1 {
		log.Println("Warning: VOTING_WINDOW_HOURS below 1 hour. Falling back to 168.")
		AppConfig.VotingWindowHours = 168
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
