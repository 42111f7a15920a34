package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	JWTIssuer     string
	RateLimit     string // ulule/limiter formatted rate, e.g. "300-M"

	// Consumption engine tunables. The page size bounds lock scope per fetch;
	// the page cap is the fail-fast safety valve against pathologically
	// fragmented grant histories.
	ConsumeGrantPageSize int
	ConsumeMaxPages      int

	// RefundValidityDays stamps an expiry on simple-refund grants; 0 means
	// refunded credits never expire.
	RefundValidityDays int

	// Referral reward policy.
	ReferralRewardAmount       int64
	ReferralRewardValidityDays int
	ReferralRewardMonthlyCap   int64
	ReferralRewardClip         bool // clip to the cap instead of skipping entirely
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "credit-ledger-app")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CONSUME_GRANT_PAGE_SIZE", 50)
	viper.SetDefault("CONSUME_MAX_PAGES", 20)
	viper.SetDefault("REFUND_VALIDITY_DAYS", 0)
	viper.SetDefault("REFERRAL_REWARD_AMOUNT", 50)
	viper.SetDefault("REFERRAL_REWARD_VALIDITY_DAYS", 0)
	viper.SetDefault("REFERRAL_REWARD_MONTHLY_CAP", 500)
	viper.SetDefault("REFERRAL_REWARD_CLIP", false)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.ConsumeGrantPageSize = viper.GetInt("CONSUME_GRANT_PAGE_SIZE")
	if cfg.ConsumeGrantPageSize <= 0 {
		cfg.ConsumeGrantPageSize = 50
		log.Printf("Warning: Invalid CONSUME_GRANT_PAGE_SIZE. Defaulting to %d.\n", cfg.ConsumeGrantPageSize)
	}
	cfg.ConsumeMaxPages = viper.GetInt("CONSUME_MAX_PAGES")
	if cfg.ConsumeMaxPages <= 0 {
		cfg.ConsumeMaxPages = 20
		log.Printf("Warning: Invalid CONSUME_MAX_PAGES. Defaulting to %d.\n", cfg.ConsumeMaxPages)
	}

	cfg.RefundValidityDays = viper.GetInt("REFUND_VALIDITY_DAYS")

	cfg.ReferralRewardAmount = viper.GetInt64("REFERRAL_REWARD_AMOUNT")
	if cfg.ReferralRewardAmount <= 0 {
		cfg.ReferralRewardAmount = 50
		log.Printf("Warning: Invalid REFERRAL_REWARD_AMOUNT. Defaulting to %d.\n", cfg.ReferralRewardAmount)
	}
	cfg.ReferralRewardValidityDays = viper.GetInt("REFERRAL_REWARD_VALIDITY_DAYS")
	cfg.ReferralRewardMonthlyCap = viper.GetInt64("REFERRAL_REWARD_MONTHLY_CAP")
	if cfg.ReferralRewardMonthlyCap <= 0 {
		cfg.ReferralRewardMonthlyCap = 500
		log.Printf("Warning: Invalid REFERRAL_REWARD_MONTHLY_CAP. Defaulting to %d.\n", cfg.ReferralRewardMonthlyCap)
	}
	cfg.ReferralRewardClip = viper.GetBool("REFERRAL_REWARD_CLIP")

	return cfg, nil
}
