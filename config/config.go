package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Assessment   Assessment
	GeminiApiKey string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Assessment holds the module assessment policy. PassThreshold is the single
// source of truth for pass/fail everywhere a verdict is reported.
type Assessment struct {
	AttemptSize   int
	MinPoolSize   int
	PassThreshold int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("ASSESSMENT_SIZE", 10)
	viper.SetDefault("ASSESSMENT_MIN_POOL", 10)
	viper.SetDefault("ASSESSMENT_PASS_THRESHOLD", 70)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Assessment.AttemptSize = viper.GetInt("ASSESSMENT_SIZE")
	config.Assessment.MinPoolSize = viper.GetInt("ASSESSMENT_MIN_POOL")
	config.Assessment.PassThreshold = viper.GetInt("ASSESSMENT_PASS_THRESHOLD")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil
}
