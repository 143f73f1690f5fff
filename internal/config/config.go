package config

import (
	"flag"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds the full server configuration.
type Config struct {
	ServerAddress    string `json:"server_address"`
	DatabaseDSN      string `json:"database_dsn"`
	PgMigrationsPath string `json:"pg_migrations_path"`

	JWTSecret    string `json:"jwt_secret"`
	JWTAlgorithm string `json:"jwt_algorithm"`
	JWTExpHours  int    `json:"jwt_exp_hours"`

	SlugMinLength int    `json:"slug_min_length"`
	SlugAlphabet  string `json:"slug_alphabet"`

	AMQPURL    string `json:"amqp_url"`
	VisitQueue string `json:"visit_queue"`

	ClicksBucket string `json:"clicks_bucket"`
	AWSRegion    string `json:"aws_region"`
	S3Endpoint   string `json:"s3_endpoint"`
	S3AccessKey  string `json:"s3_access_key"`
	S3SecretKey  string `json:"-"`

	CORSOrigin string `json:"cors_origin"`
}

// NewConfig builds the configuration from defaults, an optional .env file,
// environment variables and command-line flags. Environment wins over .env;
// flags win over both.
func NewConfig() *Config {
	viper.SetDefault("SERVER_ADDRESS", "localhost:8000")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("PG_MIGRATIONS_PATH", "migrations")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ALGORITHM", "HS256")
	viper.SetDefault("JWT_EXP_HOURS", 1)
	viper.SetDefault("SLUG_MIN_LENGTH", 6)
	viper.SetDefault("SLUG_ALPHABET", "abcdefghijklmnopqrstuvwxyz0123456789")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("VISIT_QUEUE", "notshort.visits")
	viper.SetDefault("CLICKS_BUCKET", "")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("S3_ACCESS_KEY", "")
	viper.SetDefault("S3_SECRET_KEY", "")
	viper.SetDefault("CORS_ORIGIN", "http://localhost:3000")

	viper.AutomaticEnv()

	// Read .env if present; real environment variables still win.
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	serverAddress := flag.String("a", "", "server address")
	databaseDSN := flag.String("d", "", "PostgreSQL DSN")
	amqpURL := flag.String("q", "", "AMQP broker URL")
	flag.Parse()

	cfg := &Config{
		ServerAddress:    viper.GetString("SERVER_ADDRESS"),
		DatabaseDSN:      viper.GetString("DATABASE_DSN"),
		PgMigrationsPath: viper.GetString("PG_MIGRATIONS_PATH"),
		JWTSecret:        viper.GetString("JWT_SECRET"),
		JWTAlgorithm:     viper.GetString("JWT_ALGORITHM"),
		JWTExpHours:      viper.GetInt("JWT_EXP_HOURS"),
		SlugMinLength:    viper.GetInt("SLUG_MIN_LENGTH"),
		SlugAlphabet:     viper.GetString("SLUG_ALPHABET"),
		AMQPURL:          viper.GetString("AMQP_URL"),
		VisitQueue:       viper.GetString("VISIT_QUEUE"),
		ClicksBucket:     viper.GetString("CLICKS_BUCKET"),
		AWSRegion:        viper.GetString("AWS_REGION"),
		S3Endpoint:       viper.GetString("S3_ENDPOINT"),
		S3AccessKey:      viper.GetString("S3_ACCESS_KEY"),
		S3SecretKey:      viper.GetString("S3_SECRET_KEY"),
		CORSOrigin:       viper.GetString("CORS_ORIGIN"),
	}

	if *serverAddress != "" {
		cfg.ServerAddress = *serverAddress
	}
	if *databaseDSN != "" {
		cfg.DatabaseDSN = *databaseDSN
	}
	if *amqpURL != "" {
		cfg.AMQPURL = *amqpURL
	}

	log.Printf("config: ServerAddress=%s", cfg.ServerAddress)
	log.Printf("config: PgMigrationsPath=%s", cfg.PgMigrationsPath)
	log.Printf("config: JWTAlgorithm=%s JWTExpHours=%d", cfg.JWTAlgorithm, cfg.JWTExpHours)
	log.Printf("config: SlugMinLength=%d", cfg.SlugMinLength)
	log.Printf("config: VisitQueue=%s ClicksBucket=%s", cfg.VisitQueue, cfg.ClicksBucket)

	return cfg
}

// Validate reports configuration the server must not start with.
// An unset JWT secret would mean issuing unverifiable tokens.
func (cfg *Config) Validate() error {
	if cfg.ServerAddress == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN must be set")
	}
	if cfg.SlugMinLength < 1 {
		return fmt.Errorf("slug minimum length must be positive")
	}
	if cfg.SlugAlphabet == "" {
		return fmt.Errorf("slug alphabet must not be empty")
	}
	return nil
}
