// Package config reads the process configuration from the environment.
// In production the environment is first filled from AWS SSM Parameter Store.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/timeline"
)

const (
	EnvProduction = "production"

	envVarsPrefix  = "/pontodigital/prod/"
	defaultRegion  = "sa-east-1"
	defaultTZ      = "America/Sao_Paulo"
	defaultPort    = "7070"
	defaultSession = 12 * time.Hour
)

type Config struct {
	Env  string
	Port string

	DBDriver string
	DBDSN    string
	LogSQL   bool

	TokenSecret string
	SessionTTL  time.Duration

	AWSRegion   string
	S3Bucket    string
	S3PublicURL string
	WSEndpoint  string

	// Cognito is optional. When empty, admins authenticate against the
	// password hash stored on their company.
	CognitoClientID string
	CognitoPoolID   string

	ReceitaURL string

	GenAIKey   string
	GenAIModel string
	GenAIURL   string

	Location         *time.Location
	MachineID        int64
	TimelineStrategy timeline.Strategy
}

func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

func (c *Config) CognitoEnabled() bool {
	return c.CognitoClientID != "" && c.CognitoPoolID != ""
}

// Load fills the environment (SSM in production, .env otherwise) and parses it.
func Load(ctx context.Context) (*Config, error) {
	if os.Getenv("GO_ENV") == EnvProduction {
		if err := loadProdEnv(ctx); err != nil {
			return nil, err
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, so tests can feed a map.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Env:             get("GO_ENV", "development"),
		Port:            get("PORT", defaultPort),
		DBDriver:        get("DB_DRIVER", "sqlite"),
		DBDSN:           get("DB_DSN", "pontodigital.db"),
		TokenSecret:     getenv("TOKEN_SECRET"),
		AWSRegion:       get("AWS_REGION", defaultRegion),
		S3Bucket:        getenv("S3_BUCKET"),
		S3PublicURL:     getenv("S3_PUBLIC_URL"),
		WSEndpoint:      getenv("WS_ENDPOINT"),
		CognitoClientID: getenv("COGNITO_CLIENT_ID"),
		CognitoPoolID:   getenv("COGNITO_USER_POOL_ID"),
		ReceitaURL:      getenv("RECEITA_URL"),
		GenAIKey:        getenv("GENAI_API_KEY"),
		GenAIModel:      getenv("GENAI_MODEL"),
		GenAIURL:        getenv("GENAI_URL"),
	}

	var err error
	if cfg.LogSQL, err = strconv.ParseBool(get("DB_LOG_SQL", "false")); err != nil {
		return nil, fmt.Errorf("DB_LOG_SQL: %w", err)
	}

	cfg.SessionTTL = defaultSession
	if raw := getenv("SESSION_TTL"); raw != "" {
		if cfg.SessionTTL, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("SESSION_TTL: %w", err)
		}
	}

	if cfg.MachineID, err = strconv.ParseInt(get("MACHINE_ID", "1"), 10, 64); err != nil {
		return nil, fmt.Errorf("MACHINE_ID: %w", err)
	}

	if cfg.Location, err = time.LoadLocation(get("TZ_NAME", defaultTZ)); err != nil {
		return nil, fmt.Errorf("TZ_NAME: %w", err)
	}

	switch get("TIMELINE_STRATEGY", "ordinal") {
	case "ordinal":
		cfg.TimelineStrategy = timeline.Ordinal
	case "type":
		cfg.TimelineStrategy = timeline.TypeMatched
	default:
		return nil, errors.New("TIMELINE_STRATEGY must be 'ordinal' or 'type'")
	}

	if len(cfg.TokenSecret) < 32 {
		return nil, errors.New("TOKEN_SECRET must have at least 32 characters")
	}
	return cfg, nil
}

func loadProdEnv(ctx context.Context) error {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = defaultRegion
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("unable to load prod environment: %w", err)
		}

		for _, param := range out.Parameters {
			key := strings.TrimPrefix(aws.ToString(param.Name), envVarsPrefix)
			if err := os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return fmt.Errorf("unable to set environment variable: %w", err)
			}
			loaded++
		}
	}
	log.Debugf("loaded %d prod environment variables", loaded)
	return nil
}
