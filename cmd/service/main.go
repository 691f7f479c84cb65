package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/2beens/goalprogress/internal"
	"github.com/2beens/goalprogress/internal/config"
	"github.com/2beens/goalprogress/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.Environment == "production",
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "goal-progress",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	secrets := loadSecrets()
	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled && os.Getenv("HONEYCOMB_API_KEY") == "" {
		log.Warnln("HONEYCOMB_ENABLED set without HONEYCOMB_API_KEY")
	}
	if os.Getenv("OTEL_SERVICE_NAME") == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			APIKeyHash:              secrets.apiKeyHash,
			PostgresUser:            secrets.postgresUser,
			PostgresPassword:        secrets.postgresPassword,
			RedisPassword:           secrets.redisPassword,
			VersionInfo:             versionInfo,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

type envSecrets struct {
	apiKeyHash       string
	postgresUser     string
	postgresPassword string
	redisPassword    string
}

// loadSecrets reads credentials from the environment; missing ones are logged,
// the service still starts.
func loadSecrets() envSecrets {
	s := envSecrets{
		apiKeyHash:       os.Getenv("GOAL_PROGRESS_API_KEY_HASH"),
		postgresUser:     os.Getenv("GOAL_PROGRESS_POSTGRES_USER"),
		postgresPassword: os.Getenv("GOAL_PROGRESS_POSTGRES_PASS"),
		redisPassword:    os.Getenv("GOAL_PROGRESS_REDIS_PASS"),
	}
	for env, value := range map[string]string{
		"GOAL_PROGRESS_API_KEY_HASH":  s.apiKeyHash,
		"GOAL_PROGRESS_POSTGRES_PASS": s.postgresPassword,
		"GOAL_PROGRESS_REDIS_PASS":    s.redisPassword,
	} {
		if value == "" {
			log.Warnf("%s not set", env)
		}
	}
	if s.apiKeyHash == "" {
		log.Errorln("without an api key hash every authenticated route answers 401, see cmd/keyhash")
	}
	return s
}

// tryGetLastCommitHash assumes the binary runs from the project root.
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(stdout)), nil
}
