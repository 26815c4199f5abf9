// Package app builds the fully wired orchestrator from environment
// configuration: storage and blob backends by runtime environment, the model
// provider chain, extraction and export.
package app

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/proposalkit/rfp-assistant/agent/agents/classifier"
	"github.com/proposalkit/rfp-assistant/agent/agents/orchestrator"
	"github.com/proposalkit/rfp-assistant/agent/agents/specialist"
	llmx "github.com/proposalkit/rfp-assistant/agent/llm"
	statex "github.com/proposalkit/rfp-assistant/agent/state"
	blobx "github.com/proposalkit/rfp-assistant/pkg/blob"
	configx "github.com/proposalkit/rfp-assistant/pkg/config"
	exportx "github.com/proposalkit/rfp-assistant/pkg/export"
	extractx "github.com/proposalkit/rfp-assistant/pkg/extract"
)

type Config struct {
	OutputDir    string `envconfig:"OUTPUT_DIR" split_words:"true" default:"output"`
	BlobBackend  string `envconfig:"BLOB_BACKEND" split_words:"true" default:"fs"`
	BlobDir      string `envconfig:"BLOB_DIR" split_words:"true" default:".data/blobs"`
	StateBackend string `envconfig:"STATE_BACKEND" split_words:"true" default:"sqlite"`
}

// Build assembles the orchestrator. The returned cleanup closes any database
// handles and is safe to call once.
func Build(ctx context.Context) (*orchestrator.Orchestrator, func() error, error) {
	cfg, err := configx.New[Config]("APP")
	if err != nil {
		return nil, nil, fmt.Errorf("load app config: %w", err)
	}

	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return nil, nil, fmt.Errorf("load llm config: %w", err)
	}
	if err := llmCfg.Validate(); err != nil {
		return nil, nil, err
	}

	routerGateway, err := llmx.NewGateway(ctx, *llmCfg, llmx.RoleRouter)
	if err != nil {
		return nil, nil, err
	}
	specialistGateway, err := llmx.NewGateway(ctx, *llmCfg, llmx.RoleSpecialist)
	if err != nil {
		return nil, nil, err
	}

	routing, err := classifier.New(routerGateway)
	if err != nil {
		return nil, nil, err
	}
	registry, err := specialist.NewRegistry()
	if err != nil {
		return nil, nil, err
	}
	invoker, err := specialist.NewInvoker(specialistGateway, registry)
	if err != nil {
		return nil, nil, err
	}

	store, blobs, cleanup, err := buildStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	exporter, err := exportx.NewFileExporter(cfg.OutputDir)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	svc, err := orchestrator.New(store, blobs, routing, invoker, extractx.NewFileExtractor(), exporter,
		orchestrator.Config{OutputDir: cfg.OutputDir})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return svc, func() error { cleanup(); return nil }, nil
}

func buildStorage(ctx context.Context, cfg *Config) (statex.Store, blobx.Store, func(), error) {
	noop := func() {}

	if configx.IsCloudEnvironment() {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load aws config: %w", err)
		}

		dynamoCfg, err := configx.New[statex.DynamoConfig]("DYNAMO")
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load dynamo config: %w", err)
		}
		store, err := statex.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), *dynamoCfg)
		if err != nil {
			return nil, nil, nil, err
		}

		s3Cfg, err := configx.New[blobx.S3Config]("S3")
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load s3 config: %w", err)
		}
		blobs, err := blobx.NewS3Store(s3.NewFromConfig(awsCfg), *s3Cfg)
		if err != nil {
			return nil, nil, nil, err
		}

		log.Info().Str("state", "dynamodb").Str("blob", "s3").Msg("cloud storage backends selected")
		return store, blobs, noop, nil
	}

	var (
		store *statex.BunStore
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.StateBackend)) {
	case "postgres":
		pgCfg, cfgErr := configx.New[statex.PostgresConfig]("POSTGRES")
		if cfgErr != nil {
			return nil, nil, nil, fmt.Errorf("load postgres config: %w", cfgErr)
		}
		store, err = statex.NewPostgresStore(ctx, *pgCfg)
	default:
		sqliteCfg, cfgErr := configx.New[statex.SQLiteConfig]("SQLITE")
		if cfgErr != nil {
			return nil, nil, nil, fmt.Errorf("load sqlite config: %w", cfgErr)
		}
		store, err = statex.NewSQLiteStore(ctx, *sqliteCfg)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("close session store")
		}
	}

	var blobs blobx.Store
	switch strings.ToLower(strings.TrimSpace(cfg.BlobBackend)) {
	case "minio":
		minioCfg, cfgErr := configx.New[blobx.MinioConfig]("MINIO")
		if cfgErr != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("load minio config: %w", cfgErr)
		}
		blobs, err = blobx.NewMinioStore(ctx, *minioCfg)
	default:
		blobs, err = blobx.NewFSStore(cfg.BlobDir)
	}
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	log.Info().
		Str("state", cfg.StateBackend).
		Str("blob", cfg.BlobBackend).
		Msg("local storage backends selected")
	return store, blobs, cleanup, nil
}
