package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"quotation/internal/artifact"
	"quotation/internal/config"
	"quotation/internal/model"
	"quotation/internal/quotation"
	"quotation/internal/repository"
	"quotation/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

// requests carry gin binding tags, so the CLI validates with the same rules
var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flags.source != "" {
		cfg.Model.Source = flags.source
	}
	if flags.artifactPath != "" {
		cfg.Model.Source = config.SourceFile
		cfg.Model.ArtifactPath = flags.artifactPath
	}
	if flags.variant != "" {
		cfg.Model.Variant = flags.variant
	}
	if flags.currency != "" {
		cfg.Quotation.CurrencySymbol = flags.currency
	}
	if flags.locale != "" {
		cfg.Quotation.Locale = flags.locale
	}
	if flags.allowUnknown {
		cfg.Quotation.AllowUnknownRegion = true
	}
	cfg.Logging = config.LoggingConfig{Level: flags.logLevel, Format: "text"}
	return cfg, nil
}

func openRepository(cfg *config.Config) (*repository.PostgresRepository, error) {
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return repo, nil
}

// buildService loads the configured model and wires the quotation service.
func buildService(cmd *cobra.Command, flags *globalFlags) (*service.QuotationService, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(cfg.Logging, cmd.ErrOrStderr())

	var store artifact.Store
	if cfg.Model.Source == config.SourcePostgres {
		repo, err := openRepository(cfg)
		if err != nil {
			return nil, err
		}
		defer repo.Close()
		store = repo
	}

	source, err := artifact.NewSource(&cfg.Model, store)
	if err != nil {
		return nil, err
	}
	handle, err := artifact.NewLoader(source, artifact.Options{
		DefaultVariant: cfg.Model.Variant,
		Logger:         logger,
	}).Get(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}

	engine := quotation.NewEngine(handle.Variant, handle.Predictor, cfg.Quotation.AllowUnknownRegion)
	formatter := quotation.NewFormatter(cfg.Quotation.CurrencySymbol, cfg.Quotation.Locale)
	return service.NewQuotationService(engine, formatter, handle.Name, logger), nil
}

func runQuote(cmd *cobra.Command, flags *globalFlags, req *model.QuoteRequest, asJSON bool) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	svc, err := buildService(cmd, flags)
	if err != nil {
		return err
	}

	resp, err := svc.Quote(cmd.Context(), req)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(cmd, resp)
	}
	printQuote(cmd.OutOrStdout(), resp)
	return nil
}

func runVariants(cmd *cobra.Command, flags *globalFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	printVariants(cmd.OutOrStdout(), service.DescribeVariants(cfg.Model.Variant))
	return nil
}

func runSchema(cmd *cobra.Command, flags *globalFlags) error {
	svc, err := buildService(cmd, flags)
	if err != nil {
		return err
	}
	printSchema(cmd.OutOrStdout(), svc.Schema())
	return nil
}

func runPublish(cmd *cobra.Command, flags *globalFlags, path string, dryRun bool) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Logging, cmd.ErrOrStderr())
	opts := artifact.Options{DefaultVariant: cfg.Model.Variant, Logger: logger}

	doc, err := artifact.ReadDocument(path)
	if err != nil {
		return err
	}

	if dryRun {
		handle, err := artifact.Build(doc, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s model, variant %s, %d columns\n",
			handle.Name, handle.Kind, handle.Variant.Name, handle.Predictor.Schema().Len())
		return nil
	}

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx := cmd.Context()
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	resp, err := artifact.Publish(ctx, repo, doc, opts)
	if err != nil {
		return err
	}
	logger.Info("artifact published", slog.String("name", resp.Name), slog.Int64("id", resp.ID))
	fmt.Fprintf(cmd.OutOrStdout(), "published %s as id %d (%d columns)\n", resp.Name, resp.ID, resp.Columns)
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
