package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/erp/sepawriter/internal/application/payment"
	"github.com/erp/sepawriter/internal/infrastructure/config"
	"github.com/erp/sepawriter/internal/infrastructure/logger"
	"github.com/erp/sepawriter/internal/infrastructure/schema"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `Usage: sepagen --batch batch.yaml [--transactions sheet.csv] [--out message.xml] [options]

Generates a SEPA credit transfer (pain.001) or direct debit (pain.008)
from a YAML batch description. Transactions may be read from a CSV sheet
instead of the batch. Without --out the document is written to stdout.

Options:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("sepagen", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "configuration file (default: ./sepagen.yaml when present)")
	batchFile := fs.String("batch", "", "YAML batch description")
	sheetFile := fs.String("transactions", "", "CSV sheet replacing the transactions of the batch")
	outFile := fs.String("out", "", "output file (default: stdout)")
	config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *batchFile == "" {
		fmt.Fprintln(stderr, "sepagen: --batch is required")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configFile, fs)
	if err != nil {
		fmt.Fprintf(stderr, "sepagen: failed to load configuration: %v\n", err)
		return 1
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(stderr, "sepagen: failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync(log)
	}()
	log = log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	svc, err := newService(cfg, log)
	if err != nil {
		log.Error("invalid configuration", zap.Error(err))
		return 1
	}

	if err := generate(logger.WithContext(ctx, log), svc, *batchFile, *sheetFile, *outFile, stdout); err != nil {
		log.Error("generation failed", zap.Error(err))
		fmt.Fprintf(stderr, "sepagen: %v\n", err)
		return 1
	}
	return 0
}

func newService(cfg *config.Config, log *zap.Logger) (*payment.Service, error) {
	credit, err := cfg.Schema.CreditSchema()
	if err != nil {
		return nil, err
	}
	debit, err := cfg.Schema.DebitSchema()
	if err != nil {
		return nil, err
	}

	var registry *schema.Registry
	if cfg.Validation.Enabled {
		registry = schema.NewRegistry(logger.Named(log, "schema"))
	}

	return payment.NewService(registry, logger.Named(log, "payment"), payment.Options{
		CreditSchema: credit,
		DebitSchema:  debit,
		Indent:       cfg.Output.Indent,
		Overwrite:    cfg.Output.Overwrite,
		Validate:     cfg.Validation.Enabled,
		Strict:       cfg.Validation.Strict,
		Text: payment.TextOptions{
			Transliterate: cfg.Text.Transliterate,
			Clean:         cfg.Text.Clean,
		},
	}), nil
}

func generate(ctx context.Context, svc *payment.Service, batchFile, sheetFile, outFile string, stdout io.Writer) error {
	batch, err := payment.LoadBatchFile(batchFile)
	if err != nil {
		return err
	}

	if sheetFile != "" {
		f, err := os.Open(sheetFile)
		if err != nil {
			return fmt.Errorf("open transaction sheet: %w", err)
		}
		txs, err := payment.ReadTransactions(f, batch.Kind)
		_ = f.Close()
		if err != nil {
			return err
		}
		batch.Transactions = txs
	}

	var report *payment.Report
	if outFile == "" {
		report, err = svc.Generate(ctx, batch, stdout)
	} else {
		report, err = svc.GenerateFile(ctx, batch, outFile)
	}
	if err != nil {
		return err
	}

	if report.Validation != nil && !report.Validation.Valid {
		logger.FromContext(ctx).Warn("document written with validation issues",
			zap.String("message_id", report.MessageID),
			zap.Int("issues", len(report.Validation.Issues)),
		)
	}
	return nil
}
