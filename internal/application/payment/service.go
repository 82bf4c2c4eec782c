// Package payment turns batch descriptions into SEPA payment initiation
// messages: it maps them onto credit transfers or direct debits, renders the
// XML, validates it and writes it out.
package payment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/beevik/etree"
	"github.com/erp/sepawriter/internal/domain/sepa"
	"github.com/erp/sepawriter/internal/infrastructure/logger"
	"github.com/erp/sepawriter/internal/infrastructure/schema"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned in strict mode when the generated document
// does not pass schema validation
var ErrInvalidDocument = errors.New("generated document failed schema validation")

// Options controls message generation
type Options struct {
	CreditSchema sepa.Schema // used when a credit batch names no schema
	DebitSchema  sepa.Schema // used when a debit batch names no schema
	Indent       int
	Overwrite    bool
	Validate     bool
	Strict       bool
	Text         TextOptions
}

// Report summarises a generated message
type Report struct {
	MessageID    string
	Schema       sepa.Schema
	Transactions int
	ControlSum   decimal.Decimal
	Validation   *schema.Result // nil when validation is disabled
}

// Message is what the service needs from a credit transfer or a direct debit
type Message interface {
	Document() (*etree.Document, error)
	Schema() sepa.Schema
	MessageIdentification() string
	NumberOfTransactions() int
	HeaderControlSum() decimal.Decimal
}

// Service generates payment initiation messages from batches
type Service struct {
	opts      Options
	registry  *schema.Registry
	validator *BatchValidator
	mapper    *mapper
	logger    *zap.Logger
}

// NewService creates a Service. The registry is only used when opts.Validate is set.
func NewService(registry *schema.Registry, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.CreditSchema == 0 {
		opts.CreditSchema = sepa.SchemaPain00100103
	}
	if opts.DebitSchema == 0 {
		opts.DebitSchema = sepa.SchemaPain00800102
	}
	s := &Service{
		opts:      opts,
		registry:  registry,
		validator: NewBatchValidator(),
		logger:    log,
	}
	s.mapper = &mapper{
		text: opts.Text,
		defaultSchema: func(kind string) sepa.Schema {
			if kind == KindDebit {
				return s.opts.DebitSchema
			}
			return s.opts.CreditSchema
		},
	}
	return s
}

// LoadBatch decodes a YAML batch description. Unknown keys are rejected.
func LoadBatch(r io.Reader) (*Batch, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var b Batch
	if err := dec.Decode(&b); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("batch description is empty")
		}
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	return &b, nil
}

// LoadBatchFile decodes the YAML batch description stored in path
func LoadBatchFile(path string) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch: %w", err)
	}
	defer f.Close()
	return LoadBatch(f)
}

// Build validates the batch and maps it onto a credit transfer or a direct debit
func (s *Service) Build(b *Batch) (Message, error) {
	if err := s.validator.Validate(b); err != nil {
		return nil, err
	}
	if b.Kind == KindDebit {
		dt, err := s.mapper.Debit(b)
		if err != nil {
			return nil, err
		}
		return dt, nil
	}
	ct, err := s.mapper.Credit(b)
	if err != nil {
		return nil, err
	}
	return ct, nil
}

// Generate renders the batch and writes the document to w. In strict mode
// nothing is written when validation fails.
func (s *Service) Generate(ctx context.Context, b *Batch, w io.Writer) (*Report, error) {
	var buf bytes.Buffer
	report, err := s.render(ctx, b, &buf)
	if err != nil {
		return report, err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return report, fmt.Errorf("write document: %w", err)
	}
	return report, nil
}

// GenerateFile renders the batch into path. An existing file is only
// replaced when the Overwrite option is set.
func (s *Service) GenerateFile(ctx context.Context, b *Batch, path string) (*Report, error) {
	var buf bytes.Buffer
	report, err := s.render(ctx, b, &buf)
	if err != nil {
		return report, err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !s.opts.Overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return report, fmt.Errorf("output file %s already exists", path)
		}
		return report, fmt.Errorf("create output file: %w", err)
	}
	if _, err := buf.WriteTo(f); err != nil {
		_ = f.Close()
		return report, fmt.Errorf("write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return report, fmt.Errorf("close output file: %w", err)
	}

	s.logger.Info("payment message written",
		zap.String("path", path),
		zap.String("message_id", report.MessageID),
	)
	return report, nil
}

func (s *Service) render(ctx context.Context, b *Batch, w io.Writer) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg, err := s.Build(b)
	if err != nil {
		s.logger.Warn("batch rejected", zap.Error(err))
		return nil, err
	}

	ctx, log := logger.WithMessageID(ctx, s.logger, msg.MessageIdentification())
	start := time.Now()

	doc, err := msg.Document()
	if err != nil {
		log.Warn("cannot render payment message", zap.Error(err))
		return nil, err
	}
	if s.opts.Indent > 0 {
		doc.Indent(s.opts.Indent)
	}

	report := &Report{
		MessageID:    msg.MessageIdentification(),
		Schema:       msg.Schema(),
		Transactions: msg.NumberOfTransactions(),
		ControlSum:   msg.HeaderControlSum(),
	}

	if s.opts.Validate {
		result, err := s.validate(ctx, doc, msg.Schema())
		if err != nil {
			return report, err
		}
		report.Validation = &result
		if !result.Valid && s.opts.Strict {
			return report, fmt.Errorf("%w: %w", ErrInvalidDocument, result.Err())
		}
	}

	if _, err := doc.WriteTo(w); err != nil {
		return report, fmt.Errorf("serialise document: %w", err)
	}

	log.Info("payment message generated",
		zap.String("schema", report.Schema.String()),
		zap.Int("transactions", report.Transactions),
		zap.String("control_sum", report.ControlSum.String()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

func (s *Service) validate(ctx context.Context, doc *etree.Document, sch sepa.Schema) (schema.Result, error) {
	if s.registry == nil {
		return schema.Result{}, errors.New("validation is enabled but no schema registry is configured")
	}
	v, err := s.registry.Validator(sch)
	if err != nil {
		return schema.Result{}, err
	}

	result := v.ValidateDocument(doc)
	if !result.Valid {
		logger.FromContext(ctx).Warn("payment message failed schema validation",
			zap.Int("issues", len(result.Issues)),
			zap.Bool("strict", s.opts.Strict),
		)
	}
	return result, nil
}
