package invoice

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/flexprice/gstbill/internal/domain/sequence"
	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
)

// PrefixResolver returns the configured number prefix of a tenant for a type.
// An empty string means nothing is configured.
type PrefixResolver interface {
	GetInvoicePrefixByType(ctx context.Context, tenantID string, invoiceType types.InvoiceType) (string, error)
}

// NumberChecker reports whether an invoice number is already taken by any tenant
type NumberChecker interface {
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

// NumberGeneratorConfig configures a NumberGenerator
type NumberGeneratorConfig struct {
	Strategy    types.NumberingStrategy
	MaxAttempts int
	// Now defaults to time.Now
	Now func() time.Time
}

// NumberGenerator derives collision free, type scoped invoice numbers of the
// form <prefix>-<suffix>
type NumberGenerator struct {
	cfg      NumberGeneratorConfig
	counter  sequence.Counter
	prefixes PrefixResolver
	checker  NumberChecker
}

var errNumberTaken = fmt.Errorf("invoice number taken")

func NewNumberGenerator(cfg NumberGeneratorConfig, counter sequence.Counter, prefixes PrefixResolver, checker NumberChecker) *NumberGenerator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = types.DefaultMaxNumberAttempts
	}
	if cfg.Strategy == "" {
		cfg.Strategy = types.NumberingStrategyCounter
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &NumberGenerator{
		cfg:      cfg,
		counter:  counter,
		prefixes: prefixes,
		checker:  checker,
	}
}

// DefaultPrefix is used when the tenant has not configured one, e.g. SALE-2024
func DefaultPrefix(invoiceType types.InvoiceType, year int) string {
	return fmt.Sprintf("%s-%d", invoiceType.Abbreviation(), year)
}

// Next returns a number not used by any invoice at the time of the check.
// It regenerates on collision and gives up with ErrNumberGeneration after
// MaxAttempts candidates.
func (g *NumberGenerator) Next(ctx context.Context, tenantID string, invoiceType types.InvoiceType) (string, error) {
	if err := invoiceType.Validate(); err != nil {
		return "", err
	}

	now := g.cfg.Now()
	prefix, err := g.resolvePrefix(ctx, tenantID, invoiceType, now.Year())
	if err != nil {
		return "", err
	}

	var (
		number   string
		attempts int
	)
	op := func() error {
		attempts++
		suffix, err := g.suffix(ctx, tenantID, invoiceType, now)
		if err != nil {
			return backoff.Permanent(err)
		}
		candidate := prefix + "-" + suffix

		taken, err := g.checker.ExistsByNumber(ctx, candidate)
		if err != nil {
			return backoff.Permanent(err)
		}
		if taken {
			return errNumberTaken
		}
		number = candidate
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(g.cfg.MaxAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		if ierr.Is(err, errNumberTaken) {
			return "", ierr.NewErrorf("no free invoice number after %d attempts", attempts).
				WithHint("Could not generate a unique invoice number, please retry").
				WithReportableDetails(map[string]any{
					"invoice_type": invoiceType,
					"prefix":       prefix,
					"attempts":     attempts,
				}).
				Mark(ierr.ErrNumberGeneration)
		}
		return "", err
	}
	return number, nil
}

func (g *NumberGenerator) resolvePrefix(ctx context.Context, tenantID string, invoiceType types.InvoiceType, year int) (string, error) {
	if g.prefixes != nil {
		prefix, err := g.prefixes.GetInvoicePrefixByType(ctx, tenantID, invoiceType)
		if err != nil {
			return "", err
		}
		if prefix = strings.TrimRight(strings.TrimSpace(prefix), "-"); prefix != "" {
			return prefix, nil
		}
	}
	return DefaultPrefix(invoiceType, year), nil
}

func (g *NumberGenerator) suffix(ctx context.Context, tenantID string, invoiceType types.InvoiceType, now time.Time) (string, error) {
	if g.cfg.Strategy == types.NumberingStrategyTimestamp || g.counter == nil {
		return fmt.Sprintf("%d%04d", g.cfg.Now().UnixMilli(), rand.Intn(10000)), nil
	}

	n, err := g.counter.Next(ctx, sequence.InvoiceKey(tenantID, invoiceType.String(), now.Year()))
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Could not allocate an invoice sequence number").
			Mark(ierr.ErrDatabase)
	}
	return fmt.Sprintf("%05d", n), nil
}
