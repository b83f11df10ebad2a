package invoice

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	ierr "github.com/flexprice/gstbill/internal/errors"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type memCounter struct {
	mu     sync.Mutex
	values map[string]int64
	err    error
}

func (c *memCounter) Next(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	if c.values == nil {
		c.values = make(map[string]int64)
	}
	c.values[key]++
	return c.values[key], nil
}

func (c *memCounter) DeleteByTenant(_ context.Context, _ string) error { return nil }

// memNumbers records generated numbers and treats a set of numbers as taken
type memNumbers struct {
	mu     sync.Mutex
	taken  map[string]bool
	always bool
}

func (m *memNumbers) ExistsByNumber(_ context.Context, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.always {
		return true, nil
	}
	return m.taken[number], nil
}

func (m *memNumbers) claim(number string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.taken == nil {
		m.taken = make(map[string]bool)
	}
	if m.taken[number] {
		return false
	}
	m.taken[number] = true
	return true
}

type staticPrefixes map[types.InvoiceType]string

func (p staticPrefixes) GetInvoicePrefixByType(_ context.Context, _ string, t types.InvoiceType) (string, error) {
	return p[t], nil
}

type NumberGeneratorSuite struct {
	suite.Suite
	ctx     context.Context
	counter *memCounter
	numbers *memNumbers
	now     time.Time
}

func TestNumberGenerator(t *testing.T) {
	suite.Run(t, new(NumberGeneratorSuite))
}

func (s *NumberGeneratorSuite) SetupTest() {
	s.ctx = context.Background()
	s.counter = &memCounter{}
	s.numbers = &memNumbers{}
	s.now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
}

func (s *NumberGeneratorSuite) generator(strategy types.NumberingStrategy, prefixes PrefixResolver) *NumberGenerator {
	return NewNumberGenerator(NumberGeneratorConfig{
		Strategy: strategy,
		Now:      func() time.Time { return s.now },
	}, s.counter, prefixes, s.numbers)
}

func (s *NumberGeneratorSuite) TestDefaultPrefixPerType() {
	gen := s.generator(types.NumberingStrategyCounter, nil)

	testCases := []struct {
		invoiceType types.InvoiceType
		want        string
	}{
		{types.InvoiceTypeSales, "SALE-2024-00001"},
		{types.InvoiceTypePurchase, "PUR-2024-00001"},
		{types.InvoiceTypeQuotation, "QUOT-2024-00001"},
	}

	for _, tc := range testCases {
		s.Run(string(tc.invoiceType), func() {
			got, err := gen.Next(s.ctx, "tenant_1", tc.invoiceType)
			s.NoError(err)
			s.Equal(tc.want, got)
		})
	}
}

func (s *NumberGeneratorSuite) TestConsecutiveNumbersIncrement() {
	gen := s.generator(types.NumberingStrategyCounter, staticPrefixes{types.InvoiceTypeSales: "INV-2024"})

	first, err := gen.Next(s.ctx, "tenant_1", types.InvoiceTypeSales)
	s.NoError(err)
	second, err := gen.Next(s.ctx, "tenant_1", types.InvoiceTypeSales)
	s.NoError(err)

	s.Equal("INV-2024-00001", first)
	s.Equal("INV-2024-00002", second)
}

func (s *NumberGeneratorSuite) TestSequencesAreScopedByTenantAndType() {
	gen := s.generator(types.NumberingStrategyCounter, nil)

	a, err := gen.Next(s.ctx, "tenant_1", types.InvoiceTypeSales)
	s.NoError(err)
	s.True(s.numbers.claim(a))
	b, err := gen.Next(s.ctx, "tenant_1", types.InvoiceTypePurchase)
	s.NoError(err)
	s.True(s.numbers.claim(b))
	c, err := gen.Next(s.ctx, "tenant_2", types.InvoiceTypeSales)
	s.NoError(err)

	s.Equal("SALE-2024-00001", a)
	s.Equal("PUR-2024-00001", b)
	// numbers are unique across tenants, so tenant_2 skips the taken one
	s.Equal("SALE-2024-00002", c)
}

func (s *NumberGeneratorSuite) TestCustomPrefixIsTrimmed() {
	gen := s.generator(types.NumberingStrategyCounter, staticPrefixes{
		types.InvoiceTypeQuotation: "  EST-",
		types.InvoiceTypeSales:     "   ",
	})

	got, err := gen.Next(s.ctx, "tenant_1", types.InvoiceTypeQuotation)
	s.NoError(err)
	s.Equal("EST-00001", got)

	got, err = gen.Next(s.ctx, "tenant_1", types.InvoiceTypeSales)
	s.NoError(err)
	s.Equal("SALE-2024-00001", got)
}

func (s *NumberGeneratorSuite) TestCollisionRegenerates() {
	s.numbers.claim("SALE-2024-00001")
	s.numbers.claim("SALE-2024-00002")
	gen := s.generator(types.NumberingStrategyCounter, nil)

	got, err := gen.Next(s.ctx, "tenant_1", types.InvoiceTypeSales)
	s.NoError(err)
	s.Equal("SALE-2024-00003", got)
}

func (s *NumberGeneratorSuite) TestExhaustionFails() {
	s.numbers.always = true
	gen := NewNumberGenerator(NumberGeneratorConfig{
		MaxAttempts: 5,
		Now:         func() time.Time { return s.now },
	}, s.counter, nil, s.numbers)

	_, err := gen.Next(s.ctx, "tenant_1", types.InvoiceTypeSales)
	s.Error(err)
	s.True(ierr.IsNumberGeneration(err))
	s.Equal(float64(5), ierr.ReportableDetails(err)["attempts"])
	s.Equal(int64(5), s.counter.values["invoice:tenant_1:SALES:2024"])
}

func (s *NumberGeneratorSuite) TestCounterFailureIsNotRetried() {
	s.counter.err = fmt.Errorf("connection refused")
	gen := s.generator(types.NumberingStrategyCounter, nil)

	_, err := gen.Next(s.ctx, "tenant_1", types.InvoiceTypeSales)
	s.Error(err)
	s.True(ierr.IsDatabase(err))
}

func (s *NumberGeneratorSuite) TestInvalidType() {
	gen := s.generator(types.NumberingStrategyCounter, nil)

	_, err := gen.Next(s.ctx, "tenant_1", types.InvoiceType("CREDIT"))
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *NumberGeneratorSuite) TestTimestampStrategy() {
	gen := s.generator(types.NumberingStrategyTimestamp, staticPrefixes{types.InvoiceTypePurchase: "PO"})

	got, err := gen.Next(s.ctx, "tenant_1", types.InvoiceTypePurchase)
	s.NoError(err)
	s.Regexp(regexp.MustCompile(fmt.Sprintf(`^PO-%d\d{4}$`, s.now.UnixMilli())), got)
	s.Empty(s.counter.values)
}

func TestNumberGeneratorConcurrentUniqueness(t *testing.T) {
	counter := &memCounter{}
	numbers := &memNumbers{}
	gen := NewNumberGenerator(NumberGeneratorConfig{}, counter, nil, numbers)

	const workers = 50
	var (
		wg      sync.WaitGroup
		results = make(chan string, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := gen.Next(context.Background(), "tenant_1", types.InvoiceTypeSales)
			assert.NoError(t, err)
			results <- number
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for number := range results {
		require.NotEmpty(t, number)
		assert.True(t, numbers.claim(number), "duplicate number %s", number)
		seen[number] = true
	}
	assert.Len(t, seen, workers)
}
