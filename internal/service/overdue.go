package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/domain/tenant"
	"github.com/flexprice/gstbill/internal/lock"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/sourcegraph/conc/pool"
)

// OverdueService flags invoices whose due date has passed with money still owed
type OverdueService interface {
	ScanOverdue(ctx context.Context, now time.Time) (*dto.OverdueScanResponse, error)
}

type overdueService struct {
	ServiceParams
}

func NewOverdueService(params ServiceParams) OverdueService {
	return &overdueService{
		ServiceParams: params,
	}
}

// ScanOverdue walks every tenant under the scan lock. A tenant that fails is
// counted and logged; the scan carries on with the rest.
func (s *overdueService) ScanOverdue(ctx context.Context, now time.Time) (*dto.OverdueScanResponse, error) {
	release, ok, err := s.Locker.TryLock(ctx, lock.OverdueScanKey, s.Config.Overdue.LockTTL())
	if err != nil {
		return nil, err
	}
	if !ok {
		s.Logger.Infow("overdue scan already running elsewhere, skipping")
		return &dto.OverdueScanResponse{Skipped: true}, nil
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.Logger.Warnw("failed to release overdue scan lock", "error", err)
		}
	}()

	tenants, err := s.TenantRepo.List(ctx, types.NewNoLimitTenantFilter())
	if err != nil {
		return nil, err
	}

	var marked, failures atomic.Int64
	p := pool.New().WithMaxGoroutines(max(s.Config.Overdue.Workers, 1))
	for _, t := range tenants {
		t := t // per-iteration copy; go.mod targets go 1.21 loop semantics
		p.Go(func() {
			n, err := s.scanTenant(ctx, t, now)
			marked.Add(int64(n))
			if err != nil {
				failures.Add(1)
				s.Logger.Errorw("overdue scan failed for tenant",
					"tenant_id", t.ID,
					"marked", n,
					"error", err)
			}
		})
	}
	p.Wait()

	resp := &dto.OverdueScanResponse{
		TenantsScanned: len(tenants),
		InvoicesMarked: int(marked.Load()),
		Failures:       int(failures.Load()),
	}
	s.Logger.Infow("overdue scan finished",
		"tenants", resp.TenantsScanned,
		"invoices_marked", resp.InvoicesMarked,
		"failures", resp.Failures)
	return resp, nil
}

func (s *overdueService) scanTenant(ctx context.Context, t *tenant.Tenant, now time.Time) (int, error) {
	ctx = types.SetTenantID(ctx, t.ID)

	filter := types.NewNoLimitInvoiceFilter()
	filter.DueBefore = &now
	candidates, err := s.InvoiceRepo.ListOverdueCandidates(ctx, t.ID, filter)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, inv := range candidates {
		if !inv.IsOverdue(now) {
			continue
		}
		// the row may have been paid since it was listed
		ok, err := s.InvoiceRepo.MarkOverdue(ctx, inv.ID, now)
		if err != nil {
			return marked, err
		}
		if ok {
			marked++
		}
	}
	if marked > 0 {
		s.Logger.Debugw("marked invoices overdue", "tenant_id", t.ID, "count", marked)
	}
	return marked, nil
}
