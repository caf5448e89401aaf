package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/pkg/email"
	"go.uber.org/zap"
)

// maintenanceTimeout bounds a single scheduled run
const maintenanceTimeout = 2 * time.Minute

// ExpiryNotifier delivers the expiring policy digest
type ExpiryNotifier interface {
	SendExpiringDigest(ctx context.Context, policies []email.ExpiringPolicy) error
}

// MaintenanceService runs the periodic housekeeping jobs
type MaintenanceService struct {
	idempotencyRepo repository.IdempotencyRepository
	reports         *ReportService
	notifier        ExpiryNotifier
	log             *zap.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	idempotencyRepo repository.IdempotencyRepository,
	reports *ReportService,
	log *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		idempotencyRepo: idempotencyRepo,
		reports:         reports,
		log:             log,
	}
}

// WithNotifier mails the digest in addition to logging it
func (s *MaintenanceService) WithNotifier(n ExpiryNotifier) *MaintenanceService {
	s.notifier = n
	return s
}

// StartScheduler registers RunOnce under spec and starts the cron runner.
// The caller stops it on shutdown.
func (s *MaintenanceService) StartScheduler(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), maintenanceTimeout)
		defer cancel()
		s.RunOnce(ctx)
	}); err != nil {
		return nil, err
	}

	c.Start()
	s.log.Info("Maintenance scheduler started", zap.String("spec", spec))
	return c, nil
}

// RunOnce purges expired idempotency keys and logs the policies expiring soon
func (s *MaintenanceService) RunOnce(ctx context.Context) {
	purged, err := s.idempotencyRepo.DeleteExpired(ctx)
	if err != nil {
		s.log.Error("Failed to purge idempotency keys", zap.Error(err))
	} else {
		s.log.Info("Purged expired idempotency keys", zap.Int64("count", purged))
	}

	report, err := s.reports.BuildReport(ctx, enum.ReportExpiring, ReportFilter{})
	if err != nil {
		s.log.Error("Failed to build expiring policy digest", zap.Error(err))
		return
	}

	rows, _ := report.Rows.([]PolicyRow)
	for _, row := range rows {
		s.log.Info("Policy expiring soon",
			zap.String("policy_number", row.PolicyNumber),
			zap.String("customer", row.CustomerName),
			zap.Time("end_date", row.EndDate),
			zap.Intp("days_left", row.DaysLeft),
		)
	}
	s.log.Info("Expiring policy digest", zap.Int("count", len(rows)))

	if s.notifier == nil || len(rows) == 0 {
		return
	}
	if err := s.notifier.SendExpiringDigest(ctx, digestItems(rows)); err != nil {
		s.log.Error("Failed to send expiring policy digest", zap.Error(err))
	}
}

func digestItems(rows []PolicyRow) []email.ExpiringPolicy {
	items := make([]email.ExpiringPolicy, 0, len(rows))
	for _, row := range rows {
		item := email.ExpiringPolicy{
			PolicyNumber: row.PolicyNumber,
			CustomerName: row.CustomerName,
			EndDate:      row.EndDate,
		}
		if row.PlateNumber != nil {
			item.PlateNumber = *row.PlateNumber
		}
		if row.DaysLeft != nil {
			item.DaysLeft = *row.DaysLeft
		}
		items = append(items, item)
	}
	return items
}
