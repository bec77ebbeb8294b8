package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/wfh-portal-api/internal/dates"
	"github.com/noah-isme/wfh-portal-api/internal/models"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
	"github.com/noah-isme/wfh-portal-api/pkg/export"
)

type scheduleRequestStore interface {
	ListNonTerminalByStaff(ctx context.Context, staffID int64) ([]models.LeaveRequest, error)
	ListByManager(ctx context.Context, managerID int64) ([]models.LeaveRequest, error)
	ListApprovedByDepartment(ctx context.Context, department, position string) ([]models.LeaveRequest, error)
}

type cacheMetrics interface {
	RecordCacheLookup(hit bool)
}

// ScheduleService assembles WFH schedule views. Department views are the
// expensive ones, so they sit behind a short-lived Redis cache.
type ScheduleService struct {
	requests scheduleRequestStore
	cache    *redis.Client
	metrics  cacheMetrics
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewScheduleService constructs the service. cache may be nil, in which case
// every department view hits the database.
func NewScheduleService(requests scheduleRequestStore, cache *redis.Client, metrics cacheMetrics,
	cacheTTL time.Duration, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ScheduleService{
		requests: requests,
		cache:    cache,
		metrics:  metrics,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// OwnSchedule returns the staff member's upcoming and undecided WFH days.
func (s *ScheduleService) OwnSchedule(ctx context.Context, staffID int64) ([]models.LeaveRequest, error) {
	requests, err := s.requests.ListNonTerminalByStaff(ctx, staffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return requests, nil
}

// TeamSchedule returns the pending and approved WFH days of the manager's
// reports.
func (s *ScheduleService) TeamSchedule(ctx context.Context, managerID int64) ([]models.LeaveRequest, error) {
	all, err := s.requests.ListByManager(ctx, managerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load team schedule")
	}
	visible := make([]models.LeaveRequest, 0, len(all))
	for _, req := range all {
		if req.Status == models.RequestStatusPending || req.Status == models.RequestStatusApproved {
			visible = append(visible, req)
		}
	}
	return visible, nil
}

// DepartmentSchedule returns approved WFH days for a department, optionally
// narrowed to one position. HR only.
func (s *ScheduleService) DepartmentSchedule(ctx context.Context, actor *models.JWTClaims, department, position string) ([]models.LeaveRequest, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleHR {
		return nil, appErrors.ErrForbidden
	}
	if strings.TrimSpace(department) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "department is required")
	}

	key := fmt.Sprintf("schedule:dept:%s:%s", department, position)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	requests, err := s.requests.ListApprovedByDepartment(ctx, department, position)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department schedule")
	}
	s.toCache(ctx, key, requests)
	return requests, nil
}

func (s *ScheduleService) fromCache(ctx context.Context, key string) ([]models.LeaveRequest, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("schedule cache read failed", zap.String("key", key), zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.RecordCacheLookup(false)
		}
		return nil, false
	}
	var requests []models.LeaveRequest
	if err := json.Unmarshal(raw, &requests); err != nil {
		s.logger.Warn("schedule cache decode failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(true)
	}
	return requests, true
}

func (s *ScheduleService) toCache(ctx context.Context, key string, requests []models.LeaveRequest) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(requests)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("schedule cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// ExportFormat names a schedule export encoding.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportDepartmentSchedule renders the department schedule as CSV or PDF.
func (s *ScheduleService) ExportDepartmentSchedule(ctx context.Context, actor *models.JWTClaims,
	department, position string, format ExportFormat) ([]byte, string, error) {
	requests, err := s.DepartmentSchedule(ctx, actor, department, position)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Headers: []string{"Staff", "Department", "Position", "Date", "Type", "Status"},
		Rows:    make([]map[string]string, 0, len(requests)),
	}
	for _, req := range requests {
		data.Rows = append(data.Rows, map[string]string{
			"Staff":      req.StaffName,
			"Department": req.Department,
			"Position":   req.Position,
			"Date":       req.RequestedDate.Format(dates.DateLayout),
			"Type":       string(req.RequestType),
			"Status":     string(req.Status),
		})
	}

	switch format {
	case ExportCSV:
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, fmt.Sprintf("wfh-schedule-%s.csv", department), nil
	case ExportPDF:
		payload, err := s.pdf.Render(data, fmt.Sprintf("WFH schedule: %s", department))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, fmt.Sprintf("wfh-schedule-%s.pdf", department), nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
