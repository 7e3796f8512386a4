package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/report"
	"github.com/iliyamo/event-lodging/internal/repository"
)

// ReportService produces occupancy and revenue reports for operators.
type ReportService struct {
	store repository.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewReportService wires a ReportService.
func NewReportService(store repository.Store, log *zap.Logger) *ReportService {
	return &ReportService{store: store, log: log, now: time.Now}
}

// WithClock replaces the clock used for GeneratedAt.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// Generate loads facts and rooms from one read-only snapshot so every
// figure in the report describes the same state.  It never writes.
func (s *ReportService) Generate(ctx context.Context, caller model.Caller, f model.ReportFilter) (*model.Report, error) {
	if err := requireOperator(caller); err != nil {
		return nil, err
	}
	if f.Start != nil && f.End != nil && f.Start.After(*f.End) {
		return nil, validationf("start_date must not be after end_date")
	}
	var (
		facts []model.BookingFact
		rooms []model.RoomRef
	)
	err := inTx(ctx, s.store, repository.TxOptions{ReadOnly: true}, func(tx repository.Tx) error {
		var err error
		if facts, err = tx.Reports().BookingFacts(ctx, f); err != nil {
			return storeError(err, "load booking facts", "booking")
		}
		if rooms, err = tx.Reports().RoomRefs(ctx, f.AccommodationID); err != nil {
			return storeError(err, "load rooms", "room")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r := report.Build(facts, rooms, s.now())
	s.log.Debug("report generated", zap.Int("facts", len(facts)), zap.Int("rooms", len(rooms)))
	return &r, nil
}
