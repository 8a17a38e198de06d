package service

import (
	"context"

	"github.com/driftwood-dev/driftwood/internal/domain"
)

type ReportService interface {
	Create(ctx context.Context, creationData *domain.ReportCreationData) error
	List(ctx context.Context, limit int) ([]domain.Report, error)
}

type ReportStorage interface {
	CreateReport(ctx context.Context, report *domain.ReportCreationData) error
	Reports(ctx context.Context, limit int) ([]domain.Report, error)
}

type ReportValidator interface {
	Reason(reason string) error
}

type Report struct {
	storage   ReportStorage
	validator ReportValidator
	burst     CooldownGate // overall cap inside the window, checked first
	cooldown  CooldownGate // spacing between consecutive reports
}

func NewReport(storage ReportStorage, validator ReportValidator, burst, cooldown CooldownGate) ReportService {
	return &Report{storage, validator, burst, cooldown}
}

func (r *Report) Create(ctx context.Context, creationData *domain.ReportCreationData) error {
	if err := r.validator.Reason(creationData.Reason); err != nil {
		return err
	}
	if err := r.burst.Check(creationData.Reporter.Id); err != nil {
		return err
	}
	if err := r.cooldown.Check(creationData.Reporter.Id); err != nil {
		return err
	}
	return r.storage.CreateReport(ctx, creationData)
}

func (r *Report) List(ctx context.Context, limit int) ([]domain.Report, error) {
	return r.storage.Reports(ctx, limit)
}
