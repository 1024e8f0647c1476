package service

import (
	"context"

	"barbercash/backend/internal/syncer"
)

func (s *Service) SyncStatus() syncer.Status {
	return s.sync.Status()
}

func (s *Service) EnableSync(ctx context.Context) (syncer.Status, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return syncer.Status{}, err
	}
	err := s.sync.Enable(ctx)
	s.logAudit(ctx, "sync_enable", "sync", "", "")
	return s.sync.Status(), err
}

func (s *Service) DisableSync(ctx context.Context) (syncer.Status, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return syncer.Status{}, err
	}
	s.sync.Disable(ctx)
	s.logAudit(ctx, "sync_disable", "sync", "", "")
	return s.sync.Status(), nil
}

func (s *Service) ForceSync(ctx context.Context) (syncer.Report, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return syncer.Report{}, err
	}
	report := s.sync.ForceSync(ctx)
	s.logAudit(ctx, "sync_force", "sync", "", "")
	return report, nil
}

func (s *Service) TestConnection(ctx context.Context) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.sync.TestConnection(ctx)
}
