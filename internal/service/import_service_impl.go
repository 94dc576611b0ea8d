package service

import (
	"context"
	"fmt"

	"github.com/nswan/lifeweave/internal/db"
	"github.com/nswan/lifeweave/internal/domain"
	"github.com/nswan/lifeweave/internal/importer"
	"github.com/nswan/lifeweave/internal/repository"
)

type importService struct {
	types repository.ConnectionTypeRepo
	uow   db.UnitOfWork
}

func NewImportService(types repository.ConnectionTypeRepo, uow db.UnitOfWork) ImportService {
	return &importService{types: types, uow: uow}
}

func (s *importService) ImportGraph(ctx context.Context, filePath string, actor *domain.SessionContext) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportGraphFromSchema(ctx, schema, actor)
}

// ImportGraphFromSchema loads an entire graph in one transaction. Every
// span is owned by the importing principal, every connection passes the
// same temporal constraint check as interactive creation, and any
// failure rolls the whole import back.
func (s *importService) ImportGraphFromSchema(ctx context.Context, schema *importer.ImportSchema, actor *domain.SessionContext) (*ImportResult, error) {
	if actor == nil {
		return nil, domain.ErrAccessDenied
	}

	catalog, err := s.types.List(ctx)
	if err != nil {
		return nil, err
	}
	typesByKey := make(map[string]domain.ConnectionType, len(catalog))
	for _, ct := range catalog {
		typesByKey[ct.Type] = *ct
	}

	if errs := importer.ValidateImportSchema(schema, typesByKey); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema, actor.Actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSpans := repository.NewSQLiteSpanRepo(tx)
		txConns := repository.NewSQLiteConnectionRepo(tx)

		for _, span := range generated.Spans {
			if err := txSpans.Create(ctx, span); err != nil {
				return fmt.Errorf("creating span %q: %w", span.Name, err)
			}
		}
		for _, gc := range generated.Connections {
			ct := typesByKey[gc.Connection.Type]

			existing, err := txConns.ListBySubjectAndType(ctx, gc.Connection.ParentID, ct.Type)
			if err != nil {
				return err
			}
			intervals := make([]domain.ConnectionInterval, len(existing))
			for i, sc := range existing {
				intervals[i] = domain.ConnectionInterval{ConnectionID: sc.ConnectionID, Interval: sc.Interval, State: sc.State}
			}
			candidate := domain.ConnectionInterval{
				ConnectionID: gc.Connection.ID,
				Interval:     gc.ConnectionSpan.Interval(),
				State:        gc.ConnectionSpan.State,
			}
			if err := domain.ValidateConstraint(ct, candidate, intervals); err != nil {
				return fmt.Errorf("connection %q: %w", gc.ConnectionSpan.Name, err)
			}

			if err := txSpans.Create(ctx, gc.ConnectionSpan); err != nil {
				return fmt.Errorf("creating connection span %q: %w", gc.ConnectionSpan.Name, err)
			}
			if err := txConns.Create(ctx, gc.Connection); err != nil {
				return fmt.Errorf("creating connection %q: %w", gc.ConnectionSpan.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		SpanCount:       len(generated.Spans),
		ConnectionCount: len(generated.Connections),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
