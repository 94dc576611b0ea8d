package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nswan/lifeweave/internal/db"
	"github.com/nswan/lifeweave/internal/domain"
	"github.com/nswan/lifeweave/internal/repository"
)

type connectionService struct {
	spans repository.SpanRepo
	conns repository.ConnectionRepo
	types repository.ConnectionTypeRepo
	perms repository.PermissionRepo
	uow   db.UnitOfWork
}

func NewConnectionService(
	spans repository.SpanRepo,
	conns repository.ConnectionRepo,
	types repository.ConnectionTypeRepo,
	perms repository.PermissionRepo,
	uow db.UnitOfWork,
) ConnectionService {
	return &connectionService{spans: spans, conns: conns, types: types, perms: perms, uow: uow}
}

// Create builds a connection and its connection-span in one transaction.
// The temporal constraint is checked against the committed state inside
// that transaction, so two racing creations cannot both slip past it.
func (s *connectionService) Create(ctx context.Context, in CreateConnectionInput, actor *domain.SessionContext) (*ConnectionDetail, error) {
	if actor == nil {
		return nil, domain.ErrAccessDenied
	}
	ct, err := s.types.Get(ctx, in.Type)
	if err != nil {
		return nil, err
	}

	var detail *ConnectionDetail
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSpans := repository.NewSQLiteSpanRepo(tx)
		txConns := repository.NewSQLiteConnectionRepo(tx)

		parentID, childID := in.ParentID, in.ChildID
		if in.Direction == domain.DirectionInverse {
			parentID, childID = childID, parentID
		}

		parent, err := txSpans.GetByID(ctx, parentID)
		if err != nil {
			return fmt.Errorf("parent: %w", err)
		}

		var child *domain.Span
		if childID == "" && in.ChildName != "" {
			child = newPlaceholder(in.ChildName, in.ChildType, actor.Actor.UserID)
			if err := txSpans.Create(ctx, child); err != nil {
				return fmt.Errorf("creating placeholder target: %w", err)
			}
			childID = child.ID
		} else {
			child, err = txSpans.GetByID(ctx, childID)
			if err != nil {
				return fmt.Errorf("child: %w", err)
			}
		}

		if err := ct.ValidateEndpoints(parent.Type, child.Type); err != nil {
			return err
		}

		interval := domain.Interval{Start: in.Start, End: in.End}
		if ct.Type == "family" {
			interval = domain.DeriveFamilyInterval(child.Start, parent.End, child.End)
		}
		if err := interval.Validate(); err != nil {
			return err
		}

		// Dateless connection-spans are placeholders: only that state is
		// exempt from the start-year rule, and the constraint check skips
		// them until they are dated.
		state := domain.StateComplete
		if interval.IsTimeless() {
			state = domain.StatePlaceholder
		}
		connID := uuid.New().String()

		if err := s.checkConstraint(ctx, txConns, *ct, parentID, connID, interval, state); err != nil {
			return err
		}

		now := time.Now().UTC()
		connSpan := &domain.Span{
			ID:             uuid.New().String(),
			Type:           domain.SpanConnection,
			Name:           fmt.Sprintf("%s %s %s", parent.Name, ct.Predicate(domain.DirectionForward), child.Name),
			Start:          interval.Start,
			End:            interval.End,
			StartPrecision: interval.Start.Precision(),
			EndPrecision:   interval.End.Precision(),
			State:          state,
			AccessLevel:    domain.AccessPrivate,
			OwnerID:        actor.Actor.UserID,
			UpdaterID:      actor.Actor.UserID,
			Metadata:       domain.Metadata{},
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := connSpan.Validate(); err != nil {
			return err
		}
		if err := txSpans.Create(ctx, connSpan); err != nil {
			return fmt.Errorf("creating connection span: %w", err)
		}

		conn := &domain.Connection{
			ID:               connID,
			ParentID:         parentID,
			ChildID:          childID,
			Type:             ct.Type,
			ConnectionSpanID: connSpan.ID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := txConns.Create(ctx, conn); err != nil {
			return fmt.Errorf("creating connection: %w", err)
		}

		detail = &ConnectionDetail{Connection: conn, ConnectionSpan: connSpan, Parent: parent, Child: child}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *connectionService) GetByID(ctx context.Context, id string, viewer *domain.SessionContext) (*ConnectionDetail, error) {
	conn, err := s.conns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	spans, err := s.spans.ListByIDs(ctx, []string{conn.ParentID, conn.ChildID, conn.ConnectionSpanID})
	if err != nil {
		return nil, err
	}
	parent, child, connSpan := spans[conn.ParentID], spans[conn.ChildID], spans[conn.ConnectionSpanID]
	if parent == nil || child == nil || connSpan == nil {
		return nil, fmt.Errorf("connection %s endpoints: %w", id, repository.ErrNotFound)
	}
	grants, err := s.perms.ListBySpans(ctx, []string{conn.ParentID, conn.ChildID})
	if err != nil {
		return nil, err
	}
	if !domain.CanViewConnection(viewer, parent, child, grants[conn.ParentID], grants[conn.ChildID]) {
		return nil, domain.ErrAccessDenied
	}
	return &ConnectionDetail{Connection: conn, ConnectionSpan: connSpan, Parent: parent, Child: child}, nil
}

// UpdateInterval re-dates the connection-span and re-checks the temporal
// constraint in the same transaction, excluding the connection itself
// from the comparison set.
func (s *connectionService) UpdateInterval(ctx context.Context, id string, start, end domain.PartialDate, actor *domain.SessionContext) error {
	conn, err := s.conns.GetByID(ctx, id)
	if err != nil {
		return err
	}
	connSpan, err := s.spans.GetByID(ctx, conn.ConnectionSpanID)
	if err != nil {
		return err
	}
	grants, err := s.perms.ListBySpan(ctx, connSpan.ID)
	if err != nil {
		return err
	}
	if !domain.CanDeleteConnection(actor, connSpan, grants) {
		return domain.ErrAccessDenied
	}
	ct, err := s.types.Get(ctx, conn.Type)
	if err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSpans := repository.NewSQLiteSpanRepo(tx)
		txConns := repository.NewSQLiteConnectionRepo(tx)

		interval := domain.Interval{Start: start, End: end}
		if err := interval.Validate(); err != nil {
			return err
		}
		// Dating a placeholder promotes it; clearing the dates demotes it
		// back to placeholder, out of the checked population.
		state := domain.StateComplete
		if interval.IsTimeless() {
			state = domain.StatePlaceholder
		}
		if err := s.checkConstraint(ctx, txConns, *ct, conn.ParentID, conn.ID, interval, state); err != nil {
			return err
		}

		connSpan.Start = interval.Start
		connSpan.End = interval.End
		connSpan.StartPrecision = interval.Start.Precision()
		connSpan.EndPrecision = interval.End.Precision()
		connSpan.State = state
		connSpan.UpdaterID = actor.Actor.UserID
		connSpan.UpdatedAt = time.Now().UTC()
		return txSpans.Update(ctx, connSpan)
	})
}

// Delete removes a connection by deleting its connection-span; the
// connection row follows via the schema cascade.
func (s *connectionService) Delete(ctx context.Context, id string, actor *domain.SessionContext) error {
	conn, err := s.conns.GetByID(ctx, id)
	if err != nil {
		return err
	}
	connSpan, err := s.spans.GetByID(ctx, conn.ConnectionSpanID)
	if err != nil {
		return err
	}
	grants, err := s.perms.ListBySpan(ctx, connSpan.ID)
	if err != nil {
		return err
	}
	if !domain.CanDeleteConnection(actor, connSpan, grants) {
		return domain.ErrAccessDenied
	}
	return s.spans.Delete(ctx, connSpan.ID)
}

func (s *connectionService) ListTypes(ctx context.Context) ([]*domain.ConnectionType, error) {
	return s.types.List(ctx)
}

func (s *connectionService) checkConstraint(
	ctx context.Context,
	conns repository.ConnectionRepo,
	ct domain.ConnectionType,
	parentID, candidateConnID string,
	interval domain.Interval,
	state domain.SpanState,
) error {
	existing, err := conns.ListBySubjectAndType(ctx, parentID, ct.Type)
	if err != nil {
		return err
	}
	intervals := make([]domain.ConnectionInterval, 0, len(existing))
	for _, sc := range existing {
		if sc.ConnectionID == candidateConnID {
			continue
		}
		intervals = append(intervals, domain.ConnectionInterval{
			ConnectionID: sc.ConnectionID,
			Interval:     sc.Interval,
			State:        sc.State,
		})
	}
	candidate := domain.ConnectionInterval{ConnectionID: candidateConnID, Interval: interval, State: state}
	return domain.ValidateConstraint(ct, candidate, intervals)
}

// newPlaceholder builds the minimal span behind a named-but-unknown
// connection target. No slug, no dates; promoted later via span update.
func newPlaceholder(name string, spanType domain.SpanType, ownerID string) *domain.Span {
	if spanType == "" {
		spanType = domain.SpanPerson
	}
	now := time.Now().UTC()
	return &domain.Span{
		ID:          uuid.New().String(),
		Type:        spanType,
		Name:        name,
		State:       domain.StatePlaceholder,
		AccessLevel: domain.AccessPrivate,
		OwnerID:     ownerID,
		UpdaterID:   ownerID,
		Metadata:    domain.Metadata{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
