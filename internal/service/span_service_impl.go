package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nswan/lifeweave/internal/db"
	"github.com/nswan/lifeweave/internal/domain"
	"github.com/nswan/lifeweave/internal/repository"
)

type spanService struct {
	spans repository.SpanRepo
	conns repository.ConnectionRepo
	perms repository.PermissionRepo
	uow   db.UnitOfWork
}

func NewSpanService(spans repository.SpanRepo, conns repository.ConnectionRepo, perms repository.PermissionRepo, uow db.UnitOfWork) SpanService {
	return &spanService{spans: spans, conns: conns, perms: perms, uow: uow}
}

func (s *spanService) Create(ctx context.Context, span *domain.Span, actor *domain.SessionContext) error {
	if actor == nil {
		return domain.ErrAccessDenied
	}
	if span.ID == "" {
		span.ID = uuid.New().String()
	}
	if span.State == "" {
		span.State = domain.StateDraft
	}
	if span.AccessLevel == "" {
		span.AccessLevel = domain.AccessPrivate
	}
	if span.State != domain.StatePlaceholder {
		if span.Slug == "" {
			slug, err := s.uniqueSlug(ctx, domain.Slugify(span.Name))
			if err != nil {
				return err
			}
			span.Slug = slug
		} else if _, err := s.spans.GetBySlug(ctx, span.Slug); err == nil {
			return &domain.ValidationError{Field: "slug", Message: fmt.Sprintf("slug %q is already in use", span.Slug)}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	if span.Metadata == nil {
		span.Metadata = domain.Metadata{}
	}
	span.StartPrecision = span.Start.Precision()
	span.EndPrecision = span.End.Precision()
	span.OwnerID = actor.Actor.UserID
	span.UpdaterID = actor.Actor.UserID
	now := time.Now().UTC()
	span.CreatedAt = now
	span.UpdatedAt = now

	if err := span.Validate(); err != nil {
		return err
	}
	return s.spans.Create(ctx, span)
}

// uniqueSlug finds a free slug, suffixing derived slugs with a counter
// when two spans share a name.
func (s *spanService) uniqueSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		return "", nil
	}
	slug := base
	for n := 2; ; n++ {
		_, err := s.spans.GetBySlug(ctx, slug)
		if errors.Is(err, repository.ErrNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

func (s *spanService) GetByID(ctx context.Context, id string, viewer *domain.SessionContext) (*domain.Span, error) {
	span, err := s.spans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	grants, err := s.perms.ListBySpan(ctx, span.ID)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewSpan(viewer, span, grants) {
		return nil, domain.ErrAccessDenied
	}
	return span, nil
}

func (s *spanService) Resolve(ctx context.Context, ref string, viewer *domain.SessionContext) (*domain.Span, error) {
	if span, err := s.spans.GetBySlug(ctx, ref); err == nil {
		return s.GetByID(ctx, span.ID, viewer)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if span, err := s.spans.GetByID(ctx, ref); err == nil {
		return s.GetByID(ctx, span.ID, viewer)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// Fall back to exact name or UUID prefix among visible spans.
	all, err := s.List(ctx, "", viewer)
	if err != nil {
		return nil, err
	}
	var matches []*domain.Span
	for _, span := range all {
		if strings.EqualFold(span.Name, ref) || strings.HasPrefix(span.ID, ref) {
			matches = append(matches, span)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("span %q: %w", ref, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("span reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func (s *spanService) List(ctx context.Context, spanType domain.SpanType, viewer *domain.SessionContext) ([]*domain.Span, error) {
	all, err := s.spans.List(ctx, spanType)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(all))
	for i, span := range all {
		ids[i] = span.ID
	}
	grantsBySpan, err := s.perms.ListBySpans(ctx, ids)
	if err != nil {
		return nil, err
	}
	visible := make([]*domain.Span, 0, len(all))
	for _, span := range all {
		if domain.CanViewSpan(viewer, span, grantsBySpan[span.ID]) {
			visible = append(visible, span)
		}
	}
	return visible, nil
}

func (s *spanService) Update(ctx context.Context, span *domain.Span, actor *domain.SessionContext) error {
	existing, err := s.spans.GetByID(ctx, span.ID)
	if err != nil {
		return err
	}
	grants, err := s.perms.ListBySpan(ctx, span.ID)
	if err != nil {
		return err
	}
	if !domain.CanEditSpan(actor, existing, grants) {
		return domain.ErrAccessDenied
	}

	span.OwnerID = existing.OwnerID
	span.CreatedAt = existing.CreatedAt
	span.UpdaterID = actor.Actor.UserID
	span.UpdatedAt = time.Now().UTC()
	span.StartPrecision = span.Start.Precision()
	span.EndPrecision = span.End.Precision()
	if err := span.Validate(); err != nil {
		return err
	}
	return s.spans.Update(ctx, span)
}

// Delete removes a span and, in the same transaction, the orphaned
// connection-spans of edges that pointed at it. The connection rows
// themselves go via the schema cascade.
func (s *spanService) Delete(ctx context.Context, id string, actor *domain.SessionContext) error {
	existing, err := s.spans.GetByID(ctx, id)
	if err != nil {
		return err
	}
	grants, err := s.perms.ListBySpan(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanEditSpan(actor, existing, grants) {
		return domain.ErrAccessDenied
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSpans := repository.NewSQLiteSpanRepo(tx)
		txConns := repository.NewSQLiteConnectionRepo(tx)

		edges, err := txConns.ListBySpan(ctx, id)
		if err != nil {
			return err
		}
		if err := txSpans.Delete(ctx, id); err != nil {
			return err
		}
		for _, e := range edges {
			if e.ConnectionSpan.ID == id {
				continue
			}
			if err := txSpans.Delete(ctx, e.ConnectionSpan.ID); err != nil {
				return fmt.Errorf("removing connection span %s: %w", e.ConnectionSpan.ID, err)
			}
		}
		return nil
	})
}
