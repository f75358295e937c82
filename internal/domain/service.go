package domain

import (
	"context"
	"fmt"

	"procurement/internal/core/apperror"
	"procurement/internal/core/docstore"
	"procurement/internal/core/entity"
	"procurement/pkg/logger"
)

// AuditAction names a recorded mutation.
type AuditAction string

const (
	AuditCreate  AuditAction = "create"
	AuditUpdate  AuditAction = "update"
	AuditDelete  AuditAction = "delete"
	AuditCascade AuditAction = "cascade"
)

// AuditRecorder receives a note of every successful mutation.
// Implementations must not fail the caller; errors are theirs to log.
type AuditRecorder interface {
	Record(ctx context.Context, entityType, entityID string, action AuditAction, changes any)
}

// Normalizer is implemented by entities that canonicalize input (trim, format masks)
// before validation.
type Normalizer interface {
	Normalize()
}

// EntityService provides validation, hooks and auditing around a Repository.
type EntityService[T entity.Entity] struct {
	repo  Repository[T]
	hooks *HookRegistry[T]
	newFn func() T
	audit AuditRecorder

	// immutable document keys refused in update patches
	immutable map[string]struct{}

	// entityName for error messages and audit entries
	entityName string
}

// EntityServiceConfig configures the entity service.
type EntityServiceConfig[T entity.Entity] struct {
	Repo       Repository[T]
	NewFn      func() T
	EntityName string
	Audit      AuditRecorder // Optional

	// ImmutableFields are document keys fixed at creation. Update rejects any
	// patch that names one, whatever the patch type.
	ImmutableFields []string
}

// NewEntityService creates a new entity service.
func NewEntityService[T entity.Entity](cfg EntityServiceConfig[T]) *EntityService[T] {
	immutable := make(map[string]struct{}, len(cfg.ImmutableFields))
	for _, f := range cfg.ImmutableFields {
		immutable[f] = struct{}{}
	}
	return &EntityService[T]{
		repo:       cfg.Repo,
		hooks:      NewHookRegistry[T](),
		newFn:      cfg.NewFn,
		audit:      cfg.Audit,
		immutable:  immutable,
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *EntityService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// EntityName returns the name used in errors and audit entries.
func (s *EntityService[T]) EntityName() string {
	return s.entityName
}

func (s *EntityService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *EntityService[T]) prepare(ctx context.Context, item T) error {
	if n, ok := any(item).(Normalizer); ok {
		n.Normalize()
	}
	return s.normalizeValidationErr(item.Validate(ctx))
}

func (s *EntityService[T]) record(ctx context.Context, entityID string, action AuditAction, changes any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, s.entityName, entityID, action, changes)
}

// Create validates and stores a new entity. The store-assigned id is set on item.
func (s *EntityService[T]) Create(ctx context.Context, item T) (string, error) {
	// 1. Normalize and validate entity invariants
	if err := s.prepare(ctx, item); err != nil {
		return "", err
	}

	// 2. Run before-create hooks
	if err := s.hooks.Run(ctx, BeforeCreate, item); err != nil {
		return "", err
	}

	// 3. Store
	newID, err := s.repo.Create(ctx, item)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", s.entityName, err)
	}

	// 4. Run after-create hooks (entity is already stored)
	if err := s.hooks.Run(ctx, AfterCreate, item); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "id", newID, "error", err)
	}
	s.record(ctx, newID, AuditCreate, docstore.Encode(item))

	return newID, nil
}

// GetByID retrieves an entity, returning a not-found AppError when absent.
func (s *EntityService[T]) GetByID(ctx context.Context, entityID string) (T, error) {
	item, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return item, err
	}
	if entity.IsNil(item) {
		return item, apperror.NewNotFound(s.entityName, entityID)
	}
	return item, nil
}

// GetAll returns every entity of the collection.
func (s *EntityService[T]) GetAll(ctx context.Context) ([]T, error) {
	return s.repo.GetAll(ctx)
}

// Update applies patch on top of the stored entity, validates the result and
// writes only the patched fields. A patch naming an immutable field is refused.
// An empty patch returns the current entity without writing.
func (s *EntityService[T]) Update(ctx context.Context, entityID string, patch any) (T, error) {
	var zero T

	current, err := s.GetByID(ctx, entityID)
	if err != nil {
		return zero, err
	}

	fields := docstore.EncodePatch(patch)
	for k := range fields {
		if _, ok := s.immutable[k]; ok {
			return zero, apperror.NewBusinessRule(apperror.CodeImmutableField,
				fmt.Sprintf("%s cannot be changed after creation", k)).
				WithDetail("entity", s.entityName).
				WithDetail("field", k)
		}
	}
	if len(fields) == 0 {
		return current, nil
	}
	if err := s.hooks.Run(ctx, BeforePatch, current); err != nil {
		return zero, err
	}

	before := docstore.Encode(current)
	merged := docstore.Clone(before)
	for k, v := range fields {
		merged[k] = v
	}
	next := s.newFn()
	if err := docstore.Decode(merged, next); err != nil {
		return zero, apperror.NewValidation("invalid patch").WithCause(err)
	}
	next.SetID(entityID)

	if err := s.prepare(ctx, next); err != nil {
		return zero, err
	}
	if err := s.hooks.Run(ctx, BeforeUpdate, next); err != nil {
		return zero, err
	}

	// Write the normalized values of the patched keys only.
	encoded := docstore.Encode(next)
	write := make(docstore.Document, len(fields))
	for k := range fields {
		if v, ok := encoded[k]; ok {
			write[k] = v
		}
	}
	if err := s.repo.Update(ctx, entityID, write); err != nil {
		return zero, fmt.Errorf("update %s: %w", s.entityName, err)
	}

	if err := s.hooks.Run(ctx, AfterUpdate, next); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName, "id", entityID, "error", err)
	}
	s.record(ctx, entityID, AuditUpdate, docstore.Diff(before, write))

	return next, nil
}

// Delete removes an entity. There is no existence check: a missing id still runs
// the before-delete hooks (so dependents are cleaned up) and succeeds.
func (s *EntityService[T]) Delete(ctx context.Context, entityID string) error {
	item, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if entity.IsNil(item) {
		item = s.newFn()
		item.SetID(entityID)
	}

	if err := s.hooks.Run(ctx, BeforeDelete, item); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, entityID); err != nil {
		return fmt.Errorf("delete %s: %w", s.entityName, err)
	}

	if err := s.hooks.Run(ctx, AfterDelete, item); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", s.entityName, "id", entityID, "error", err)
	}
	s.record(ctx, entityID, AuditDelete, nil)

	return nil
}
