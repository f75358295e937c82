// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"procurement/internal/core/entity"
)

// --- Repository Interfaces ---

// Repository is the typed CRUD and query contract over one document collection.
// Implementations are stateless apart from the collection binding and are safe
// for concurrent use.
type Repository[T entity.Entity] interface {
	// Create writes every stored field of item and sets the store-assigned id on it.
	Create(ctx context.Context, item T) (string, error)

	// Update merges patch into the document. patch is a map or a struct with
	// pointer fields; unset entries are dropped and an empty patch writes nothing.
	Update(ctx context.Context, id string, patch any) error

	// Delete removes the document. A missing id is not an error.
	Delete(ctx context.Context, id string) error

	// GetAll returns every entity of the collection, unordered.
	GetAll(ctx context.Context) ([]T, error)

	// GetByID returns the zero value and a nil error when the id is absent.
	GetByID(ctx context.Context, id string) (T, error)

	// GetByIDs skips missing ids; order is not guaranteed.
	GetByIDs(ctx context.Context, ids []string) ([]T, error)

	// GetByField returns entities where field == value.
	GetByField(ctx context.Context, field string, value any) ([]T, error)

	// GetByFieldIn returns entities where field equals any of values.
	GetByFieldIn(ctx context.Context, field string, values []any) ([]T, error)

	// GetUniqueByField returns the single match, the zero value on no match,
	// and a duplicate AppError when more than one document matches.
	GetUniqueByField(ctx context.Context, field string, value any) (T, error)

	// CountByField counts matches on the store side.
	CountByField(ctx context.Context, field string, value any) (int, error)

	// DeleteByField deletes every match and returns how many were deleted.
	DeleteByField(ctx context.Context, field string, value any) (int, error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforePatch  HookEvent = "before_patch"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCreate registers a hook to run before create.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) {
	r.On(BeforeCreate, hook)
}

// OnAfterCreate registers a hook to run after create.
func (r *HookRegistry[T]) OnAfterCreate(hook Hook[T]) {
	r.On(AfterCreate, hook)
}

// OnBeforePatch registers a hook that receives the stored entity before an
// update patch is applied to it. Access checks belong here: BeforeUpdate hooks
// only see the patched result.
func (r *HookRegistry[T]) OnBeforePatch(hook Hook[T]) {
	r.On(BeforePatch, hook)
}

// OnBeforeUpdate registers a hook to run before update.
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) {
	r.On(BeforeUpdate, hook)
}

// OnAfterUpdate registers a hook to run after update.
func (r *HookRegistry[T]) OnAfterUpdate(hook Hook[T]) {
	r.On(AfterUpdate, hook)
}

// OnBeforeDelete registers a hook to run before delete.
func (r *HookRegistry[T]) OnBeforeDelete(hook Hook[T]) {
	r.On(BeforeDelete, hook)
}

// OnAfterDelete registers a hook to run after delete.
func (r *HookRegistry[T]) OnAfterDelete(hook Hook[T]) {
	r.On(AfterDelete, hook)
}
