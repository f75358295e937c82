// Package cascade keeps parent/child collections consistent on delete.
//
// The document store has no foreign keys. Deleting a parent first removes every
// child whose foreign key points at it, then the parent itself. A failed child
// delete aborts the cascade before the parent is touched.
package cascade

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"procurement/internal/core/apperror"
	"procurement/internal/domain"
	"procurement/internal/domain/catalogs/contact"
	"procurement/internal/domain/documents/quotation"
	"procurement/pkg/logger"
)

// ParentDeleter deletes one document by id.
type ParentDeleter interface {
	Delete(ctx context.Context, id string) error
}

// ChildDeleter deletes every document matching field == value.
type ChildDeleter interface {
	DeleteByField(ctx context.Context, field string, value any) (int, error)
}

// Child is a collection that references the parent through ForeignKey.
type Child struct {
	Collection string
	ForeignKey string
	Repo       ChildDeleter
}

// Relation is a parent collection with its dependents.
type Relation struct {
	Name     string
	Parent   ParentDeleter
	Children []Child
}

// Names of the built-in relations.
const (
	SupplierContacts          = "supplier->contacts"
	PurchaseRequestQuotations = "purchase_request->quotations"
)

// Orchestrator runs cascades for the registered relations.
type Orchestrator struct {
	relations map[string]Relation
	audit     domain.AuditRecorder
}

// Config wires the repositories of the built-in relations.
type Config struct {
	Suppliers        ParentDeleter
	Contacts         ChildDeleter
	PurchaseRequests ParentDeleter
	Quotations       ChildDeleter
	Audit            domain.AuditRecorder // Optional
}

// New creates an Orchestrator with the supplier and purchase request relations.
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		relations: make(map[string]Relation, 2),
		audit:     cfg.Audit,
	}
	o.Register(Relation{
		Name:   SupplierContacts,
		Parent: cfg.Suppliers,
		Children: []Child{
			{Collection: contact.Collection, ForeignKey: contact.SupplierField, Repo: cfg.Contacts},
		},
	})
	o.Register(Relation{
		Name:   PurchaseRequestQuotations,
		Parent: cfg.PurchaseRequests,
		Children: []Child{
			{Collection: quotation.Collection, ForeignKey: quotation.PurchaseRequestField, Repo: cfg.Quotations},
		},
	})
	return o
}

// Register adds or replaces a relation.
func (o *Orchestrator) Register(rel Relation) {
	o.relations[rel.Name] = rel
}

func (o *Orchestrator) relation(name string) (Relation, error) {
	rel, ok := o.relations[name]
	if !ok {
		return Relation{}, apperror.NewInternal(fmt.Errorf("cascade relation %q is not registered", name))
	}
	return rel, nil
}

// DeleteDependents removes every child of parentID concurrently and waits for all.
// Any failure is returned as a cascade-aborted AppError.
func (o *Orchestrator) DeleteDependents(ctx context.Context, name, parentID string) (int, error) {
	rel, err := o.relation(name)
	if err != nil {
		return 0, err
	}

	var deleted atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for _, child := range rel.Children {
		g.Go(func() error {
			n, err := child.Repo.DeleteByField(gctx, child.ForeignKey, parentID)
			deleted.Add(int64(n))
			if err != nil {
				return fmt.Errorf("delete %s by %s: %w", child.Collection, child.ForeignKey, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error(ctx, "cascade aborted", "relation", name, "id", parentID, "error", err)
		return int(deleted.Load()), apperror.NewCascadeAborted(name, parentID, err)
	}

	logger.Info(ctx, "cascade dependents deleted", "relation", name, "id", parentID, "deleted", deleted.Load())
	if o.audit != nil && deleted.Load() > 0 {
		o.audit.Record(ctx, name, parentID, domain.AuditCascade, map[string]any{"deleted": deleted.Load()})
	}
	return int(deleted.Load()), nil
}

// Delete removes the dependents of parentID and then the parent.
func (o *Orchestrator) Delete(ctx context.Context, name, parentID string) error {
	rel, err := o.relation(name)
	if err != nil {
		return err
	}
	if _, err := o.DeleteDependents(ctx, name, parentID); err != nil {
		return err
	}
	if err := rel.Parent.Delete(ctx, parentID); err != nil {
		return fmt.Errorf("delete %s parent %s: %w", name, parentID, err)
	}
	return nil
}

// DeleteSupplier removes a supplier and its contacts.
func (o *Orchestrator) DeleteSupplier(ctx context.Context, supplierID string) error {
	return o.Delete(ctx, SupplierContacts, supplierID)
}

// DeletePurchaseRequest removes a purchase request and its quotations.
func (o *Orchestrator) DeletePurchaseRequest(ctx context.Context, purchaseRequestID string) error {
	return o.Delete(ctx, PurchaseRequestQuotations, purchaseRequestID)
}

// DeleteSupplierDependents removes the contacts of a supplier.
func (o *Orchestrator) DeleteSupplierDependents(ctx context.Context, supplierID string) error {
	_, err := o.DeleteDependents(ctx, SupplierContacts, supplierID)
	return err
}

// DeletePurchaseRequestDependents removes the quotations of a purchase request.
func (o *Orchestrator) DeletePurchaseRequestDependents(ctx context.Context, purchaseRequestID string) error {
	_, err := o.DeleteDependents(ctx, PurchaseRequestQuotations, purchaseRequestID)
	return err
}
