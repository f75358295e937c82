// Package app wires stores, repositories and services into one container
// shared by the command line tools.
package app

import (
	"context"
	"fmt"

	"procurement/internal/config"
	"procurement/internal/core/docstore"
	"procurement/internal/domain"
	"procurement/internal/domain/audit"
	"procurement/internal/domain/auth"
	"procurement/internal/domain/cascade"
	"procurement/internal/domain/catalogs/contact"
	"procurement/internal/domain/catalogs/product"
	"procurement/internal/domain/catalogs/supplier"
	"procurement/internal/domain/catalogs/user"
	"procurement/internal/domain/documents/purchase_request"
	"procurement/internal/domain/documents/quotation"
	"procurement/internal/domain/procurement"
	"procurement/internal/domain/relations"
	"procurement/internal/infrastructure/identity"
	"procurement/internal/infrastructure/storage/document_repo"
	"procurement/internal/infrastructure/storage/firestore"
	"procurement/internal/infrastructure/storage/memory"
	"procurement/internal/infrastructure/storage/postgres"
	"procurement/pkg/logger"
)

// Repositories groups the document repositories.
type Repositories struct {
	Suppliers        *document_repo.SupplierRepo
	Contacts         *document_repo.ContactRepo
	Products         *document_repo.ProductRepo
	Users            *document_repo.UserRepo
	PurchaseRequests *document_repo.PurchaseRequestRepo
	Quotations       *document_repo.QuotationRepo
}

// Container holds everything a process needs.
type Container struct {
	Store docstore.Store
	Repos Repositories

	Cascade  *cascade.Orchestrator
	Resolver *relations.Resolver
	Statuses *purchase_request.StatusEngine
	Audit    *audit.Recorder // nil when auditing is disabled

	Suppliers        *supplier.Service
	Contacts         *contact.Service
	Products         *product.Service
	Users            *user.Service
	PurchaseRequests *purchase_request.Service
	Quotations       *quotation.Service
	Procurement      *procurement.Service

	Tokens   *identity.JWTProvider
	Sessions *auth.SessionResolver
}

// OpenStore connects the document store selected by cfg.Backend.
func OpenStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nil

	case config.BackendPostgres:
		poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
		if cfg.DatabaseMaxConns > 0 {
			poolCfg.MaxConns = cfg.DatabaseMaxConns
		}
		if cfg.DatabaseMinConns > 0 {
			poolCfg.MinConns = cfg.DatabaseMinConns
		}
		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			return nil, err
		}
		store := postgres.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return store, nil

	case config.BackendFirestore:
		return firestore.New(ctx, firestore.Config{
			ProjectID:       cfg.FirestoreProjectID,
			CredentialsFile: cfg.FirestoreCredentialsFile,
		})

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// New opens the configured store and builds a Container on it.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "document store ready", "backend", cfg.Backend)

	c, err := Build(store, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return c, nil
}

// Build wires the container on an already open store.
func Build(store docstore.Store, cfg *config.Config) (*Container, error) {
	c := &Container{
		Store: store,
		Repos: Repositories{
			Suppliers:        document_repo.NewSupplierRepo(store),
			Contacts:         document_repo.NewContactRepo(store),
			Products:         document_repo.NewProductRepo(store),
			Users:            document_repo.NewUserRepo(store),
			PurchaseRequests: document_repo.NewPurchaseRequestRepo(store),
			Quotations:       document_repo.NewQuotationRepo(store),
		},
	}
	r := c.Repos

	// Left as a nil interface when disabled; a typed nil would be called.
	var recorder domain.AuditRecorder
	if cfg.AuditEnabled {
		rec, err := audit.NewRecorder(store)
		if err != nil {
			return nil, err
		}
		c.Audit = rec
		recorder = rec
	}

	c.Cascade = cascade.New(cascade.Config{
		Suppliers:        r.Suppliers,
		Contacts:         r.Contacts,
		PurchaseRequests: r.PurchaseRequests,
		Quotations:       r.Quotations,
		Audit:            recorder,
	})
	c.Resolver = relations.NewResolver(r.Suppliers, r.Products, r.Users, r.Quotations)
	c.Statuses = purchase_request.NewStatusEngine(r.Quotations)

	c.Suppliers = supplier.NewService(r.Suppliers, c.Cascade, recorder)
	c.Contacts = contact.NewService(r.Contacts, r.Suppliers, recorder)
	c.Products = product.NewService(r.Products, recorder)
	c.Users = user.NewService(r.Users, recorder)
	c.PurchaseRequests = purchase_request.NewService(purchase_request.ServiceConfig{
		Repo:       r.PurchaseRequests,
		Products:   r.Products,
		Dependents: c.Cascade,
		Audit:      recorder,
	})
	c.Quotations = quotation.NewService(quotation.ServiceConfig{
		Repo:             r.Quotations,
		PurchaseRequests: r.PurchaseRequests,
		Suppliers:        r.Suppliers,
		Audit:            recorder,
	})
	c.Procurement = procurement.NewService(procurement.Config{
		PurchaseRequests: r.PurchaseRequests,
		Contacts:         r.Contacts,
		Quotations:       r.Quotations,
		Resolver:         c.Resolver,
		Statuses:         c.Statuses,
	})

	jwtCfg := identity.DefaultJWTConfig(cfg.JWTSecret)
	if cfg.JWTIssuer != "" {
		jwtCfg.Issuer = cfg.JWTIssuer
	}
	c.Tokens = identity.NewJWTProvider(jwtCfg)
	c.Sessions = auth.NewSessionResolver(c.Users, c.Tokens)

	return c, nil
}

// Close releases the audit codecs and the store.
func (c *Container) Close() error {
	if c.Audit != nil {
		c.Audit.Close()
	}
	return c.Store.Close()
}
