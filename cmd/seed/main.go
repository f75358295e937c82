// Package main provides a CLI tool for seeding the document store with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"procurement/internal/app"
	"procurement/internal/config"
	appctx "procurement/internal/core/context"
	"procurement/internal/core/types"
	"procurement/internal/domain/auth"
	"procurement/internal/domain/catalogs/contact"
	"procurement/internal/domain/catalogs/product"
	"procurement/internal/domain/catalogs/supplier"
	"procurement/internal/domain/documents/purchase_request"
	"procurement/internal/domain/documents/quotation"
	"procurement/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx := logger.WithLogger(context.Background(), log.WithComponent("seed"))
	ctx = appctx.WithSystemUser(appctx.EnsureTrace(ctx))

	c, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open store", "backend", cfg.Backend, "error", err)
	}
	defer c.Close()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@procurement.local"
	}

	if err := seedAdminUser(ctx, c, log, adminEmail); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, c, log, adminEmail); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, c *app.Container, log *logger.Logger, email string) error {
	_, session, err := c.Sessions.Resolve(ctx, auth.Principal{UID: email, Email: email})
	if err != nil {
		return fmt.Errorf("resolve admin: %w", err)
	}
	if session.IsAdmin() {
		log.Infow("admin user already exists", "email", email, "user_id", session.User.ID)
		return nil
	}
	if err := c.Users.MakeAdmin(ctx, session.User.ID); err != nil {
		return fmt.Errorf("grant admin: %w", err)
	}
	log.Infow("admin user created", "email", email, "user_id", session.User.ID)
	return nil
}

type supplierSeed struct {
	name, taxDocument, city, state, postalCode string
	contacts                                   [][3]string // name, email, phone
}

type productSeed struct {
	name, description string
	unit              product.MeasurementUnit
}

func seedDemoData(ctx context.Context, c *app.Container, log *logger.Logger, requester string) error {
	existing, err := c.Products.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Infow("demo data already present, skipping", "products", len(existing))
		return nil
	}

	log.Info("seeding demo data...")

	// 1. Suppliers and their contacts
	suppliers := []supplierSeed{
		{"Casa do Construtor", "12345678000199", "Curitiba", "PR", "80010000",
			[][3]string{{"Ana Souza", "ana@casadoconstrutor.com.br", "(41) 99999-0000"}}},
		{"Ferragens Paraná", "98765432000110", "Londrina", "PR", "86010000",
			[][3]string{{"Bruno Lima", "bruno@ferragenspr.com.br", "(43) 98888-7777"}, {"Carla Dias", "carla@ferragenspr.com.br", "(43) 3333-4444"}}},
		{"Madeireira Sul", "11222333000144", "Joinville", "SC", "89201000", nil},
	}

	supplierIDs := make([]string, 0, len(suppliers))
	for _, s := range suppliers {
		sid, err := c.Suppliers.Create(ctx,
			supplier.NewSupplier(s.name, supplier.TypeOrganization, s.taxDocument, s.city, s.state, s.postalCode))
		if err != nil {
			return fmt.Errorf("supplier %s: %w", s.name, err)
		}
		supplierIDs = append(supplierIDs, sid)

		for _, ct := range s.contacts {
			if _, err := c.Contacts.Create(ctx, contact.NewContact(ct[0], ct[1], ct[2], sid)); err != nil {
				return fmt.Errorf("contact %s: %w", ct[0], err)
			}
		}
	}
	log.Infow("suppliers seeded", "count", len(supplierIDs))

	// 2. Products
	products := []productSeed{
		{"Cimento CP-II", "Saco 50kg", product.UnitPiece},
		{"Areia média", "Lavada", product.UnitCubicMeter},
		{"Vergalhão 10mm", "CA-50, barra 12m", product.UnitPiece},
		{"Tinta acrílica", "Branco neve, lata 18L", product.UnitLiter},
	}

	productIDs := make([]string, 0, len(products))
	for _, p := range products {
		pid, err := c.Products.Create(ctx, product.NewProduct(p.name, p.description, p.unit))
		if err != nil {
			return fmt.Errorf("product %s: %w", p.name, err)
		}
		productIDs = append(productIDs, pid)
	}
	log.Infow("products seeded", "count", len(productIDs))

	// 3. Purchase requests with one to three quotations each
	prices := []string{"32.90", "31.50", "34,10"}
	for i, pid := range productIDs[:3] {
		prID, err := c.PurchaseRequests.Create(ctx, purchase_request.NewPurchaseRequest(requester, pid, float64(10*(i+1))))
		if err != nil {
			return fmt.Errorf("purchase request: %w", err)
		}
		for q := 0; q < i+1 && q < len(supplierIDs); q++ {
			price, err := types.NewMoneyFromString(prices[q])
			if err != nil {
				return err
			}
			if _, err := c.Quotations.Create(ctx, quotation.NewQuotation(prID, supplierIDs[q], price)); err != nil {
				return fmt.Errorf("quotation: %w", err)
			}
		}
		log.Infow("purchase request seeded", "id", prID, "quotations", i+1)
	}

	return nil
}
