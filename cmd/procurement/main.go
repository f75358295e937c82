// Package main provides the procurement administration CLI.
// Usage: procurement users
//
//	procurement make-admin <email>
//	procurement requests --email ana@example.com
//	procurement delete-supplier <supplier-id>
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"procurement/internal/app"
	"procurement/internal/config"
	"procurement/internal/core/apperror"
	appctx "procurement/internal/core/context"
	"procurement/internal/domain/auth"
	"procurement/internal/domain/catalogs/user"
	"procurement/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "help" || command == "--help" || command == "-h" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx := logger.WithLogger(context.Background(), log.WithComponent("cli"))
	ctx = appctx.WithSystemUser(appctx.EnsureTrace(ctx))

	c, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open store", "backend", cfg.Backend, "error", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warnw("failed to close store", "error", err)
		}
	}()

	switch command {
	case "users":
		err = listUsers(ctx, c)
	case "make-admin":
		err = toggleUser(ctx, c, c.Users.MakeAdmin, "is now an admin")
	case "revoke-admin":
		err = toggleUser(ctx, c, c.Users.RevokeAdmin, "is no longer an admin")
	case "block":
		err = toggleUser(ctx, c, c.Users.Block, "is blocked")
	case "unblock":
		err = toggleUser(ctx, c, c.Users.Unblock, "is unblocked")
	case "token":
		err = issueToken(ctx, c)
	case "requests":
		err = listRequests(ctx, c)
	case "request":
		err = showRequest(ctx, c)
	case "delete-supplier":
		err = deleteByID(ctx, c.Suppliers.Delete, "supplier")
	case "delete-request":
		err = deleteByID(ctx, c.PurchaseRequests.Delete, "purchase request")
	case "history":
		err = showHistory(ctx, c)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Procurement Administration CLI

Usage:
  procurement <command> [options]

Commands:
  users                      List users
  make-admin <email>         Grant the admin role
  revoke-admin <email>       Remove the admin role
  block <email>              Prevent a user from signing in
  unblock <email>            Allow a blocked user to sign in again
  token <email>              Issue a signed token for a user (provisions unknown users)
  requests [--email <e>]     List purchase requests with their status
  request <id>               Show a purchase request with product, requester and quotations
  delete-supplier <id>       Delete a supplier and its contacts
  delete-request <id>        Delete a purchase request and its quotations
  history <entity> <id>      Show the audit history of a document
  help                       Show this help

Environment Variables:
  STORE_BACKEND              memory, postgres or firestore (default memory)
  DATABASE_URL               Postgres connection string
  FIRESTORE_PROJECT_ID       Firestore project
  JWT_SECRET                 Token signing secret
  AUDIT_ENABLED              Record an audit entry per mutation (default true)

Examples:
  procurement make-admin ana@example.com
  procurement requests --email ana@example.com
  procurement history supplier <supplier-id>`)
}

func arg(i int, usage string) string {
	if len(os.Args) <= i || strings.TrimSpace(os.Args[i]) == "" {
		fmt.Printf("Usage: procurement %s\n", usage)
		os.Exit(1)
	}
	return os.Args[i]
}

func flag(name string) string {
	for i := 2; i < len(os.Args); i++ {
		if os.Args[i] == name && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}
	return ""
}

func listUsers(ctx context.Context, c *app.Container) error {
	users, err := c.Users.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	fmt.Printf("%-36s %-40s %-6s %-8s\n", "USER_ID", "EMAIL", "ADMIN", "BLOCKED")
	fmt.Println(strings.Repeat("-", 93))
	for _, u := range users {
		fmt.Printf("%-36s %-40s %-6t %-8t\n", u.ID, truncate(u.Email, 40), u.IsAdmin, u.Blocked)
	}
	return nil
}

func findUser(ctx context.Context, c *app.Container, email string) (*user.User, error) {
	u, err := c.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NewNotFound("user", email)
	}
	return u, nil
}

func toggleUser(ctx context.Context, c *app.Container, apply func(context.Context, string) error, done string) error {
	email := arg(2, os.Args[1]+" <email>")
	u, err := findUser(ctx, c, email)
	if err != nil {
		return err
	}
	if err := apply(ctx, u.ID); err != nil {
		return err
	}
	fmt.Printf("✓ %s %s\n", u.Email, done)
	return nil
}

func issueToken(ctx context.Context, c *app.Container) error {
	email := arg(2, "token <email>")
	_, session, err := c.Sessions.Resolve(ctx, auth.Principal{UID: email, Email: email})
	if err != nil {
		return err
	}
	token, expiresAt, err := c.Tokens.Issue(session.Principal)
	if err != nil {
		return err
	}
	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", expiresAt.Format("2006-01-02 15:04:05"))
	return nil
}

// listRequests lists as an admin unless --email scopes the listing to one requester.
func listRequests(ctx context.Context, c *app.Container) error {
	session := &auth.Session{User: &user.User{IsAdmin: true}}
	if email := flag("--email"); email != "" {
		u, err := findUser(ctx, c, email)
		if err != nil {
			return err
		}
		session = &auth.Session{Principal: auth.Principal{Email: u.Email}, User: u}
	}

	prs, err := c.Procurement.PurchaseRequests(ctx, session)
	if err != nil {
		return err
	}
	if len(prs) == 0 {
		fmt.Println("No purchase requests found")
		return nil
	}

	fmt.Printf("%-36s %-10s %-30s %-30s %8s %-12s\n", "REQUEST_ID", "DATE", "REQUESTER", "PRODUCT", "QTY", "STATUS")
	fmt.Println(strings.Repeat("-", 132))
	for _, pr := range prs {
		product := pr.ProductID
		if pr.Product != nil {
			product = pr.Product.Name
		}
		fmt.Printf("%-36s %-10s %-30s %-30s %8g %-12s\n",
			pr.ID, pr.RequestDate, truncate(pr.RequesterEmail, 30), truncate(product, 30), pr.Quantity, pr.Status.Label())
	}
	return nil
}

func showRequest(ctx context.Context, c *app.Container) error {
	pr, err := c.Procurement.PurchaseRequest(ctx, arg(2, "request <id>"))
	if err != nil {
		return err
	}

	fmt.Printf("Request:   %s\n", pr.ID)
	fmt.Printf("Date:      %s\n", pr.RequestDate)
	fmt.Printf("Requester: %s\n", pr.RequesterEmail)
	if pr.Product != nil {
		fmt.Printf("Product:   %s (%s)\n", pr.Product.Name, pr.Product.MeasurementUnit)
	} else {
		fmt.Printf("Product:   %s (missing)\n", pr.ProductID)
	}
	fmt.Printf("Quantity:  %g\n", pr.Quantity)
	fmt.Printf("Status:    %s\n", pr.Status.Label())

	if len(pr.Quotations) == 0 {
		return nil
	}
	fmt.Println()
	fmt.Printf("%-36s %-30s %-10s %12s\n", "QUOTATION_ID", "SUPPLIER", "DATE", "PRICE")
	for _, q := range pr.Quotations {
		supplier := q.SupplierID
		if q.Supplier != nil {
			supplier = q.Supplier.Name
		}
		fmt.Printf("%-36s %-30s %-10s %12s\n", q.ID, truncate(supplier, 30), q.QuotationDate, q.Price.StringFixed(2))
	}
	return nil
}

func deleteByID(ctx context.Context, del func(context.Context, string) error, what string) error {
	id := arg(2, os.Args[1]+" <id>")
	if err := del(ctx, id); err != nil {
		return err
	}
	fmt.Printf("✓ %s '%s' deleted\n", what, id)
	return nil
}

func showHistory(ctx context.Context, c *app.Container) error {
	entityType := arg(2, "history <entity> <id>")
	entityID := arg(3, "history <entity> <id>")
	if c.Audit == nil {
		return fmt.Errorf("auditing is disabled (AUDIT_ENABLED=false)")
	}

	entries, err := c.Audit.History(ctx, entityType, entityID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No audit entries found")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-8s %-30s %s\n", e.At, e.Action, truncate(e.Actor, 30), e.Changes)
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
