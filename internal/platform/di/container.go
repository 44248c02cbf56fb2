// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"

	"tienda/internal/adapters/in/http/middleware"
	storehttp "tienda/internal/adapters/in/http/store"
	storeHandler "tienda/internal/adapters/in/http/store/handler"
	pgrepo "tienda/internal/adapters/out/db"
	fsrepo "tienda/internal/adapters/out/firestore"
	gcsadapter "tienda/internal/adapters/out/gcs"
	mailadapter "tienda/internal/adapters/out/mail"
	query "tienda/internal/application/query"
	usecase "tienda/internal/application/usecase"
	orderdom "tienda/internal/domain/order"
	"tienda/internal/infra/config"
	firestoreinfra "tienda/internal/infra/firestore"
)

// Container bundles everything main.go needs: the routed handler chain and
// the pieces that must be shut down in order.
type Container struct {
	// Handler is the full middleware chain (Recover > CORS > auth > routes).
	Handler http.Handler

	// Carts must be closed before the process exits so pending debounced
	// writes are flushed.
	Carts *usecase.CartUsecase

	cleanupFn []func()
}

// Close flushes the cart engine and releases external connections.
func (c *Container) Close() {
	if c.Carts != nil {
		c.Carts.Close()
	}
	for _, fn := range c.cleanupFn {
		fn()
	}
}

// Build wires repositories, usecases and handlers.
func Build(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	container := &Container{}

	// ------------------------------------------------------------
	// 1. External resources (Firestore / Firebase / GCS / PG / SendGrid)
	// ------------------------------------------------------------

	fsw, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("init firestore: %w", err)
	}
	container.cleanupFn = append(container.cleanupFn, func() { _ = fsw.Close() })

	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID})
	if err != nil {
		return nil, nil, fmt.Errorf("init firebase app: %w", err)
	}
	authClient, err := fbApp.Auth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("init firebase auth: %w", err)
	}

	var imageResolver query.ImageURLResolver
	if bucket := strings.TrimSpace(cfg.GCSBucket); bucket != "" {
		gcsClient, gcsErr := storage.NewClient(ctx)
		if gcsErr != nil {
			log.Printf("[di] WARN: gcs client init failed, image urls disabled: %v", gcsErr)
		} else {
			container.cleanupFn = append(container.cleanupFn, func() { _ = gcsClient.Close() })
			imageResolver = gcsadapter.NewProductImageResolverGCS(gcsClient, bucket)
		}
	}

	// Order read model: Firestore by default, PostgreSQL when a DSN is set.
	var orderRepo orderdom.Repository = fsrepo.NewOrderRepositoryFS(fsw.Client)
	if dsn := strings.TrimSpace(cfg.OrdersPGDSN); dsn != "" {
		sqlDB, pgErr := pgrepo.Open(ctx, dsn)
		if pgErr != nil {
			return nil, nil, fmt.Errorf("open orders pg: %w", pgErr)
		}
		container.cleanupFn = append(container.cleanupFn, func() { _ = sqlDB.Close() })
		orderRepo = pgrepo.NewOrderRepositoryPG(sqlDB)
		log.Printf("[di] order read model: postgresql")
	}

	var mailer usecase.OrderMailer
	apiKey := strings.TrimSpace(cfg.SendGridAPIKey)
	if apiKey == "" && strings.TrimSpace(cfg.SendGridSecretName) != "" {
		apiKey, err = fetchSecretSM(ctx, cfg.SendGridSecretName)
		if err != nil {
			log.Printf("[di] WARN: sendgrid key lookup failed, mail disabled: %v", err)
			apiKey = ""
		}
	}
	if apiKey != "" && strings.TrimSpace(cfg.MailFrom) != "" {
		mailer = mailadapter.NewOrderMailer(mailadapter.NewSendGridClient(apiKey, ""), cfg.MailFrom)
	} else {
		log.Printf("[di] order confirmation mail disabled (missing api key or MAIL_FROM)")
	}

	// ------------------------------------------------------------
	// 2. Repositories
	// ------------------------------------------------------------

	cartRepo := fsrepo.NewCartRepositoryFS(fsw.Client)
	productRepo := fsrepo.NewProductRepositoryFS(fsw.Client)
	stockReader := fsrepo.NewStockReaderFS(fsw.Client)
	committer := fsrepo.NewCheckoutRepositoryFS(fsw.Client)
	latch := fsrepo.NewMigrationLatchFS(fsw.Client)

	// ------------------------------------------------------------
	// 3. Usecases
	// ------------------------------------------------------------

	cartUC := usecase.NewCartUsecase(cartRepo, stockReader)
	container.Carts = cartUC

	checkoutUC := usecase.NewCheckoutUsecase(cartUC, committer, mailer)
	migrationUC := usecase.NewCartMigrationUsecase(cartUC, cartRepo, latch)
	orderUC := usecase.NewOrderUsecase(orderRepo)
	catalogQ := query.NewCatalogQuery(productRepo, imageResolver)

	// ------------------------------------------------------------
	// 4. HTTP handlers and middleware chain
	// ------------------------------------------------------------

	mux := http.NewServeMux()
	storehttp.Register(mux, storehttp.Deps{
		Cart:     storeHandler.NewCartHandler(cartUC, migrationUC),
		Checkout: storeHandler.NewCheckoutHandler(checkoutUC),
		Order:    storeHandler.NewOrderHandler(orderUC),
		Catalog:  storeHandler.NewCatalogHandler(catalogQ),
	})

	auth := &middleware.OptionalAuth{FirebaseAuth: authClient}
	cors := middleware.CORS(cfg.AllowedOrigin)
	container.Handler = middleware.Recover(cors(auth.Handler(mux)))

	cleanup := func() { container.Close() }
	return container, cleanup, nil
}
