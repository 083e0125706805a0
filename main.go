package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/burger-storefront/config"
	"github.com/yeremiapane/burger-storefront/content"
	"github.com/yeremiapane/burger-storefront/controllers"
	"github.com/yeremiapane/burger-storefront/database"
	"github.com/yeremiapane/burger-storefront/live"
	"github.com/yeremiapane/burger-storefront/router"
	"github.com/yeremiapane/burger-storefront/services"
	"github.com/yeremiapane/burger-storefront/utils"
)

func main() {
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.SetLevel(cfg.LogLevel)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	storage := database.NewSnapshotStore(db)

	store, err := loadContent(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load content: %v", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	// The menu is fetched once for the life of the process.
	catalog := services.NewCatalog(cfg.MenuFeedURL, httpClient)
	fetchCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	if err := catalog.FetchAll(fetchCtx); err != nil {
		utils.ErrorLogger.Errorf("Menu unavailable until restart: %v", err)
	}
	cancel()

	var events services.OrderEventPublisher
	if cfg.AMQPURL != "" {
		pub, err := services.DialOrderPublisher(cfg.AMQPURL)
		if err != nil {
			utils.ErrorLogger.Errorf("Order events disabled: %v", err)
		} else {
			defer pub.Close()
			events = pub
		}
	}

	sender := services.NewOrderSubmitter(cfg.OrderEndpointURL, httpClient)
	flows := services.NewCheckoutRegistry(func(sessionID string) *services.CheckoutFlow {
		opts := []services.CheckoutOption{
			services.WithCheckoutNotifier(services.NewFlashStore(storage, sessionID)),
		}
		if events != nil {
			opts = append(opts, services.WithOrderEvents(events))
		}
		return services.NewCheckoutFlow(sender, store, opts...)
	})

	janitor := services.NewSessionJanitor(storage, cfg.SessionTTL)
	janitor.Sweepers = append(janitor.Sweepers, flows)
	janitor.Start()
	defer janitor.Stop()

	sf := &controllers.Storefront{
		Storage: storage,
		Content: store,
		Catalog: catalog,
		Hub:     live.NewHub(),
	}
	r, err := router.SetupRouter(sf, router.Options{
		Signer:                utils.NewSessionSigner(cfg.SessionSecret, cfg.SessionTTL),
		Flows:                 flows,
		AllowOrigin:           cfg.CORSAllowOrigin,
		CheckoutRatePerMinute: cfg.CheckoutRatePerMinute,
	})
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to build router: %v", err)
	}

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

// loadContent reads CONTENT_FILE or the embedded document, then applies the
// constant overrides from the environment.
func loadContent(cfg config.Config) (*content.Store, error) {
	var (
		store *content.Store
		err   error
	)
	if cfg.ContentFile != "" {
		store, err = content.LoadFile(cfg.ContentFile)
	} else {
		store, err = content.Default()
	}
	if err != nil {
		return nil, err
	}
	store.Override(content.Overrides{
		DeliveryFee:      cfg.DeliveryFee,
		TaxRate:          cfg.TaxRate,
		CarouselInterval: cfg.CarouselInterval,
		Currency:         cfg.Currency,
	})
	return store, nil
}
