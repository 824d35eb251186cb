// @title           Shipping Rates API
// @version         1.0
// @description     Shipping rate and delivery option resolution backend - quote, zone, slab, rate and option endpoints.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	"backend/handlers"
	"backend/services"
	"backend/storage"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origins)
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding", "X-XSRF-TOKEN",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Authorization", "Content-Type", "Content-Disposition",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

func main() {
	db := storage.InitDB()
	gormDB := storage.InitGormDB()

	// Wire the quote engine over the SQL config store
	services.InitQuoteEngine(storage.NewSQLConfigStore(db))

	// Nightly maintenance: drop stale sessions, log cache churn
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)
	_, err := c.AddFunc("30 2 * * *", func() {
		log.Println("Starting nightly maintenance cron job")
		if err := storage.CleanupExpiredSessions(db); err != nil {
			log.Printf("CleanupExpiredSessions failed: %v", err)
		}
		if cache := services.ConfigCache(); cache != nil {
			log.Printf("Config cache generations: %v", cache.Generations())
		}
		log.Println("Nightly maintenance cron job completed")
	})
	if err != nil {
		log.Fatalf("Failed to schedule maintenance cron job: %v", err)
	}
	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))

	// ==================== 1. AUTH & LOGIN ====================
	r.POST("/api/login", handlers.LoginHandler(db))
	r.POST("/api/validate-session", handlers.ValidateSession(db))
	r.POST("/api/logout", handlers.LogoutHandler(db))

	// ==================== 2. PUBLIC QUOTE ====================
	r.POST("/api/shipping/quote", handlers.GetShippingQuote())

	// ==================== 3. ZONES ====================
	r.POST("/api/zones", handlers.CreateZoneEntry(db))
	r.GET("/api/zones", handlers.GetZoneEntries(db))
	r.GET("/api/zones/export", handlers.ExportZones(db))
	r.POST("/api/zones/import", handlers.ImportZones(db))
	r.GET("/api/zones/:pincode", handlers.GetZoneEntryByPincode(db))
	r.PUT("/api/zones/id/:id", handlers.UpdateZoneEntry(db))
	r.DELETE("/api/zones/id/:id", handlers.DeleteZoneEntry(db))

	// ==================== 4. WEIGHT SLABS ====================
	r.POST("/api/weight-slabs", handlers.CreateWeightSlab(db))
	r.GET("/api/weight-slabs", handlers.GetWeightSlabs(db))
	r.PUT("/api/weight-slabs/:id", handlers.UpdateWeightSlab(db))
	r.DELETE("/api/weight-slabs/:id", handlers.DeleteWeightSlab(db))

	// ==================== 5. ZONE RATES ====================
	r.POST("/api/zone-rates", handlers.CreateZoneRate(db))
	r.GET("/api/zone-rates", handlers.GetZoneRates(db))
	r.PUT("/api/zone-rates/:id", handlers.UpdateZoneRate(db))
	r.DELETE("/api/zone-rates/:id", handlers.DeleteZoneRate(db))

	// ==================== 6. DELIVERY OPTIONS ====================
	r.POST("/api/delivery-options", handlers.CreateDeliveryOption(db))
	r.GET("/api/delivery-options", handlers.GetDeliveryOptions(db))
	r.PUT("/api/delivery-options/sort-order", handlers.UpdateDeliveryOptionSortOrder(db, gormDB))
	r.POST("/api/delivery-options/test", handlers.TestDeliveryOption(db))
	r.GET("/api/delivery-options/:id", handlers.GetDeliveryOptionByID(db))
	r.PUT("/api/delivery-options/:id", handlers.UpdateDeliveryOption(db))
	r.DELETE("/api/delivery-options/:id", handlers.DeleteDeliveryOption(db))

	// ==================== 7. RATE CARDS ====================
	r.GET("/api/rate-card/:courier/pdf", handlers.GenerateRateCard(db))

	// ==================== 8. SWAGGER ====================
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	// Get port from environment variable or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}

	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
