package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/haku19602/beetlefactory-back/auth"
	"github.com/haku19602/beetlefactory-back/middleware"
	"github.com/haku19602/beetlefactory-back/models"
	"github.com/haku19602/beetlefactory-back/routes"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()
	sugar := log.Sugar()

	sugar.Info("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		sugar.Fatal("❌ JWT_SECRET is not set")
	}

	// Init DB
	db := initDatabase(sugar)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.SessionToken{},
		&models.CartItem{},
		&models.LikeItem{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		sugar.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	sessions := auth.NewSessionManager(auth.NewGormTokenStore(db), auth.NewSigner(secret))

	// Gin setup
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, db, sessions, log)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	sugar.Infof("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		sugar.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection. Store connectivity is fatal at
// startup; TranslateError turns driver unique-violations into
// gorm.ErrDuplicatedKey so the handlers can map them to Conflict.
func initDatabase(sugar *zap.SugaredLogger) *gorm.DB {
	config := &gorm.Config{TranslateError: true}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), config)
		if err != nil {
			sugar.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		sugar.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}
