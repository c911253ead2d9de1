package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lyyn/internal/config"
	"lyyn/internal/handlers"
	"lyyn/internal/middleware"
	"lyyn/internal/models"
	"lyyn/internal/repositories"
	"lyyn/internal/services"
	"lyyn/internal/storage"
	"lyyn/pkg/rabbitmq"
)

const maxUploadBody = 20 * 1024 * 1024

// server bundles the fiber app with the connections it must release on shutdown.
type server struct {
	app         *fiber.App
	db          *gorm.DB
	mongo       *mongo.Client
	mq          *rabbitmq.Client
	authService *services.AuthService
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.DBDriver) {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	toMigrate := []interface{}{&models.User{}, &models.Order{}, &models.WishlistEntry{}}
	if cfg.ProductStore != "mongo" {
		toMigrate = append(toMigrate, &models.Product{})
	}
	if err := db.AutoMigrate(toMigrate...); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return db, nil
}

func newImageStore(ctx context.Context, cfg config.Config) (storage.ImageStore, error) {
	switch strings.ToLower(cfg.ImageStore) {
	case "s3":
		return storage.NewS3ImageStore(ctx, storage.S3Config{
			Region: cfg.AWSRegion,
			Bucket: cfg.AWSBucket,
			Prefix: "products",
		})
	case "local":
		return storage.NewLocalImageStore(cfg.UploadDir, strings.TrimRight(cfg.PublicBaseURL, "/")+"/uploads")
	default:
		return nil, fmt.Errorf("unsupported IMAGE_STORE %q", cfg.ImageStore)
	}
}

// newServer wires repositories, services and handlers into a fiber app.
func newServer(ctx context.Context, cfg config.Config) (*server, error) {
	s := &server{}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	s.db = db

	var productRepo repositories.ProductRepository
	if cfg.ProductStore == "mongo" {
		client, err := repositories.ConnectMongo(cfg.MongoURI)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.mongo = client
		productRepo = repositories.NewMongoProductRepository(client.Database(cfg.MongoDatabase))
		log.Printf("Catalog stored in MongoDB database %s", cfg.MongoDatabase)
	} else {
		productRepo = repositories.NewGORMProductRepository(db)
	}
	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	wishlistRepo := repositories.NewGORMWishlistRepository(db)

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQEnabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("RabbitMQ unavailable, order events disabled: %v", err)
		} else {
			s.mq = mqClient
			publisher = mqClient
		}
	}

	productService := services.NewProductService(productRepo, images, cfg.ProductsPageSize)
	orderService := services.NewOrderService(orderRepo, productRepo, publisher)
	wishlistService := services.NewWishlistService(wishlistRepo, productRepo)
	s.authService = services.NewAuthService(userRepo, cfg.JWTSecret)

	if cfg.SeedCatalog {
		seedProducts(productRepo)
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := s.authService.EnsureAdmin(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Printf("Failed to seed admin account: %v", err)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:   "The Lyyn API",
		BodyLimit: maxUploadBody,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: cfg.RateLimitWindow,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"message": fmt.Sprintf("Too many requests from this IP, please try again after %s", cfg.RateLimitWindow),
				})
			},
		}))
	}
	if strings.ToLower(cfg.ImageStore) == "local" {
		app.Static("/uploads", cfg.UploadDir)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("The Lyyn Backend API is Live...")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		mqStatus := "disabled"
		if s.mq != nil {
			mqStatus = "connected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitmq": mqStatus,
		})
	})

	api := app.Group("/api")
	authRequired := middleware.AuthRequired(s.authService)
	handlers.NewAuthHandler(s.authService).RegisterRoutes(api)
	handlers.NewProductHandler(productService).RegisterRoutes(api, authRequired)

	protected := api.Group("", authRequired)
	handlers.NewWishlistHandler(wishlistService).RegisterRoutes(protected)
	handlers.NewOrderHandler(orderService).RegisterRoutes(protected)

	s.app = app
	return s, nil
}

// startConsumer logs every order event delivered to the order queue.
func (s *server) startConsumer() {
	if s.mq == nil {
		return
	}
	log.Println("Starting RabbitMQ consumer for orders...")
	err := s.mq.ConsumeOrderEvents(func(msg amqp.Delivery) error {
		return services.HandleOrderEvent(msg.Body)
	})
	if err != nil {
		log.Printf("Failed to start RabbitMQ consumer: %v", err)
	}
}

// Close releases the broker, document store and database connections.
func (s *server) Close() {
	if s.mq != nil {
		if err := s.mq.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
		}
	}
	if s.mongo != nil {
		if err := s.mongo.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting MongoDB: %v", err)
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

// seedProducts fills an empty catalog with the launch collection.
func seedProducts(repo repositories.ProductRepository) {
	_, total, err := repo.GetPage(1, 1, "")
	if err != nil {
		log.Printf("Skipping catalog seed: %v", err)
		return
	}
	if total > 0 {
		return
	}

	products := []models.Product{
		{
			Name:         "Classic Cotton Tee",
			Description:  "Heavyweight combed cotton tee with a relaxed fit.",
			Price:        799,
			Category:     "Standard Tees",
			Images:       []string{"/images/classic-tee.jpg"},
			Sizes:        []models.SizeStock{{Size: "S", Stock: 12}, {Size: "M", Stock: 20}, {Size: "L", Stock: 15}, {Size: "XL", Stock: 4}},
			Colors:       []models.Color{{Name: "Black", Hex: "#000000"}, {Name: "White", Hex: "#ffffff"}},
			IsBestSeller: true,
		},
		{
			Name:           "Your Words Tee",
			Description:    "Printed with the text of your choice on the chest.",
			Price:          999,
			Category:       "Custom Tees",
			Images:         []string{"/images/custom-tee.jpg"},
			Sizes:          []models.SizeStock{{Size: "S", Stock: 8}, {Size: "M", Stock: 10}, {Size: "L", Stock: 6}},
			Colors:         append([]models.Color(nil), models.DefaultColors...),
			IsCustomizable: true,
			IsBestSeller:   true,
		},
		{
			Name:        "Cloud Knit Blanket",
			Description: "Soft knit throw blanket for the sofa.",
			Price:       2499,
			Category:    "Blankets",
			Images:      []string{"/images/cloud-blanket.jpg"},
			Sizes:       []models.SizeStock{{Size: "One Size", Stock: 9}},
			Colors:      []models.Color{{Name: "Oat", Hex: "#d8cbb3"}},
		},
	}
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
}
