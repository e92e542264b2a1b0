package main

import (
	"log"
	"time"

	"eduledger/config"
	certificateControllers "eduledger/controllers/certificate"
	governanceControllers "eduledger/controllers/governance"
	"eduledger/database"
	"eduledger/gateways"
	"eduledger/governance"
	"eduledger/governance/executor"
	governanceStore "eduledger/governance/store"
	"eduledger/ledger"
	ledgerStore "eduledger/ledger/store"
	authRoutes "eduledger/routers/authRoutes"
	certificateRoutes "eduledger/routers/certificateRoutes"
	governanceRoutes "eduledger/routers/governanceRoutes"
	"eduledger/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	db := database.Database.Db

	// Gateways the ledger core consults for platform facts
	identity := gateways.NewDbIdentity(db)
	var courses gateways.CourseAttainment = gateways.NewDbCourseAttainment(db)
	if config.AppConfig.CourseServiceURL != "" {
		log.Println("Using remote course service at " + config.AppConfig.CourseServiceURL)
		courses = gateways.NewRemoteCourseAttainment(config.AppConfig.CourseServiceURL, config.AppConfig.CourseServiceKey)
	}

	// Certificate ledger
	certificateControllers.Init(ledger.NewService(ledgerStore.NewGormStore(db), identity, courses))

	// Governance registry
	governanceConfig := &governance.Config{
		VotingWindow:      time.Duration(config.AppConfig.VotingWindowHours) * time.Hour,
		MinProposalWeight: uint64(config.AppConfig.MinProposalWeight),
		DefaultQuorum:     uint(config.AppConfig.DefaultQuorum),
		DefaultApproval:   uint(config.AppConfig.DefaultApproval),
	}
	governanceService := governance.NewService(
		governanceStore.NewGormStore(db),
		identity,
		executor.NewExecutor(db, governanceConfig),
		governanceConfig,
	)
	governanceControllers.Init(governanceService)

	// Deadline sweep (proposals also advance lazily on access)
	utils.StartGovernanceScheduler(governanceService)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	governanceRoutes.SetupGovernanceRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
