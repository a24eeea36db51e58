package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	freightUseCase "pipeline/src/freight/application/usecase"
	freightCache "pipeline/src/freight/infrastructure/cache"
	freightClient "pipeline/src/freight/infrastructure/client"
	freightController "pipeline/src/freight/infrastructure/controller"
	freightPersistence "pipeline/src/freight/infrastructure/persistence"
	pipelineUseCase "pipeline/src/pipeline/application/usecase"
	pipelinePort "pipeline/src/pipeline/domain/port"
	pipelineController "pipeline/src/pipeline/infrastructure/controller"
	"pipeline/src/pipeline/infrastructure/eventbus"
	pipelinePersistence "pipeline/src/pipeline/infrastructure/persistence"
	sharedConfig "pipeline/src/shared/infrastructure/config"
	"pipeline/src/shared/infrastructure/metrics"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // Driver de PostgreSQL
)

func main() {
	log.Println("🚀 Pipeline Service - Iniciando...")

	// Cargar variables de entorno desde .env si existe
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Configurar el router con Gin
	router := gin.New()

	// Agregar middlewares básicos necesarios
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configurar Prometheus metrics si está habilitado
	reg := metrics.NewRegistry()
	prometheusEnabled := sharedConfig.GetEnv("PROMETHEUS_ENABLED", "true")
	if prometheusEnabled == "true" {
		log.Println("Registering /metrics endpoint for Pipeline service")
		router.GET("/metrics", gin.WrapH(reg.Handler()))
	} else {
		log.Println("Prometheus metrics disabled for Pipeline service")
	}

	// Configurar GZIP y otros middlewares compartidos
	gzipSharedCfg := sharedConfig.DefaultSharedConfig()
	sharedConfig.SetupSharedMiddleware(router, gzipSharedCfg)

	// Obtener configuración de la base de datos de variables de entorno
	dbHost := sharedConfig.GetEnv("DB_HOST", "localhost")
	dbPort := sharedConfig.GetEnv("DB_PORT", "5432")
	dbUser := sharedConfig.GetEnv("DB_USER", "postgres")
	dbPassword := sharedConfig.GetEnv("DB_PASSWORD", "postgres")
	dbName := sharedConfig.GetEnv("DB_NAME", "pipeline_db")

	// Crear string de conexión para pipeline_db
	connStr := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=disable"
	log.Printf("Intentando conectar a pipeline_db: %s", connStr)

	// Conectar a la base de datos (opcional para bootstrap)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Printf("⚠️  Advertencia: Error al conectar a la base de datos: %v", err)
		log.Println("⚠️  Continuando sin DB (solo health check)")
		db = nil
	} else {
		defer db.Close()
		// Comprobar la conexión
		err = db.Ping()
		if err != nil {
			log.Printf("⚠️  Advertencia: Error al verificar la conexión a la base de datos: %v", err)
			log.Println("⚠️  Continuando sin DB (solo health check)")
			db = nil
		} else {
			log.Println("✅ Conexión a pipeline_db establecida con éxito")
		}
	}

	// Configurar publisher de eventos de dominio (Kafka, opcional)
	var publisher pipelinePort.EventPublisher
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers != "" {
		kafkaTopic := sharedConfig.GetEnv("KAFKA_TOPIC", "pipeline.events")
		kafkaPublisher := eventbus.NewKafkaPublisher(kafkaBrokers, kafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("✅ Kafka publisher configurado: brokers=%s topic=%s", kafkaBrokers, kafkaTopic)
	} else {
		log.Println("⚠️  KAFKA_BROKERS no configurado, eventos de dominio deshabilitados")
	}

	// Health check endpoints
	healthHandler := func(ctx *gin.Context) {
		dbStatus := "disconnected"
		if db != nil {
			if err := db.Ping(); err == nil {
				dbStatus = "connected"
			}
		}
		ctx.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   "pipeline-service",
			"database":  dbStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
	router.GET("/health", healthHandler)

	// API v1 grupo de rutas
	v1 := router.Group("/api/v1")
	v1.GET("/health", healthHandler)

	// Configurar módulos de negocio
	setupPipelineModule(v1, db, publisher, reg)
	setupFreightModule(v1, db, publisher, reg)

	// Iniciar el servidor
	port := sharedConfig.GetEnv("PORT", "8080")
	log.Printf("✅ Servidor Pipeline Service iniciado en http://localhost:%s", port)
	log.Printf("✅ Health endpoint: GET http://localhost:%s/health", port)
	router.Run(":" + port)
}

// setupPipelineModule configura el módulo Pipeline (oportunidades e items)
func setupPipelineModule(router *gin.RouterGroup, db *sql.DB, publisher pipelinePort.EventPublisher, reg *metrics.Registry) {
	log.Println("Configurando módulo Pipeline...")

	// Crear repositorios
	var opportunityRepo pipelinePort.OpportunityRepository
	if db != nil {
		opportunityRepo = pipelinePersistence.NewOpportunityPostgresRepository(db)
	} else {
		log.Println("⚠️  Módulo Pipeline sin DB: las rutas responderán 500")
	}

	// Crear casos de uso
	createOpportunityUC := pipelineUseCase.NewCreateOpportunityUseCase(opportunityRepo)
	getOpportunityUC := pipelineUseCase.NewGetOpportunityUseCase(opportunityRepo)
	listOpportunitiesUC := pipelineUseCase.NewListOpportunitiesUseCase(opportunityRepo)
	batchUpdateItemsUC := pipelineUseCase.NewBatchUpdateItemsUseCase(opportunityRepo, publisher, reg)

	// Crear controladores y registrar rutas
	opportunityCtrl := pipelineController.NewOpportunityController(createOpportunityUC, getOpportunityUC, listOpportunitiesUC, batchUpdateItemsUC)
	opportunityCtrl.RegisterRoutes(router)

	dailyReportUC := pipelineUseCase.NewDailyReportUseCase(db)
	reportCtrl := pipelineController.NewReportController(dailyReportUC)
	reportCtrl.RegisterRoutes(router)

	log.Println("Módulo Pipeline configurado exitosamente")
}

// setupFreightModule configura el módulo Freight (cotización y prorrateo)
func setupFreightModule(router *gin.RouterGroup, db *sql.DB, publisher pipelinePort.EventPublisher, reg *metrics.Registry) {
	log.Println("Configurando módulo Freight...")

	// Inicializar cache de transportistas
	var carrierCache *freightCache.CarrierCache
	if db != nil {
		carrierCache = freightCache.NewCarrierCache()
		if err := carrierCache.LoadFromDB(db); err != nil {
			log.Printf("⚠️  Warning: Could not load carriers cache: %v", err)
			carrierCache = nil
		}
	} else {
		log.Println("⚠️  Carrier cache disabled (no DB connection)")
	}

	// Crear cliente del gateway EDI para cotizaciones
	carrierClient := freightClient.NewCarrierClient()

	// Crear repositorios
	var opportunityRepo pipelinePort.OpportunityRepository
	var allocationRepo *freightPersistence.FreightPostgresRepository
	if db != nil {
		opportunityRepo = pipelinePersistence.NewOpportunityPostgresRepository(db)
		allocationRepo = freightPersistence.NewFreightPostgresRepository(db)
	}

	// Crear casos de uso
	quoteFreightUC := freightUseCase.NewQuoteFreightUseCase(opportunityRepo, carrierClient)
	confirmFreightUC := freightUseCase.NewConfirmFreightUseCase(opportunityRepo, allocationRepo, carrierCache, publisher, reg)

	// Crear controladores y registrar rutas
	freightCtrl := freightController.NewFreightController(quoteFreightUC, confirmFreightUC)
	freightCtrl.RegisterRoutes(router)

	log.Println("Módulo Freight configurado exitosamente")
}
