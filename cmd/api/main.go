package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"imogest/internal/config"
	"imogest/internal/database"
	"imogest/internal/middleware"
	"imogest/internal/modules/auth"
	"imogest/internal/modules/declaration"
	"imogest/internal/modules/monday"
	"imogest/internal/modules/notification"
	"imogest/internal/modules/provider"
	"imogest/internal/modules/workflow"
	jwtsvc "imogest/internal/pkg/jwt"
	"imogest/internal/pkg/mailer"
	"imogest/internal/pkg/response"
	"imogest/internal/pkg/smsgw"
	"imogest/internal/pkg/upload"
	"imogest/internal/push"
	"imogest/internal/repository"
	"imogest/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Remote store is optional; a failed connect just means local-only
	// mode from the start.
	var remoteDB *gorm.DB
	if cfg.DatabaseURL != "" {
		remoteDB, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("remote store unavailable: %v", err)
			remoteDB = nil
		}
	}

	localDB, err := database.Connect(cfg.LocalDBPath)
	if err != nil {
		log.Fatal(err)
	}

	localDecls := repository.NewDeclarationRepository(localDB)
	localNotifs := repository.NewNotificationRepository(localDB)
	localPrefs := repository.NewPreferenceRepository(localDB)
	// Webhook registrations always live locally so they are still known
	// after a restart during a remote outage.
	webhookRepo := repository.NewWebhookRepository(localDB)

	var remoteDecls *repository.DeclarationRepository
	var remoteNotifs *repository.NotificationRepository
	var remotePrefs *repository.PreferenceRepository
	if remoteDB != nil {
		remoteDecls = repository.NewDeclarationRepository(remoteDB)
		remoteNotifs = repository.NewNotificationRepository(remoteDB)
		remotePrefs = repository.NewPreferenceRepository(remoteDB)
	}

	// Providers and accounts are back-office data; they live on the
	// remote store when one is configured and are not dual-written.
	adminDB := localDB
	if remoteDB != nil {
		adminDB = remoteDB
	}
	providerRepo := repository.NewProviderRepository(adminDB)
	userRepo := repository.NewUserRepository(adminDB)

	migrators := []store.Migrator{localDecls, localNotifs, localPrefs, webhookRepo}
	if remoteDB == nil {
		migrators = append(migrators, providerRepo, userRepo)
	}
	health := store.NewHealth(remoteDB, migrators...)
	mode := health.Check(context.Background())
	log.Printf("store mode=%s", mode)

	declStore := newDeclStore(remoteDecls, localDecls, health)
	notifStore := newNotifStore(remoteNotifs, localNotifs, health)
	prefStore := newPrefStore(remotePrefs, localPrefs, health)

	media := upload.New(cfg.UploadDir, cfg.PublicBaseURL)
	if err := media.Ensure(); err != nil {
		log.Fatal(err)
	}

	hub := push.NewHub()
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	sms := smsgw.New(cfg.SMSGatewayURL, cfg.SMSGatewayKey, cfg.SMSSenderID, cfg.SMSTimeout)

	notifService := notification.NewService(notifStore, prefStore, mail, sms, push.NewNotifier(hub))
	notifHandler := notification.NewHandler(notifService)

	mondayClient := monday.NewClient(cfg.MondayAPIURL, cfg.MondayAPIKey)
	mondayService := monday.NewService(
		mondayClient,
		monday.NewDeclarationBoard(cfg.MondayBoardID),
		monday.NewTechBoard(cfg.MondayTechBoardID),
		declStore,
		webhookRepo,
	)
	mondayHandler := monday.NewHandler(mondayService)

	declService := declaration.NewService(declStore, notifService, media, mondayService)
	declHandler := declaration.NewHandler(declService)

	workflowService := workflow.NewService(declStore, providerRepo, notifService, mondayService)
	workflowHandler := workflow.NewHandler(workflowService)

	providerService := provider.NewService(providerRepo)
	providerHandler := provider.NewHandler(providerService)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.Static("/media", media.Dir())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		declHandler.RegisterPublicRoutes(v1)
		v1.GET("/health", func(c *gin.Context) {
			response.Success(c, http.StatusOK, gin.H{
				"mode":       health.Mode().String(),
				"checked_at": health.CheckedAt(),
			})
		})

		// authenticated (any role): real-time push stream
		session := v1.Group("/")
		session.Use(middleware.Auth(j))
		{
			session.GET("/ws", func(c *gin.Context) {
				if err := hub.Serve(c.Writer, c.Request, c.GetInt64("user_id")); err != nil {
					log.Printf("ws upgrade_failed error=%q", err)
				}
			})
		}

		// back office
		admin := v1.Group("/")
		admin.Use(middleware.Auth(j), middleware.AdminOnly())
		{
			declHandler.RegisterAdminRoutes(admin)
			workflowHandler.RegisterRoutes(admin)
			notifHandler.RegisterRoutes(admin)
			providerHandler.RegisterRoutes(admin)
			mondayHandler.RegisterRoutes(admin)

			admin.POST("/health/check", func(c *gin.Context) {
				m := health.Check(c.Request.Context())
				response.Success(c, http.StatusOK, gin.H{
					"mode":       m.String(),
					"checked_at": health.CheckedAt(),
				})
			})
		}
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}

// Typed nils must not leak into the fallback stores' interfaces.
func newDeclStore(remote *repository.DeclarationRepository, local *repository.DeclarationRepository, h *store.Health) *store.DeclarationStore {
	if remote == nil {
		return store.NewDeclarationStore(nil, local, h)
	}
	return store.NewDeclarationStore(remote, local, h)
}

func newNotifStore(remote *repository.NotificationRepository, local *repository.NotificationRepository, h *store.Health) *store.NotificationStore {
	if remote == nil {
		return store.NewNotificationStore(nil, local, h)
	}
	return store.NewNotificationStore(remote, local, h)
}

func newPrefStore(remote *repository.PreferenceRepository, local *repository.PreferenceRepository, h *store.Health) *store.PreferenceStore {
	if remote == nil {
		return store.NewPreferenceStore(nil, local, h)
	}
	return store.NewPreferenceStore(remote, local, h)
}
