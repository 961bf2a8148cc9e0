package bootstrap

import (
	"context"
	"log"

	"counseling-be/internal/config"
	"counseling-be/internal/consultingtype"
	"counseling-be/internal/controller"
	"counseling-be/internal/pkg/logger"
	"counseling-be/internal/pkg/mailer"
	"counseling-be/internal/repository/unitofwork"
	"counseling-be/internal/service"
	"counseling-be/pkg/agency"
	"counseling-be/pkg/events"
	"counseling-be/pkg/keycloak"
	pktNats "counseling-be/pkg/nats"
	"counseling-be/pkg/rocketchat"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const enquiryNotificationTopic = "NEW_ENQUIRY_NOTIFICATION"

type Container struct {
	// Controllers
	UserController controller.IUserController

	// Background Services (Exposed for main.go to run)
	NotificationService service.IEnquiryNotificationService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)

	var allocator service.IUsernameAllocator
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-memory username allocator", err)
		allocator = service.NewMemoryUsernameAllocator(cfg.App.UsernamePrefix)
	} else {
		allocator = service.NewRedisUsernameAllocator(rdb, cfg.App.UsernamePrefix)
	}

	// External collaborators
	identityClient := keycloak.NewClient(keycloak.Config{
		BaseURL:        cfg.Identity.BaseURL,
		Realm:          cfg.Identity.Realm,
		AdminUsername:  cfg.Identity.AdminUsername,
		AdminPassword:  cfg.Identity.AdminPassword,
		AdminClientID:  cfg.Identity.AdminClientID,
		EmailDummyHost: cfg.Identity.EmailDummyHost,
	})
	chatClient := rocketchat.NewClient(rocketchat.Config{
		BaseURL:         cfg.Chat.BaseURL,
		SystemUserID:    cfg.Chat.SystemUserID,
		SystemToken:     cfg.Chat.SystemToken,
		TechnicalUserID: cfg.Chat.TechnicalUserID,
		TechnicalToken:  cfg.Chat.TechnicalToken,
	})
	agencyClient := agency.NewClient(agency.Config{
		BaseURL: cfg.Agency.BaseURL,
	})

	// 3. Services
	typeManager := consultingtype.NewManager()

	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	rollbackService := service.NewRollbackService(uowFactory, chatClient, identityClient, eventPublisher, sysLogger)
	monitoringService := service.NewMonitoringService(uowFactory)
	sessionService := service.NewSessionService(uowFactory)

	notifLogger := logger.NewIsolatedLogger("logs/notification.log")
	notificationService := service.NewEnquiryNotificationService(
		enquiryNotificationTopic,
		pubSub,
		uowFactory,
		emailService,
		eventPublisher,
		notifLogger,
	)

	enquiryService := service.NewEnquiryService(
		uowFactory,
		chatClient,
		typeManager,
		monitoringService,
		rollbackService,
		notificationService,
		sysLogger,
	)

	accountService := service.NewUserAccountService(
		uowFactory,
		identityClient,
		chatClient,
		agencyClient,
		typeManager,
		sessionService,
		allocator,
		rollbackService,
		eventPublisher,
		sysLogger,
	)

	// Audit trail: every domain event lands in the log for remediation work.
	if natsSub != nil {
		err := natsSub.Subscribe("events.>", "counseling-audit", func(ctx context.Context, event events.Event) error {
			sysLogger.Info("audit", "domain event", map[string]interface{}{
				"type":    event.EventType(),
				"payload": event.Payload(),
			})
			return nil
		})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe audit consumer: %v", err)
		}
	}

	// 4. Controllers
	return &Container{
		UserController:      controller.NewUserController(accountService, enquiryService),
		NotificationService: notificationService,
	}
}
