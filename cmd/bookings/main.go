package main

import (
	"context"

	bookinghandler "roomly/internal/bookings/handler"
	bookingrepo "roomly/internal/bookings/repository"
	bookingservice "roomly/internal/bookings/service"
	"roomly/internal/bookings/validator"
	"roomly/internal/notifications"
	recordhandler "roomly/internal/records/handler"
	recordrepo "roomly/internal/records/repository"
	recordservice "roomly/internal/records/service"
	revenuehandler "roomly/internal/revenue/handler"
	revenueservice "roomly/internal/revenue/service"
	"roomly/internal/rooms/catalog"
	roomhandler "roomly/internal/rooms/handler"
	roomrepo "roomly/internal/rooms/repository"
	roomservice "roomly/internal/rooms/service"
	userhandler "roomly/internal/users/handler"
	userrepo "roomly/internal/users/repository"
	userservice "roomly/internal/users/service"
	"roomly/pkg/app"
	"roomly/pkg/config"
	"roomly/pkg/db/memory"
	"roomly/pkg/identity"
	"roomly/pkg/kafka"
	kafka_config "roomly/pkg/kafka/config"
	kafkamw "roomly/pkg/kafka/middleware"
)

const ServiceName = "bookings"

type stores struct {
	slots    bookingrepo.Store
	users    userrepo.UserRepository
	settings roomrepo.OpenSettingRepository
	records  recordrepo.RecordRepository
}

type messaging struct {
	notifier notifications.Notifier
	retry    kafka.Publisher
	counters *kafkamw.Counters
	closers  []func() error
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.Connect(context.Background())

	rooms, err := catalog.Load(cfg.RoomsFile, cfg.Holidays)
	if err != nil {
		cfg.Log.Fatal("Failed to load room catalog", "error", err, "rooms_file", cfg.RoomsFile)
	}
	cfg.Log.Info("Room catalog loaded", "rooms", len(rooms.Rooms()), "holidays", len(rooms.Holidays()))

	st := initStores(cfg)
	msg := initMessaging(cfg)

	users := userservice.NewUserService(st.users, rooms.RoomIDs(), cfg)
	roomSvc := roomservice.NewRoomService(st.settings, rooms, users, cfg)
	records := recordservice.NewRecordService(st.records, msg.retry, users, cfg)
	bookings := bookingservice.NewBookingService(
		st.slots,
		rooms,
		roomSvc,
		users,
		records,
		msg.notifier,
		validator.NewBookingValidator(rooms.Slots, cfg.MaxSlotsPerBooking, cfg.Log),
		cfg,
	)
	revenue := revenueservice.NewRevenueService(st.slots, rooms, users, cfg)
	cfg.Log.Info("Services initialized", "store_driver", cfg.StoreDriver)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		initVerifier(cfg),
		bookinghandler.NewHealthHandler(st.slots, cfg.StoreDriver, cfg.Log),
		bookinghandler.NewBookingHandler(bookings, cfg.Log, cfg.Now),
		userhandler.NewUserHandler(users, cfg.Log),
		roomhandler.NewRoomHandler(roomSvc, cfg.Log),
		recordhandler.NewRecordHandler(records, cfg.Log),
		revenuehandler.NewRevenueHandler(revenue, cfg.Log, cfg.Now),
	)
	for _, closeFn := range msg.closers {
		serverApp.OnShutdown(closeFn)
	}
	if msg.counters != nil {
		serverApp.OnShutdown(func() error {
			cfg.Log.Info("Kafka producer counters", msg.counters.LogAttrs()...)
			return nil
		})
	}
	serverApp.Run()
}

func initStores(cfg *config.Config) stores {
	switch cfg.StoreDriver {
	case config.StoreFirestore:
		return stores{
			slots:    bookingrepo.NewFirestoreStore(cfg),
			users:    userrepo.NewFirestoreUserRepository(cfg),
			settings: roomrepo.NewFirestoreOpenSettingRepository(cfg),
			records:  recordrepo.NewFirestoreRecordRepository(cfg),
		}
	case config.StoreMemory:
		db := memory.New()
		cfg.Log.Warn("Using the in-memory store, data is lost on restart")
		return stores{
			slots:    bookingrepo.NewMemoryStore(db),
			users:    userrepo.NewMemoryUserRepository(db),
			settings: roomrepo.NewMemoryOpenSettingRepository(db),
			records:  recordrepo.NewMemoryRecordRepository(db),
		}
	default:
		return stores{
			slots:    bookingrepo.NewMongoStore(cfg),
			users:    userrepo.NewMongoUserRepository(cfg),
			settings: roomrepo.NewMongoOpenSettingRepository(cfg),
			records:  recordrepo.NewMongoRecordRepository(cfg),
		}
	}
}

func initVerifier(cfg *config.Config) identity.Verifier {
	if cfg.AuthProvider == config.AuthJWT {
		cfg.Log.Info("Verifying HS256 bearer tokens", "issuer", cfg.JWTIssuer)
		return identity.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	}
	cfg.Log.Info("Verifying Firebase ID tokens", "project_id", cfg.FirebaseProjectID)
	return identity.NewFirebaseVerifier(cfg.Client.Auth)
}

// initMessaging returns a log-only notifier and no retry queue when Kafka is
// disabled.
func initMessaging(cfg *config.Config) messaging {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, notifications are logged only")
		return messaging{notifier: notifications.NewLogNotifier(cfg.Log)}
	}

	kcfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kcfg.LogConfiguration(cfg.Log)

	notifyProducer, err := kafka.NewProducer(kcfg, cfg.NotificationsTopic, "", cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create notifications producer", "error", err, "topic", cfg.NotificationsTopic)
	}
	retryProducer, err := kafka.NewProducer(kcfg, cfg.AuditRetryTopic, cfg.AuditRetryDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create audit retry producer", "error", err, "topic", cfg.AuditRetryTopic)
	}

	m := messaging{
		notifier: notifications.NewKafkaNotifier(notifyProducer, cfg.Log),
		retry:    retryProducer,
		closers:  []func() error{notifyProducer.Close, retryProducer.Close},
	}
	if kcfg.EnableMiddleware {
		m.counters = kafkamw.NewCounters()
		for _, p := range []*kafka.Producer{notifyProducer, retryProducer} {
			p.Use(kafkamw.LoggingProducerMiddleware(cfg.Log))
			p.Use(m.counters.ProducerMiddleware())
		}
	}
	cfg.Log.Info("Kafka producers ready",
		"notifications_topic", cfg.NotificationsTopic,
		"audit_retry_topic", cfg.AuditRetryTopic,
	)
	return m
}
