package main

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/move-sure/ss-transport-sub002/config"
	"github.com/move-sure/ss-transport-sub002/db"
	"github.com/move-sure/ss-transport-sub002/db/mongo"
	"github.com/move-sure/ss-transport-sub002/db/postgres"
	"github.com/move-sure/ss-transport-sub002/handlers"
	"github.com/move-sure/ss-transport-sub002/kaat"
	"github.com/move-sure/ss-transport-sub002/livesync"
	"github.com/move-sure/ss-transport-sub002/repository"
	"github.com/move-sure/ss-transport-sub002/routes"
)

func main() {
	// Load config from .env or config file
	cfg := config.LoadConfig()

	var userRepo repository.UserRepository
	var rateRepo repository.RateRepository
	var transportRepo repository.TransportRepository
	var consignmentRepo repository.ConsignmentRepository
	var kaatRepo repository.KaatRepository
	var settlementRepo repository.SettlementRepository
	var feed livesync.Feed

	switch cfg.DBType {
	case "postgres":
		// Run migrations first
		db.RunMigrations()

		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(); err != nil {
			panic(err)
		}
		defer pg.Disconnect()

		userRepo = repository.NewPostgresUserRepo(pg.Conn)
		rateRepo = repository.NewPostgresRateRepo(pg.Conn)
		transportRepo = repository.NewPostgresTransportRepo(pg.Conn)
		consignmentRepo = repository.NewPostgresConsignmentRepo(pg.Conn)
		kaatRepo = repository.NewPostgresKaatRepo(pg.Conn)
		settlementRepo = repository.NewPostgresSettlementRepo(pg.Conn)

		pgFeed, err := livesync.NewPostgresFeed(cfg.PostgresURL)
		if err != nil {
			panic(err)
		}
		feed = pgFeed

	case "mongo":
		mg := mongo.NewMongoDB(cfg.MongoURL)
		if err := mg.Connect(); err != nil {
			panic(err)
		}
		defer mg.Disconnect()

		userRepo = repository.NewMongoUserRepo(mg.Client)
		rateRepo = repository.NewMongoRateRepo(mg.Client)
		transportRepo = repository.NewMongoTransportRepo(mg.Client)
		consignmentRepo = repository.NewMongoConsignmentRepo(mg.Client)
		kaatRepo = repository.NewMongoKaatRepo(mg.Client)
		settlementRepo = repository.NewMongoSettlementRepo(mg.Client)

		mgFeed, err := livesync.NewMongoFeed(mg.Client, "sstransport")
		if err != nil {
			panic(err)
		}
		feed = mgFeed

	default:
		panic("DB_TYPE not supported")
	}
	defer feed.Close()

	// Rate catalog with per-process cache, invalidated by the live feed
	catalog := kaat.NewCatalog(rateRepo, kaat.NewMemoryRateCache())

	hub := livesync.NewHub(func(cityID int64) {
		catalog.OnRateChange(cityID)
	}, func(table, key string) (json.RawMessage, error) {
		// oversized notifications arrive without the row body
		switch table {
		case livesync.TableKaat:
			k, err := kaatRepo.GetByGRNo(key)
			if err != nil || k == nil {
				return nil, err
			}
			return json.Marshal(k)
		case livesync.TableSettlement:
			s, err := settlementRepo.GetByID(key)
			if err != nil || s == nil {
				return nil, err
			}
			return json.Marshal(s)
		}
		return nil, nil
	})
	go hub.Run(feed)

	builder := kaat.NewBuilder(settlementRepo, catalog)

	// Handlers
	userHandler := &handlers.UserHandler{Repo: userRepo}
	rateHandler := &handlers.RateHandler{Catalog: catalog}
	transportHandler := &handlers.TransportHandler{Repo: transportRepo}
	challanHandler := &handlers.ChallanHandler{
		Consignments: consignmentRepo,
		Kaats:        kaatRepo,
		Catalog:      catalog,
	}
	kaatHandler := &handlers.KaatHandler{
		Kaats:        kaatRepo,
		Consignments: consignmentRepo,
		Rates:        rateRepo,
	}
	settlementHandler := &handlers.SettlementHandler{
		Builder:      builder,
		Settlements:  settlementRepo,
		Consignments: consignmentRepo,
		Transports:   transportRepo,
	}
	pdfHandler := &handlers.PDFHandler{
		Repo: repository.NewPDFRepository(settlementRepo, consignmentRepo, kaatRepo),
	}
	liveHandler := &handlers.LiveHandler{Hub: hub}

	routes.SetupRoutes(
		userHandler,
		rateHandler,
		transportHandler,
		challanHandler,
		kaatHandler,
		settlementHandler,
		pdfHandler,
		liveHandler,
	)

	port := cfg.Port
	logrus.WithField("port", port).Info("server running")
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		panic(err)
	}
}
