package commands

import (
	"context"
	"fmt"

	"github.com/IrakliAvdulaj/trek-fleet-apply/configs"
	"github.com/IrakliAvdulaj/trek-fleet-apply/i18n"
	"github.com/IrakliAvdulaj/trek-fleet-apply/repository"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/IrakliAvdulaj/trek-fleet-apply/session"
	"github.com/IrakliAvdulaj/trek-fleet-apply/ws"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app รวม dependency ที่ทุกคำสั่งใช้ร่วมกัน
type app struct {
	cfg     *configs.Config
	log     *logrus.Logger
	db      *gorm.DB
	redis   *redis.Client
	hub     *ws.ApplicationHub
	relay   *ws.RedisRelay
	revoker services.TokenRevoker
	catalog *i18n.Catalog

	auth         *services.AuthService
	applications *services.CourierApplicationService
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}
	log := configs.NewLogger(cfg)

	db, err := configs.ConnectionDB(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := configs.SetupDatabase(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	catalog, err := i18n.Load()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, db: db, catalog: catalog, hub: ws.NewApplicationHub(log)}

	rdb, err := configs.ConnectRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var feed services.ChangeFeed = a.hub
	if rdb != nil {
		a.redis = rdb
		a.relay = ws.NewRedisRelay(rdb, cfg.RedisChannel, a.hub, log)
		if err := a.relay.Start(ctx); err != nil {
			rdb.Close()
			return nil, err
		}
		feed = a.relay
		a.revoker = services.NewRedisRevoker(rdb)
		log.WithField("channel", cfg.RedisChannel).Info("📡 redis relay started")
	} else {
		mem := services.NewMemoryRevoker()
		if err := mem.StartJanitor("@every 10m"); err != nil {
			return nil, err
		}
		a.revoker = mem
	}

	a.auth = services.NewAuthService(repository.NewUserRepository(db), a.revoker, services.AuthOptions{
		JWTSecret:         cfg.JWTSecret,
		JWTTTL:            cfg.JWTTTL,
		MinPasswordLength: cfg.MinPasswordLength,
	}, log)
	a.applications = services.NewCourierApplicationService(repository.NewCourierApplicationRepository(db), feed, log)
	return a, nil
}

func (a *app) Close() {
	if m, ok := a.revoker.(*services.MemoryRevoker); ok {
		m.Stop()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (a *app) translator() i18n.Translator {
	return a.catalog.Translator(a.cfg.DefaultLanguage)
}

// session เปิด session ของ CLI: login ด้วย email/password ถ้าให้มา ไม่งั้นใช้ token ที่เก็บไว้
func (a *app) session(ctx context.Context, email, password string) (*session.Store, error) {
	store := session.NewStore(a.auth, session.NewFilePersister(a.cfg.SessionFile), a.log)
	if email != "" {
		if err := store.SignIn(ctx, email, password); err != nil {
			return nil, err
		}
		return store, nil
	}
	ok, err := store.Restore(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("not signed in: run `courierd login` or pass --email/--password")
	}
	return store, nil
}
