package main

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/kastennotes/kasten/pkg/comments"
	"github.com/kastennotes/kasten/pkg/config"
	"github.com/kastennotes/kasten/pkg/contentstore"
	"github.com/kastennotes/kasten/pkg/database"
	"github.com/kastennotes/kasten/pkg/kvstore"
	"github.com/kastennotes/kasten/pkg/migrations"
	"github.com/kastennotes/kasten/pkg/server"
	"github.com/kastennotes/kasten/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting kasten", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		log.Err(err).Fatal("migrations error")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	kv := kvstore.New(db)

	store := contentstore.New(kv)
	if err := store.Load(ctx); err != nil {
		log.Err(err).Fatal("content load error")
	}

	commentService := comments.NewService(kv, store)
	if err := commentService.Load(ctx); err != nil {
		log.Err(err).Fatal("comments load error")
	}

	srv, err := server.New(cfg, store, commentService)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		addr := srv.Addr
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}

		actualPort := listener.Addr().(*net.TCPAddr).Port
		log.Info("server started", logger.Data{"host": cfg.ServerHost, "port": strconv.Itoa(actualPort)})

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}
