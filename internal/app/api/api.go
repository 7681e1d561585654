package api

import (
	"context"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"restaurant-pos/internal/common/auth"
	"restaurant-pos/internal/common/db"
	"restaurant-pos/internal/common/httpx"
	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/common/mq"
	"restaurant-pos/internal/common/redisx"
	"restaurant-pos/internal/common/web"
	"restaurant-pos/internal/config"
	menuhandler "restaurant-pos/internal/modules/menu/handler"
	menurepo "restaurant-pos/internal/modules/menu/repository"
	menuservice "restaurant-pos/internal/modules/menu/service"
	ordershandler "restaurant-pos/internal/modules/orders/handler"
	ordersrepo "restaurant-pos/internal/modules/orders/repository"
	ordersservice "restaurant-pos/internal/modules/orders/service"
	staffhandler "restaurant-pos/internal/modules/staff/handler"
	staffrepo "restaurant-pos/internal/modules/staff/repository"
	staffservice "restaurant-pos/internal/modules/staff/service"
	tableshandler "restaurant-pos/internal/modules/tables/handler"
	tablesrepo "restaurant-pos/internal/modules/tables/repository"
	tablesservice "restaurant-pos/internal/modules/tables/service"
)

// Run wires every collaborator and serves the HTTP API until ctx is done.
func Run(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	conn, err := db.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.EnsureSchema(ctx); err != nil {
		return err
	}
	lg.Info("db_connected", map[string]any{"database": cfg.Database.Database})

	broker, err := mq.Dial(cfg.RabbitMQ.URL())
	if err != nil {
		return err
	}
	defer broker.Close()
	if err := broker.DeclareTopology(); err != nil {
		return err
	}
	lg.Info("mq_connected", map[string]any{"host": cfg.RabbitMQ.Host})

	rdb := redisx.New(cfg.Redis.Addr)
	defer rdb.Close()

	sessions := auth.NewSessions(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Hour)

	menuSvc := menuservice.NewMenuService(menurepo.NewDishesPG(conn))
	approvalSvc := menuservice.NewApprovalService(menurepo.NewOffersPG(conn), broker, lg)
	orderSvc := ordersservice.NewOrderService(ordersrepo.NewOrdersPG(conn), broker, lg)
	tableSvc := tablesservice.NewTableService(tablesrepo.NewTablesPG(conn))
	staffSvc := staffservice.NewStaffService(staffrepo.NewStaffPG(conn), sessions, lg)

	if err := staffSvc.Bootstrap(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		return err
	}

	menuH := &menuhandler.Handler{Menu: menuSvc, Approval: approvalSvc}
	ordersH := &ordershandler.Handler{Orders: orderSvc, Redis: rdb}
	tablesH := &tableshandler.Handler{Tables: tableSvc}
	staffH := &staffhandler.Handler{Staff: staffSvc}

	r := chi.NewRouter()
	r.Use(web.RequestLogger(lg))
	r.Route("/api", func(r chi.Router) {
		staffH.RegisterPublic(r)
		r.Group(func(r chi.Router) {
			r.Use(web.Authenticate(sessions))
			menuH.Register(r)
			ordersH.Register(r)
			tablesH.Register(r)
			staffH.Register(r)
		})
	})

	addr := ":" + strconv.Itoa(cfg.HTTP.Port)
	lg.Info("http_listening", map[string]any{"addr": addr})
	return httpx.New(addr, r).Run(ctx)
}
