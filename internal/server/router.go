// internal/server/router.go
package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"realestate-marketplace/internal/common/config"
	apperrors "realestate-marketplace/internal/common/errors"
	"realestate-marketplace/internal/common/httpx"
	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/common/observability"
	"realestate-marketplace/internal/models"
	"realestate-marketplace/internal/notify"
	"realestate-marketplace/internal/search"
	"realestate-marketplace/internal/store"

	admincommon "realestate-marketplace/internal/handlers/admin/common"
	mb "realestate-marketplace/internal/handlers/admin/manage-bookings"
	mf "realestate-marketplace/internal/handlers/admin/manage-furniture"
	mp "realestate-marketplace/internal/handlers/admin/manage-properties"
	mu "realestate-marketplace/internal/handlers/admin/manage-users"
	"realestate-marketplace/internal/handlers/admin/settings"
	"realestate-marketplace/internal/handlers/admin/stats"
	lf "realestate-marketplace/internal/handlers/catalog/list-furniture"
	lp "realestate-marketplace/internal/handlers/catalog/list-properties"
	ns "realestate-marketplace/internal/handlers/catalog/nlp-search"
	bs "realestate-marketplace/internal/handlers/maintenance/book-service"
	ls "realestate-marketplace/internal/handlers/maintenance/list-services"
	up "realestate-marketplace/internal/handlers/preferences/user-preferences"
	rf "realestate-marketplace/internal/handlers/recommendation/recommend-furniture"
	rp "realestate-marketplace/internal/handlers/recommendation/recommend-properties"
	rv "realestate-marketplace/internal/handlers/tracking/record-view"
	sp "realestate-marketplace/internal/handlers/tracking/saved-properties"
)

const APIPrefix = "/api/v1"

// Deps carries the connected backends. Redis, Elasticsearch and the AWS
// clients are optional: leave them nil to run without them.
type Deps struct {
	Config    *config.Config
	DB        *sql.DB
	Redis     redis.Cmdable
	ES        *elasticsearch.Client
	Emailer   notify.Emailer
	Publisher notify.Publisher
	Obs       *observability.Observability
	Logger    logger.Logger
	// Ready reports whether the backends answer; nil means always ready.
	Ready func(ctx context.Context) error
}

// NewRouter builds the full HTTP surface.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	log := d.Logger
	eh := apperrors.NewErrorHandler(log)
	enabled := func(id string) bool { return config.IsHandlerEnabled(cfg, id) }

	properties := store.NewPropertyStore(d.DB)
	furniture := store.NewFurnitureStore(d.DB)
	interactions := store.NewInteractionStore(d.DB)
	preferences := store.NewPreferenceStore(d.DB)
	maintenance := store.NewMaintenanceStore(d.DB)
	users := store.NewUserStore(d.DB)
	admin := store.NewAdminStore(d.DB)
	roles := store.NewAdminCache(users, d.Redis, config.GetDuration(cfg.Admin.RoleCacheTTL))

	searcher := search.NewService(d.ES, cfg.Search, properties, furniture, log)
	indexer := search.NewIndexer(d.ES, cfg.Search, log)
	audit := admincommon.NewAuditor(admin, log)
	notifier := notify.NewBookingNotifier(notify.Config{
		EmailEnabled: cfg.Notifications.Email.Enabled,
		FromEmail:    cfg.Notifications.Email.FromEmail,
		TopicEnabled: cfg.Notifications.SNS.Enabled,
		TopicARN:     cfg.Notifications.SNS.TopicARN,
	}, d.Emailer, d.Publisher, log)

	r := chi.NewRouter()
	r.Use(httpx.RequestID(log))
	r.Use(httpx.Tracing(d.Obs, log))
	r.Use(httpx.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpx.AccessLog(log))
	r.Use(httpx.Metrics(d.Obs))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", httpx.HeaderUserID, httpx.HeaderXRequestID},
		ExposedHeaders:   []string{httpx.HeaderXRequestID},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if rl := cfg.Server.RateLimit; rl.Enabled && rl.Requests > 0 {
		r.Use(httprate.LimitByIP(rl.Requests, config.GetDuration(rl.Window)))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				log.Warn("readiness check failed", map[string]interface{}{"error": err.Error()})
				httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route(APIPrefix, func(r chi.Router) {
		// Public
		if enabled(rp.EndpointID) {
			r.Method(http.MethodPost, rp.Route, rp.NewHandler(rp.LoadConfig(cfg), properties,
				store.PropertySignals{Preferences: preferences, Interactions: interactions}, log))
		}
		if enabled(rf.EndpointID) {
			r.Method(http.MethodPost, rf.Route, rf.NewHandler(rf.LoadConfig(cfg), furniture,
				store.FurnitureSignals{Interactions: interactions}, properties, log))
		}
		if enabled(lp.EndpointID) {
			r.Method(http.MethodGet, lp.Route, lp.NewHandler(lp.LoadConfig(cfg), properties, log))
		}
		if enabled(lf.EndpointID) {
			r.Method(http.MethodGet, lf.Route, lf.NewHandler(lf.LoadConfig(cfg), furniture, log))
		}
		if enabled(ns.EndpointID) {
			r.Method(http.MethodPost, ns.Route, ns.NewHandler(ns.LoadConfig(cfg), searcher,
				store.NewSearchHistoryStore(d.DB), log))
		}
		if enabled(ls.EndpointID) {
			r.Method(http.MethodGet, ls.Route, ls.NewHandler(ls.LoadConfig(cfg), maintenance, log))
		}

		// Signed-in users
		r.Group(func(r chi.Router) {
			r.Use(httpx.RequireUser(eh))

			if enabled(rv.PropertyEndpointID) {
				r.Method(http.MethodPost, rv.PropertyRoute, rv.NewHandler(rv.LoadConfig(cfg, rv.PropertyEndpointID),
					models.KindProperty, interactions, log))
			}
			if enabled(rv.FurnitureEndpointID) {
				r.Method(http.MethodPost, rv.FurnitureRoute, rv.NewHandler(rv.LoadConfig(cfg, rv.FurnitureEndpointID),
					models.KindFurniture, interactions, log))
			}

			saved := sp.NewHandler(sp.LoadConfig(cfg), interactions, log)
			if enabled(sp.ListEndpointID) {
				r.Get(sp.Route, saved.List)
			}
			if enabled(sp.SaveEndpointID) {
				r.Post(sp.Route, saved.Save)
			}
			if enabled(sp.UnsaveEndpointID) {
				r.Delete(sp.ItemRoute, saved.Unsave)
			}

			prefs := up.NewHandler(up.LoadConfig(cfg), preferences, d.Redis, log)
			if enabled(up.GetEndpointID) {
				r.Get(up.Route, prefs.Get)
			}
			if enabled(up.UpdateEndpointID) {
				r.Put(up.Route, prefs.Update)
			}

			if enabled(bs.EndpointID) {
				r.Method(http.MethodPost, bs.Route, bs.NewHandler(bs.LoadConfig(cfg), maintenance, users, notifier, log))
			}
		})

		// Back office
		r.Group(func(r chi.Router) {
			r.Use(httpx.RequireAdmin(roles, eh))

			adminProps := mp.NewHandler(mp.LoadConfig(cfg), properties, indexer, audit, log)
			if enabled(mp.ListEndpointID) {
				r.Get(mp.Route, adminProps.List)
			}
			if enabled(mp.ManageEndpointID) {
				r.Post(mp.Route, adminProps.Manage)
			}

			adminFurniture := mf.NewHandler(mf.LoadConfig(cfg), furniture, indexer, audit, log)
			if enabled(mf.ListEndpointID) {
				r.Get(mf.Route, adminFurniture.List)
			}
			if enabled(mf.ManageEndpointID) {
				r.Post(mf.Route, adminFurniture.Manage)
			}

			adminBookings := mb.NewHandler(mb.LoadConfig(cfg), maintenance, audit, log)
			if enabled(mb.ListEndpointID) {
				r.Get(mb.Route, adminBookings.List)
			}
			if enabled(mb.ManageEndpointID) {
				r.Post(mb.Route, adminBookings.Manage)
			}

			adminUsers := mu.NewHandler(mu.LoadConfig(cfg), users, roles, audit, log)
			if enabled(mu.ListEndpointID) {
				r.Get(mu.Route, adminUsers.List)
			}
			if enabled(mu.ManageEndpointID) {
				r.Post(mu.Route, adminUsers.Manage)
			}

			adminSettings := settings.NewHandler(settings.LoadConfig(cfg), admin, audit, log)
			if enabled(settings.ListEndpointID) {
				r.Get(settings.Route, adminSettings.List)
			}
			if enabled(settings.UpdateEndpointID) {
				r.Post(settings.Route, adminSettings.Update)
			}

			if enabled(stats.EndpointID) {
				r.Method(http.MethodGet, stats.Route, stats.NewHandler(stats.LoadConfig(cfg), admin, d.Redis, log))
			}
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		eh.Handle(w, r, apperrors.NewResourceNotFoundError("Route", r.URL.Path))
	})
	return r
}
