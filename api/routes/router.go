package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/furnishd/furnishd-backend/api/controllers"
	"github.com/furnishd/furnishd-backend/api/middleware"
	"github.com/furnishd/furnishd-backend/internal/auth"
	"github.com/furnishd/furnishd-backend/internal/cart"
	"github.com/furnishd/furnishd-backend/internal/checkout"
	category "github.com/furnishd/furnishd-backend/internal/categories"
	"github.com/furnishd/furnishd-backend/internal/contact"
	order "github.com/furnishd/furnishd-backend/internal/orders"
	product "github.com/furnishd/furnishd-backend/internal/products"
	"github.com/furnishd/furnishd-backend/internal/stats"
	user "github.com/furnishd/furnishd-backend/internal/users"
	"github.com/furnishd/furnishd-backend/pkg/auth/session"
	"github.com/furnishd/furnishd-backend/pkg/config"
	"github.com/furnishd/furnishd-backend/pkg/logger"
	"github.com/furnishd/furnishd-backend/pkg/metrics"
	"github.com/furnishd/furnishd-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams carries everything the HTTP surface needs.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker

	AuthService     auth.Service
	ProductService  product.Service
	CategoryService category.Service
	CartService     cart.Service
	CheckoutService checkout.Service
	OrderService    order.Service
	UserService     user.Service
	ContactService  contact.Service
	StatsService    stats.Service

	MetricsRegistry *prometheus.Registry
}

// NewRouter assembles the full storefront and admin HTTP surface.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var httpMetrics *metrics.HTTPMetrics
	if p.MetricsRegistry != nil {
		httpMetrics = metrics.NewHTTPMetrics(p.MetricsRegistry)
		r.Use(httpMetrics.Middleware)
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var cache pinger
	if p.Redis != nil {
		cache = p.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, cache))
	})

	if p.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.Register(p.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.Login(p.AuthService, logg))
			r.Post("/refresh", controllers.Refresh(p.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, p.Sessions, logg)).Post("/logout", controllers.Logout(p.AuthService, logg))
			// Seed endpoint for local and test environments only.
			if !cfg.App.IsProd() {
				r.Post("/admin", controllers.RegisterAdmin(p.AuthService, logg))
			}
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(p.ProductService, logg))
			r.Get("/{id}", controllers.GetProduct(p.ProductService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(p.CategoryService, logg))
			r.Get("/{id}", controllers.GetCategory(p.CategoryService, logg))
		})

		r.Post("/cart/quote", controllers.QuoteCart(p.CartService, logg))

		r.Post("/contact", controllers.SubmitContactMessage(p.ContactService, logg))

		r.Route("/orders", func(r chi.Router) {
			// Guest checkout stays open; a presented token links the order.
			r.With(middleware.OptionalAuth(cfg.JWT, p.Sessions, logg)).Post("/", controllers.PlaceOrder(p.CheckoutService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
				r.Get("/", controllers.ListMyOrders(p.OrderService, logg))
				r.Get("/{id}", controllers.GetOrder(p.OrderService, logg))
				r.Post("/{id}/cancel", controllers.CancelOrder(p.OrderService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
			r.Get("/me", controllers.Me(p.UserService, logg))
			r.Put("/me", controllers.UpdateMe(p.UserService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		r.Use(middleware.RequireAdmin(p.UserService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(p.ProductService, logg))
			r.Put("/{id}", controllers.UpdateProduct(p.ProductService, logg))
			r.Delete("/{id}", controllers.DeleteProduct(p.ProductService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CreateCategory(p.CategoryService, logg))
			r.Put("/{id}", controllers.UpdateCategory(p.CategoryService, logg))
			r.Delete("/{id}", controllers.DeleteCategory(p.CategoryService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(p.OrderService, logg))
			r.Get("/{id}", controllers.GetOrder(p.OrderService, logg))
			r.Put("/{id}", controllers.AdminSetOrderStatus(p.OrderService, logg))
			r.Delete("/{id}", controllers.AdminDeleteOrder(p.OrderService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(p.UserService, logg))
			r.Get("/{id}", controllers.AdminGetUser(p.UserService, logg))
			r.Put("/{id}", controllers.AdminUpdateUser(p.UserService, logg))
		})

		r.Route("/contact", func(r chi.Router) {
			r.Get("/", controllers.AdminListContactMessages(p.ContactService, logg))
			r.Get("/unread-count", controllers.AdminUnreadContactCount(p.ContactService, logg))
			r.Put("/{id}/read", controllers.AdminMarkContactMessageRead(p.ContactService, logg))
			r.Delete("/{id}", controllers.AdminDeleteContactMessage(p.ContactService, logg))
		})

		r.Get("/stats", controllers.AdminDashboard(p.StatsService, logg))
	})

	return r
}
