package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/controller"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Router struct {
	customerController *controller.CustomerController
	addressController  *controller.AddressController
	db                 Pinger
	config             *config.Config
}

func NewRouter(
	customerController *controller.CustomerController,
	addressController *controller.AddressController,
	db Pinger,
	cfg *config.Config,
) *Router {
	return &Router{
		customerController: customerController,
		addressController:  addressController,
		db:                 db,
		config:             cfg,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(RequestLogger)
	r.Use(Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		controller.WriteErrorMessage(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		controller.WriteErrorMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", rt.health)

	if prefix := rt.config.Server.APIPrefix; prefix != "" {
		r.Route(prefix, rt.apiRoutes)
	} else {
		rt.apiRoutes(r)
	}
	return r
}

func (rt *Router) apiRoutes(r chi.Router) {
	cc, ac := rt.customerController, rt.addressController

	// Customer routes
	r.Post("/customers", cc.CreateCustomer)
	r.Get("/customers", cc.ListCustomers)
	r.Get("/customers/{id:[0-9]+}", cc.GetCustomer)
	r.Put("/customers/{id:[0-9]+}", cc.UpdateCustomer)
	r.Delete("/customers/{id:[0-9]+}", cc.DeleteCustomer)

	// Address routes
	r.Post("/customers/{id:[0-9]+}/addresses", ac.AddAddress)
	r.Get("/customers/{id:[0-9]+}/addresses", ac.ListAddresses)
	r.Put("/addresses/{id:[0-9]+}", ac.UpdateAddress)
	r.Delete("/addresses/{id:[0-9]+}", ac.DeleteAddress)

	// Address-count views
	r.Get("/customers-with-multiple-addresses", cc.CustomersWithMultipleAddresses)
	r.Get("/customers-single-address", cc.CustomersWithSingleAddress)
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if rt.db != nil {
		if err := rt.db.PingContext(r.Context()); err != nil {
			LoggerFrom(r.Context()).Error("Health check failed", err)
			controller.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	controller.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
