package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/perchlabs/fundledger/internal/http/auth"
	exportHandler "github.com/perchlabs/fundledger/internal/http/export"
	feedHandler "github.com/perchlabs/fundledger/internal/http/feed"
	investmentHandler "github.com/perchlabs/fundledger/internal/http/investment"
	ledgerHandler "github.com/perchlabs/fundledger/internal/http/ledger"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func New(
	investmentsV1 *investmentHandler.Handler,
	transactionsV1 *ledgerHandler.Handler,
	feedV1 *feedHandler.Handler,
	exportsV1 *exportHandler.Handler,
	opts Options,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.JWTSecret))

		r.Route("/investments", func(r chi.Router) {
			feedV1.Routes(r)
			exportsV1.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				investmentsV1.Routes(r)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})
	})

	return router
}
