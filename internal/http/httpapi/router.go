package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smpeduli/internal/http/handlers"
	"smpeduli/internal/infra"
	"smpeduli/internal/middleware"
)

// NewRouter wires every route of the public site onto one chi router.
func NewRouter(cfg *infra.Config, logger infra.Logger, app *handlers.App) http.Handler {
	r := chi.NewRouter()

	// Middlewares dasar
	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		middleware.Logger(logger),
		chimw.Recoverer,
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
		middleware.Metrics,
	)

	// Operasional
	r.Get("/healthz", app.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Situs publik
	r.Get("/", app.Home)
	r.Route("/campaigns/{id}", func(r chi.Router) {
		r.Get("/", app.CampaignDetail)
		r.Post("/donate", app.StartDonation)
	})
	r.Route("/donate/{id}", func(r chi.Router) {
		r.Get("/", app.ShowWizard)
		r.Post("/intake", app.SubmitIntake)
		r.Post("/bank", app.SelectBank)
		r.Post("/create", app.CreateDonation)
		r.Post("/proof", app.UploadProof)
		r.Post("/proof/remove", app.RemoveProof)
		r.Post("/confirm", app.ConfirmReceipt)
		r.Post("/redo", app.RedoUpload)
	})
	r.Get("/donations/{id}", app.DonationStatus)

	return r
}
