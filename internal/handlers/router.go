package handlers

import (
	"net/http"

	"brokerage/internal/config"
	"brokerage/internal/db"
	"brokerage/internal/middleware"
	"brokerage/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner   db.TxRunner
	cfg        config.Config
	profiles   ProfileStore
	inquiries  InquiryStore
	properties PropertyStore
	rejections RejectionStore
	workflow   WorkflowService
	billing    BillingService
	media      MediaStorage
	hub        *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, profiles ProfileStore, inquiries InquiryStore, properties PropertyStore, rejections RejectionStore, workflow WorkflowService, billing BillingService, media MediaStorage, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:   txRunner,
		cfg:        cfg,
		profiles:   profiles,
		inquiries:  inquiries,
		properties: properties,
		rejections: rejections,
		workflow:   workflow,
		billing:    billing,
		media:      media,
		hub:        hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authed := middleware.Auth(h.cfg.JWTSecret)
	broker := middleware.RequireBroker(h.profiles, false)
	gatedBroker := middleware.RequireBroker(h.profiles, true)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(authed).Get("/me", h.Me)
	})

	router.Route("/inquiries", func(r chi.Router) {
		r.Post("/", h.SubmitInquiry)
		r.With(authed, gatedBroker).Get("/", h.ListInquiries)
		r.Get("/{id}", h.GetInquiry)
		r.With(authed, gatedBroker).Post("/{id}/accept", h.AcceptInquiry)
		r.Post("/{id}/reject", h.RejectInquiry)
		r.With(authed, broker).Post("/{id}/withdraw", h.WithdrawOffer)
	})

	router.Post("/offers/accept", h.AcceptOffer)
	router.Post("/deals/{id}/review", h.SubmitReview)
	router.Delete("/deals/{id}", h.DeleteDeal)

	router.Route("/rejections", func(r chi.Router) {
		r.Use(authed, broker)
		r.Get("/", h.ListRejections)
		r.Post("/{id}/ack", h.AcknowledgeRejection)
	})

	router.Get("/properties", h.ListProperties)
	router.Post("/properties/{id}/request", h.RequestProperty)
	router.Route("/broker/properties", func(r chi.Router) {
		r.Use(authed)
		r.With(broker).Get("/", h.ListBrokerProperties)
		r.With(gatedBroker).Post("/", h.CreateProperty)
		r.With(broker).Put("/{id}", h.UpdateProperty)
		r.With(broker).Delete("/{id}", h.DeleteProperty)
	})

	router.Route("/payments", func(r chi.Router) {
		r.Use(authed, broker)
		r.Post("/complete", h.CompletePayment)
		r.Get("/", h.ListPayments)
	})

	router.With(authed).Post("/media/upload-url", h.MediaUploadURL)
	router.Get("/ws/rejections", h.WSRejections)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
