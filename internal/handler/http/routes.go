package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/password-reset/request", h.requestPasswordReset)
		r.Post("/api/auth/password-reset/confirm", h.confirmPasswordReset)
		r.Get("/api/version", h.getServerVersion)
		r.Handle("/metrics", h.metrics.Handler())
	})

	// everything else requires a valid session token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Post("/", h.createUser)
			r.Get("/{userID}", h.getUser)
			r.Put("/{userID}/role", h.changeUserRole)
		})

		r.Route("/api/houses", func(r chi.Router) {
			r.Get("/", h.listHouses)
			r.Post("/", h.createHouse)
			r.Get("/{houseID}", h.getHouse)
			r.Patch("/{houseID}", h.updateHouse)
			r.Delete("/{houseID}", h.deleteHouse)
			r.Get("/{houseID}/clients", h.listClientsByHouse)
		})

		r.Route("/api/clients", func(r chi.Router) {
			r.Get("/", h.listClients)
			r.Post("/", h.createClient)
			r.Get("/{clientID}", h.getClient)
			r.Patch("/{clientID}", h.updateClient)
			r.Put("/{clientID}/house", h.assignClientToHouse)
			r.Delete("/{clientID}/house", h.detachClientFromHouse)

			r.Get("/{clientID}/bowel-notes", h.listBowelNotes)
			r.Post("/{clientID}/bowel-notes", h.createBowelNote)
			r.Get("/{clientID}/food-diary-notes", h.listFoodDiaryNotes)
			r.Post("/{clientID}/food-diary-notes", h.createFoodDiaryNote)
			r.Get("/{clientID}/night-reports", h.listNightReports)
			r.Post("/{clientID}/night-reports", h.createNightReport)
			r.Get("/{clientID}/sleep-tracker-notes", h.listSleepTrackerNotes)
			r.Post("/{clientID}/sleep-tracker-notes", h.createSleepTrackerNote)
			r.Get("/{clientID}/case-notes", h.listCaseNotes)
			r.Post("/{clientID}/case-notes", h.createCaseNote)

			r.Get("/{clientID}/documents", h.listDocuments)
			r.Post("/{clientID}/documents", h.uploadDocument)
		})

		r.Route("/api/bowel-notes/{noteID}", func(r chi.Router) {
			r.Get("/", h.getBowelNote)
			r.Patch("/", h.updateBowelNote)
			r.Delete("/", h.deleteBowelNote)
		})
		r.Route("/api/food-diary-notes/{noteID}", func(r chi.Router) {
			r.Get("/", h.getFoodDiaryNote)
			r.Patch("/", h.updateFoodDiaryNote)
			r.Delete("/", h.deleteFoodDiaryNote)
		})
		r.Route("/api/night-reports/{noteID}", func(r chi.Router) {
			r.Get("/", h.getNightReport)
			r.Patch("/", h.updateNightReport)
		})
		r.Route("/api/sleep-tracker-notes/{noteID}", func(r chi.Router) {
			r.Get("/", h.getSleepTrackerNote)
			r.Patch("/", h.updateSleepTrackerNote)
		})
		r.Route("/api/case-notes/{noteID}", func(r chi.Router) {
			r.Get("/", h.getCaseNote)
			r.Patch("/", h.updateCaseNote)
			r.Delete("/", h.deleteCaseNote)
		})

		r.Route("/api/incidents", func(r chi.Router) {
			r.Get("/", h.listIncidents)
			r.Post("/", h.reportIncident)
			r.Get("/{incidentID}", h.getIncident)
			r.Post("/{incidentID}/escalate", h.escalateIncident)
			r.Post("/{incidentID}/close", h.closeIncident)
			r.Post("/{incidentID}/review", h.reviewIncident)
		})

		r.Route("/api/documents/{documentID}", func(r chi.Router) {
			r.Get("/", h.getDocument)
			r.Get("/url", h.getDocumentURL)
			r.Delete("/", h.deleteDocument)
		})
	})

	return router
}
