package api

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
)

func SetupRoutes(handler *Handler, relay http.Handler, assetsFS fs.FS) *mux.Router {
	router := mux.NewRouter()

	// CORS middleware
	router.Use(corsMiddleware)

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/config", handler.GetConfig).Methods("GET")
	api.HandleFunc("/download", handler.SubmitDownload).Methods("POST")
	api.HandleFunc("/validate", handler.ValidateURL).Methods("POST")
	api.HandleFunc("/history", handler.GetHistory).Methods("GET")
	api.HandleFunc("/history/clear", handler.ClearHistory).Methods("POST")
	api.HandleFunc("/history/{id}", handler.DeleteHistoryItem).Methods("DELETE")
	api.Handle("/relay", relay).Methods("POST")

	router.HandleFunc("/health", handler.Health).Methods("GET")

	// Assets (embedded)
	assetsSubFS, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		// Fallback to full path if Sub fails
		assetsHandler := http.FileServer(http.FS(assetsFS))
		router.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", assetsHandler))
	} else {
		assetsHandler := http.FileServer(http.FS(assetsSubFS))
		router.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", assetsHandler))
	}

	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
