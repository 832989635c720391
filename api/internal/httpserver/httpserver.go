package httpserver

import (
	"log"
	"net/http"
)

// Routes registers the liveness endpoints on mux.
func Routes(mux *http.ServeMux, healthzBody string) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(healthzBody))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("document QA telegram bot"))
	})
}

// StartHTTP serves on DefaultServeMux, where tgbotapi.ListenForWebhook also
// registers its handler.
func StartHTTP(addr, healthzBody string) error {
	Routes(http.DefaultServeMux, healthzBody)
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
