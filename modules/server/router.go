package server

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	serviceName     = "tshirt-designer"
	requestIDHeader = "X-Request-ID"
)

// NewRouter - routes, CORS and request logging
func NewRouter(generate http.HandlerFunc, staticDir string) *mux.Router {
	r := mux.NewRouter()

	r.Use(requestLogger)
	r.Use(EnableCORS)

	r.HandleFunc("/", HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/health", HealthCheck).Methods(http.MethodGet)
	// OPTIONS must match a route, otherwise mux answers 405 before CORS runs
	r.HandleFunc("/generate-tshirt", generate).Methods(http.MethodPost, http.MethodOptions)

	fileServer := http.StripPrefix("/static/", http.FileServer(imagesOnlyFS{http.Dir(staticDir)}))
	r.PathPrefix("/static/").Handler(fileServer).Methods(http.MethodGet, http.MethodHead)

	return r
}

// EnableCORS - allow every origin, method and header
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// HealthCheck - GET / and GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": serviceName,
	}); err != nil {
		log.Printf("⚠️  Failed to write health response: %v", err)
	}
}

// imagesOnlyFS - no directory listings and no dot files (in-flight uploads)
type imagesOnlyFS struct {
	fs http.FileSystem
}

func (f imagesOnlyFS) Open(name string) (http.File, error) {
	for _, segment := range strings.Split(name, "/") {
		if strings.HasPrefix(segment, ".") {
			return nil, os.ErrNotExist
		}
	}

	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}

	return file, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger - tag each request with an ID and log its outcome
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Printf("📡 %s %s → %d (%s) [%s]", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond), requestID)
	})
}
