package chi

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kailas-cloud/ytsearch/internal/metrics"
)

// RouterOptions configures the HTTP router.
type RouterOptions struct {
	APIKeys []string
	// Static holds index.html and the assets served under /static/. Nil disables the UI.
	Static fs.FS
}

// NewRouter mounts the middleware chain and every route, including the legacy aliases.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(accessLog(s.logger))
	r.Use(recoverJSON)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Embedding-Tokens"},
		MaxAge:         300,
	}))
	r.Use(APIKeyAuth(opts.APIKeys))
	r.Use(metrics.Middleware())

	r.NotFound(s.NotFound)
	r.MethodNotAllowed(s.MethodNotAllowed)

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.SearchSimilar)
		r.Post("/search-similar", s.SearchSimilar)
		r.Post("/youtube/search", s.SearchVideos)
		r.Post("/search-youtube", s.SearchVideos)
		r.Post("/channel/info", s.ChannelInfo)
		r.Post("/channel-info", s.ChannelInfo)
		r.Post("/channel/save", s.SaveChannel)
		r.Post("/save-channel", s.SaveChannel)
		r.Post("/transcript", s.Transcript)
	})

	if opts.Static != nil {
		r.Get("/", indexHandler(opts.Static))
		r.Handle(staticPrefix+"*", http.StripPrefix(staticPrefix, http.FileServer(http.FS(opts.Static))))
	}

	return r
}

func indexHandler(static fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, static, "index.html")
	}
}
