// Package server Engagement
//
// The engagement service provides the community interaction surface of the
// note-sharing platform: likes, favorites, comments, replies, polls, ratings
// and moderation state for notes, community posts and daily questions.
//
//     Schemes: https
//     BasePath: /v1
//     Version: 1.0.0
//
//     Produces:
//     - application/json
//     Consumes:
//     - application/json
//
// swagger:meta
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	mm "github.com/Jascfer/allonetoplulugu-sub000/internal/middleware"
	"github.com/Jascfer/allonetoplulugu-sub000/internal/service"
)

//go:generate swagger generate spec -t swagger -m -c . -o ../../static/swagger.json

const listingCacheTTL = time.Minute

// actorHeader is set by the auth proxy in front of the service; the service
// itself does no session handling.
const actorHeader = "X-Actor"

type server struct {
	s service.Service
}

// SetupRouter setups handlers to chi router.
func SetupRouter(s service.Service, r chi.Router, timeout time.Duration) {
	r.Use(
		loggerMiddleware,
		middleware.StripSlashes,
		cors.AllowAll().Handler,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
	)

	srv := server{
		s: s,
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeOK(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/{kind}", mm.Cached(listingCacheTTL, srv.listPosts))
		r.Get("/{kind}/{id}", srv.getPost)
		r.Get("/{kind}/{id}/poll/tally", srv.getPollTally)
		r.Post("/{kind}/{id}/{action}", srv.applyAction)
		r.Delete("/{kind}/{id}", srv.deletePost)
	})
}

func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logrus.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": requestID(r.Context()),
		}).Info("request handled")
	})
}

func requestID(ctx context.Context) string {
	return middleware.GetReqID(ctx)
}
