package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/sirupsen/logrus"
	"github.com/tomasen/realip"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
	"github.com/Jascfer/allonetoplulugu-sub000/internal/service"
)

func (s server) applyAction(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /{kind}/{id}/{action} Engagement ApplyAction
	//
	// Apply an engagement action to an entity and return the updated view.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: kind
	//   in: path
	//   required: true
	//   type: string
	//   enum: [notes, posts, questions]
	// - name: id
	//   in: path
	//   required: true
	//   type: string
	// - name: action
	//   in: path
	//   required: true
	//   type: string
	//   enum: [toggle-like, toggle-favorite, add-comment, add-reply, toggle-comment-like, toggle-reply-like, accept-answer, create-poll, vote-poll, toggle-pin, report, rate]
	// - name: X-Actor
	//   in: header
	//   required: true
	//   type: string
	// responses:
	//   '200':
	//     description: updated entity view
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '401':
	//     description: actor is not authenticated
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '403':
	//     description: forbidden
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: not found
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '409':
	//     description: conflict
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '410':
	//     description: poll expired
	//     schema:
	//       "$ref": "#/definitions/Error"

	kind, ok := extractKind(w, r)
	if !ok {
		return
	}

	actor := r.Header.Get(actorHeader)
	if actor == "" {
		writeError(w, http.StatusUnauthorized, "actor is not authenticated")
		return
	}

	var payload service.Payload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	id := chi.URLParam(r, "id")
	action := service.Action(chi.URLParam(r, "action"))

	if action == service.ActionReport {
		logrus.WithFields(logrus.Fields{
			"kind":        kind,
			"id":          id,
			"reporter":    actor,
			"reporter_ip": realip.FromRequest(r),
		}).Info("entity reported")
	}

	view, err := s.s.Apply(r.Context(), action, kind, id, actor, payload)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeOK(w, http.StatusOK, view)
}

func (s server) getPost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /{kind}/{id} Engagement GetPost
	//
	// Get an entity view by kind and id.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: kind
	//   in: path
	//   required: true
	//   type: string
	// - name: id
	//   in: path
	//   required: true
	//   type: string
	// - name: requestedBy
	//   description: adds liked/favorited/voted flags to the view
	//   in: query
	//   required: false
	// responses:
	//   '200':
	//     description: entity view
	//   '404':
	//     description: not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	kind, ok := extractKind(w, r)
	if !ok {
		return
	}

	view, err := s.s.Get(r.Context(), kind, chi.URLParam(r, "id"), r.URL.Query().Get("requestedBy"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeOK(w, http.StatusOK, view)
}

func (s server) listPosts(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /{kind} Engagement ListPosts
	//
	// List publicly visible entities of a kind, pinned first, newest first.
	// Unapproved entities are excluded.
	//
	// ---
	// produces:
	// - application/json
	// parameters:
	// - name: kind
	//   in: path
	//   required: true
	//   type: string
	// - name: requestedBy
	//   in: query
	//   required: false
	// responses:
	//   '200':
	//     description: entity views

	kind, ok := extractKind(w, r)
	if !ok {
		return
	}

	views, err := s.s.List(r.Context(), kind, r.URL.Query().Get("requestedBy"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeOK(w, http.StatusOK, views)
}

func (s server) getPollTally(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /{kind}/{id}/poll/tally Engagement GetPollTally
	//
	// Get vote counts and percentages for the entity's poll.
	//
	// ---
	// produces:
	// - application/json
	// responses:
	//   '200':
	//     description: tally
	//     schema:
	//       "$ref": "#/definitions/TallyResponse"
	//   '404':
	//     description: entity or poll not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	kind, ok := extractKind(w, r)
	if !ok {
		return
	}

	tally, err := s.s.PollTally(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	out := TallyResponse{Options: make([]TallyOption, len(tally))}
	for i, v := range tally {
		out.Options[i] = TallyOption{
			Text:       v.Text,
			VotesCount: v.VotesCount,
			Percentage: v.Percentage,
		}
	}

	writeOK(w, http.StatusOK, out)
}

func (s server) deletePost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation DELETE /{kind}/{id} Engagement DeletePost
	//
	// Delete an entity. Allowed for the author and moderators.
	//
	// ---
	// responses:
	//   '204':
	//     description: deleted
	//   '403':
	//     description: forbidden
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '404':
	//     description: not found
	//     schema:
	//       "$ref": "#/definitions/Error"

	kind, ok := extractKind(w, r)
	if !ok {
		return
	}

	actor := r.Header.Get(actorHeader)
	if actor == "" {
		writeError(w, http.StatusUnauthorized, "actor is not authenticated")
		return
	}

	if err := s.s.Delete(r.Context(), kind, chi.URLParam(r, "id"), actor); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func extractKind(w http.ResponseWriter, r *http.Request) (entities.Kind, bool) {
	kind := entities.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "invalid kind")
		return "", false
	}

	return kind, true
}
