package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/engagement"
)

const maxBodySize = 16 * 1024

// Error ...
// swagger:model
type Error struct {
	Error string `json:"error"`
}

// TallyResponse ...
// swagger:model
type TallyResponse struct {
	Options []TallyOption `json:"options"`
}

// TallyOption ...
type TallyOption struct {
	Text       string  `json:"text"`
	VotesCount int     `json:"votesCount"`
	Percentage float64 `json:"percentage"`
}

func writeOK(w http.ResponseWriter, status int, v interface{}) {
	b, _ := json.Marshal(v)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b) // nolint: errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeOK(w, status, Error{Error: message})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter, message string) {
	logrus.WithField("request_id", requestID(ctx)).Error(message)

	writeError(w, http.StatusInternalServerError, "internal error")
}

// writeServiceError maps the engagement error kinds to status codes. The
// error text of known kinds is safe to expose.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engagement.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, engagement.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, engagement.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engagement.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engagement.ErrExpired):
		writeError(w, http.StatusGone, err.Error())
	default:
		writeInternalError(ctx, w, err.Error())
	}
}
