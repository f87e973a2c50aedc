package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jascfer/allonetoplulugu-sub000/internal/engagement"
	"github.com/Jascfer/allonetoplulugu-sub000/internal/entities"
	"github.com/Jascfer/allonetoplulugu-sub000/internal/service"
	"github.com/Jascfer/allonetoplulugu-sub000/internal/service/mock"
)

func newRouter(s service.Service) chi.Router {
	router := chi.NewRouter()
	srv := server{s: s}

	router.Route("/v1", func(r chi.Router) {
		r.Get("/{kind}", srv.listPosts)
		r.Get("/{kind}/{id}", srv.getPost)
		r.Get("/{kind}/{id}/poll/tally", srv.getPollTally)
		r.Post("/{kind}/{id}/{action}", srv.applyAction)
		r.Delete("/{kind}/{id}", srv.deletePost)
	})

	return router
}

func Test_applyAction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s := mock.NewMockService(ctrl)

	s.EXPECT().Apply(
		gomock.Any(),
		service.ActionAddComment,
		entities.KindPost,
		"42",
		"alice",
		service.Payload{Content: "hi"},
	).Return(&service.PostView{
		ID:   "42",
		Kind: entities.KindPost,
		Author: service.ActorView{
			ID:          "owner",
			DisplayName: "Owner",
			AvatarURL:   "https://cdn.example.com/owner.png",
		},
		CreatedAt:  100,
		IsApproved: true,
		LikesCount: 1,
		Comments: []service.CommentView{
			{
				ID:        "c1",
				Author:    service.ActorView{ID: "alice", DisplayName: "Alice"},
				Content:   "hi",
				CreatedAt: 100,
				Replies:   []service.ReplyView{},
			},
		},
	}, nil)

	r, err := http.NewRequest(http.MethodPost, "/v1/posts/42/add-comment", strings.NewReader(`{"content":"hi"}`))
	require.NoError(t, err)
	r.Header.Set(actorHeader, "alice")

	w := httptest.NewRecorder()
	newRouter(s).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `
{
   "id":"42",
   "kind":"posts",
   "author":{"id":"owner","displayName":"Owner","avatarUrl":"https://cdn.example.com/owner.png"},
   "title":"",
   "createdAt":100,
   "isApproved":true,
   "isPinned":false,
   "likesCount":1,
   "liked":false,
   "favoritesCount":0,
   "favorited":false,
   "ratingMean":0,
   "ratingCount":0,
   "comments":[
      {
         "id":"c1",
         "author":{"id":"alice","displayName":"Alice","avatarUrl":""},
         "content":"hi",
         "createdAt":100,
         "likesCount":0,
         "liked":false,
         "isAccepted":false,
         "replies":[]
      }
   ],
   "reportsCount":0
}`, w.Body.String())
}

func Test_applyAction_EmptyBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s := mock.NewMockService(ctrl)

	s.EXPECT().Apply(
		gomock.Any(),
		service.ActionToggleLike,
		entities.KindNote,
		"1",
		"bob",
		service.Payload{},
	).Return(&service.PostView{ID: "1", Kind: entities.KindNote}, nil)

	r, err := http.NewRequest(http.MethodPost, "/v1/notes/1/toggle-like", http.NoBody)
	require.NoError(t, err)
	r.Header.Set(actorHeader, "bob")

	w := httptest.NewRecorder()
	newRouter(s).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func Test_applyAction_Errors(t *testing.T) {
	tt := []struct {
		name string
		err  error

		code int
	}{
		{name: "validation", err: fmt.Errorf("%w: content is empty", engagement.ErrValidation), code: http.StatusBadRequest},
		{name: "forbidden", err: fmt.Errorf("%w: only moderators pin posts", engagement.ErrForbidden), code: http.StatusForbidden},
		{name: "not found", err: fmt.Errorf("%w: posts/1", engagement.ErrNotFound), code: http.StatusNotFound},
		{name: "conflict", err: fmt.Errorf("%w: post already has a poll", engagement.ErrConflict), code: http.StatusConflict},
		{name: "expired", err: fmt.Errorf("%w: poll closed", engagement.ErrExpired), code: http.StatusGone},
		{name: "internal", err: fmt.Errorf("boom"), code: http.StatusInternalServerError},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			s := mock.NewMockService(ctrl)

			s.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)

			r, err := http.NewRequest(http.MethodPost, "/v1/posts/1/toggle-like", http.NoBody)
			require.NoError(t, err)
			r.Header.Set(actorHeader, "alice")

			w := httptest.NewRecorder()
			newRouter(s).ServeHTTP(w, r)

			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func Test_applyAction_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, err := http.NewRequest(http.MethodPost, "/v1/posts/1/toggle-like", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newRouter(mock.NewMockService(ctrl)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func Test_applyAction_InvalidKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, err := http.NewRequest(http.MethodPost, "/v1/threads/1/toggle-like", nil)
	require.NoError(t, err)
	r.Header.Set(actorHeader, "alice")

	w := httptest.NewRecorder()
	newRouter(mock.NewMockService(ctrl)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_getPost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s := mock.NewMockService(ctrl)

	s.EXPECT().Get(gomock.Any(), entities.KindNote, "7", "alice").Return(&service.PostView{
		ID:   "7",
		Kind: entities.KindNote,
	}, nil)

	r, err := http.NewRequest(http.MethodGet, "/v1/notes/7?requestedBy=alice", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newRouter(s).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func Test_getPollTally(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s := mock.NewMockService(ctrl)

	s.EXPECT().PollTally(gomock.Any(), entities.KindQuestion, "7").Return([]service.TallyItem{
		{Text: "A", VotesCount: 3, Percentage: 75},
		{Text: "B", VotesCount: 1, Percentage: 25},
	}, nil)

	r, err := http.NewRequest(http.MethodGet, "/v1/questions/7/poll/tally", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newRouter(s).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `
{
   "options":[
      {"text":"A","votesCount":3,"percentage":75},
      {"text":"B","votesCount":1,"percentage":25}
   ]
}`, w.Body.String())
}

func Test_listPosts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s := mock.NewMockService(ctrl)

	s.EXPECT().List(gomock.Any(), entities.KindPost, "").Return([]*service.PostView{
		{ID: "1", Kind: entities.KindPost, IsPinned: true},
		{ID: "2", Kind: entities.KindPost},
	}, nil)

	r, err := http.NewRequest(http.MethodGet, "/v1/posts", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newRouter(s).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func Test_deletePost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s := mock.NewMockService(ctrl)

	s.EXPECT().Delete(gomock.Any(), entities.KindPost, "1", "owner").Return(nil)

	r, err := http.NewRequest(http.MethodDelete, "/v1/posts/1", nil)
	require.NoError(t, err)
	r.Header.Set(actorHeader, "owner")

	w := httptest.NewRecorder()
	newRouter(s).ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func Test_deletePost_Forbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	s := mock.NewMockService(ctrl)

	s.EXPECT().Delete(gomock.Any(), entities.KindPost, "1", "stranger").
		Return(fmt.Errorf("%w: only the author or a moderator deletes posts", engagement.ErrForbidden))

	r, err := http.NewRequest(http.MethodDelete, "/v1/posts/1", nil)
	require.NoError(t, err)
	r.Header.Set(actorHeader, "stranger")

	w := httptest.NewRecorder()
	newRouter(s).ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
