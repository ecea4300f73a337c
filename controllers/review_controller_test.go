package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Govind-619/Wanderlust/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", "secret1")
	guest := env.createUser(t, "guest", "secret1")
	l := env.createListing(t, host, "Beach hut")
	path := fmt.Sprintf("/listings/%d", l.ID)
	review := url.Values{"review[rating]": {"4"}, "review[comment]": {"Lovely stay"}}

	w := env.client().form(http.MethodPost, path+"/reviews", review)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cl := env.loggedIn(t, guest)
	w = cl.form(http.MethodPost, path+"/reviews", review)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, path, w.Header().Get("Location"))

	body := cl.get(path).Body.String()
	assert.Contains(t, body, "review=Lovely stay")
	assert.Contains(t, body, "flash=New Review Created")

	got, err := env.store.GetListing(context.Background(), l.ID)
	require.NoError(t, err)
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, 4, got.Reviews[0].Rating)
	assert.Equal(t, guest.ID, got.Reviews[0].AuthorID)
}

func TestCreateReviewValidation(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", "secret1")
	l := env.createListing(t, host, "Beach hut")
	cl := env.loggedIn(t, host)
	path := fmt.Sprintf("/listings/%d/reviews", l.ID)

	for _, rating := range []string{"0", "6", "five", ""} {
		w := cl.form(http.MethodPost, path, url.Values{"review[rating]": {rating}, "review[comment]": {"ok"}})
		assert.Equal(t, http.StatusBadRequest, w.Code, rating)
	}
	w := cl.form(http.MethodPost, path, url.Values{"review[rating]": {"3"}, "review[comment]": {"  "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = cl.form(http.MethodPost, "/listings/999/reviews", url.Values{"review[rating]": {"3"}, "review[comment]": {"ok"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReview(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", "secret1")
	author := env.createUser(t, "author", "secret1")
	l := env.createListing(t, host, "Beach hut")
	r := &models.Review{AuthorID: author.ID, Rating: 5, Comment: "Great"}
	require.NoError(t, env.store.AddReview(context.Background(), l.ID, r))
	path := fmt.Sprintf("/listings/%d/reviews/%d", l.ID, r.ID)

	// the listing owner is not the review author
	w := env.loggedIn(t, host).do(httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusFound, w.Code)
	_, err := env.store.GetReview(context.Background(), r.ID)
	require.NoError(t, err)

	w = env.loggedIn(t, author).do(httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/listings/%d", l.ID), w.Header().Get("Location"))
	_, err = env.store.GetReview(context.Background(), r.ID)
	assert.Error(t, err)

	w = env.loggedIn(t, author).do(httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
