package controllers

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Govind-619/Wanderlust/storage"
	"github.com/Govind-619/Wanderlust/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingForm(title, location string) url.Values {
	return url.Values{
		"listing[title]":       {title},
		"listing[description]": {"A quiet place"},
		"listing[price]":       {"2500"},
		"listing[location]":    {location},
		"listing[country]":     {"India"},
	}
}

func multipartListing(t *testing.T, values url.Values, filename string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range values {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	fw, err := mw.CreateFormFile(imageField, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG fake image"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/listings", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestListListings(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", "secret1")
	env.createListing(t, host, "Beach hut")
	manali := env.createListing(t, host, "Mountain cabin")
	manali.Location = "Manali"
	require.NoError(t, env.store.UpdateListing(context.Background(), manali))

	w := env.client().get("/listings")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Mountain cabin;Beach hut;", w.Body.String())

	w = env.client().get("/listings?q=manal")
	assert.Equal(t, "Mountain cabin;", w.Body.String())

	// nothing matches, so everything is shown
	w = env.client().get("/listings?q=atlantis")
	assert.Equal(t, "Mountain cabin;Beach hut;", w.Body.String())
}

func TestCreateListingRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.client().form(http.MethodPost, "/listings", listingForm("Hut", "Goa"))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	all, err := env.store.ListListings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateListing(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", "secret1")
	cl := env.loggedIn(t, host)

	w := cl.form(http.MethodPost, "/listings", listingForm("Beach hut", "Goa"))
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/listings", w.Header().Get("Location"))

	all, err := env.store.ListListings(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	l := all[0]
	assert.Equal(t, "Beach hut", l.Title)
	assert.Equal(t, 2500.0, l.Price)
	assert.Equal(t, host.ID, l.OwnerID)
	assert.Equal(t, "Point", l.Geometry.Type)
	assert.Equal(t, [2]float64{73.8, 15.3}, l.Geometry.Coordinates())
	assert.Empty(t, l.Image.URL)

	w = cl.get("/listings")
	assert.Contains(t, w.Body.String(), "flash="+utils.MsgListingCreated)
}

func TestCreateListingWithImage(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", "secret1")
	cl := env.loggedIn(t, host)

	w := cl.do(multipartListing(t, listingForm("Beach hut", "Goa"), "hut.png"))
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	all, err := env.store.ListListings(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "/uploads/img1-hut.png", all[0].Image.URL)
	assert.Equal(t, []string{"img1-hut.png"}, env.files.saved)
}

func TestCreateListingRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", "secret1")
	cl := env.loggedIn(t, host)

	missing := listingForm("", "Goa")
	w := cl.form(http.MethodPost, "/listings", missing)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title")

	negative := listingForm("Hut", "Goa")
	negative.Set("listing[price]", "-1")
	w = cl.form(http.MethodPost, "/listings", negative)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = cl.form(http.MethodPost, "/listings", listingForm("Hut", "Atlantis"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Could not find location")

	w = cl.do(multipartListing(t, listingForm("Hut", "Goa"), "notes.txt"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	all, err := env.store.ListListings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateListingSurvivesGeocoderOutage(t *testing.T) {
	env := newTestEnv(t)
	env.handler.Geocoder = &fakeGeocoder{err: fmt.Errorf("mapbox: connection refused")}
	host := env.createUser(t, "host", "secret1")

	w := env.loggedIn(t, host).form(http.MethodPost, "/listings", listingForm("Hut", "Goa"))
	require.Equal(t, http.StatusFound, w.Code)

	all, err := env.store.ListListings(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Zero(t, all[0].Geometry.Latitude)
}

func TestShowListing(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", "secret1")
	guest := env.createUser(t, "guest", "secret1")
	l := env.createListing(t, host, "Beach hut")
	path := fmt.Sprintf("/listings/%d", l.ID)

	w := env.client().get(path)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Beach hut owner=false map=map-token", w.Body.String())

	assert.Contains(t, env.loggedIn(t, host).get(path).Body.String(), "owner=true")
	assert.Contains(t, env.loggedIn(t, guest).get(path).Body.String(), "owner=false")

	w = env.client().get("/listings/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), utils.ErrListingNotFound)

	w = env.client().get("/listings/abc")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateListing(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", "secret1")
	guest := env.createUser(t, "guest", "secret1")
	l := env.createListing(t, host, "Beach hut")
	path := fmt.Sprintf("/listings/%d", l.ID)

	// only the owner may edit
	w := env.loggedIn(t, guest).form(http.MethodPut, path, url.Values{"listing[title]": {"Mine now"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, path, w.Header().Get("Location"))

	cl := env.loggedIn(t, host)
	assert.Equal(t, "edit Beach hut", cl.get(path+"/edit").Body.String())

	w = cl.form(http.MethodPut, path, url.Values{
		"listing[title]":    {"Cliff hut"},
		"listing[location]": {"Manali"},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, path, w.Header().Get("Location"))

	got, err := env.store.GetListing(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cliff hut", got.Title)
	assert.Equal(t, "d", got.Description)
	assert.Equal(t, 1500.0, got.Price)
	assert.Equal(t, "Manali", got.Location)
	assert.Equal(t, 32.2, got.Geometry.Latitude)

	w = cl.form(http.MethodPut, path, url.Values{"listing[price]": {"free"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteListing(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "host", "secret1")
	l := env.createListing(t, host, "Beach hut")
	l.Image.Filename = "hut.png"
	require.NoError(t, env.store.UpdateListing(context.Background(), l))
	path := fmt.Sprintf("/listings/%d", l.ID)

	w := env.client().do(httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = env.loggedIn(t, host).do(httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/listings", w.Header().Get("Location"))

	_, err := env.store.GetListing(context.Background(), l.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, []string{"hut.png"}, env.files.deleted)
}
