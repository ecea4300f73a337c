package controllers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/Govind-619/Wanderlust/geocode"
	"github.com/Govind-619/Wanderlust/middleware"
	"github.com/Govind-619/Wanderlust/models"
	"github.com/Govind-619/Wanderlust/storage"
	"github.com/Govind-619/Wanderlust/uploads"
	"github.com/Govind-619/Wanderlust/utils"
	"github.com/gin-gonic/gin"
)

const imageField = "listing[image]"

// ListListings handles GET /listings. A search with no matches falls back
// to every listing.
func (h *Handler) ListListings(c *gin.Context) {
	ctx := c.Request.Context()
	q := c.Query("q")

	var listings []models.Listing
	var err error
	if q != "" {
		listings, err = h.Store.SearchListings(ctx, q)
	}
	if err == nil && len(listings) == 0 {
		listings, err = h.Store.ListListings(ctx)
	}
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.HTML(http.StatusOK, "listings/index.html", utils.View(c, gin.H{
		"allListings": listings,
		"q":           q,
	}))
}

func (h *Handler) NewListingForm(c *gin.Context) {
	c.HTML(http.StatusOK, "listings/new.html", utils.View(c, nil))
}

// ShowListing handles GET /listings/:id
func (h *Handler) ShowListing(c *gin.Context) {
	listing, err := h.loadListing(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.HTML(http.StatusOK, "listings/show.html", utils.View(c, gin.H{
		"listing":  listing,
		"mapToken": h.MapToken,
		"isOwner":  isOwner(c, listing),
	}))
}

func isOwner(c *gin.Context, l *models.Listing) bool {
	uid, ok := middleware.CurrentUserID(c)
	return ok && uid == l.OwnerID
}

func (h *Handler) loadListing(c *gin.Context) (*models.Listing, error) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return nil, err
	}
	listing, err := h.Store.GetListing(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, utils.NotFoundError(utils.ErrListingNotFound, err)
	}
	return listing, err
}

// CreateListing handles POST /listings
func (h *Handler) CreateListing(c *gin.Context) {
	ctx := c.Request.Context()
	log := utils.RequestLogger(c)

	var in utils.ListingInput
	if err := c.ShouldBind(&in); err != nil {
		utils.HandleError(c, utils.BadRequestError(utils.ErrInvalidData, err))
		return
	}
	price, err := in.Validate()
	if err != nil {
		utils.HandleError(c, utils.BadRequestError(err.Error(), err))
		return
	}

	uid, _ := middleware.CurrentUserID(c)
	listing := &models.Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       price,
		Location:    in.Location,
		Country:     in.Country,
		OwnerID:     uid,
	}

	if err := h.locate(ctx, listing); err != nil {
		utils.HandleError(c, err)
		return
	}

	asset, uploaded, err := h.saveImage(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if uploaded {
		listing.Image = models.Image{URL: asset.URL, Filename: asset.Filename}
	}

	if err := h.Store.CreateListing(ctx, listing); err != nil {
		if uploaded {
			h.removeImage(ctx, asset.Filename)
		}
		utils.HandleError(c, err)
		return
	}

	log.Info().Uint("listing_id", listing.ID).Msg("listing created")
	utils.FlashSuccess(c, utils.MsgListingCreated)
	c.Redirect(http.StatusFound, "/listings")
}

func (h *Handler) EditListingForm(c *gin.Context) {
	listing, ok := middleware.LoadedListing(c)
	if !ok {
		utils.HandleError(c, utils.NotFoundError(utils.ErrListingNotFound, nil))
		return
	}
	c.HTML(http.StatusOK, "listings/edit.html", utils.View(c, gin.H{"listing": listing}))
}

// UpdateListing handles PUT /listings/:id. Empty fields keep their value.
func (h *Handler) UpdateListing(c *gin.Context) {
	ctx := c.Request.Context()
	listing, ok := middleware.LoadedListing(c)
	if !ok {
		utils.HandleError(c, utils.NotFoundError(utils.ErrListingNotFound, nil))
		return
	}

	var in utils.ListingInput
	if err := c.ShouldBind(&in); err != nil {
		utils.HandleError(c, utils.BadRequestError(utils.ErrInvalidData, err))
		return
	}
	price, hasPrice, err := in.ValidatePartial()
	if err != nil {
		utils.HandleError(c, utils.BadRequestError(err.Error(), err))
		return
	}

	if in.Title != "" {
		listing.Title = in.Title
	}
	if in.Description != "" {
		listing.Description = in.Description
	}
	if hasPrice {
		listing.Price = price
	}
	if in.Country != "" {
		listing.Country = in.Country
	}
	if in.Location != "" {
		listing.Location = in.Location
		if err := h.locate(ctx, listing); err != nil {
			utils.HandleError(c, err)
			return
		}
	}

	asset, uploaded, err := h.saveImage(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	oldImage := listing.Image.Filename
	if uploaded {
		listing.Image = models.Image{URL: asset.URL, Filename: asset.Filename}
	}

	if err := h.Store.UpdateListing(ctx, listing); err != nil {
		if uploaded {
			h.removeImage(ctx, asset.Filename)
		}
		utils.HandleError(c, err)
		return
	}
	if uploaded && oldImage != "" {
		h.removeImage(ctx, oldImage)
	}

	utils.FlashSuccess(c, utils.MsgListingUpdated)
	c.Redirect(http.StatusFound, fmt.Sprintf("/listings/%d", listing.ID))
}

// DeleteListing handles DELETE /listings/:id
func (h *Handler) DeleteListing(c *gin.Context) {
	ctx := c.Request.Context()
	listing, ok := middleware.LoadedListing(c)
	if !ok {
		utils.HandleError(c, utils.NotFoundError(utils.ErrListingNotFound, nil))
		return
	}
	if err := h.Store.DeleteListing(ctx, listing.ID); err != nil {
		utils.HandleError(c, err)
		return
	}
	if listing.Image.Filename != "" {
		h.removeImage(ctx, listing.Image.Filename)
	}
	utils.RequestLogger(c).Info().Uint("listing_id", listing.ID).Msg("listing deleted")
	utils.FlashSuccess(c, utils.MsgListingDeleted)
	c.Redirect(http.StatusFound, "/listings")
}

// locate geocodes the listing's location. An unknown place is the caller's
// mistake; an unreachable geocoder only costs the map pin.
func (h *Handler) locate(ctx context.Context, listing *models.Listing) error {
	if h.Geocoder == nil {
		return nil
	}
	pt, err := h.Geocoder.Forward(ctx, listing.Location)
	if errors.Is(err, geocode.ErrNoResults) {
		return utils.BadRequestError(fmt.Sprintf("Could not find location %q", listing.Location), err)
	}
	if err != nil {
		utils.LogError("Geocoding %q failed: %v", listing.Location, err)
		return nil
	}
	listing.Geometry = models.Geometry{Type: pt.Type, Longitude: pt.Longitude(), Latitude: pt.Latitude()}
	if listing.Geometry.Type == "" {
		listing.Geometry.Type = "Point"
	}
	return nil
}

// saveImage stores the optional listing[image] upload.
func (h *Handler) saveImage(c *gin.Context) (uploads.Asset, bool, error) {
	file, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return uploads.Asset{}, false, nil
	}
	if err != nil {
		return uploads.Asset{}, false, utils.BadRequestError(utils.ErrInvalidData, err)
	}
	return h.storeFile(c.Request.Context(), file)
}

func (h *Handler) storeFile(ctx context.Context, file *multipart.FileHeader) (uploads.Asset, bool, error) {
	asset, err := h.Files.Save(ctx, file)
	if errors.Is(err, uploads.ErrInvalidImage) {
		return uploads.Asset{}, false, utils.BadRequestError(err.Error(), err)
	}
	if err != nil {
		return uploads.Asset{}, false, err
	}
	return asset, true, nil
}

func (h *Handler) removeImage(ctx context.Context, filename string) {
	if err := h.Files.Delete(ctx, filename); err != nil {
		utils.LogError("Failed to delete image %s: %v", filename, err)
	}
}
