package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Govind-619/Wanderlust/middleware"
	"github.com/Govind-619/Wanderlust/models"
	"github.com/Govind-619/Wanderlust/storage"
	"github.com/Govind-619/Wanderlust/utils"
	"github.com/gin-gonic/gin"
)

// CreateReview handles POST /listings/:id/reviews
func (h *Handler) CreateReview(c *gin.Context) {
	listing, err := h.loadListing(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var in utils.ReviewInput
	if err := c.ShouldBind(&in); err != nil {
		utils.HandleError(c, utils.BadRequestError(utils.ErrInvalidData, err))
		return
	}
	rating, err := in.Validate()
	if err != nil {
		utils.HandleError(c, utils.BadRequestError(err.Error(), err))
		return
	}

	uid, _ := middleware.CurrentUserID(c)
	review := &models.Review{AuthorID: uid, Rating: rating, Comment: in.Comment}
	if err := h.Store.AddReview(c.Request.Context(), listing.ID, review); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.FlashSuccess(c, utils.MsgReviewCreated)
	c.Redirect(http.StatusFound, fmt.Sprintf("/listings/%d", listing.ID))
}

// DeleteReview handles DELETE /listings/:id/reviews/:reviewId
func (h *Handler) DeleteReview(c *gin.Context) {
	listingID, err := middleware.ParamID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	reviewID, err := middleware.ParamID(c, "reviewId")
	if err != nil {
		utils.HandleError(c, utils.NotFoundError("Review not found", err))
		return
	}

	err = h.Store.DeleteReview(c.Request.Context(), listingID, reviewID)
	if errors.Is(err, storage.ErrNotFound) {
		utils.HandleError(c, utils.NotFoundError("Review not found", err))
		return
	}
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.FlashSuccess(c, utils.MsgReviewDeleted)
	c.Redirect(http.StatusFound, fmt.Sprintf("/listings/%d", listingID))
}
