package controllers

import (
	"github.com/Govind-619/Wanderlust/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SimulatePayment signs a made-up payment for an order so the booking flow
// can be exercised without the gateway checkout. Development only.
func (h *Handler) SimulatePayment(c *gin.Context) {
	orderID := c.Query("order_id")
	if orderID == "" {
		orderID = c.PostForm("order_id")
	}
	if orderID == "" {
		var body struct {
			OrderID string `json:"order_id"`
		}
		_ = c.ShouldBindJSON(&body)
		orderID = body.OrderID
	}
	if orderID == "" {
		utils.BadRequest(c, "Order ID is required", nil)
		return
	}

	paymentID := "pay_test_" + uuid.New().String()[:8]
	utils.Success(c, "Payment simulation completed successfully", gin.H{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  h.Verifier.Sign(orderID, paymentID),
	})
}
