package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Govind-619/Wanderlust/middleware"
	"github.com/Govind-619/Wanderlust/models"
	"github.com/Govind-619/Wanderlust/payment"
	"github.com/Govind-619/Wanderlust/storage"
	"github.com/Govind-619/Wanderlust/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"
)

// BookingPage renders the checkout page. ?listing=<id> preselects a listing.
func (h *Handler) BookingPage(c *gin.Context) {
	data := gin.H{
		"key":      h.RazorpayKeyID,
		"currency": h.Issuer.Currency(),
		"devMode":  h.DevMode,
	}
	if id, err := strconv.ParseUint(c.Query("listing"), 10, 64); err == nil && id > 0 {
		if listing, err := h.Store.GetListing(c.Request.Context(), uint(id)); err == nil {
			data["listing"] = listing
		}
	}
	c.HTML(http.StatusOK, "listings/booking.html", utils.View(c, data))
}

// BookingReceipt handles GET /bookings/:id/receipt. Only the booker can
// download it and only once the payment is verified.
func (h *Handler) BookingReceipt(c *gin.Context) {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		utils.HandleError(c, utils.NotFoundError("Booking not found", err))
		return
	}
	booking, err := h.Store.GetBooking(c.Request.Context(), id)
	uid, _ := middleware.CurrentUserID(c)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && (booking.UserID == nil || *booking.UserID != uid)) {
		utils.HandleError(c, utils.NotFoundError("Booking not found", err))
		return
	}
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if booking.Status != payment.StateVerified {
		utils.HandleError(c, utils.BadRequestError("A receipt is available once the payment is verified", nil))
		return
	}

	pdf, err := receiptPDF(booking)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.LogInfo("PDF receipt generated for booking ID: %d", booking.ID)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", booking.Receipt))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func receiptPDF(b *models.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "Wanderlust")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	rows := [][2]string{
		{"Receipt", b.Receipt},
		{"Order ID", b.RazorpayOrderID},
		{"Payment ID", b.RazorpayPaymentID},
		{"Status", b.Status.String()},
		{"Booked on", b.CreatedAt.Format("2006-01-02 15:04:05")},
	}
	if b.VerifiedAt != nil {
		rows = append(rows, [2]string{"Paid on", b.VerifiedAt.Format("2006-01-02 15:04:05")})
	}
	if b.Listing != nil {
		rows = append(rows, [2]string{"Stay", b.Listing.Title}, [2]string{"Location", b.Listing.Location + ", " + b.Listing.Country})
	}
	if b.User != nil {
		rows = append(rows, [2]string{"Guest", b.User.Username + " <" + b.User.Email + ">"})
	}

	pdf.SetFont("Arial", "", 12)
	for _, r := range rows {
		pdf.CellFormat(50, 8, r[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(120, 8, r[1], "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(50, 10, "Amount paid:", "", 0, "L", false, 0, "")
	pdf.CellFormat(120, 10, b.Currency+" "+b.AmountDisplay(), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for travelling with Wanderlust!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportBookings handles GET /listings/:id/bookings/export for the owner.
func (h *Handler) ExportBookings(c *gin.Context) {
	listing, ok := middleware.LoadedListing(c)
	if !ok {
		utils.HandleError(c, utils.NotFoundError(utils.ErrListingNotFound, nil))
		return
	}
	bookings, err := h.Store.ListBookingsForListing(c.Request.Context(), listing.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	file, err := bookingsWorkbook(listing, bookings)
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.HandleError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=bookings_listing_%d.xlsx", listing.ID))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		return
	}
	utils.LogInfo("Exported %d bookings for listing %d", len(bookings), listing.ID)
}

func bookingsWorkbook(listing *models.Listing, bookings []models.Booking) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Bookings")
	if err != nil {
		return nil, err
	}

	bold := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	bold.Font = *font

	title := sheet.AddRow()
	title.AddCell().SetString("WANDERLUST - Bookings for " + listing.Title)
	title.Cells[0].SetStyle(bold)
	sheet.AddRow()

	headers := []string{"Booking ID", "Receipt", "Order ID", "Payment ID", "Guest", "Amount", "Currency", "Status", "Created", "Verified"}
	headerRow := sheet.AddRow()
	for _, hdr := range headers {
		cell := headerRow.AddCell()
		cell.SetString(hdr)
		cell.SetStyle(bold)
	}

	var collected int64
	for _, b := range bookings {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(b.ID))
		row.AddCell().SetString(b.Receipt)
		row.AddCell().SetString(b.RazorpayOrderID)
		row.AddCell().SetString(b.RazorpayPaymentID)
		guest := ""
		if b.User != nil {
			guest = b.User.Username
		}
		row.AddCell().SetString(guest)
		row.AddCell().SetString(b.AmountDisplay())
		row.AddCell().SetString(b.Currency)
		row.AddCell().SetString(b.Status.String())
		row.AddCell().SetString(b.CreatedAt.Format("2006-01-02 15:04"))
		verified := ""
		if b.VerifiedAt != nil {
			verified = b.VerifiedAt.Format("2006-01-02 15:04")
		}
		row.AddCell().SetString(verified)
		if b.Status == payment.StateVerified {
			collected += b.Amount
		}
	}

	sheet.AddRow()
	summary := sheet.AddRow()
	summary.AddCell().SetString("Collected")
	summary.Cells[0].SetStyle(bold)
	summary.AddCell().SetString(payment.FormatMinor(collected))
	return file, nil
}
