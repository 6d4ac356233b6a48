package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
	"github.com/parkly/parking-platform/internal/repository"
	"github.com/parkly/parking-platform/internal/service"
	"github.com/parkly/parking-platform/internal/ws"
)

const dateLayout = "2006-01-02"

type Handler struct {
	Lots      *service.LotService
	Bookings  *service.BookingService
	Protocols *service.ProtocolService
	Cash      *service.CashService
	Invoices  *service.InvoiceService
	Drivers   *service.DriverService
	Hub       *ws.Hub
	Log       *zap.Logger
}

// parking lots

func (h *Handler) SearchLots(c *gin.Context) {
	f := repository.LotFilter{AirportIATA: c.Query("airport")}
	if v := c.Query("minPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MinPrice = &d
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MaxPrice = &d
		}
	}
	if v := c.Query("shuttle"); v != "" {
		b := v == "true"
		f.Shuttle = &b
	}
	if v := c.Query("valet"); v != "" {
		b := v == "true"
		f.Valet = &b
	}

	lots, err := h.Lots.Search(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": lots})
}

type createLotRequest struct {
	AirportID         uuid.UUID       `json:"airport_id" binding:"required"`
	Name              string          `json:"name" binding:"required"`
	Description       string          `json:"description"`
	Address           string          `json:"address" binding:"required"`
	DistanceToAirport *float64        `json:"distance_to_airport"`
	PricePerDay       decimal.Decimal `json:"price_per_day" binding:"required"`
	TotalCapacity     int             `json:"total_capacity" binding:"required,min=0"`
	ShuttleAvailable  bool            `json:"shuttle_available"`
	ValetAvailable    bool            `json:"valet_available"`
}

func (h *Handler) CreateLot(c *gin.Context) {
	var req createLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lot, err := h.Lots.Create(c.Request.Context(), ActorFrom(c), service.CreateLotInput{
		AirportID:         req.AirportID,
		Name:              req.Name,
		Description:       req.Description,
		Address:           req.Address,
		DistanceToAirport: req.DistanceToAirport,
		PricePerDay:       req.PricePerDay,
		TotalCapacity:     req.TotalCapacity,
		ShuttleAvailable:  req.ShuttleAvailable,
		ValetAvailable:    req.ValetAvailable,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": lot})
}

func (h *Handler) DeactivateLot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lot id"})
		return
	}
	if err := h.Lots.Deactivate(c.Request.Context(), ActorFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// bookings

type vehicleRequest struct {
	Make         string `json:"make" binding:"required"`
	Model        string `json:"model" binding:"required"`
	Year         *int   `json:"year"`
	Color        string `json:"color"`
	LicensePlate string `json:"license_plate" binding:"required,plate"`
	VIN          string `json:"vin"`
}

type createBookingRequest struct {
	ParkingLotID    uuid.UUID            `json:"parking_lot_id" binding:"required"`
	DropoffDate     string               `json:"dropoff_date" binding:"required,datetime=2006-01-02"`
	PickupDate      string               `json:"pickup_date" binding:"required,datetime=2006-01-02"`
	FlightNumber    string               `json:"flight_number"`
	FlightDeparture *time.Time           `json:"flight_departure"`
	FlightArrival   *time.Time           `json:"flight_arrival"`
	PaymentMethod   *model.PaymentMethod `json:"payment_method" binding:"omitempty,oneof=cash card online invoice"`
	DiscountAmount  decimal.Decimal      `json:"discount_amount"`
	Notes           string               `json:"notes"`
	Vehicle         vehicleRequest       `json:"vehicle" binding:"required"`
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dropoff, _ := time.Parse(dateLayout, req.DropoffDate)
	pickup, _ := time.Parse(dateLayout, req.PickupDate)

	b, err := h.Bookings.Create(c.Request.Context(), ActorFrom(c), service.CreateBookingInput{
		ParkingLotID:    req.ParkingLotID,
		DropoffDate:     dropoff,
		PickupDate:      pickup,
		FlightNumber:    req.FlightNumber,
		FlightDeparture: req.FlightDeparture,
		FlightArrival:   req.FlightArrival,
		PaymentMethod:   req.PaymentMethod,
		DiscountAmount:  req.DiscountAmount,
		Notes:           req.Notes,
		Vehicle: service.VehicleInput{
			Make:         req.Vehicle.Make,
			Model:        req.Vehicle.Model,
			Year:         req.Vehicle.Year,
			Color:        req.Vehicle.Color,
			LicensePlate: req.Vehicle.LicensePlate,
			VIN:          req.Vehicle.VIN,
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": b})
}

func (h *Handler) ListBookings(c *gin.Context) {
	var status *model.BookingStatus
	if v := c.Query("status"); v != "" {
		s := model.BookingStatus(v)
		status = &s
	}
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "pageSize", 20)

	bookings, total, err := h.Bookings.List(c.Request.Context(), ActorFrom(c), status, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bookings, "count": total, "page": page, "pageSize": pageSize})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	b, err := h.Bookings.Get(c.Request.Context(), ActorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": b})
}

type patchBookingRequest struct {
	Status        *model.BookingStatus `json:"status" binding:"omitempty,oneof=pending confirmed checked_in completed cancelled"`
	DriverID      *uuid.UUID           `json:"driver_id"`
	Notes         *string              `json:"notes"`
	PaymentStatus *model.PaymentStatus `json:"payment_status" binding:"omitempty,oneof=pending paid refunded"`
	PaymentMethod *model.PaymentMethod `json:"payment_method" binding:"omitempty,oneof=cash card online invoice"`
}

func (h *Handler) PatchBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	var req patchBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.Bookings.Patch(c.Request.Context(), ActorFrom(c), id, service.BookingPatch{
		Status:        req.Status,
		DriverID:      req.DriverID,
		Notes:         req.Notes,
		PaymentStatus: req.PaymentStatus,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": b})
}

type confirmBookingRequest struct {
	PaymentMethod *model.PaymentMethod `json:"payment_method" binding:"omitempty,oneof=cash card online invoice"`
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	// The body is optional: omitting it confirms with the method chosen at
	// creation or an already recorded payment.
	var req confirmBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	b, err := h.Bookings.Confirm(c.Request.Context(), ActorFrom(c), id, req.PaymentMethod)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	b, err := h.Bookings.Cancel(c.Request.Context(), ActorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": b})
}

// check-in / check-out protocols

type recordProtocolRequest struct {
	BookingID     uuid.UUID `json:"booking_id" binding:"required"`
	Mode          string    `json:"mode" binding:"required,oneof=checkin checkout"`
	ParkingSpot   string    `json:"parking_spot"`
	Mileage       int       `json:"mileage" binding:"min=0"`
	FuelLevel     int       `json:"fuel_level" binding:"oneof=0 25 50 75 100"`
	Condition     string    `json:"condition" binding:"required,oneof=excellent good fair damaged"`
	Notes         string    `json:"notes"`
	Photos        []string  `json:"photos"`
	Signature     string    `json:"signature"`
	SignatoryName string    `json:"signatory_name"`
}

func (h *Handler) RecordProtocol(c *gin.Context) {
	var req recordProtocolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.Protocols.Record(c.Request.Context(), ActorFrom(c), service.RecordProtocolInput{
		BookingID:     req.BookingID,
		Mode:          booking.ProtocolMode(req.Mode),
		ParkingSpot:   req.ParkingSpot,
		Mileage:       req.Mileage,
		FuelLevel:     req.FuelLevel,
		Condition:     model.VehicleCondition(req.Condition),
		Notes:         req.Notes,
		Photos:        req.Photos,
		Signature:     req.Signature,
		SignatoryName: req.SignatoryName,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": p})
}

func (h *Handler) GetProtocol(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Query("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking_id required"})
		return
	}
	p, err := h.Protocols.Get(c.Request.Context(), ActorFrom(c), bookingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

// cash register

type recordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required,oneof=cash card online invoice"`
	BookingID *uuid.UUID      `json:"booking_id"`
	InvoiceID *uuid.UUID      `json:"invoice_id"`
	Reference string          `json:"reference"`
	Date      string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.Cash.RecordPayment(c.Request.Context(), ActorFrom(c), service.RecordPaymentInput{
		Amount:    req.Amount,
		Method:    model.PaymentMethod(req.Method),
		BookingID: req.BookingID,
		InvoiceID: req.InvoiceID,
		Reference: req.Reference,
		Date:      req.Date,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": p})
}

func (h *Handler) GetCashDay(c *gin.Context) {
	day, payments, err := h.Cash.Day(c.Request.Context(), ActorFrom(c), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cash": day, "payments": payments})
}

type closeDayRequest struct {
	ClosingBalance decimal.Decimal `json:"closing_balance" binding:"required"`
	Notes          string          `json:"notes"`
	Date           string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) CloseCashDay(c *gin.Context) {
	var req closeDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := h.Cash.CloseDay(c.Request.Context(), ActorFrom(c), req.Date, req.ClosingBalance, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": day})
}

func (h *Handler) ReconcileCashDay(c *gin.Context) {
	if err := h.Cash.Reconcile(c.Request.Context(), ActorFrom(c), c.Query("date")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reconciled": true})
}

// invoices

type invoiceItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

type createInvoiceRequest struct {
	BookingID      *uuid.UUID           `json:"booking_id"`
	CustomerID     *uuid.UUID           `json:"customer_id"`
	Items          []invoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxRate        *decimal.Decimal     `json:"tax_rate"`
	DueDate        *time.Time           `json:"due_date"`
	Notes          string               `json:"notes"`
	RecipientEmail string               `json:"recipient_email" binding:"omitempty,email"`
	Send           bool                 `json:"send"`
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]service.InvoiceItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.InvoiceItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	inv, err := h.Invoices.Create(c.Request.Context(), ActorFrom(c), service.CreateInvoiceInput{
		BookingID:      req.BookingID,
		CustomerID:     req.CustomerID,
		Items:          items,
		TaxRate:        req.TaxRate,
		DueDate:        req.DueDate,
		Notes:          req.Notes,
		RecipientEmail: req.RecipientEmail,
		Send:           req.Send,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": inv})
}

func (h *Handler) ListInvoices(c *gin.Context) {
	var status *model.InvoiceStatus
	if v := c.Query("status"); v != "" {
		s := model.InvoiceStatus(v)
		status = &s
	}
	invoices, err := h.Invoices.List(c.Request.Context(), ActorFrom(c), status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func (h *Handler) GetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}
	inv, err := h.Invoices.Get(c.Request.Context(), ActorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (h *Handler) SendInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}
	inv, err := h.Invoices.Send(c.Request.Context(), ActorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

// drivers

type createDriverRequest struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
}

func (h *Handler) CreateDriver(c *gin.Context) {
	var req createDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.Drivers.Create(c.Request.Context(), ActorFrom(c), service.CreateDriverInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": d})
}

func (h *Handler) ListDrivers(c *gin.Context) {
	drivers, err := h.Drivers.List(c.Request.Context(), ActorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers})
}

func intQuery(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
