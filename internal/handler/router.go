package handler

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var platePattern = regexp.MustCompile(`^[A-ZÄÖÜ0-9][A-ZÄÖÜ0-9 -]{1,15}$`)

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("plate", func(fl validator.FieldLevel) bool {
			return platePattern.MatchString(fl.Field().String())
		})
	}
}

// NewRouter wires the HTTP surface. Everything under /api/v1 requires a
// bearer token; /health and /ws do not.
func NewRouter(h *Handler, jwtSecret string) *gin.Engine {
	registerValidations()

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ws", gin.WrapF(h.Hub.Serve))

	api := r.Group("/api/v1")
	api.Use(Auth([]byte(jwtSecret)))

	api.GET("/parking-lots", h.SearchLots)
	api.POST("/parking-lots", h.CreateLot)
	api.DELETE("/parking-lots/:id", h.DeactivateLot)

	api.POST("/bookings", h.CreateBooking)
	api.GET("/bookings", h.ListBookings)
	api.GET("/bookings/:id", h.GetBooking)
	api.PATCH("/bookings/:id", h.PatchBooking)
	api.POST("/bookings/:id/confirm", h.ConfirmBooking)
	api.POST("/bookings/:id/cancel", h.CancelBooking)

	api.POST("/checkin", h.RecordProtocol)
	api.GET("/checkin", h.GetProtocol)

	api.GET("/cash-register", h.GetCashDay)
	api.POST("/cash-register", h.RecordPayment)
	api.PATCH("/cash-register", h.CloseCashDay)
	api.GET("/cash-register/reconcile", h.ReconcileCashDay)

	api.POST("/invoices", h.CreateInvoice)
	api.GET("/invoices", h.ListInvoices)
	api.GET("/invoices/:id", h.GetInvoice)
	api.POST("/invoices/:id/send", h.SendInvoice)

	api.POST("/drivers", h.CreateDriver)
	api.GET("/drivers", h.ListDrivers)

	return r
}
