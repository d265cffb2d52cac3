package api

import (
	"log"
	stdhttp "net/http"

	intconfig "backend/internal/config"
	h "backend/internal/http/handlers"
	"backend/internal/http/middleware"
	"backend/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, waClient whatsapp.Client) *gin.Engine {
	_ = env

	h.SetWAClient(waClient)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	api.Use(middleware.AuthOptional())
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Users
		users := api.Group("/users")
		users.GET("", h.GetUsers)
		users.GET("/:id", h.GetUserByID)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)

		// Bookings + calendar
		bookings := api.Group("/bookings")
		bookings.GET("", h.GetBookings)
		bookings.GET("/calendar", h.GetBookingCalendar)
		bookings.GET("/:id", h.GetBookingByID)
		bookings.POST("", h.CreateBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.PUT("/:id/status", h.UpdateBookingStatus)
		bookings.DELETE("/:id", h.DeleteBooking)

		// WhatsApp messages + templates
		wa := api.Group("/whatsapp")
		messages := wa.Group("/messages")
		messages.GET("", h.GetWAMessages)
		messages.GET("/:id", h.GetWAMessageByID)
		messages.PUT("/:id", h.UpdateWAMessage)
		messages.POST("/:id/send", h.SendWAMessage)
		messages.POST("/:id/resend", h.ResendWAMessage)
		messages.DELETE("/:id", h.DeleteWAMessage)

		templates := wa.Group("/templates")
		templates.GET("", h.GetWATemplates)
		templates.POST("", h.CreateWATemplate)
		templates.PUT("/:id", h.UpdateWATemplate)
		templates.DELETE("/:id", h.DeleteWATemplate)

		// Vehicles
		vehicles := api.Group("/vehicles")
		vehicles.GET("", h.GetVehicles)
		vehicles.POST("", h.CreateVehicle)
		vehicles.PUT("/:id", h.UpdateVehicle)
		vehicles.DELETE("/:id", h.DeleteVehicle)

		// Drivers
		drivers := api.Group("/drivers")
		drivers.GET("", h.GetDrivers)
		drivers.POST("", h.CreateDriver)
		drivers.PUT("/:id", h.UpdateDriver)
		drivers.DELETE("/:id", h.DeleteDriver)

		// Maintenance
		maintenance := api.Group("/maintenance")
		maintenance.GET("", h.GetMaintenanceRecords)
		maintenance.POST("", h.CreateMaintenanceRecord)
		maintenance.PUT("/:id", h.UpdateMaintenanceRecord)
		maintenance.DELETE("/:id", h.DeleteMaintenanceRecord)

		// Transactions
		transactions := api.Group("/transactions")
		transactions.GET("", h.GetTransactions)
		transactions.GET("/summary", h.GetTransactionSummary)
		transactions.POST("", h.CreateTransaction)
		transactions.PUT("/:id", h.UpdateTransaction)
		transactions.DELETE("/:id", h.DeleteTransaction)

		// Receivables
		receivables := api.Group("/receivables")
		receivables.GET("", h.GetReceivables)
		receivables.GET("/outstanding", h.GetReceivablesOutstanding)
		receivables.GET("/:id/invoice", h.GetReceivableInvoicePDF)
		receivables.POST("", h.CreateReceivable)
		receivables.PUT("/:id", h.UpdateReceivable)
		receivables.PUT("/:id/pay", h.PayReceivable)
		receivables.DELETE("/:id", h.DeleteReceivable)

		// Clients
		clients := api.Group("/clients")
		clients.GET("", h.GetClients)
		clients.POST("", h.CreateClient)
		clients.PUT("/:id", h.UpdateClient)
		clients.DELETE("/:id", h.DeleteClient)
	}

	return r
}
