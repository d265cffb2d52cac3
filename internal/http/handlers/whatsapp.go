package handlers

import (
	"net/http"
	"strings"

	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/repositories"
	"backend/internal/services"
	"backend/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

// waClient is the delivery collaborator shared by the whatsapp handlers,
// injected once by the router at startup.
var waClient whatsapp.Client = whatsapp.LogClient{}

// SetWAClient wires the delivery client used by send/resend.
func SetWAClient(c whatsapp.Client) {
	if c != nil {
		waClient = c
	}
}

func waService(c *gin.Context) services.WhatsAppService {
	return services.WhatsAppService{
		Client:    waClient,
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/whatsapp/messages?status=pending|sent|failed
func GetWAMessages(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	if status != "" && !models.MessageStatus(status).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status tidak dikenal: " + status})
		return
	}
	list, err := repositories.WhatsAppRepository{}.List(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal mengambil pesan: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/whatsapp/messages/:id
func GetWAMessageByID(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}
	m, err := repositories.WhatsAppRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// PUT /api/whatsapp/messages/:id
// Edits the message body of a pending/failed message before sending.
func UpdateWAMessage(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}
	var payload struct {
		Message string `json:"message"`
	}
	if !BindJSONOrError(c, &payload) {
		return
	}
	m, err := waService(c).EditBody(id, payload.Message)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pesan berhasil diupdate", "data": m})
}

// POST /api/whatsapp/messages/:id/send
// Delivery failure comes back as data (status=failed + error), not 5xx.
func SendWAMessage(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}
	m, err := waService(c).Send(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// POST /api/whatsapp/messages/:id/resend
// Resend re-attempts delivery of a failed message without re-rendering.
func ResendWAMessage(c *gin.Context) {
	SendWAMessage(c)
}

// DELETE /api/whatsapp/messages/:id
func DeleteWAMessage(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}
	if err := waService(c).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pesan berhasil dihapus"})
}

// GET /api/whatsapp/templates
func GetWATemplates(c *gin.Context) {
	list, err := repositories.TemplateRepository{}.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal mengambil template: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

type templatePayload struct {
	Name      string `json:"name" binding:"required"`
	Body      string `json:"body" binding:"required"`
	IsDefault bool   `json:"isDefault"`
}

// POST /api/whatsapp/templates
func CreateWATemplate(c *gin.Context) {
	var payload templatePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	id, err := repositories.TemplateRepository{}.Create(models.MessageTemplate{
		Name:      payload.Name,
		Body:      payload.Body,
		IsDefault: payload.IsDefault,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "template berhasil ditambahkan", "id": id})
}

// PUT /api/whatsapp/templates/:id
func UpdateWATemplate(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}
	var payload templatePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	err := repositories.TemplateRepository{}.Update(id, models.MessageTemplate{
		Name:      payload.Name,
		Body:      payload.Body,
		IsDefault: payload.IsDefault,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "template berhasil diupdate"})
}

// DELETE /api/whatsapp/templates/:id
func DeleteWATemplate(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}
	if err := (repositories.TemplateRepository{}).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "template berhasil dihapus"})
}
