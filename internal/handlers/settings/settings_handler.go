// internal/handlers/settings/settings_handler.go
package settings

import (
	"net/http"
	"strconv"

	domainsettings "orderbot-service/internal/domain/settings"
	"orderbot-service/internal/pkg/response"
	service "orderbot-service/internal/service/settings"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings retrieves a client's bot settings, creating defaults on
// first read.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	s, err := h.settingsService.Get(c.Request.Context(), clientID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to get settings", err)
		return
	}

	response.Success(c, http.StatusOK, "settings retrieved", gin.H{"settings": s})
}

// UpdateSettings applies a partial update to a client's bot settings.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	var req domainsettings.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	s, err := h.settingsService.Update(c.Request.Context(), clientID, &req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to update settings", err)
		return
	}

	response.Success(c, http.StatusOK, "settings updated successfully", gin.H{"settings": s})
}

// PreviewTemplate renders a message template against sample order data.
func (h *SettingsHandler) PreviewTemplate(c *gin.Context) {
	var req domainsettings.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	rendered := h.settingsService.Preview(&req)
	response.Success(c, http.StatusOK, "preview rendered", gin.H{"preview": rendered})
}
