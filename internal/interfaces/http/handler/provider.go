package handler

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appintegration "github.com/pos/backend/internal/application/integration"
	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// ProviderHandler exposes provider and store mapping management
type ProviderHandler struct {
	BaseHandler
	providers  *appintegration.ProviderService
	menuExport *appintegration.MenuExportService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(providers *appintegration.ProviderService, menuExport *appintegration.MenuExportService) *ProviderHandler {
	return &ProviderHandler{providers: providers, menuExport: menuExport}
}

// CreateProviderRequest is the payload for registering a provider
type CreateProviderRequest struct {
	Code     string          `json:"code" binding:"required"`
	Name     string          `json:"name"`
	Settings json.RawMessage `json:"settings"`
}

// UpdateProviderRequest is the payload for updating a provider
type UpdateProviderRequest struct {
	Name     *string         `json:"name"`
	Enabled  *bool           `json:"enabled"`
	Settings json.RawMessage `json:"settings"`
}

// CreateStoreRequest is the payload for mapping a store
type CreateStoreRequest struct {
	ProviderID         string          `json:"provider_id" binding:"required,uuid"`
	MerchantSuppliedID string          `json:"merchant_supplied_id" binding:"required"`
	Name               string          `json:"name"`
	Settings           json.RawMessage `json:"settings"`
}

// UpdateStoreRequest is the payload for updating a store mapping
type UpdateStoreRequest struct {
	Name     *string         `json:"name"`
	Settings json.RawMessage `json:"settings"`
}

// ProviderResponse is the API view of a provider
type ProviderResponse struct {
	ID       string          `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Enabled  bool            `json:"enabled"`
	Settings json.RawMessage `json:"settings"`
}

// StoreResponse is the API view of a store mapping
type StoreResponse struct {
	ID                 string          `json:"id"`
	ProviderID         string          `json:"provider_id"`
	MerchantSuppliedID string          `json:"merchant_supplied_id"`
	Name               string          `json:"name"`
	Settings           json.RawMessage `json:"settings"`
}

// MenuSyncResponse reports the outcome of a menu push
type MenuSyncResponse struct {
	StoreID        string     `json:"store_id"`
	RemoteMenuID   string     `json:"remote_menu_id"`
	LastSyncStatus string     `json:"last_sync_status"`
	LastSyncAt     *time.Time `json:"last_sync_at"`
}

func toProviderResponse(provider *integration.Provider) (ProviderResponse, error) {
	settings, err := json.Marshal(provider.Settings)
	if err != nil {
		return ProviderResponse{}, err
	}
	return ProviderResponse{
		ID:       provider.ID.String(),
		Code:     provider.Code.String(),
		Name:     provider.Name,
		Enabled:  provider.Enabled,
		Settings: settings,
	}, nil
}

func toStoreResponse(store *integration.Store) (StoreResponse, error) {
	settings, err := json.Marshal(store.Settings)
	if err != nil {
		return StoreResponse{}, err
	}
	return StoreResponse{
		ID:                 store.ID.String(),
		ProviderID:         store.ProviderID.String(),
		MerchantSuppliedID: store.MerchantSuppliedID,
		Name:               store.Name,
		Settings:           settings,
	}, nil
}

// parseID reads and validates the :id path parameter
func (h *ProviderHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid ID")
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}

// CreateProvider handles POST /integration/providers
func (h *ProviderHandler) CreateProvider(c *gin.Context) {
	var req CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	provider, err := h.providers.CreateProvider(c.Request.Context(), integration.ProviderCode(req.Code), req.Name, req.Settings)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp, err := toProviderResponse(provider)
	if err != nil {
		h.InternalError(c, "Failed to encode provider settings")
		return
	}
	h.Created(c, resp)
}

// GetProvider handles GET /integration/providers/:id
func (h *ProviderHandler) GetProvider(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	provider, err := h.providers.GetProvider(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp, err := toProviderResponse(provider)
	if err != nil {
		h.InternalError(c, "Failed to encode provider settings")
		return
	}
	h.Success(c, resp)
}

// ListProviders handles GET /integration/providers
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	providers, err := h.providers.ListProviders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ProviderResponse, 0, len(providers))
	for _, provider := range providers {
		resp, err := toProviderResponse(provider)
		if err != nil {
			h.InternalError(c, "Failed to encode provider settings")
			return
		}
		responses = append(responses, resp)
	}
	h.Success(c, responses)
}

// UpdateProvider handles PATCH /integration/providers/:id
func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	provider, err := h.providers.UpdateProvider(c.Request.Context(), id, req.Name, req.Enabled, req.Settings)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp, err := toProviderResponse(provider)
	if err != nil {
		h.InternalError(c, "Failed to encode provider settings")
		return
	}
	h.Success(c, resp)
}

// DeleteProvider handles DELETE /integration/providers/:id
func (h *ProviderHandler) DeleteProvider(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.providers.DeleteProvider(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateStore handles POST /integration/stores
func (h *ProviderHandler) CreateStore(c *gin.Context) {
	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	store, err := h.providers.CreateStore(c.Request.Context(), uuid.MustParse(req.ProviderID), req.MerchantSuppliedID, req.Name, req.Settings)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp, err := toStoreResponse(store)
	if err != nil {
		h.InternalError(c, "Failed to encode store settings")
		return
	}
	h.Created(c, resp)
}

// GetStore handles GET /integration/stores/:id
func (h *ProviderHandler) GetStore(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	store, err := h.providers.GetStore(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp, err := toStoreResponse(store)
	if err != nil {
		h.InternalError(c, "Failed to encode store settings")
		return
	}
	h.Success(c, resp)
}

// ListStores handles GET /integration/providers/:id/stores
func (h *ProviderHandler) ListStores(c *gin.Context) {
	providerID, ok := h.parseID(c)
	if !ok {
		return
	}

	stores, err := h.providers.ListStores(c.Request.Context(), providerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]StoreResponse, 0, len(stores))
	for _, store := range stores {
		resp, err := toStoreResponse(store)
		if err != nil {
			h.InternalError(c, "Failed to encode store settings")
			return
		}
		responses = append(responses, resp)
	}
	h.Success(c, responses)
}

// UpdateStore handles PATCH /integration/stores/:id
func (h *ProviderHandler) UpdateStore(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	store, err := h.providers.UpdateStore(c.Request.Context(), id, req.Name, req.Settings)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp, err := toStoreResponse(store)
	if err != nil {
		h.InternalError(c, "Failed to encode store settings")
		return
	}
	h.Success(c, resp)
}

// DeleteStore handles DELETE /integration/stores/:id
func (h *ProviderHandler) DeleteStore(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.providers.DeleteStore(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PushMenu handles POST /integration/stores/:id/menu/push
func (h *ProviderHandler) PushMenu(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	store, err := h.menuExport.PushMenu(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MenuSyncResponse{
		StoreID:        store.ID.String(),
		RemoteMenuID:   store.Settings.RemoteMenuID,
		LastSyncStatus: store.Settings.LastSyncStatus,
		LastSyncAt:     store.Settings.LastSyncAt,
	})
}

// GetStoreSettings handles GET /integration/stores/:id/settings
func (h *ProviderHandler) GetStoreSettings(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	settings, err := h.menuExport.GetStoreSettings(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateStoreSettings handles PATCH /integration/stores/:id/settings
func (h *ProviderHandler) UpdateStoreSettings(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var settings map[string]json.RawMessage
	if err := c.ShouldBindJSON(&settings); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.menuExport.UpdateStoreSettings(c.Request.Context(), id, settings); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
