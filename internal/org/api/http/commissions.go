package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orgledger/orgledger/internal/org/storage"
)

type createAdminCommissionRequest struct {
	ID                        string `json:"id" binding:"required"`
	Name                      string `json:"name" binding:"required"`
	ResponsibleOrganizationID string `json:"responsible_organization_id" binding:"required"`
}

type updateAdminCommissionRequest struct {
	Name                      string `json:"name" binding:"required"`
	ResponsibleOrganizationID string `json:"responsible_organization_id" binding:"required"`
}

type adminCommissionResponse struct {
	ID                        string    `json:"id"`
	Name                      string    `json:"name"`
	ResponsibleOrganizationID string    `json:"responsible_organization_id"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

func toAdminCommissionResponse(record storage.AdminCommissionRecord) adminCommissionResponse {
	return adminCommissionResponse{
		ID:                        record.ID,
		Name:                      record.Name,
		ResponsibleOrganizationID: record.ResponsibleOrganizationID,
		CreatedAt:                 record.CreatedAt,
		UpdatedAt:                 record.UpdatedAt,
	}
}

func (a *API) createAdminCommission(c *gin.Context) {
	var req createAdminCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeBindError(c, err)
		return
	}
	if err := a.commissions.CreateAdminCommission(c.Request.Context(), req.ID, req.Name, req.ResponsibleOrganizationID); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": req.ID})
}

func (a *API) updateAdminCommission(c *gin.Context) {
	var req updateAdminCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeBindError(c, err)
		return
	}
	if err := a.commissions.UpdateAdminCommission(c.Request.Context(), c.Param("id"), req.Name, req.ResponsibleOrganizationID); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) deleteAdminCommission(c *gin.Context) {
	if err := a.commissions.DeleteAdminCommission(c.Request.Context(), c.Param("id")); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) getAdminCommission(c *gin.Context) {
	record, err := a.commissions.GetAdminCommission(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminCommissionResponse(record))
}

func (a *API) listAdminCommissions(c *gin.Context) {
	records, err := a.commissions.ListAdminCommissions(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	out := make([]adminCommissionResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toAdminCommissionResponse(record))
	}
	c.JSON(http.StatusOK, out)
}
