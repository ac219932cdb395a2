package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orgledger/orgledger/internal/org/storage"
)

type createOrganizationUnitRequest struct {
	ID       string  `json:"id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parent_id"`
}

type updateOrganizationUnitRequest struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parent_id"`
}

type organizationUnitResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toOrganizationUnitResponse(record storage.OrganizationUnitRecord) organizationUnitResponse {
	return organizationUnitResponse{
		ID:        record.ID,
		Name:      record.Name,
		ParentID:  record.ParentID,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func (a *API) createOrganizationUnit(c *gin.Context) {
	var req createOrganizationUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeBindError(c, err)
		return
	}
	if err := a.units.CreateOrganizationUnit(c.Request.Context(), req.ID, req.Name, req.ParentID); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": req.ID})
}

func (a *API) updateOrganizationUnit(c *gin.Context) {
	var req updateOrganizationUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeBindError(c, err)
		return
	}
	if err := a.units.UpdateOrganizationUnit(c.Request.Context(), c.Param("id"), req.Name, req.ParentID); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) deleteOrganizationUnit(c *gin.Context) {
	if err := a.units.DeleteOrganizationUnit(c.Request.Context(), c.Param("id")); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) getOrganizationUnit(c *gin.Context) {
	record, err := a.units.GetOrganizationUnit(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrganizationUnitResponse(record))
}

func (a *API) listOrganizationUnits(c *gin.Context) {
	records, err := a.units.ListOrganizationUnits(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	out := make([]organizationUnitResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toOrganizationUnitResponse(record))
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) listChildUnits(c *gin.Context) {
	records, err := a.units.ListChildUnits(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	out := make([]organizationUnitResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toOrganizationUnitResponse(record))
	}
	c.JSON(http.StatusOK, out)
}
