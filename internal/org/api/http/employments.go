package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orgledger/orgledger/internal/org/storage"
)

type addEmploymentRequest struct {
	OrganizationUnitID string `json:"organization_unit_id" binding:"required"`
	Role               string `json:"role" binding:"required"`
}

type updateEmploymentRequest struct {
	Role string `json:"role" binding:"required"`
}

type employmentResponse struct {
	PersonID           string    `json:"person_id"`
	OrganizationUnitID string    `json:"organization_unit_id"`
	Role               string    `json:"role"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toEmploymentResponse(record storage.EmploymentRecord) employmentResponse {
	return employmentResponse{
		PersonID:           record.PersonID,
		OrganizationUnitID: record.OrganizationUnitID,
		Role:               record.Role,
		CreatedAt:          record.CreatedAt,
		UpdatedAt:          record.UpdatedAt,
	}
}

func (a *API) addEmployment(c *gin.Context) {
	var req addEmploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeBindError(c, err)
		return
	}
	if err := a.persons.AddEmployment(c.Request.Context(), c.Param("id"), req.OrganizationUnitID, req.Role); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (a *API) updateEmployment(c *gin.Context) {
	var req updateEmploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeBindError(c, err)
		return
	}
	if err := a.persons.UpdateEmployment(c.Request.Context(), c.Param("id"), c.Param("unitID"), req.Role); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) deleteEmployment(c *gin.Context) {
	if err := a.persons.DeleteEmployment(c.Request.Context(), c.Param("id"), c.Param("unitID")); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) listEmployments(c *gin.Context) {
	records, err := a.persons.ListEmployments(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	out := make([]employmentResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toEmploymentResponse(record))
	}
	c.JSON(http.StatusOK, out)
}
