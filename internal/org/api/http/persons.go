package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orgledger/orgledger/internal/org/storage"
)

type createPersonRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type updatePersonRequest struct {
	Name string `json:"name" binding:"required"`
}

type personResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPersonResponse(record storage.PersonRecord) personResponse {
	return personResponse{
		ID:        record.ID,
		Name:      record.Name,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func (a *API) createPerson(c *gin.Context) {
	var req createPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeBindError(c, err)
		return
	}
	if err := a.persons.CreatePerson(c.Request.Context(), req.ID, req.Name); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": req.ID})
}

func (a *API) updatePerson(c *gin.Context) {
	var req updatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeBindError(c, err)
		return
	}
	if err := a.persons.UpdatePerson(c.Request.Context(), c.Param("id"), req.Name); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) deletePerson(c *gin.Context) {
	if err := a.persons.DeletePerson(c.Request.Context(), c.Param("id")); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) getPerson(c *gin.Context) {
	record, err := a.persons.GetPerson(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPersonResponse(record))
}

func (a *API) listPersons(c *gin.Context) {
	records, err := a.persons.ListPersons(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	out := make([]personResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toPersonResponse(record))
	}
	c.JSON(http.StatusOK, out)
}
