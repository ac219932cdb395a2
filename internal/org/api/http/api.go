// Package http exposes the org registry over a JSON HTTP API.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orgledger/orgledger/internal/org/service"
	apperrors "github.com/orgledger/orgledger/internal/platform/errors"
	"github.com/orgledger/orgledger/internal/platform/requestctx"
)

// requestIDHeader carries the request identifier back to the caller.
const requestIDHeader = "X-Request-ID"

// API carries the service dependencies of the HTTP handlers.
type API struct {
	persons     *service.PersonService
	units       *service.OrganizationUnitService
	commissions *service.AdminCommissionService
	events      *service.EventQueryService
	logger      *zap.Logger
}

// New builds the HTTP API over the service layer.
func New(persons *service.PersonService, units *service.OrganizationUnitService, commissions *service.AdminCommissionService, events *service.EventQueryService, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		persons:     persons,
		units:       units,
		commissions: commissions,
		events:      events,
		logger:      logger,
	}
}

// Router builds the gin engine with all routes registered.
func (a *API) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		persons := api.Group("/persons")
		persons.POST("", a.createPerson)
		persons.GET("", a.listPersons)
		persons.GET("/:id", a.getPerson)
		persons.PUT("/:id", a.updatePerson)
		persons.DELETE("/:id", a.deletePerson)
		persons.GET("/:id/employments", a.listEmployments)
		persons.POST("/:id/employments", a.addEmployment)
		persons.PUT("/:id/employments/:unitID", a.updateEmployment)
		persons.DELETE("/:id/employments/:unitID", a.deleteEmployment)

		units := api.Group("/organization-units")
		units.POST("", a.createOrganizationUnit)
		units.GET("", a.listOrganizationUnits)
		units.GET("/:id", a.getOrganizationUnit)
		units.GET("/:id/children", a.listChildUnits)
		units.PUT("/:id", a.updateOrganizationUnit)
		units.DELETE("/:id", a.deleteOrganizationUnit)

		commissions := api.Group("/admin-commissions")
		commissions.POST("", a.createAdminCommission)
		commissions.GET("", a.listAdminCommissions)
		commissions.GET("/:id", a.getAdminCommission)
		commissions.PUT("/:id", a.updateAdminCommission)
		commissions.DELETE("/:id", a.deleteAdminCommission)

		api.GET("/events/:streamID", a.fetchEvents)
	}

	return router
}

// requestID tags every request with an identifier, honoring one supplied
// by the caller so identifiers survive proxies and retries.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(requestctx.WithRequestID(c.Request.Context(), id))
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// writeError maps domain errors onto HTTP statuses with a stable JSON shape.
func (a *API) writeError(c *gin.Context, err error) {
	requestID := requestctx.RequestIDFromContext(c.Request.Context())
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		status := domainErr.Code.HTTPStatus()
		if status >= http.StatusInternalServerError {
			a.logger.Error("request failed", zap.String("path", c.FullPath()), zap.String("request_id", requestID), zap.Error(err))
		}
		c.JSON(status, gin.H{
			"code":    string(domainErr.Code),
			"message": domainErr.Message,
		})
		return
	}
	a.logger.Error("request failed", zap.String("path", c.FullPath()), zap.String("request_id", requestID), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    string(apperrors.CodeUnknown),
		"message": "internal error",
	})
}

func (a *API) writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    "INVALID_BODY",
		"message": err.Error(),
	})
}
