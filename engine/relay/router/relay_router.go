// Package relayrouter exposes the startserver workflow over HTTP.
package relayrouter

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/startrelay/startrelay/engine/infra/server/router"
	"github.com/startrelay/startrelay/engine/relay"
	"github.com/startrelay/startrelay/pkg/apitypes"
	"github.com/startrelay/startrelay/pkg/logger"
	"github.com/startrelay/startrelay/pkg/version"
)

// Runner abstracts workflow execution for the HTTP layer.
type Runner interface {
	Run(ctx context.Context) (*relay.Result, error)
}

// Handlers carries the dependencies of the relay routes.
type Handlers struct {
	runner        Runner
	exposeFullJWT bool
}

// NewHandlers creates the route handlers. exposeFullJWT controls whether the
// trigger response carries the raw token or leaves it null.
func NewHandlers(runner Runner, exposeFullJWT bool) *Handlers {
	return &Handlers{runner: runner, exposeFullJWT: exposeFullJWT}
}

// Register attaches the relay routes to the router.
func Register(r gin.IRouter, h *Handlers) {
	r.GET("/", h.root)
	r.GET("/healthz", h.healthz)
	r.GET("/version", h.version)
	r.POST("/trigger", h.trigger)
}

// trigger handles POST /trigger. The recognized call runs the workflow
// synchronously; workflow-level failures still answer 200 with an error
// status, only template setup failures map to 500.
func (h *Handlers) trigger(c *gin.Context) {
	var req apitypes.TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		router.RespondWithError(c, http.StatusBadRequest, &router.ErrorInfo{
			Code:    router.ErrBadRequestCode,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}
	if !strings.EqualFold(req.Call, apitypes.CallStartServer) {
		router.RespondWithError(c, http.StatusBadRequest, &router.ErrorInfo{
			Code:    router.ErrBadRequestCode,
			Message: "call must be 'startserver'",
		})
		return
	}
	result, err := h.runner.Run(c.Request.Context())
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("startserver run could not start", "error", relay.RedactError(err))
		router.RespondWithError(c, http.StatusInternalServerError, &router.ErrorInfo{
			Code:    router.ErrInternalCode,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, toTriggerResponse(result, h.exposeFullJWT))
}

func (h *Handlers) root(c *gin.Context) {
	c.JSON(http.StatusOK, apitypes.RootResponse{
		Message: "Send POST /trigger with {'call': 'startserver'} to run the workflow.",
		Health:  "/healthz",
	})
}

func (h *Handlers) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, apitypes.HealthResponse{Status: "ok"})
}

func (h *Handlers) version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
