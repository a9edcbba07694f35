package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Kalyan-pallati/e-voting/api/models"
	"github.com/Kalyan-pallati/e-voting/ledger"
	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/Kalyan-pallati/e-voting/results"
	"github.com/gin-gonic/gin"
)

type ResultsController struct {
	aggregator *results.Aggregator
}

func NewResultsController(aggregator *results.Aggregator) *ResultsController {
	return &ResultsController{aggregator: aggregator}
}

func (c *ResultsController) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/api/elections/:id/results", c.getResults)
}

// getResults godoc
// @Summary Ranked election results joining ledger tallies with catalog metadata
// @Description A lagging catalog degrades the display (placeholder rows) but never hides ledger truth.
// @Tags results
// @Produce json
// @Param id path int true "Election ledger ID"
// @Success 200 {object} models.ResultsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/elections/{id}/results [get]
func (c *ResultsController) getResults(g *gin.Context) {
	electionID, err := strconv.ParseInt(g.Param("id"), 10, 64)
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid election id"})
		return
	}

	set, err := c.aggregator.Aggregate(g.Request.Context(), electionID)
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownElection) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
			return
		}
		logging.Log.Errorf("RESULTS: aggregation failed for election %d: %v", electionID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not aggregate results"})
		return
	}

	g.JSON(http.StatusOK, models.TransformResultSet(set))
}
