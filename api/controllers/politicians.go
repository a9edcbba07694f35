package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Kalyan-pallati/e-voting/api/models"
	"github.com/Kalyan-pallati/e-voting/api/transport"
	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/Kalyan-pallati/e-voting/storage"
	"github.com/gin-gonic/gin"
)

// PoliticianMetaController exposes the global politician bank: name+party
// pairs that exist independently of any election.
type PoliticianMetaController struct {
	storage storage.PoliticianStorage
}

func NewPoliticianMetaController(s storage.PoliticianStorage) *PoliticianMetaController {
	return &PoliticianMetaController{storage: s}
}

func (c *PoliticianMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/politicians", transport.AdminAuthMiddleware())

	group.GET("", c.getAll)
	group.POST("", c.create)
}

// @Security AdminToken
// @Summary List all politicians in the global bank
// @Tags Meta/Politicians
// @Produce json
// @Success 200 {array} models.PoliticianResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/politicians [get]
func (c *PoliticianMetaController) getAll(g *gin.Context) {
	politicians, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to get all politicians: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}

	responses := make([]models.PoliticianResponse, 0, len(politicians))
	for _, p := range politicians {
		responses = append(responses, models.TransformPoliticianFromStorage(p))
	}
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// @Summary Add a politician to the global bank
// @Tags Meta/Politicians
// @Accept json
// @Produce json
// @Param politician body models.PoliticianCreateRequest true "Politician object"
// @Success 200 {object} models.PoliticianResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/politicians [post]
func (c *PoliticianMetaController) create(g *gin.Context) {
	var req models.PoliticianCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request"})
		return
	}

	if req.Name == "" || req.Party == "" {
		logging.Log.Errorf("META: invalid create politician request: %v", req)
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request empty name or party"})
		return
	}

	politician := &storage.Politician{
		Key:       storage.PoliticianKey(req.Name, req.Party),
		Name:      req.Name,
		Party:     req.Party,
		CreatedAt: time.Now().UTC(),
	}

	if err := c.storage.Create(g.Request.Context(), politician); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			logging.Log.Warnf("META: politician %s already exists", politician.Key)
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "politician already exists in the bank"})
			return
		}

		logging.Log.Errorf("META: failed to create politician: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformPoliticianFromStorage(politician))
}
