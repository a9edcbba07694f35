package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Kalyan-pallati/e-voting/api/models"
	"github.com/Kalyan-pallati/e-voting/api/transport"
	"github.com/Kalyan-pallati/e-voting/chainsync"
	"github.com/Kalyan-pallati/e-voting/ledger"
	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/Kalyan-pallati/e-voting/storage"
	"github.com/gin-gonic/gin"
)

type ElectionController struct {
	ledger     ledger.Client
	syncer     *chainsync.Syncer
	elections  storage.ElectionStorage
	candidates storage.CandidateStorage
	now        func() time.Time
}

func NewElectionController(client ledger.Client, syncer *chainsync.Syncer,
	elections storage.ElectionStorage, candidates storage.CandidateStorage) *ElectionController {
	return &ElectionController{
		ledger:     client,
		syncer:     syncer,
		elections:  elections,
		candidates: candidates,
		now:        time.Now,
	}
}

func (c *ElectionController) RegisterRoutes(engine *gin.Engine) {
	admin := engine.Group("/api/admin", transport.AdminAuthMiddleware())
	admin.GET("/elections", c.listAll)
	admin.POST("/elections", c.create)
	admin.PUT("/elections/:id", c.updateElection)
	admin.POST("/elections/:id/candidates", c.addCandidate)
	admin.PUT("/elections/:id/candidates/:candidateId", c.updateCandidate)
	admin.POST("/sync/:txId", c.resync)

	group := engine.Group("/api/elections")
	group.GET("", c.listActive)
	group.GET("/:id/candidates", c.listCandidates)
}

// @Security AdminToken
// create godoc
// @Summary Create an election on the ledger and index it in the catalog
// @Tags elections
// @Accept json
// @Produce json
// @Param request body models.CreateElectionRequest true "Election metadata and time window"
// @Success 201 {object} models.CreateElectionResponse
// @Success 202 {object} models.SyncPendingResponse "Recorded on ledger, catalog is catching up"
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/elections [post]
func (c *ElectionController) create(g *gin.Context) {
	var req models.CreateElectionRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}
	if req.Title == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "title is required"})
		return
	}
	if req.EndTime <= req.StartTime {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "end time must be after start time"})
		return
	}

	receipt, err := c.ledger.CreateElection(g.Request.Context(), req.StartTime, req.EndTime)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidTimeRange) {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: err.Error()})
			return
		}
		logging.Log.Errorf("ELECTION: ledger create failed: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not create election on ledger"})
		return
	}

	election, err := c.syncer.SyncElection(g.Request.Context(), receipt,
		chainsync.ElectionMetadata{Title: req.Title, Description: req.Description})
	if err != nil {
		logging.Log.Errorf("ELECTION: created on ledger (tx %s) but indexing failed: %v", receipt.TxID, err)
		g.JSON(http.StatusAccepted, &models.SyncPendingResponse{
			Message: "recorded on ledger, catalog is catching up",
			TxID:    receipt.TxID,
		})
		return
	}

	g.JSON(http.StatusCreated, &models.CreateElectionResponse{
		ElectionResponse: models.TransformElectionFromStorage(election, c.now()),
		TxID:             receipt.TxID,
	})
}

// @Security AdminToken
// updateElection godoc
// @Summary Update the off-chain metadata of an election
// @Description The time window and the ledger id are ledger-owned and cannot be changed here.
// @Tags elections
// @Accept json
// @Produce json
// @Param id path int true "Election ledger ID"
// @Param request body models.UpdateElectionRequest true "Replacement metadata"
// @Success 200 {object} models.ElectionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/elections/{id} [put]
func (c *ElectionController) updateElection(g *gin.Context) {
	electionID, err := strconv.ParseInt(g.Param("id"), 10, 64)
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid election id"})
		return
	}

	var req models.UpdateElectionRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}
	if req.Title == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "title is required"})
		return
	}

	election, err := c.elections.Get(g.Request.Context(), electionID)
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to get election %d: %v", electionID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}
	if election == nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "election not found"})
		return
	}

	election.Title = req.Title
	election.Description = req.Description
	if err := c.elections.Update(g.Request.Context(), election); err != nil {
		logging.Log.Errorf("ELECTION: failed to update election %d: %v", electionID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}

	g.JSON(http.StatusOK, models.TransformElectionFromStorage(election, c.now()))
}

// @Security AdminToken
// addCandidate godoc
// @Summary Add a candidate to a draft election
// @Tags elections
// @Accept json
// @Produce json
// @Param id path int true "Election ledger ID"
// @Param request body models.CreateCandidateRequest true "Candidate metadata"
// @Success 201 {object} models.CreateCandidateResponse
// @Success 202 {object} models.SyncPendingResponse "Recorded on ledger, catalog is catching up"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Election is no longer editable"
// @Router /api/admin/elections/{id}/candidates [post]
func (c *ElectionController) addCandidate(g *gin.Context) {
	electionID, err := strconv.ParseInt(g.Param("id"), 10, 64)
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid election id"})
		return
	}

	var req models.CreateCandidateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}
	if req.Name == "" || req.Party == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "name and party are required"})
		return
	}

	receipt, err := c.ledger.AddCandidate(g.Request.Context(), electionID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrUnknownElection):
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ledger.ErrElectionNotEditable):
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: err.Error()})
		default:
			logging.Log.Errorf("ELECTION: ledger addCandidate failed: %v", err)
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not add candidate on ledger"})
		}
		return
	}

	candidate, err := c.syncer.SyncCandidate(g.Request.Context(), receipt,
		chainsync.CandidateMetadata{Name: req.Name, Party: req.Party})
	if err != nil {
		logging.Log.Errorf("ELECTION: candidate added on ledger (tx %s) but indexing failed: %v", receipt.TxID, err)
		g.JSON(http.StatusAccepted, &models.SyncPendingResponse{
			Message: "recorded on ledger, catalog is catching up",
			TxID:    receipt.TxID,
		})
		return
	}

	g.JSON(http.StatusCreated, &models.CreateCandidateResponse{
		CandidateResponse: models.TransformCandidateFromStorage(candidate),
		TxID:              receipt.TxID,
	})
}

// @Security AdminToken
// updateCandidate godoc
// @Summary Update the off-chain metadata of a candidate
// @Tags elections
// @Accept json
// @Produce json
// @Param id path int true "Election ledger ID"
// @Param candidateId path int true "Candidate ledger ID"
// @Param request body models.UpdateCandidateRequest true "Replacement metadata"
// @Success 200 {object} models.CandidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/admin/elections/{id}/candidates/{candidateId} [put]
func (c *ElectionController) updateCandidate(g *gin.Context) {
	electionID, err := strconv.ParseInt(g.Param("id"), 10, 64)
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid election id"})
		return
	}
	candidateID, err := strconv.ParseInt(g.Param("candidateId"), 10, 64)
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid candidate id"})
		return
	}

	var req models.UpdateCandidateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}
	if req.Name == "" || req.Party == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "name and party are required"})
		return
	}

	candidate, err := c.candidates.Get(g.Request.Context(), electionID, candidateID)
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to get candidate (%d, %d): %v", electionID, candidateID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}
	if candidate == nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "candidate not found"})
		return
	}

	candidate.Name = req.Name
	candidate.Party = req.Party
	if err := c.candidates.Update(g.Request.Context(), candidate); err != nil {
		logging.Log.Errorf("ELECTION: failed to update candidate (%d, %d): %v", electionID, candidateID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}

	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// resync godoc
// @Summary Re-run the catalog sync for a confirmed ledger transaction
// @Tags elections
// @Accept json
// @Produce json
// @Param txId path string true "Ledger transaction ID"
// @Param request body models.ResyncRequest true "Off-chain metadata for the synced entity"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse "Transaction carries no indexable event"
// @Router /api/admin/sync/{txId} [post]
func (c *ElectionController) resync(g *gin.Context) {
	txID := g.Param("txId")

	var req models.ResyncRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	err := c.syncer.Resync(g.Request.Context(), txID,
		chainsync.ElectionMetadata{Title: req.Title, Description: req.Description},
		chainsync.CandidateMetadata{Name: req.Name, Party: req.Party})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrUnknownTransaction):
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ledger.ErrEventNotFound):
			g.JSON(http.StatusUnprocessableEntity, &models.ErrorResponse{Error: err.Error()})
		default:
			logging.Log.Errorf("ELECTION: resync of tx %s failed: %v", txID, err)
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "resync failed"})
		}
		return
	}

	g.JSON(http.StatusOK, gin.H{"message": "catalog synced", "txId": txID})
}

// @Security AdminToken
// listAll godoc
// @Summary List all elections with their derived status
// @Tags elections
// @Produce json
// @Success 200 {array} models.ElectionResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/elections [get]
func (c *ElectionController) listAll(g *gin.Context) {
	elections, err := c.elections.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to list elections: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}

	now := c.now()
	responses := make([]models.ElectionResponse, 0, len(elections))
	for _, e := range elections {
		responses = append(responses, models.TransformElectionFromStorage(e, now))
	}
	g.JSON(http.StatusOK, responses)
}

// listActive godoc
// @Summary List elections whose derived status is active
// @Tags elections
// @Produce json
// @Success 200 {array} models.ElectionResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/elections [get]
func (c *ElectionController) listActive(g *gin.Context) {
	elections, err := c.elections.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to list elections: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}

	now := c.now()
	responses := make([]models.ElectionResponse, 0, len(elections))
	for _, e := range elections {
		if ledger.StatusAt(e.StartTime, e.EndTime, now) != ledger.StatusActive {
			continue
		}
		responses = append(responses, models.TransformElectionFromStorage(e, now))
	}
	g.JSON(http.StatusOK, responses)
}

// listCandidates godoc
// @Summary List the synced candidates of an election
// @Tags elections
// @Produce json
// @Param id path int true "Election ledger ID"
// @Success 200 {array} models.CandidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/elections/{id}/candidates [get]
func (c *ElectionController) listCandidates(g *gin.Context) {
	electionID, err := strconv.ParseInt(g.Param("id"), 10, 64)
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid election id"})
		return
	}

	election, err := c.elections.Get(g.Request.Context(), electionID)
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to get election %d: %v", electionID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}
	if election == nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "election not found"})
		return
	}

	candidates, err := c.candidates.GetByElection(g.Request.Context(), electionID)
	if err != nil {
		logging.Log.Errorf("ELECTION: failed to list candidates for election %d: %v", electionID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: err.Error()})
		return
	}

	responses := make([]models.CandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		responses = append(responses, models.TransformCandidateFromStorage(cand))
	}
	g.JSON(http.StatusOK, responses)
}
