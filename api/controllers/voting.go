package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Kalyan-pallati/e-voting/api/models"
	"github.com/Kalyan-pallati/e-voting/api/transport"
	"github.com/Kalyan-pallati/e-voting/ledger"
	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/Kalyan-pallati/e-voting/voting"
	"github.com/gin-gonic/gin"
)

type VotingController struct {
	coordinator *voting.Coordinator
	ledger      ledger.Client
}

func NewVotingController(coordinator *voting.Coordinator, client ledger.Client) *VotingController {
	return &VotingController{
		coordinator: coordinator,
		ledger:      client,
	}
}

func (c *VotingController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api")

	group.POST("/vote", c.castVote)
	group.GET("/vote/status", c.voteStatus)
}

// castVote godoc
// @Summary Submit a vote
// @Description Runs the advisory preflight, then submits the vote to the ledger. The ledger's answer is authoritative.
// @Tags voting
// @Accept json
// @Produce json
// @Param X-Voter-Address header string true "Voter identity from the credential collaborator"
// @Param vote body models.CastVoteRequest true "Vote submission"
// @Success 200 {object} models.CastVoteResponse
// @Success 202 {object} models.CastVoteResponse "Submission timed out, confirmation pending"
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse "Election not active"
// @Failure 404 {object} models.ErrorResponse "Unknown election or candidate"
// @Failure 409 {object} models.ErrorResponse "Duplicate vote"
// @Failure 429 {object} models.ErrorResponse "A submission is already in progress"
// @Router /api/vote [post]
func (c *VotingController) castVote(g *gin.Context) {
	voter := transport.VoterIdentity(g)
	if voter == "" {
		g.JSON(http.StatusUnauthorized, &models.ErrorResponse{Error: "voter identity is required"})
		return
	}

	var req models.CastVoteRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	result, err := c.coordinator.Submit(g.Request.Context(), voting.Request{
		ElectionLedgerID:  req.ElectionLedgerID,
		CandidateLedgerID: req.CandidateLedgerID,
		Voter:             voter,
	})
	if err != nil {
		switch {
		case errors.Is(err, voting.ErrSubmissionInProgress):
			g.JSON(http.StatusTooManyRequests, &models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, voting.ErrConfirmationPending):
			g.JSON(http.StatusAccepted, &models.CastVoteResponse{Message: "please wait, confirming"})
		case errors.Is(err, ledger.ErrElectionNotActive):
			g.JSON(http.StatusForbidden, &models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ledger.ErrDuplicateVote):
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ledger.ErrUnknownElection), errors.Is(err, ledger.ErrUnknownCandidate):
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
		default:
			logging.Log.Errorf("VOTE: submission failed: %v", err)
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not submit vote"})
		}
		return
	}

	response := &models.CastVoteResponse{Message: "vote recorded"}
	if result.Receipt != nil {
		response.TxID = result.Receipt.TxID
	}
	g.JSON(http.StatusOK, response)
}

// voteStatus godoc
// @Summary Check whether the caller has voted in an election
// @Tags voting
// @Produce json
// @Param X-Voter-Address header string true "Voter identity from the credential collaborator"
// @Param electionLedgerId query int true "Election ledger ID"
// @Success 200 {object} models.VoteStatusResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/vote/status [get]
func (c *VotingController) voteStatus(g *gin.Context) {
	voter := transport.VoterIdentity(g)
	if voter == "" {
		g.JSON(http.StatusUnauthorized, &models.ErrorResponse{Error: "voter identity is required"})
		return
	}

	electionID, err := strconv.ParseInt(g.Query("electionLedgerId"), 10, 64)
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid election id"})
		return
	}

	voted, err := c.ledger.HasVoted(g.Request.Context(), electionID, voter)
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownElection) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: err.Error()})
			return
		}
		logging.Log.Errorf("VOTE: status check failed for election %d: %v", electionID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not check vote status"})
		return
	}

	g.JSON(http.StatusOK, &models.VoteStatusResponse{
		ElectionLedgerID: electionID,
		Voted:            voted,
	})
}
