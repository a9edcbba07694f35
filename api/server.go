package api

import (
	"context"
	"fmt"
	"os"

	"github.com/Kalyan-pallati/e-voting/api/controllers"
	"github.com/Kalyan-pallati/e-voting/api/transport"
	"github.com/Kalyan-pallati/e-voting/chainsync"
	"github.com/Kalyan-pallati/e-voting/ledger"
	"github.com/Kalyan-pallati/e-voting/logging"
	"github.com/Kalyan-pallati/e-voting/results"
	"github.com/Kalyan-pallati/e-voting/storage"
	"github.com/Kalyan-pallati/e-voting/voting"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	// Create storage
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logging.Log.Errorf("failed to load AWS config: %v", err)
		panic("failed to load AWS config")
	}

	dynamoClient := dynamodb.NewFromConfig(cfg)

	electionStorage := &storage.DynamoElectionStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameElections,
	}
	candidateStorage := &storage.DynamoCandidateStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameCandidates,
	}
	politicianStorage := &storage.DynamoPoliticianStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNamePoliticians,
	}

	// The ledger collaborator: one in-process machine serializing all
	// election, candidate and vote writes.
	machine := ledger.NewMachine()

	syncer := &chainsync.Syncer{
		Ledger:      machine,
		Elections:   electionStorage,
		Candidates:  candidateStorage,
		Politicians: politicianStorage,
	}
	coordinator := voting.NewCoordinator(machine, electionStorage, s.config.SubmitTimeout)
	aggregator := &results.Aggregator{
		Ledger:     machine,
		Candidates: candidateStorage,
	}

	//Register controllers
	electionController := controllers.NewElectionController(machine, syncer, electionStorage, candidateStorage)
	electionController.RegisterRoutes(r)
	votingController := controllers.NewVotingController(coordinator, machine)
	votingController.RegisterRoutes(r)
	resultsController := controllers.NewResultsController(aggregator)
	resultsController.RegisterRoutes(r)
	politicianController := controllers.NewPoliticianMetaController(politicianStorage)
	politicianController.RegisterRoutes(r)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

// StartLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// StartLocal starts a normal HTTP server
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
