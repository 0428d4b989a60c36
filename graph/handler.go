package graph

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	graphql "github.com/graph-gophers/graphql-go"

	"github.com/Jaypurnwasi/RestaurantApp/logger"
)

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Server answers GraphQL over HTTP and upgrades websocket requests for subscriptions
type Server struct {
	schema   *graphql.Schema
	log      *logger.Logger
	upgrader websocket.Upgrader
}

// NewServer accepts websocket upgrades from origins, or from anywhere when origins is empty
func NewServer(schema *graphql.Schema, origins []string, log *logger.Logger) *Server {
	s := &Server{schema: schema, log: log.WithComponent("graphql_server")}
	s.upgrader = websocket.Upgrader{
		Subprotocols: []string{protocolTransportWS, protocolLegacyWS},
		CheckOrigin:  allowOrigins(origins),
	}
	return s
}

func allowOrigins(origins []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(origins) == 0 {
			return true
		}
		for _, o := range origins {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

func requestError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, gin.H{
		"errors": []gin.H{{"message": msg, "extensions": gin.H{"code": code, "status": status}}},
	})
}

func badRequest(c *gin.Context, msg string) {
	requestError(c, http.StatusBadRequest, "BAD_REQUEST", msg)
}

// Handle is mounted on GET and POST /graphql
func (s *Server) Handle(c *gin.Context) {
	if websocket.IsWebSocketUpgrade(c.Request) {
		s.serveWebsocket(c)
		return
	}

	var req request
	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if v := c.Query("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				badRequest(c, "variables must be a JSON object")
				return
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid GraphQL request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		badRequest(c, "Must provide query string")
		return
	}
	// GET must stay safe to repeat
	if c.Request.Method == http.MethodGet {
		if kind, ok := operationKind(req.Query, req.OperationName); ok && kind != "query" {
			c.Header("Allow", http.MethodPost)
			requestError(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only queries can be sent with GET, use POST for "+kind+"s")
			return
		}
	}

	resp := s.schema.Exec(c.Request.Context(), req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		s.log.Debug("graphql request returned errors", "operation", req.OperationName, "errors", len(resp.Errors))
	}
	c.JSON(http.StatusOK, resp)
}
