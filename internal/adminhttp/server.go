// Package adminhttp is the admin/debug HTTP surface (C12): a thin gin
// server exposing health, device-state inspection, and a
// gorilla/websocket live feed of session lifecycle events. None of
// this is part of the downstream GT06 wire protocol.
package adminhttp

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/intelcon-group/gt06-gateway/internal/devicestate"
	"github.com/intelcon-group/gt06-gateway/internal/logging"
	"github.com/intelcon-group/gt06-gateway/internal/session"
)

// stateFields are the device state hash fields surfaced by
// GET /devices/:id/state, read under device:<source>:<deviceId>.
var stateFields = []string{"last_timestamp", "last_lat", "last_lon", "last_odometer", "voltage"}

// Server is the admin HTTP surface bound to a port.
type Server struct {
	router *gin.Engine
	port   string
	hub    *Hub
	log    *logging.Logger
}

// NewServer wires health, device-state, device-session, and
// /ws/events routes onto a fresh gin.Engine.
func NewServer(port string, store devicestate.Store, sessions *session.Manager, hub *Hub, log *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if os.Getenv("LOG_HTTP") == "true" {
		router.Use(gin.Logger())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/devices/:id/state", func(c *gin.Context) {
		deviceID := c.Param("id")
		source := c.DefaultQuery("source", "mt02")
		key := "device:" + source + ":" + deviceID

		values, oks, err := store.HMGet(c.Request.Context(), key, stateFields...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		state := make(gin.H, len(stateFields))
		for i, field := range stateFields {
			if oks[i] {
				state[field] = values[i]
			}
		}

		protocol, ok, err := store.HGet(c.Request.Context(), "device:"+deviceID, "output_protocol")
		if err == nil && ok {
			state["output_protocol"] = protocol
		}

		c.JSON(http.StatusOK, gin.H{"device_id": deviceID, "source": source, "state": state})
	})

	router.GET("/devices/:id/session", func(c *gin.Context) {
		deviceID := c.Param("id")
		c.JSON(http.StatusOK, gin.H{"device_id": deviceID, "connected": sessions.Exists(deviceID)})
	})

	router.GET("/ws/events", hub.HandleWebSocket)

	return &Server{router: router, port: port, hub: hub, log: log}
}

// Start runs the admin HTTP server, blocking until it exits.
func (s *Server) Start() error {
	s.log.Info("admin HTTP surface listening on port %s", s.port)
	return s.router.Run(":" + s.port)
}
