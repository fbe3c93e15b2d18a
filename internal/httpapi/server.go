// internal/httpapi/server.go

// Package httpapi exposes a read-only JSON view of the fleet: registry,
// delivery history, and live probe status. It never mutates anything.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/epaperd/epaperd/internal/fleet"
	"github.com/epaperd/epaperd/internal/probe"
	"github.com/epaperd/epaperd/internal/tracker"
)

// HistoryStore is the tracker contract required by the API.
type HistoryStore interface {
	History(name string) (tracker.UpdateRecord, error)
	AllHistory() []tracker.NamedRecord
}

// StatusQuerier is the probe contract required by the API.
type StatusQuerier interface {
	QueryAll(ctx context.Context) []probe.Snapshot
}

// Server provides the HTTP status API.
type Server struct {
	addr      string
	reg       *fleet.Registry
	history   HistoryStore
	status    StatusQuerier
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates the status API server.
func NewServer(addr string, reg *fleet.Registry, history HistoryStore, status StatusQuerier) *Server {
	if addr == "" {
		addr = ":9090"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:    addr,
		reg:     reg,
		history: history,
		status:  status,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	s.registerRoutes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/displays", s.handleDisplays)
	r.GET("/api/history", s.handleHistory)
	r.GET("/api/history/:name", s.handleHistoryOne)
	r.GET("/api/status", s.handleStatus)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(s.startTime).String(),
		"displays": s.reg.Len(),
	})
}

type displayJSON struct {
	Name       string `json:"name"`
	Addr       string `json:"addr"`
	Resolution string `json:"resolution"`
	Mode       string `json:"mode"`
}

func (s *Server) handleDisplays(c *gin.Context) {
	displays := s.reg.All()
	out := make([]displayJSON, 0, len(displays))
	for _, d := range displays {
		out = append(out, displayJSON{
			Name:       d.Name,
			Addr:       d.Addr(),
			Resolution: d.Resolution(),
			Mode:       d.Mode.String(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"displays": out})
}

type recordJSON struct {
	Name             string     `json:"name"`
	LastAttempt      *time.Time `json:"last_attempt"`
	LastSuccess      *time.Time `json:"last_success"`
	LastError        *time.Time `json:"last_error"`
	LastErrorMessage string     `json:"last_error_message,omitempty"`
	SuccessCount     uint64     `json:"success_count"`
	ErrorCount       uint64     `json:"error_count"`
}

func toRecordJSON(name string, rec tracker.UpdateRecord) recordJSON {
	return recordJSON{
		Name:             name,
		LastAttempt:      rec.LastAttempt,
		LastSuccess:      rec.LastSuccess,
		LastError:        rec.LastError,
		LastErrorMessage: rec.LastErrorMessage,
		SuccessCount:     rec.SuccessCount,
		ErrorCount:       rec.ErrorCount,
	}
}

func (s *Server) handleHistory(c *gin.Context) {
	records := s.history.AllHistory()
	out := make([]recordJSON, 0, len(records))
	for _, nr := range records {
		out = append(out, toRecordJSON(nr.Name, nr.Record))
	}
	c.JSON(http.StatusOK, gin.H{"history": out})
}

func (s *Server) handleHistoryOne(c *gin.Context) {
	name := c.Param("name")
	rec, err := s.history.History(name)
	if err != nil {
		if errors.Is(err, fleet.ErrUnknownDisplay) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown display"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read history"})
		return
	}
	c.JSON(http.StatusOK, toRecordJSON(name, rec))
}

type statusJSON struct {
	Name       string `json:"name"`
	Reachable  bool   `json:"reachable"`
	Resolution string `json:"resolution,omitempty"`
	Mode       string `json:"mode,omitempty"`
	LatencyMS  int64  `json:"latency_ms"`
	At         string `json:"at"`
}

func (s *Server) handleStatus(c *gin.Context) {
	snaps := s.status.QueryAll(c.Request.Context())
	out := make([]statusJSON, 0, len(snaps))
	for _, snap := range snaps {
		sj := statusJSON{
			Name:      snap.Name,
			Reachable: snap.Reachable,
			LatencyMS: snap.Latency.Milliseconds(),
			At:        snap.At.Format(time.RFC3339),
		}
		if snap.HasReport {
			sj.Resolution = fmt.Sprintf("%dx%d", snap.Width, snap.Height)
			sj.Mode = snap.Mode.String()
		}
		out = append(out, sj)
	}
	c.JSON(http.StatusOK, gin.H{"status": out})
}
