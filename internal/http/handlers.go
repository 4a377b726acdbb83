package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/confessfeed/confess/internal/config"
	"github.com/confessfeed/confess/internal/confession"
	"github.com/confessfeed/confess/internal/manifest"
	"github.com/confessfeed/confess/internal/pseudonym"
	"github.com/confessfeed/confess/internal/ws"
)

const (
	rateLimitRPS   = 1.0 / 3.0 // one confession every 3 seconds per IP
	rateLimitBurst = 1
)

// CreateConfessionInput is the composer payload. Author is optional; a
// pseudonym is generated when it is blank.
type CreateConfessionInput struct {
	Text        string `json:"text"`
	Author      string `json:"author"`
	IsAnonymous *bool  `json:"is_anonymous"`
}

// WsMessage is the envelope pushed to feed subscribers.
type WsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// --- Rate Limiter ---

type IPRateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*rate.Limiter),
		rps:      r,
		burst:    b,
	}
}

func (rl *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	limiter, exists := rl.visitors[ip]
	if !exists {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		rl.visitors[ip] = limiter
	}
	return limiter
}

func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please wait."})
			return
		}
		c.Next()
	}
}

// --- Handlers ---

type Env struct {
	Repo *confession.Repository
	Hub  *ws.Hub
	Cfg  *config.Config
}

// GetConfessions returns the feed newest-first. The repository repairs any
// drifted like counters as part of this read.
func (e *Env) GetConfessions(c *gin.Context) {
	confessions, err := e.Repo.FetchAll(c.Request.Context())
	if err != nil {
		log.Printf("Error fetching confessions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch confessions"})
		return
	}
	c.JSON(http.StatusOK, confessions)
}

func (e *Env) CreateConfession(c *gin.Context) {
	var input CreateConfessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if input.Author == "" {
		input.Author = pseudonym.Random()
	}

	create := confession.CreateInput{
		Text:        input.Text,
		Author:      input.Author,
		IsAnonymous: input.IsAnonymous,
	}
	if fid, ok := CurrentIdentity(c).FID(); ok {
		create.UserFID = &fid
	}

	created, err := e.Repo.Create(c.Request.Context(), create)
	if err != nil {
		var verr *confession.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		log.Printf("Error creating confession: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create confession"})
		return
	}

	e.broadcastMessage(WsMessage{Type: "new_confession", Data: created})
	c.JSON(http.StatusCreated, created)
}

func (e *Env) LikeConfession(c *gin.Context) {
	confessionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid confession ID"})
		return
	}

	id := CurrentIdentity(c)
	err = e.Repo.Like(c.Request.Context(), uint(confessionID), id)
	switch {
	case errors.Is(err, confession.ErrNoIdentity):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case errors.Is(err, confession.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Confession not found"})
		return
	case errors.Is(err, confession.ErrAlreadyLiked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Printf("Error liking confession %d: %v", confessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like confession"})
		return
	}

	payload := gin.H{"confession_id": confessionID, "is_liked": true}
	e.broadcastMessage(WsMessage{Type: "like", Data: payload})
	c.JSON(http.StatusOK, payload)
}

func (e *Env) UnlikeConfession(c *gin.Context) {
	confessionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid confession ID"})
		return
	}

	id := CurrentIdentity(c)
	err = e.Repo.Unlike(c.Request.Context(), uint(confessionID), id)
	switch {
	case errors.Is(err, confession.ErrNoIdentity):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Printf("Error unliking confession %d: %v", confessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlike confession"})
		return
	}

	payload := gin.H{"confession_id": confessionID, "is_liked": false}
	e.broadcastMessage(WsMessage{Type: "unlike", Data: payload})
	c.JSON(http.StatusOK, payload)
}

// GetLikeStatus reports whether the current identity has liked the
// confession. Best-effort: with no identity or on lookup failure it answers
// "not liked" instead of erroring.
func (e *Env) GetLikeStatus(c *gin.Context) {
	confessionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid confession ID"})
		return
	}

	liked := e.Repo.HasLiked(c.Request.Context(), uint(confessionID), CurrentIdentity(c))
	c.JSON(http.StatusOK, gin.H{"confession_id": confessionID, "is_liked": liked})
}

// RecalculateLikes overwrites every stored like counter with the live count.
// This is the "fix like counts" remediation the UI offers when counters look
// wrong.
func (e *Env) RecalculateLikes(c *gin.Context) {
	if err := e.Repo.RecalculateLikeCounts(c.Request.Context()); err != nil {
		log.Printf("Error recalculating like counts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recalculate like counts"})
		return
	}
	e.broadcastMessage(WsMessage{Type: "recount", Data: gin.H{}})
	c.JSON(http.StatusOK, gin.H{"message": "Like counts recalculated"})
}

// GetManifest serves the mini-app metadata the embedding host fetches.
func (e *Env) GetManifest(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, manifest.Build(e.Cfg.BaseURL))
}

func (e *Env) broadcastMessage(msg WsMessage) {
	if e.Hub == nil {
		return
	}
	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshalling WS message: %v", err)
		return
	}
	e.Hub.Broadcast <- jsonMsg
}
