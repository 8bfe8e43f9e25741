package httpapi

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"classtrack/internal/apperr"
	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/metrics"
	"classtrack/internal/queue"
	"classtrack/internal/roster"
)

// Handler wires the attendance service to the HTTP surface.
type Handler struct {
	svc    *attendance.Service
	guard  attendance.ClassAccess
	roster roster.Provider
	q      queue.Queue
}

// New creates a handler. q may be nil when no audit pipeline is configured.
func New(svc *attendance.Service, guard attendance.ClassAccess, rp roster.Provider, q queue.Queue) *Handler {
	return &Handler{svc: svc, guard: guard, roster: rp, q: q}
}

// Register mounts the authenticated routes on a router group.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.POST("/attendance/save", h.SaveAttendance)
	g.GET("/attendance/history", h.History)
	g.GET("/attendance/class/:className", h.ClassSessions)
	g.GET("/attendance/monthly", h.Monthly)
	g.GET("/classes/:className/students", h.ClassStudents)
}

type saveRequest struct {
	ClassName string            `json:"className" binding:"required"`
	Date      string            `json:"date"`
	Records   []attendance.Mark `json:"records" binding:"required"`
}

// SaveAttendance writes the full day's marks for a class, replacing any
// session already stored for that day.
func (h *Handler) SaveAttendance(c *gin.Context) {
	ident, ok := auth.CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		fail(c, err)
		return
	}

	sess, err := h.svc.Save(c.Request.Context(), ident, req.ClassName, date, req.Records)
	if err != nil {
		fail(c, err)
		return
	}
	metrics.SessionsSaved.WithLabelValues(sess.ClassName).Inc()

	if h.q != nil {
		if err := h.q.Publish(c.Request.Context(), queue.Message{Type: queue.MsgAttendanceSaved, Body: []byte(sess.ID)}); err != nil {
			log.Printf("queue publish failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "attendance saved", "attendance": sess})
}

// History returns one day's summary, or the latest taken when date is omitted.
func (h *Handler) History(c *gin.Context) {
	ident, ok := auth.CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		fail(c, err)
		return
	}
	sum, err := h.svc.History(c.Request.Context(), ident, c.Query("className"), date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// ClassSessions returns every session for a class, newest first.
func (h *Handler) ClassSessions(c *gin.Context) {
	ident, ok := auth.CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}
	sessions, err := h.svc.ClassSessions(c.Request.Context(), ident, c.Param("className"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// Monthly returns the dense roster x days matrix for one month.
func (h *Handler) Monthly(c *gin.Context) {
	ident, ok := auth.CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "year must be an integer"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "month must be an integer"})
		return
	}
	matrix, err := h.svc.Monthly(c.Request.Context(), ident, c.Query("className"), year, month)
	if err != nil {
		fail(c, err)
		return
	}
	metrics.MonthlyRequests.Inc()
	c.JSON(http.StatusOK, matrix)
}

// ClassStudents returns the current roster for a class.
func (h *Handler) ClassStudents(c *gin.Context) {
	ident, ok := auth.CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}
	cls, err := h.guard.CheckClassAccess(c.Request.Context(), c.Param("className"), ident)
	if err != nil {
		fail(c, err)
		return
	}
	students, err := h.roster.FindStudentsByClass(c.Request.Context(), cls.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if students == nil {
		students = []roster.Student{}
	}
	c.JSON(http.StatusOK, gin.H{"className": cls.Name, "students": students, "count": len(students)})
}

// parseDate accepts YYYY-MM-DD or RFC3339; empty means "use now".
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	return nil, apperr.Validation("invalid date %q, use YYYY-MM-DD", s)
}

// fail writes the error response. Anything outside the apperr taxonomy is an
// opaque 500 with the detail logged, never echoed.
func fail(c *gin.Context, err error) {
	status := apperr.StatusOf(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"message": apperr.MessageOf(err)})
}
