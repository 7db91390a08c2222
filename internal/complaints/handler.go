package complaints

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kasu-ict/grievance-portal/internal/auth"
	"github.com/kasu-ict/grievance-portal/internal/complaints/export"
	"github.com/kasu-ict/grievance-portal/internal/users"
	"github.com/kasu-ict/grievance-portal/pkg/apperrors"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers complaint routes on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	cg := rg.Group("/complaints")
	{
		cg.POST("", auth.RequireRole(users.RoleStudent), h.Submit)
		cg.GET("", h.List)
		cg.GET("/stats", auth.RequireRole(users.RoleAdmin), h.Stats)
		cg.GET("/export", auth.RequireRole(users.RoleAdmin), h.ExportRegister)
		cg.GET("/:id", h.Get)
		cg.GET("/:id/history", h.History)
		cg.GET("/:id/case-file.pdf", auth.RequireRole(users.RoleAdmin), h.CaseFilePDF)
		cg.POST("/:id/assign", auth.RequireRole(users.RoleAdmin), h.Assign)
		cg.POST("/:id/respond", auth.RequireRole(users.RoleLecturer), h.Respond)
		cg.POST("/:id/supply-info", auth.RequireRole(users.RoleStudent), h.SupplyInfo)
		cg.POST("/:id/resolve", auth.RequireRole(users.RoleAdmin), h.Resolve)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.service.Submit(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, complaint)
}

// List returns complaints scoped to the actor: students see their own cases,
// lecturers the ones assigned to them, admins everything (with optional
// query filters).
func (h *Handler) List(c *gin.Context) {
	actor := actorFrom(c)
	var filter Filter

	switch actor.Role {
	case users.RoleStudent:
		filter.StudentID = &actor.ID
	case users.RoleLecturer:
		filter.AssignedToID = &actor.ID
	default:
		if v := c.Query("student_id"); v != "" {
			filter.StudentID = &v
		}
		if v := c.Query("assigned_to"); v != "" {
			filter.AssignedToID = &v
		}
	}
	if v := c.Query("status"); v != "" {
		status := Status(v)
		filter.Status = &status
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	complaint, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, complaint)
}

func (h *Handler) History(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	history, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *Handler) Assign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		LecturerID string `json:"lecturer_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.service.Assign(c.Request.Context(), id, req.LecturerID, actorFrom(c))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, complaint)
}

func (h *Handler) Respond(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Action  ResponseAction `json:"action"`
		Comment string         `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.service.Respond(c.Request.Context(), id, req.Action, req.Comment, actorFrom(c))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, complaint)
}

func (h *Handler) SupplyInfo(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.service.SupplyInfo(c.Request.Context(), id, req.Message, actorFrom(c))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, complaint)
}

func (h *Handler) Resolve(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		FinalMessage string `json:"final_message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.service.Resolve(c.Request.Context(), id, req.FinalMessage, actorFrom(c))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, complaint)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportRegister streams the full complaints register as an xlsx workbook.
func (h *Handler) ExportRegister(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), Filter{})
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	rows := make([]export.RegisterRow, 0, len(list))
	for _, item := range list {
		assigned := ""
		if item.AssignedToID != nil {
			assigned = *item.AssignedToID
		}
		rows = append(rows, export.RegisterRow{
			ID:            item.ID,
			StudentID:     item.StudentID,
			CourseCode:    item.CourseCode,
			CourseTitle:   item.CourseTitle,
			Type:          item.Type,
			Status:        string(item.Status),
			AssignedTo:    assigned,
			DateSubmitted: item.DateSubmitted,
		})
	}

	data, err := export.ComplaintsRegister(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="complaints_register.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// CaseFilePDF streams a printable case file for one complaint, including its
// history timeline.
func (h *Handler) CaseFilePDF(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	complaint, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	doc := export.CaseFile{
		ID:            complaint.ID,
		StudentID:     complaint.StudentID,
		CourseCode:    complaint.CourseCode,
		CourseTitle:   complaint.CourseTitle,
		LecturerName:  complaint.LecturerName,
		Department:    complaint.Department,
		Type:          complaint.Type,
		Description:   complaint.Description,
		Status:        string(complaint.Status),
		Feedback:      complaint.Feedback,
		DateSubmitted: complaint.DateSubmitted,
	}
	for _, entry := range complaint.History {
		doc.Timeline = append(doc.Timeline, export.TimelineEntry{
			Date:   entry.Date,
			Action: entry.Action,
			By:     entry.By,
		})
	}

	data, err := export.CaseFilePDF(doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="complaint_%d.pdf"`, complaint.ID))
	c.Data(http.StatusOK, "application/pdf", data)
}

func actorFrom(c *gin.Context) Actor {
	user := auth.CurrentUser(c)
	if user == nil {
		return Actor{}
	}
	return Actor{ID: user.ID, Role: user.Role}
}
