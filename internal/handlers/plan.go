package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/apierr"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type PlanHandler struct {
	groupSvc     services.PlanGroupService
	genSvc       services.PlanGenerationService
	reconcileSvc services.ReconcileService
}

func NewPlanHandler(groupSvc services.PlanGroupService, genSvc services.PlanGenerationService, reconcileSvc services.ReconcileService) *PlanHandler {
	return &PlanHandler{groupSvc: groupSvc, genSvc: genSvc, reconcileSvc: reconcileSvc}
}

// POST /api/plan-groups
func (h *PlanHandler) CreatePlanGroup(c *gin.Context) {
	var input services.CreatePlanGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	group, err := h.groupSvc.Create(c.Request.Context(), input)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"plan_group": group})
}

// GET /api/plan-groups/:id
func (h *PlanHandler) GetPlanGroup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	group, err := h.groupSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"plan_group": group})
}

// GET /api/plan-groups/:id/plans
func (h *PlanHandler) ListGroupPlans(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	plans, err := h.groupSvc.ListPlans(c.Request.Context(), id)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"plans": plans})
}

// POST /api/plan-groups/:id/generate
func (h *PlanHandler) GeneratePlans(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	var body struct {
		OverwriteExisting bool   `json:"overwrite_existing"`
		MaxEndTime        string `json:"max_end_time"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
			return
		}
	}
	result, err := h.genSvc.Generate(c.Request.Context(), id, services.GenerateOptions{
		OverwriteExisting: body.OverwriteExisting,
		MaxEndTime:        body.MaxEndTime,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, result)
}

// GET /api/plan-groups/:id/conflicts
func (h *PlanHandler) ValidatePlanGroup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	report, err := h.reconcileSvc.ValidateGroup(c.Request.Context(), id)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, report)
}

// POST /api/plan-groups/:id/adjust
func (h *PlanHandler) AdjustPlanGroup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	var body struct {
		MaxEndTime string `json:"max_end_time"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
			return
		}
	}
	summary, err := h.reconcileSvc.AdjustGroup(c.Request.Context(), id, body.MaxEndTime)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, summary)
}

// GET /api/students/:id/plans?date=YYYY-MM-DD
func (h *PlanHandler) ListStudentPlans(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	plans, err := h.groupSvc.ListStudentPlans(c.Request.Context(), studentID, c.Query("date"))
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"plans": plans})
}

// GET /api/students/:id/plan-groups
func (h *PlanHandler) ListStudentPlanGroups(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	groups, err := h.groupSvc.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"plan_groups": groups})
}
