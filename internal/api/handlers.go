package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/snackops/graze/internal/common"
	"github.com/snackops/graze/internal/model"
	"github.com/snackops/graze/internal/service"
)

func (s *Server) getTeam(c *gin.Context) {
	members, err := s.storage.GetTeamMembers(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to fetch team members")
		return
	}
	if members == nil {
		members = []model.TeamMember{}
	}
	c.JSON(http.StatusOK, members)
}

type createMemberRequest struct {
	Name              string   `json:"name" binding:"required"`
	Allergies         []string `json:"allergies"`
	SensitivityFactor float64  `json:"sensitivity_factor"`
}

func (s *Server) createTeamMember(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member := &model.TeamMember{
		Name:              req.Name,
		Allergies:         req.Allergies,
		SensitivityFactor: req.SensitivityFactor,
	}
	if err := s.storage.CreateTeamMember(c.Request.Context(), member); err != nil {
		s.fail(c, err, "Failed to create team member")
		return
	}
	c.JSON(http.StatusCreated, member)
}

type updateMemberRequest struct {
	Allergies         []string `json:"allergies"`
	SensitivityFactor float64  `json:"sensitivity_factor"`
}

func (s *Server) updateTeamMember(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team member id"})
		return
	}

	var req updateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := s.storage.GetTeamMemberByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err, "Failed to fetch team member")
		return
	}

	member.Allergies = req.Allergies
	member.SensitivityFactor = req.SensitivityFactor
	if err := s.storage.UpdateTeamMember(c.Request.Context(), member); err != nil {
		s.fail(c, err, "Failed to update team member")
		return
	}
	c.JSON(http.StatusOK, member)
}

func (s *Server) getConfig(c *gin.Context) {
	settings, err := s.storage.GetEvalSettings(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to fetch configuration")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) updateConfig(c *gin.Context) {
	var settings model.EvalSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.storage.SaveEvalSettings(c.Request.Context(), settings); err != nil {
		s.fail(c, err, "Failed to update configuration")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// evaluateRequest accepts the wrapped form {"foods": [...]}; a bare JSON
// array also works via the fallback decode in evaluate.
type evaluateRequest struct {
	Foods []model.Record `json:"foods"`
}

func (s *Server) evaluate(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req evaluateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		if err := json.Unmarshal(body, &req.Foods); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if len(req.Foods) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no food data provided"})
		return
	}

	results, stats, err := s.evaluator.EvaluateBatch(c.Request.Context(), req.Foods)
	if err != nil {
		s.fail(c, err, "Failed to evaluate food")
		return
	}

	recordBatchMetrics(results, stats)

	// Highest score first
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	c.JSON(http.StatusOK, gin.H{"foods": results})
}

type generateRequest struct {
	FoodName string `json:"foodName" binding:"required"`
}

func (s *Server) generate(c *gin.Context) {
	if s.generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no LLM provider configured"})
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var record *model.Record
	err := common.WithRetry(c.Request.Context(), func() error {
		var genErr error
		record, genErr = s.generator.GenerateRecord(c.Request.Context(), req.FoodName)
		return genErr
	}, service.RetryOptions{MaxAttempts: 3})
	if err != nil {
		s.fail(c, err, "Failed to generate food data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": []model.Record{*record}})
}

func (s *Server) search(c *gin.Context) {
	filter := service.SearchFilter{Query: c.Query("query")}
	if rejected := c.Query("rejected"); rejected != "" {
		value := rejected == "true"
		filter.Rejected = &value
	}

	submissions, err := s.storage.SearchSubmissions(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err, "Failed to search submissions")
		return
	}
	if submissions == nil {
		submissions = []model.Submission{}
	}
	c.JSON(http.StatusOK, submissions)
}

func (s *Server) reviewQueue(c *gin.Context) {
	queue, err := s.storage.GetReviewQueue(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to fetch review queue")
		return
	}
	if queue == nil {
		queue = []model.Submission{}
	}
	c.JSON(http.StatusOK, queue)
}

type reviewRequest struct {
	ReviewedBy string `json:"reviewedBy" binding:"required"`
}

func (s *Server) markReviewed(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if err := s.storage.MarkReviewed(c.Request.Context(), id, req.ReviewedBy); err != nil {
		s.fail(c, err, "Failed to mark as reviewed")
		return
	}

	submission, err := s.storage.GetSubmissionByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err, "Failed to fetch submission")
		return
	}
	c.JSON(http.StatusOK, submission)
}

func (s *Server) complianceReport(c *gin.Context) {
	verdicts, err := s.storage.GetComplianceHistory(c.Request.Context(), 100)
	if err != nil {
		s.fail(c, err, "Failed to fetch compliance data")
		return
	}
	if verdicts == nil {
		verdicts = []model.ComplianceVerdict{}
	}
	c.JSON(http.StatusOK, verdicts)
}

// fail maps domain errors onto HTTP statuses without leaking stage
// internals to the client.
func (s *Server) fail(c *gin.Context, err error, message string) {
	common.LogError(err, message, common.Fields{"path": c.Request.URL.Path})

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrMissingName),
		errors.Is(err, common.ErrInvalidRecord),
		errors.Is(err, common.ErrInvalidConfig):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": message})
}

func recordBatchMetrics(results []model.EvaluationResult, stats service.BatchStats) {
	for _, result := range results {
		outcome := "approved"
		if result.Rejected {
			outcome = "rejected"
		}
		evaluationsTotal.WithLabelValues(outcome).Inc()
		if result.RequiresReview {
			reviewFlagsTotal.Inc()
		}
	}
	if stats.FlaggedByCompliance > 0 {
		complianceFlagsTotal.Add(float64(stats.FlaggedByCompliance))
	}
	evaluationDuration.Observe(stats.Duration.Seconds())
}
