package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/alignment"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/config"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/expa"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/expasync"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/models"
	"github.com/AIESEC-in-Colombo-South/cs-igdashboard-backend/utils"
	"github.com/gin-gonic/gin"
)

func registerRoutes(r *gin.Engine, syncer *expasync.Syncer) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	people := r.Group("/people")
	people.POST("/sync", syncPeopleHandler(syncer))
	people.GET("", listPeopleHandler())

	applications := r.Group("/applications")
	applications.POST("/sync", syncApplicationsHandler(syncer))
	applications.GET("", listApplicationsHandler())

	alignments := r.Group("/alignments")
	alignments.GET("/signups", signupCountsHandler())
	alignments.GET("/signups/daily", signupDailyHandler())
	alignments.GET("/applications", applicationCountsHandler())
	alignments.GET("/applications/daily", applicationDailyHandler())

	approvals := r.Group("/approvals")
	approvals.POST("", createApprovalHandler())
	approvals.GET("", approvalSumsHandler())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": fmt.Sprintf("Route %s not found.", c.Request.URL.Path),
		})
	})
}

// respondError maps the error taxonomy onto HTTP: client input errors
// are 4xx, everything else is a 500. Every error body carries success=false.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if utils.IsClientInputError(err) {
		status = http.StatusBadRequest
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}

type syncRequest struct {
	Page    int            `json:"page" binding:"omitempty,min=1"`
	PerPage int            `json:"perPage" binding:"omitempty,min=1"`
	Filters map[string]any `json:"filters"`
	Q       string         `json:"q"`
}

// bindSyncRequest reads the optional sync body; a missing body means
// defaults, a malformed one is a client error.
func bindSyncRequest(c *gin.Context) (expa.PageRequest, error) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return expa.PageRequest{}, utils.NewClientInputError("invalid sync request: %s", err.Error())
	}
	return expa.PageRequest{
		Page:    req.Page,
		PerPage: req.PerPage,
		Filters: req.Filters,
		Q:       req.Q,
	}, nil
}

func syncPeopleHandler(syncer *expasync.Syncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := bindSyncRequest(c)
		if err != nil {
			respondError(c, err)
			return
		}

		result, err := syncer.SyncPeople(c.Request.Context(), config.GetDB(), req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"synced":  result.Inserted,
			"details": result,
		})
	}
}

func syncApplicationsHandler(syncer *expasync.Syncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := bindSyncRequest(c)
		if err != nil {
			respondError(c, err)
			return
		}

		result, err := syncer.SyncApplications(c.Request.Context(), config.GetDB(), req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"synced":  result.Inserted,
			"details": result,
		})
	}
}

type pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func paginate(page, perPage int, total int64) pagination {
	totalPages := (total + int64(perPage) - 1) / int64(perPage)
	if totalPages == 0 {
		totalPages = 1
	}
	return pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

func queryInt(c *gin.Context, name string, def int) int {
	parsed, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return parsed
}

func listPeopleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page := queryInt(c, "page", 1)
		if page < 1 {
			page = 1
		}
		perPage := utils.ClampInt(queryInt(c, "perPage", 50), 1, 100)

		people, total, err := models.ListPeople(c.Request.Context(), config.GetDB(), models.PersonListQuery{
			Page:    page,
			PerPage: perPage,
			Status:  c.Query("status"),
			Search:  c.Query("search"),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"data":       people,
			"pagination": paginate(page, perPage, total),
		})
	}
}

func listApplicationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page := queryInt(c, "page", 1)
		if page < 1 {
			page = 1
		}
		perPage := utils.ClampInt(queryInt(c, "perPage", 50), 1, 100)

		applications, total, err := models.ListApplications(c.Request.Context(), config.GetDB(), models.ApplicationListQuery{
			Page:          page,
			PerPage:       perPage,
			Status:        c.Query("status"),
			CurrentStatus: c.Query("currentStatus"),
			Search:        c.Query("search"),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"data":       applications,
			"pagination": paginate(page, perPage, total),
		})
	}
}

// countWindow resolves the optional today flag: when set it overrides
// any explicit dates, computed once at call time.
func countWindow(c *gin.Context) *alignment.Window {
	if !utils.ParseBoolFlag(c.Query("today")) {
		return nil
	}
	window := alignment.TodayWindow(time.Now())
	return &window
}

func signupCountsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := utils.ParseIDSet(c.Query("ids"))
		window := countWindow(c)

		var data any
		var err error
		if utils.ParseBoolFlag(c.Query("programmes")) {
			data, err = alignment.SignupBreakdowns(c.Request.Context(), config.GetDB(), ids, window)
		} else {
			data, err = alignment.SignupCounts(c.Request.Context(), config.GetDB(), ids, window)
		}
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
	}
}

func signupDailyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := utils.ParseIDSet(c.Query("ids"))
		start, end, err := utils.ParseDateRange(c.Query("start"), c.Query("end"))
		if err != nil {
			respondError(c, err)
			return
		}

		var data any
		if utils.ParseBoolFlag(c.Query("programmes")) {
			data, err = alignment.SignupDailyBreakdowns(c.Request.Context(), config.GetDB(), ids, start, end)
		} else {
			data, err = alignment.SignupDailyCounts(c.Request.Context(), config.GetDB(), ids, start, end)
		}
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
	}
}

func applicationCountsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := utils.ParseIDSet(c.Query("ids"))
		window := countWindow(c)

		var data any
		var err error
		if utils.ParseBoolFlag(c.Query("programmes")) {
			data, err = alignment.ApplicationBreakdowns(c.Request.Context(), config.GetDB(), ids, window)
		} else {
			data, err = alignment.ApplicationCounts(c.Request.Context(), config.GetDB(), ids, window)
		}
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
	}
}

func applicationDailyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := utils.ParseIDSet(c.Query("ids"))
		start, end, err := utils.ParseDateRange(c.Query("start"), c.Query("end"))
		if err != nil {
			respondError(c, err)
			return
		}

		var data any
		if utils.ParseBoolFlag(c.Query("programmes")) {
			data, err = alignment.ApplicationDailyBreakdowns(c.Request.Context(), config.GetDB(), ids, start, end)
		} else {
			data, err = alignment.ApplicationDailyCounts(c.Request.Context(), config.GetDB(), ids, start, end)
		}
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
	}
}

func createApprovalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input alignment.NewApproval
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, utils.NewClientInputError("invalid approval payload: %s", err.Error()))
			return
		}

		approval, err := alignment.CreateApproval(c.Request.Context(), config.GetDB(), input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": approval})
	}
}

func approvalSumsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := utils.ParseIDSet(c.Query("ids"))

		var data any
		var err error
		if utils.ParseBoolFlag(c.Query("programmes")) {
			data, err = alignment.ApprovalBreakdowns(c.Request.Context(), config.GetDB(), ids)
		} else {
			data, err = alignment.ApprovalSums(c.Request.Context(), config.GetDB(), ids)
		}
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
	}
}
