package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/domain/models"
	"taskmanager/internal/service/tasks"
)

func (api *TaskAPI) listTasks(ctx *gin.Context) {
	user := caller(ctx)

	page := queryInt(ctx, "page", 1)
	limit := queryInt(ctx, "limit", tasks.DefaultPageSize)

	items, meta, err := api.tasks.List(ctx.Request.Context(), user.ID, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(items),
		"pagination": meta,
		"data":       items,
	})
}

func (api *TaskAPI) createTask(ctx *gin.Context) {
	var req models.TaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	task, err := api.tasks.Create(ctx.Request.Context(), caller(ctx).ID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": task})
}

func (api *TaskAPI) getTask(ctx *gin.Context) {
	task, err := api.tasks.Get(ctx.Request.Context(), caller(ctx).ID, ctx.Param("taskID"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (api *TaskAPI) updateTask(ctx *gin.Context) {
	var req models.TaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	task, err := api.tasks.Update(ctx.Request.Context(), caller(ctx).ID, ctx.Param("taskID"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (api *TaskAPI) updateTaskStatus(ctx *gin.Context) {
	var req models.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	task, err := api.tasks.UpdateStatus(ctx.Request.Context(), caller(ctx).ID, ctx.Param("taskID"), req.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (api *TaskAPI) updateTaskPriority(ctx *gin.Context) {
	var req models.UpdatePriorityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	task, err := api.tasks.UpdatePriority(ctx.Request.Context(), caller(ctx).ID, ctx.Param("taskID"), req.Priority)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (api *TaskAPI) deleteTask(ctx *gin.Context) {
	if err := api.tasks.Delete(ctx.Request.Context(), caller(ctx).ID, ctx.Param("taskID")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}

func queryInt(ctx *gin.Context, name string, fallback int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
