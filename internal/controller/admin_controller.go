package controller

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"homework_backend/internal/service"
	"homework_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController 数据管理接口，仅对配置的测试账号开放
type AdminController struct {
	Homework *service.HomeworkService
	Storage  *service.StorageService
}

func NewAdminController(homework *service.HomeworkService, storage *service.StorageService) *AdminController {
	return &AdminController{Homework: homework, Storage: storage}
}

// @Summary 从CSV重建作业数据
// @Description 删表重建并重新导入CSV数据源，用于布置新作业或重置
// @Tags 数据管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /admin/homework/reload [post]
func (c *AdminController) ReloadHomework(ctx *gin.Context) {
	count, err := c.Homework.Reload()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"loaded": count})
}

// @Summary 清除作业数据
// @Description 删除指定作业的记录；带 student 参数时只删该学生的
// @Tags 数据管理
// @Produce json
// @Security ApiKeyAuth
// @Param name path string true "作业名"
// @Param student query string false "学生姓名"
// @Success 200 {object} util.Response
// @Router /admin/homework/{name} [delete]
func (c *AdminController) PurgeHomework(ctx *gin.Context) {
	name := strings.TrimSpace(ctx.Param("name"))
	if name == "" {
		util.BadRequest(ctx, "homework name required")
		return
	}

	student := strings.TrimSpace(ctx.Query("student"))

	if err := c.Homework.Purge(name, student); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"homework": name, "student": student})
}

// @Summary 上传题目图片
// @Description 上传题干配图，返回可写入 question_image_url 的地址
// @Tags 数据管理
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "图片文件"
// @Success 200 {object} util.Response
// @Router /admin/questions/image [post]
func (c *AdminController) UploadQuestionImage(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "image file required")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowed := false
	for _, e := range util.AllowedImageExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		util.BadRequest(ctx, fmt.Sprintf("unsupported image extension %q", ext))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("questions/%d%s", time.Now().UnixNano(), ext)
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || !strings.HasPrefix(contentType, util.MimeImage) {
		contentType = "image/" + strings.TrimPrefix(ext, ".")
	}

	url, err := c.Storage.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}
