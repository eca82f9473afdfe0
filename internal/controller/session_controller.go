package controller

import (
	"strings"

	"homework_backend/internal/config"
	"homework_backend/internal/service"
	"homework_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Homework *service.HomeworkService
	Config   *config.Config
}

func NewSessionController(homework *service.HomeworkService, cfg *config.Config) *SessionController {
	return &SessionController{Homework: homework, Config: cfg}
}

type SelectStudentRequest struct {
	StudentName string `json:"studentName" binding:"required"`
}

type SessionResponse struct {
	Token        string `json:"token"`
	StudentName  string `json:"studentName"`
	Unrestricted bool   `json:"unrestricted"`
}

// @Summary 选择学生身份
// @Description 选定学生姓名并签发会话令牌，对应名单页的选人按钮
// @Tags 会话
// @Accept json
// @Produce json
// @Param body body SelectStudentRequest true "学生姓名"
// @Success 200 {object} util.Response
// @Router /session [post]
func (c *SessionController) SelectStudent(ctx *gin.Context) {
	var req SelectStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	name := strings.TrimSpace(req.StudentName)
	if name == "" {
		util.BadRequest(ctx, util.ErrStudentNameRequired.Error())
		return
	}

	unrestricted := c.Homework.Unrestricted(name)

	token, err := util.GenerateSessionToken(name, unrestricted, c.Config.JWT.Secret, c.Config.JWT.ExpireTime)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, SessionResponse{
		Token:        token,
		StudentName:  name,
		Unrestricted: unrestricted,
	})
}

// @Summary 重置学生选择
// @Description 令牌本身无状态，接口仅确认重置，客户端丢弃令牌即可
// @Tags 会话
// @Produce json
// @Success 200 {object} util.Response
// @Router /session [delete]
func (c *SessionController) ResetStudent(ctx *gin.Context) {
	util.Success(ctx, gin.H{"reset": true})
}
