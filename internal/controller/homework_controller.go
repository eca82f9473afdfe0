package controller

import (
	"time"

	"homework_backend/internal/service"
	"homework_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HomeworkController struct {
	Homework *service.HomeworkService
	Schedule *service.ScheduleService
}

func NewHomeworkController(homework *service.HomeworkService, schedule *service.ScheduleService) *HomeworkController {
	return &HomeworkController{Homework: homework, Schedule: schedule}
}

// @Summary 获取当前作业题目
// @Description 当前排期作业下该学生的题目列表、已答内容与统计
// @Tags 作业
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /homework [get]
func (c *HomeworkController) GetQuestions(ctx *gin.Context) {
	session := util.GetSessionFromContext(ctx)
	if session == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.Homework.QuestionsFor(session.StudentName, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type SubmitAnswersRequest struct {
	// 题号字符串 -> 学生输入
	Answers map[string]string `json:"answers" binding:"required"`
}

// @Summary 提交答案
// @Description 逐题判分：有变化的答案计一次尝试并更新正确性，未变化或空白的跳过
// @Tags 作业
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SubmitAnswersRequest true "题号到答案的映射"
// @Success 200 {object} util.Response
// @Router /homework/answers [post]
func (c *HomeworkController) SubmitAnswers(ctx *gin.Context) {
	session := util.GetSessionFromContext(ctx)
	if session == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if len(req.Answers) == 0 {
		util.BadRequest(ctx, util.ErrEmptySubmission.Error())
		return
	}

	view, err := c.Homework.Submit(session.StudentName, time.Now(), req.Answers)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 获取学生名单
// @Description 当前作业下可选择的学生姓名，用于选人页面
// @Tags 作业
// @Produce json
// @Success 200 {object} util.Response
// @Router /students [get]
func (c *HomeworkController) ListStudents(ctx *gin.Context) {
	names, err := c.Homework.Roster(time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"students": names})
}

// @Summary 获取作业排期
// @Description 全部排期条目及当前进行中的作业
// @Tags 作业
// @Produce json
// @Success 200 {object} util.Response
// @Router /homework/schedule [get]
func (c *HomeworkController) GetSchedule(ctx *gin.Context) {
	util.Success(ctx, gin.H{"schedule": c.Schedule.Entries(time.Now())})
}
