package service

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"homework_backend/internal/config"
	"homework_backend/internal/model"
	"homework_backend/pkg/logger"
	"homework_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// QuestionStore 评分引擎依赖的数据访问能力
type QuestionStore interface {
	HasTable() bool
	FindByHomeworkAndStudent(homework, student string) ([]model.QuestionRecord, error)
	ListStudents(homework string) ([]string, error)
	UpdateAnswer(id string, numAttempts int, studentAnswer string, isCorrect bool) error
	DeleteByHomework(homework string) error
	DeleteByHomeworkAndStudent(homework, student string) error
	Rebuild(csvPath string) (int, error)
}

// HomeworkService 评分引擎：加载学生当前作业、校验提交、更新尝试计数
// 与正确性标记
type HomeworkService struct {
	store    QuestionStore
	schedule *ScheduleService

	mu                  sync.RWMutex
	csvPath             string
	unrestrictedAccount string
}

func NewHomeworkService(store QuestionStore, schedule *ScheduleService, cfg *config.HomeworkConfig) *HomeworkService {
	return &HomeworkService{
		store:               store,
		schedule:            schedule,
		csvPath:             cfg.CSVPath,
		unrestrictedAccount: cfg.UnrestrictedAccount,
	}
}

// ApplyConfig 配置热更新时替换数据源路径与测试账号
func (s *HomeworkService) ApplyConfig(cfg *config.HomeworkConfig) {
	s.mu.Lock()
	s.csvPath = cfg.CSVPath
	s.unrestrictedAccount = cfg.UnrestrictedAccount
	s.mu.Unlock()
}

// Unrestricted 是否为不受锁定与次数限制的测试账号
func (s *HomeworkService) Unrestricted(student string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unrestrictedAccount != "" && strings.EqualFold(student, s.unrestrictedAccount)
}

// QuestionView 单题视图，disabled 对应前端输入框的锁定状态
type QuestionView struct {
	QuestionNumber   int    `json:"questionNumber"`
	QuestionText     string `json:"questionText"`
	QuestionImageURL string `json:"questionImageUrl,omitempty"`
	AnswerOptions    string `json:"answerOptions,omitempty"`
	Hint1            string `json:"hint1,omitempty"`
	Hint2            string `json:"hint2,omitempty"`
	Value            string `json:"value"`
	NumAttempts      int    `json:"numAttempts"`
	IsCorrect        bool   `json:"isCorrect"`
	Disabled         bool   `json:"disabled"`
}

// HomeworkView 学生当前作业的完整视图与统计
type HomeworkView struct {
	HomeworkName  string         `json:"homeworkName"`
	StudentName   string         `json:"studentName"`
	Questions     []QuestionView `json:"questions"`
	CorrectCount  int            `json:"correctCount"`
	GradableCount int            `json:"gradableCount"`
}

// QuestionsFor 加载学生在当前作业下的全部题目
func (s *HomeworkService) QuestionsFor(student string, now time.Time) (*HomeworkView, error) {
	homework := s.schedule.Current(now)
	records, err := s.loadRecords(homework, student)
	if err != nil {
		return nil, err
	}
	return s.buildView(homework, student, records), nil
}

// Submit 处理一次表单提交。answers 以题号字符串为键。
// 每个有变化的题目写库一次；跳过不计分、被锁定、空白或未变化的答案。
func (s *HomeworkService) Submit(student string, now time.Time, answers map[string]string) (*HomeworkView, error) {
	homework := s.schedule.Current(now)
	records, err := s.loadRecords(homework, student)
	if err != nil {
		return nil, err
	}

	unrestricted := s.Unrestricted(student)

	for i := range records {
		q := &records[i]

		if !q.Gradable() {
			continue
		}
		// 普通学生：已答对或次数用尽的题目不再处理；测试账号永远可重新提交
		if !unrestricted && q.Locked() {
			continue
		}

		raw, ok := answers[strconv.Itoa(q.QuestionNumber)]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}

		correct := NormalizeAnswer(q.CorrectAnswer, q.AnswerType)
		previous := NormalizeAnswer(q.StudentAnswer, q.AnswerType)
		submitted := NormalizeAnswer(raw, q.AnswerType)

		// 与上次答案相同，不算新的尝试
		if submitted == previous {
			continue
		}

		prevAttempts, prevAnswer, prevCorrect := q.NumAttempts, q.StudentAnswer, q.IsCorrect

		q.NumAttempts++
		q.IsCorrect = submitted == correct
		q.StudentAnswer = FormatAnswer(submitted)

		if err := s.store.UpdateAnswer(q.ID, q.NumAttempts, q.StudentAnswer, q.IsCorrect); err != nil {
			// 本题回滚内存状态后整体报错；之前已写入的题目保持已提交
			q.NumAttempts, q.StudentAnswer, q.IsCorrect = prevAttempts, prevAnswer, prevCorrect
			return nil, fmt.Errorf("update question %s: %w", q.ID, err)
		}

		monitoring.GradedAnswers.WithLabelValues(gradeResult(q.IsCorrect)).Inc()
		logger.Log.Info("answer graded",
			zap.String("homework", homework),
			zap.String("student", student),
			zap.Int("question", q.QuestionNumber),
			zap.Int("attempts", q.NumAttempts),
			zap.Bool("correct", q.IsCorrect),
		)
	}

	return s.buildView(homework, student, records), nil
}

// Roster 当前作业可选择的学生名单
func (s *HomeworkService) Roster(now time.Time) ([]string, error) {
	homework := s.schedule.Current(now)

	names, err := s.store.ListStudents(homework)
	if err != nil {
		// 表还在说明是瞬时错误，重建会清掉已有答题数据
		if s.store.HasTable() {
			return nil, err
		}
		if berr := s.bootstrap(); berr != nil {
			return nil, err
		}
		names, err = s.store.ListStudents(homework)
	}
	return names, err
}

// Reload 从CSV删表重建，返回导入的行数
func (s *HomeworkService) Reload() (int, error) {
	s.mu.RLock()
	path := s.csvPath
	s.mu.RUnlock()

	count, err := s.store.Rebuild(path)
	if err != nil {
		return 0, err
	}
	logger.Log.Info("homework data reloaded", zap.String("csv", path), zap.Int("rows", count))
	return count, nil
}

// Purge 清除某次作业的数据；student 为空时清除该作业下所有学生
func (s *HomeworkService) Purge(homework, student string) error {
	if student == "" {
		return s.store.DeleteByHomework(homework)
	}
	return s.store.DeleteByHomeworkAndStudent(homework, student)
}

// loadRecords 带一次性兜底重试的查询：表缺失导致查询失败时，
// 从CSV重建后重查一次，再失败则对本次请求致命。
// 表还在时的查询错误原样上报，绝不触发重建。
func (s *HomeworkService) loadRecords(homework, student string) ([]model.QuestionRecord, error) {
	records, err := s.store.FindByHomeworkAndStudent(homework, student)
	if err == nil {
		return records, nil
	}

	if s.store.HasTable() {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	if berr := s.bootstrap(); berr != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	records, err = s.store.FindByHomeworkAndStudent(homework, student)
	if err != nil {
		return nil, fmt.Errorf("load questions after bootstrap: %w", err)
	}
	return records, nil
}

func (s *HomeworkService) bootstrap() error {
	s.mu.RLock()
	path := s.csvPath
	s.mu.RUnlock()

	count, err := s.store.Rebuild(path)
	if err != nil {
		logger.Log.Error("bootstrap from csv failed", zap.String("csv", path), zap.Error(err))
		return err
	}
	logger.Log.Warn("question table bootstrapped from csv", zap.String("csv", path), zap.Int("rows", count))
	return nil
}

func (s *HomeworkService) buildView(homework, student string, records []model.QuestionRecord) *HomeworkView {
	unrestricted := s.Unrestricted(student)

	view := &HomeworkView{
		HomeworkName: homework,
		StudentName:  student,
		Questions:    make([]QuestionView, 0, len(records)),
	}

	for i := range records {
		q := &records[i]
		view.Questions = append(view.Questions, QuestionView{
			QuestionNumber:   q.QuestionNumber,
			QuestionText:     q.QuestionText,
			QuestionImageURL: q.QuestionImageURL,
			AnswerOptions:    q.AnswerOptions,
			Hint1:            q.Hint1,
			Hint2:            q.Hint2,
			Value:            q.StudentAnswer,
			NumAttempts:      q.NumAttempts,
			IsCorrect:        q.IsCorrect,
			Disabled:         !unrestricted && q.Locked(),
		})

		if q.Gradable() {
			view.GradableCount++
			if q.IsCorrect {
				view.CorrectCount++
			}
		}
	}
	return view
}

func gradeResult(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}
