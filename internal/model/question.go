package model

import (
	"fmt"
	"strconv"
	"strings"
)

// 答案类型标签，决定归一化与比较方式
const (
	AnswerTypeInt         = "int"
	AnswerTypeStr         = "str"
	AnswerTypeStrCap      = "str_cap"
	AnswerTypeNone        = "none"  // 不计分题目
	AnswerTypeRoundPrefix = "round" // round<N>：四舍五入到N位小数
)

// MaxAttempts 普通学生每题的尝试次数上限，达到后字段锁定
const MaxAttempts = 5

// QuestionRecord 作业题目行，每行对应 作业 × 学生 × 题号
// swagger:model QuestionRecord
type QuestionRecord struct {
	ID               string `gorm:"primaryKey;size:64" json:"id"`
	HomeworkName     string `gorm:"size:100;index" json:"homeworkName"`
	StudentName      string `gorm:"size:100;index" json:"studentName"`
	QuestionNumber   int    `gorm:"not null" json:"questionNumber"`
	QuestionText     string `gorm:"type:text" json:"questionText"`
	QuestionImageURL string `gorm:"size:255" json:"questionImageUrl"`
	AnswerOptions    string `gorm:"type:text" json:"answerOptions"`
	CorrectAnswer    string `gorm:"size:255" json:"-"`
	AnswerType       string `gorm:"size:20" json:"answerType"`
	Hint1            string `gorm:"type:text" json:"hint1"`
	Hint2            string `gorm:"type:text" json:"hint2"`
	StudentAnswer    string `gorm:"size:255" json:"studentAnswer"`
	NumAttempts      int    `gorm:"default:0" json:"numAttempts"`
	IsCorrect        bool   `gorm:"default:false" json:"isCorrect"`
}

// Gradable 是否计入得分统计并参与提交处理
func (q *QuestionRecord) Gradable() bool {
	return q.AnswerType != AnswerTypeNone
}

// Locked 普通学生的字段锁定规则：答对或尝试次数用尽
func (q *QuestionRecord) Locked() bool {
	return q.NumAttempts >= MaxAttempts || q.IsCorrect
}

// csvColumns CSV 源文件的固定列顺序（student_answer 之后的计数列由默认值填充）
const csvColumns = 12

// QuestionFromCSVRow 将一行CSV映射为题目记录
func QuestionFromCSVRow(row []string) (QuestionRecord, error) {
	if len(row) != csvColumns {
		return QuestionRecord{}, fmt.Errorf("expected %d columns, got %d", csvColumns, len(row))
	}

	qnum, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return QuestionRecord{}, fmt.Errorf("invalid question_number %q: %w", row[3], err)
	}

	return QuestionRecord{
		ID:               strings.TrimSpace(row[0]),
		HomeworkName:     strings.TrimSpace(row[1]),
		StudentName:      strings.TrimSpace(row[2]),
		QuestionNumber:   qnum,
		QuestionText:     row[4],
		QuestionImageURL: strings.TrimSpace(row[5]),
		AnswerOptions:    row[6],
		CorrectAnswer:    strings.TrimSpace(row[7]),
		AnswerType:       strings.TrimSpace(row[8]),
		Hint1:            row[9],
		Hint2:            row[10],
		StudentAnswer:    strings.TrimSpace(row[11]),
	}, nil
}
