package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocked(t *testing.T) {
	t.Run("新题目未锁定", func(t *testing.T) {
		q := &QuestionRecord{AnswerType: AnswerTypeInt}
		assert.False(t, q.Locked())
	})

	t.Run("答对即锁定", func(t *testing.T) {
		q := &QuestionRecord{AnswerType: AnswerTypeInt, IsCorrect: true, NumAttempts: 1}
		assert.True(t, q.Locked())
	})

	t.Run("尝试次数用尽即锁定", func(t *testing.T) {
		q := &QuestionRecord{AnswerType: AnswerTypeInt, NumAttempts: MaxAttempts}
		assert.True(t, q.Locked())
	})

	t.Run("还剩一次机会时未锁定", func(t *testing.T) {
		q := &QuestionRecord{AnswerType: AnswerTypeInt, NumAttempts: MaxAttempts - 1}
		assert.False(t, q.Locked())
	})
}

func TestGradable(t *testing.T) {
	assert.True(t, (&QuestionRecord{AnswerType: AnswerTypeInt}).Gradable())
	assert.True(t, (&QuestionRecord{AnswerType: "round2"}).Gradable())
	assert.False(t, (&QuestionRecord{AnswerType: AnswerTypeNone}).Gradable())
}

func TestQuestionFromCSVRow(t *testing.T) {
	t.Run("完整行", func(t *testing.T) {
		row := []string{
			"0101-amy-1", "0101", "Amy", "1",
			"How much does the toy cost?", "toy.png", "A, B, C",
			"$5", "int", "hint one", "hint two", "",
		}
		q, err := QuestionFromCSVRow(row)
		assert.NoError(t, err)
		assert.Equal(t, "0101-amy-1", q.ID)
		assert.Equal(t, "0101", q.HomeworkName)
		assert.Equal(t, "Amy", q.StudentName)
		assert.Equal(t, 1, q.QuestionNumber)
		assert.Equal(t, "$5", q.CorrectAnswer)
		assert.Equal(t, "int", q.AnswerType)
		assert.Equal(t, 0, q.NumAttempts)
		assert.False(t, q.IsCorrect)
	})

	t.Run("列数不对", func(t *testing.T) {
		_, err := QuestionFromCSVRow([]string{"a", "b", "c"})
		assert.Error(t, err)
	})

	t.Run("题号不是数字", func(t *testing.T) {
		row := []string{
			"id", "0101", "Amy", "one",
			"text", "", "", "5", "int", "", "", "",
		}
		_, err := QuestionFromCSVRow(row)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "question_number")
	})
}
