package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*QuestionRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("创建 sqlmock 失败: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("打开 gorm 连接失败: %v", err)
	}

	return NewQuestionRepository(gormDB, "homework_questions"), mock
}

func TestFindByHomeworkAndStudent(t *testing.T) {
	repo, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{
		"id", "homework_name", "student_name", "question_number",
		"correct_answer", "answer_type", "student_answer", "num_attempts", "is_correct",
	}).
		AddRow("0101-amy-1", "0101", "Amy", 1, "5", "int", "", 0, false).
		AddRow("0101-amy-2", "0101", "Amy", 2, "2.0", "round2", "1.9", 1, false)

	// 条件走参数绑定，且统一转为小写比较
	mock.ExpectQuery("SELECT (.+) FROM `homework_questions` WHERE lower\\(homework_name\\) = \\? AND lower\\(student_name\\) = \\?(.+)ORDER BY question_number ASC").
		WithArgs("0101", "amy").
		WillReturnRows(rows)

	questions, err := repo.FindByHomeworkAndStudent("0101", "AMY")
	assert.NoError(t, err)
	assert.Len(t, questions, 2)
	assert.Equal(t, "0101-amy-1", questions[0].ID)
	assert.Equal(t, 1, questions[1].NumAttempts)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByHomeworkAndStudentEmpty(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `homework_questions`").
		WithArgs("0101", "nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// 查不到不是错误，返回空切片
	questions, err := repo.FindByHomeworkAndStudent("0101", "Nobody")
	assert.NoError(t, err)
	assert.Empty(t, questions)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStudents(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT DISTINCT (.+) FROM `homework_questions` WHERE lower\\(homework_name\\) = \\?").
		WithArgs("0101").
		WillReturnRows(sqlmock.NewRows([]string{"student_name"}).
			AddRow("Amy").
			AddRow("Ben"))

	names, err := repo.ListStudents("0101")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Amy", "Ben"}, names)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAnswer(t *testing.T) {
	t.Run("命中一行: 正常更新", func(t *testing.T) {
		repo, mock := setupMockDB(t)

		mock.ExpectExec("UPDATE `homework_questions` SET (.+) WHERE id = \\?").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateAnswer("0101-amy-1", 1, "5", true)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("目标行不存在: 返回错误", func(t *testing.T) {
		repo, mock := setupMockDB(t)

		mock.ExpectExec("UPDATE `homework_questions` SET (.+) WHERE id = \\?").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateAnswer("missing", 1, "5", true)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "missing")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteByHomework(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectExec("DELETE FROM `homework_questions` WHERE lower\\(homework_name\\) = \\?").
		WithArgs("0101").
		WillReturnResult(sqlmock.NewResult(0, 9))

	assert.NoError(t, repo.DeleteByHomework("0101"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByHomeworkAndStudent(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectExec("DELETE FROM `homework_questions` WHERE lower\\(homework_name\\) = \\? AND lower\\(student_name\\) = \\?").
		WithArgs("0101", "amy").
		WillReturnResult(sqlmock.NewResult(0, 5))

	assert.NoError(t, repo.DeleteByHomeworkAndStudent("0101", "Amy"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCSV(t *testing.T) {
	repo, mock := setupMockDB(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "questions.csv")
	content := "0101-amy-1,0101,Amy,1,How much does the toy cost?,,,$5,int,hint one,hint two,\n" +
		"0101-amy-2,0101,Amy,2,What is 4.01 divided by 2?,,,2.005,round2,,,\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入临时CSV失败: %v", err)
	}

	mock.ExpectExec("INSERT INTO `homework_questions`").
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.LoadCSV(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCSVBadRow(t *testing.T) {
	repo, _ := setupMockDB(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(path, []byte("only,three,columns\n"), 0644); err != nil {
		t.Fatalf("写入临时CSV失败: %v", err)
	}

	_, err := repo.LoadCSV(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestCount(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `homework_questions`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(11))

	count, err := repo.Count()
	assert.NoError(t, err)
	assert.Equal(t, int64(11), count)

	assert.NoError(t, mock.ExpectationsWereMet())
}
