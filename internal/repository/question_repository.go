package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"homework_backend/internal/model"

	"gorm.io/gorm"
)

// QuestionRepository 作业题目表的数据访问层。表名来自配置，
// 所有条件一律走参数绑定，不拼接SQL。
type QuestionRepository struct {
	DB    *gorm.DB
	Table string
}

func NewQuestionRepository(db *gorm.DB, table string) *QuestionRepository {
	return &QuestionRepository{DB: db, Table: table}
}

func (r *QuestionRepository) table() *gorm.DB {
	return r.DB.Table(r.Table)
}

// Migrate 按配置的表名建表
func (r *QuestionRepository) Migrate() error {
	return r.DB.Table(r.Table).AutoMigrate(&model.QuestionRecord{})
}

// HasTable 配置的题目表是否已建
func (r *QuestionRepository) HasTable() bool {
	return r.DB.Migrator().HasTable(r.Table)
}

// Drop 删除整张表，重建数据前使用
func (r *QuestionRepository) Drop() error {
	if !r.HasTable() {
		return nil
	}
	return r.DB.Migrator().DropTable(r.Table)
}

// Count 表中记录总数
func (r *QuestionRepository) Count() (int64, error) {
	var count int64
	err := r.table().Count(&count).Error
	return count, err
}

// FindByHomeworkAndStudent 按作业和学生查询，大小写不敏感，按题号升序。
// 空结果不是错误。
func (r *QuestionRepository) FindByHomeworkAndStudent(homework, student string) ([]model.QuestionRecord, error) {
	var questions []model.QuestionRecord
	err := r.table().
		Where("lower(homework_name) = ? AND lower(student_name) = ?",
			strings.ToLower(homework), strings.ToLower(student)).
		Order("question_number ASC").
		Find(&questions).Error
	return questions, err
}

// ListStudents 当前作业下可选择的学生名单
func (r *QuestionRepository) ListStudents(homework string) ([]string, error) {
	var names []string
	err := r.table().
		Where("lower(homework_name) = ?", strings.ToLower(homework)).
		Distinct().
		Order("student_name ASC").
		Pluck("student_name", &names).Error
	return names, err
}

// UpdateAnswer 单行点更新三个可变列
func (r *QuestionRepository) UpdateAnswer(id string, numAttempts int, studentAnswer string, isCorrect bool) error {
	result := r.table().Where("id = ?", id).Updates(map[string]interface{}{
		"num_attempts":   numAttempts,
		"student_answer": studentAnswer,
		"is_correct":     isCorrect,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("question %s not found", id)
	}
	return nil
}

// DeleteByHomework 清除整个作业的数据（所有学生）
func (r *QuestionRepository) DeleteByHomework(homework string) error {
	return r.table().
		Where("lower(homework_name) = ?", strings.ToLower(homework)).
		Delete(&model.QuestionRecord{}).Error
}

// DeleteByHomeworkAndStudent 清除单个学生在某次作业下的数据
func (r *QuestionRepository) DeleteByHomeworkAndStudent(homework, student string) error {
	return r.table().
		Where("lower(homework_name) = ? AND lower(student_name) = ?",
			strings.ToLower(homework), strings.ToLower(student)).
		Delete(&model.QuestionRecord{}).Error
}

// LoadCSV 从平面CSV文件批量导入题目，返回导入行数
func (r *QuestionRepository) LoadCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read csv %s: %w", path, err)
	}

	records := make([]model.QuestionRecord, 0, len(rows))
	for i, row := range rows {
		record, err := model.QuestionFromCSVRow(row)
		if err != nil {
			return 0, fmt.Errorf("csv row %d: %w", i+1, err)
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return 0, nil
	}

	if err := r.table().Create(&records).Error; err != nil {
		return 0, err
	}
	return len(records), nil
}

// Rebuild 删表重建并从CSV重新导入，对应数据重置流程
func (r *QuestionRepository) Rebuild(csvPath string) (int, error) {
	if err := r.Drop(); err != nil {
		return 0, err
	}
	if err := r.Migrate(); err != nil {
		return 0, err
	}
	return r.LoadCSV(csvPath)
}
