package util

import "errors"

var (
	ErrStudentNameRequired = errors.New("学生姓名不能为空")
	ErrEmptySubmission     = errors.New("提交内容为空")
	ErrInvalidSessionToken = errors.New("无效的会话令牌")
)
