package service

import (
	"strconv"
	"strings"

	"homework_backend/internal/model"
)

var intSymbolReplacer = strings.NewReplacer("$", "", "%", "", ",", "")

// NormalizeAnswer 按题目的答案类型把原始字符串归一化为可比较的值。
// 数值解析失败时退化为归一化后的字符串本身，按字符串相等比较，
// 绝不向外抛错。
func NormalizeAnswer(raw, answerType string) interface{} {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case answerType == model.AnswerTypeInt:
		cleaned := intSymbolReplacer.Replace(s)
		if v, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
			return v
		}
		return s

	case strings.HasPrefix(answerType, model.AnswerTypeRoundPrefix):
		places, err := strconv.Atoi(strings.TrimPrefix(answerType, model.AnswerTypeRoundPrefix))
		if err != nil {
			return s
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return s
		}
		// 按十进制展开舍入。移位相乘会把 2.005 的存储值
		// （略小于 2.005）进位成 2.01，十进制展开得到 2.0
		rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
		if err != nil {
			return s
		}
		return rounded

	case answerType == model.AnswerTypeStrCap:
		return strings.ToUpper(strings.ReplaceAll(s, `"`, ""))

	default:
		// str 以及未知类型标签都按去引号字符串处理
		return strings.ReplaceAll(s, `"`, "")
	}
}

// FormatAnswer 归一化值的存储形式，也是展示给学生的形式
func FormatAnswer(v interface{}) string {
	switch t := v.(type) {
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return ""
	}
}
