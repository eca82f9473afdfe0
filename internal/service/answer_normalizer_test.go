package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAnswer(t *testing.T) {
	t.Run("int类型: 去掉货币和百分号后解析", func(t *testing.T) {
		assert.Equal(t, int64(42), NormalizeAnswer("$42", "int"))
		assert.Equal(t, int64(42), NormalizeAnswer("42%", "int"))
		assert.Equal(t, int64(5), NormalizeAnswer(" $5 ", "int"))
		assert.Equal(t, int64(-3), NormalizeAnswer("-3", "int"))
		assert.Equal(t, int64(1000), NormalizeAnswer("1,000", "int"))
	})

	t.Run("int类型: 解析失败退化为归一化字符串", func(t *testing.T) {
		assert.Equal(t, "abc", NormalizeAnswer("  ABC ", "int"))
		assert.Equal(t, "3.5", NormalizeAnswer("3.5", "int"))
	})

	t.Run("round类型: 四舍五入到指定位数", func(t *testing.T) {
		assert.Equal(t, 3.14, NormalizeAnswer("3.14159", "round2"))
		assert.Equal(t, 3.142, NormalizeAnswer("3.14159", "round3"))
		assert.Equal(t, 2.0, NormalizeAnswer("2.005", "round2")) // 二进制浮点下 2.005 向下取
		assert.Equal(t, 2.67, NormalizeAnswer("2.675", "round2"))
		assert.Equal(t, 1.0, NormalizeAnswer("1", "round1"))
	})

	t.Run("round类型: 解析失败退化为归一化字符串", func(t *testing.T) {
		assert.Equal(t, "abc", NormalizeAnswer("abc", "round2"))
		assert.Equal(t, "abc", NormalizeAnswer("  ABC  ", "round2"))
	})

	t.Run("round类型: 位数标签非法时原样退回字符串", func(t *testing.T) {
		assert.Equal(t, "3.14", NormalizeAnswer("3.14", "roundx"))
	})

	t.Run("str类型: 去掉引号并小写", func(t *testing.T) {
		assert.Equal(t, "blue", NormalizeAnswer(`"Blue"`, "str"))
		assert.Equal(t, "blue", NormalizeAnswer("  Blue  ", "str"))
	})

	t.Run("str_cap类型: 去掉引号并大写", func(t *testing.T) {
		assert.Equal(t, "BLUE", NormalizeAnswer(`"blue"`, "str_cap"))
		assert.Equal(t, "A", NormalizeAnswer("a", "str_cap"))
	})

	t.Run("未知类型: 按str处理", func(t *testing.T) {
		assert.Equal(t, "hello", NormalizeAnswer(`"Hello"`, "mystery"))
	})
}

func TestFormatAnswer(t *testing.T) {
	assert.Equal(t, "5", FormatAnswer(int64(5)))
	assert.Equal(t, "2", FormatAnswer(2.0))
	assert.Equal(t, "2.01", FormatAnswer(2.01))
	assert.Equal(t, "blue", FormatAnswer("blue"))
}

func TestNormalizeThenFormatRoundTrip(t *testing.T) {
	// 存回去的值再次归一化必须得到同一个可比较值，否则会重复计尝试次数
	cases := []struct {
		raw        string
		answerType string
	}{
		{"$42", "int"},
		{"3.14159", "round2"},
		{`"Blue"`, "str"},
		{"abc", "round2"},
	}

	for _, c := range cases {
		first := NormalizeAnswer(c.raw, c.answerType)
		again := NormalizeAnswer(FormatAnswer(first), c.answerType)
		assert.Equal(t, first, again, "raw=%q type=%q", c.raw, c.answerType)
	}
}
