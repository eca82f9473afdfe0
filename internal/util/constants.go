package util

// DateFormat 排期到期日的日期格式
const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// MimeImage 图片上传允许的 Content-Type 前缀
const MimeImage = "image/"

var (
	AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
)
