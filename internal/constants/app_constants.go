package constants

import "time"

const (
	// DefaultParserVersion 启发式解析器的版本标识
	DefaultParserVersion = "heuristic-v1"

	// RawFileMD5SetKey 存储原始文件MD5的Redis Set
	RawFileMD5SetKey = "resumes:file_md5s"
	// ProfileCachePrefix 解析结果缓存键前缀
	ProfileCachePrefix = "profile:"
	// ProfileCacheDuration 解析结果缓存默认时长
	ProfileCacheDuration = time.Hour

	// 简历提交的处理状态
	StatusPendingParsing       = "PENDING_PARSING"
	StatusParsed               = "PARSED"
	StatusTextExtractionFailed = "TEXT_EXTRACTION_FAILED"
	StatusDuplicateSkipped     = "DUPLICATE_FILE_SKIPPED"
)
