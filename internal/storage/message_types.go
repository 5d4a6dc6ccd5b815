package storage

import "time"

// ResumeUploadMessage 上传完成后发布到消息队列的事件，
// 消费端据此从对象存储取回原始文件并执行解析
type ResumeUploadMessage struct {
	SubmissionUUID   string    `json:"submission_uuid"`
	OriginalFilename string    `json:"original_filename"`
	OriginalFilePath string    `json:"original_file_path"`
	RawFileMD5       string    `json:"raw_file_md5"`
	SourceChannel    string    `json:"source_channel"`
	SubmittedAt      time.Time `json:"submitted_at"`
}
