package models

import (
	"time"

	"gorm.io/datatypes"
)

// ResumeSubmission 简历提交/快照表，记录一次上传的全生命周期：
// 入队 -> 文本提取 -> 结构化解析 -> 结果落库
type ResumeSubmission struct {
	SubmissionUUID      string    `gorm:"type:char(36);primaryKey"`
	SubmissionTimestamp time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_rs_submission_timestamp"`
	SourceChannel       string    `gorm:"type:varchar(100)"`
	OriginalFilename    string    `gorm:"type:varchar(255)"`
	OriginalFilePathOSS string    `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS   string    `gorm:"type:varchar(1024)"`
	RawFileMD5          string    `gorm:"type:char(32);index:idx_rs_raw_file_md5"`
	ProcessingStatus    string    `gorm:"type:varchar(50);default:'PENDING_PARSING';index:idx_rs_processing_status"`
	ParserVersion       string    `gorm:"type:varchar(50)"`

	// 结构化解析结果，解析完成后填充
	FullName             string         `gorm:"type:varchar(255)"`
	Email                string         `gorm:"type:varchar(255);index:idx_rs_email"`
	Phone                string         `gorm:"type:varchar(50)"`
	LinkedInURL          string         `gorm:"type:varchar(512)"`
	EducationJSON        datatypes.JSON `gorm:"type:json"`
	SkillsJSON           datatypes.JSON `gorm:"type:json"`
	TotalExperienceYears *int           `gorm:"type:int"`
	ConfidenceScore      int            `gorm:"type:int;default:0"`

	CreatedAt time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}
