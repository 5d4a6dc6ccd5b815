package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/extractor"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/storage/models"
	"resume-parser-go/internal/tracing"
	"resume-parser-go/internal/types"
	"resume-parser-go/pkg/utils"
)

var handlerTracer = otel.Tracer("resume-parser-go/handler")

// ErrDuplicateFile 上传的文件与此前的提交内容完全一致
var ErrDuplicateFile = errors.New("重复的文件")

// ErrQueueUnavailable 消息队列处于降级状态，异步上传管线不可用
var ErrQueueUnavailable = errors.New("消息队列不可用")

// ErrTextNotReady 文本提取尚未完成，解析文本还不可读
var ErrTextNotReady = errors.New("解析文本尚未就绪")

// downloadURLExpiry 预签名下载链接的有效期
const downloadURLExpiry = 15 * time.Minute

// ResumeHandler 简历处理器，负责协调上传、解析和查询流程
type ResumeHandler struct {
	cfg       *config.Config
	storage   *storage.Storage
	decoder   *parser.Decoder
	extractor *extractor.Extractor
}

// NewResumeHandler 创建一个新的简历处理器
func NewResumeHandler(cfg *config.Config, st *storage.Storage, decoder *parser.Decoder, ext *extractor.Extractor) *ResumeHandler {
	return &ResumeHandler{
		cfg:       cfg,
		storage:   st,
		decoder:   decoder,
		extractor: ext,
	}
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
}

// HandleResumeUpload 处理简历上传：MD5去重 -> 存入MinIO -> 发布解析事件。
// 解析本身由消费者异步完成，本方法只负责把文件安全落盘并入队。
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, filename string, sourceChannel string) (*ResumeUploadResponse, error) {
	ctx, span := handlerTracer.Start(ctx, "ResumeHandler.HandleResumeUpload",
		trace.WithAttributes(attribute.String("upload.filename", filename)))
	defer span.End()

	if !parser.SupportedExtension(filename) {
		err := fmt.Errorf("%w: %s", parser.ErrUnsupportedFormat, filepath.Ext(filename))
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	// 存储层降级模式下RabbitMQ可能为nil，入队前先拒绝，
	// 否则文件会落入MinIO却永远不会被解析
	if h.storage.RabbitMQ == nil {
		tracing.RecordError(span, ErrQueueUnavailable, tracing.ErrorTypeRabbitMQ)
		return nil, ErrQueueUnavailable
	}

	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeHTTP)
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	fileMD5Hex := utils.CalculateMD5(fileBytes)
	span.SetAttributes(attribute.String("upload.file_md5", fileMD5Hex))

	// 原子地检查并登记MD5，并发上传同一文件时只有一个请求能通过
	if h.storage.Redis != nil {
		exists, err := h.storage.Redis.CheckAndAddRawFileMD5(ctx, fileMD5Hex)
		if err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeRedis)
			return nil, fmt.Errorf("检查文件MD5重复性失败: %w", err)
		}
		if exists {
			logger.Info().Str("md5", fileMD5Hex).Str("filename", filename).Msg("检测到重复的文件MD5，跳过处理")
			return &ResumeUploadResponse{
				Status: constants.StatusDuplicateSkipped,
			}, ErrDuplicateFile
		}
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		h.rollbackMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	ext := filepath.Ext(filename)
	originalObjectKey, err := h.storage.MinIO.UploadResumeFile(ctx, submissionUUID, ext, bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		h.rollbackMD5(ctx, fileMD5Hex)
		tracing.RecordError(span, err, tracing.ErrorTypeStorage)
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	message := storage.ResumeUploadMessage{
		SubmissionUUID:   submissionUUID,
		OriginalFilename: filename,
		OriginalFilePath: originalObjectKey,
		RawFileMD5:       fileMD5Hex,
		SourceChannel:    sourceChannel,
		SubmittedAt:      time.Now(),
	}
	if err := h.storage.RabbitMQ.PublishJSON(ctx, h.cfg.RabbitMQ.ResumeEventsExchange, h.cfg.RabbitMQ.UploadedRoutingKey, message, true); err != nil {
		h.rollbackMD5(ctx, fileMD5Hex)
		tracing.RecordError(span, err, tracing.ErrorTypeRabbitMQ)
		return nil, fmt.Errorf("发布消息到RabbitMQ失败: %w", err)
	}

	logger.Info().
		Str("submission_uuid", submissionUUID).
		Str("filename", filename).
		Str("object_key", originalObjectKey).
		Msg("简历已入队等待解析")

	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         constants.StatusPendingParsing,
	}, nil
}

// rollbackMD5 上传失败时把MD5从去重集合移除，避免该文件被永久拒收
func (h *ResumeHandler) rollbackMD5(ctx context.Context, md5Hex string) {
	if h.storage.Redis == nil {
		return
	}
	if err := h.storage.Redis.RemoveRawFileMD5(ctx, md5Hex); err != nil {
		logger.Warn().Err(err).Str("md5", md5Hex).Msg("回滚文件MD5记录失败")
	}
}

// StartResumeUploadConsumer 启动上传事件消费者：建队列拓扑并开始消费
func (h *ResumeHandler) StartResumeUploadConsumer(ctx context.Context) error {
	if err := h.storage.InitializeMessaging(&h.cfg.RabbitMQ); err != nil {
		return fmt.Errorf("初始化消息拓扑失败: %w", err)
	}

	_, err := h.storage.RabbitMQ.StartConsumer(h.cfg.RabbitMQ.RawResumeQueue, h.cfg.RabbitMQ.PrefetchCount, func(data []byte) bool {
		var message storage.ResumeUploadMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Error().Err(err).Msg("解析上传事件消息失败")
			// 消息格式损坏，重试没有意义
			return true
		}
		return h.handleUploadMessage(ctx, message)
	})
	if err != nil {
		return fmt.Errorf("启动消费者失败: %w", err)
	}
	return nil
}

// handleUploadMessage 消费单条上传事件。返回true表示Ack。
// 解码类失败是永久性的，记录失败状态后Ack；基础设施错误Nack重试。
func (h *ResumeHandler) handleUploadMessage(ctx context.Context, message storage.ResumeUploadMessage) bool {
	ctx, span := handlerTracer.Start(ctx, "ResumeHandler.handleUploadMessage",
		trace.WithAttributes(attribute.String("submission_uuid", message.SubmissionUUID)))
	defer span.End()

	submission := &models.ResumeSubmission{
		SubmissionUUID:      message.SubmissionUUID,
		SubmissionTimestamp: message.SubmittedAt,
		SourceChannel:       message.SourceChannel,
		OriginalFilename:    message.OriginalFilename,
		OriginalFilePathOSS: message.OriginalFilePath,
		RawFileMD5:          message.RawFileMD5,
		ProcessingStatus:    constants.StatusPendingParsing,
		ParserVersion:       h.cfg.ActiveParserVersion,
	}
	if err := h.storage.MySQL.CreateSubmission(ctx, submission); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		tracing.RecordRabbitMQNack(span, message.SubmissionUUID, "插入提交记录失败")
		logger.Error().Err(err).Str("submission_uuid", message.SubmissionUUID).Msg("插入提交记录失败")
		return false
	}

	if err := h.processResumeText(ctx, message); err != nil {
		tracing.RecordErrorWithInfo(span, err, tracing.ErrorTypeExtraction,
			attribute.String("upload.filename", message.OriginalFilename))
		logger.Error().Err(err).Str("submission_uuid", message.SubmissionUUID).Msg("简历解析失败")

		if statusErr := h.storage.MySQL.UpdateSubmissionStatus(ctx, message.SubmissionUUID, constants.StatusTextExtractionFailed); statusErr != nil {
			logger.Error().Err(statusErr).Str("submission_uuid", message.SubmissionUUID).Msg("更新失败状态失败")
		}
		// 解码失败是文件本身的问题，重投不会变好
		permanent := errors.Is(err, parser.ErrUnsupportedFormat) ||
			errors.Is(err, parser.ErrEmptyDocument) ||
			errors.Is(err, errDecodeFailed)
		if !permanent {
			tracing.RecordRabbitMQNack(span, message.SubmissionUUID, "解析失败，消息重新入队")
		}
		return permanent
	}
	return true
}

var errDecodeFailed = errors.New("文档解码失败")

// processResumeText 消费端的解析流水线：
// 下载原始文件 -> 解码为文本 -> 存档解析文本 -> 结构化抽取 -> 结果落库与缓存
func (h *ResumeHandler) processResumeText(ctx context.Context, message storage.ResumeUploadMessage) error {
	fileBytes, err := h.storage.MinIO.GetResumeFile(ctx, message.OriginalFilePath)
	if err != nil {
		return fmt.Errorf("从MinIO下载原始简历失败: %w", err)
	}

	documentText, err := h.decoder.ExtractText(ctx, fileBytes, message.OriginalFilename)
	if err != nil {
		return fmt.Errorf("%w: %s", errDecodeFailed, err)
	}

	parsedTextPath, err := h.storage.MinIO.UploadParsedText(ctx, message.SubmissionUUID, documentText)
	if err != nil {
		return fmt.Errorf("存档解析文本失败: %w", err)
	}

	profile := h.extractor.Parse(documentText, message.OriginalFilename)

	if err := h.storage.MySQL.SaveParsedProfile(ctx, message.SubmissionUUID, profile, parsedTextPath, constants.StatusParsed); err != nil {
		return fmt.Errorf("保存解析结果失败: %w", err)
	}

	h.cacheProfile(ctx, message.SubmissionUUID, profile)

	logger.Ctx(ctx).Info().
		Str("submission_uuid", message.SubmissionUUID).
		Int("confidence", profile.ConfidenceScore).
		Int("skills", len(profile.Skills)).
		Msg("简历解析完成")
	return nil
}

// cacheProfile 缓存解析结果，失败只记日志不影响主流程
func (h *ResumeHandler) cacheProfile(ctx context.Context, submissionUUID string, profile *types.ParsedProfile) {
	if h.storage.Redis == nil {
		return
	}
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		logger.Warn().Err(err).Msg("序列化解析结果失败")
		return
	}
	if err := h.storage.Redis.CacheProfile(ctx, submissionUUID, string(profileJSON)); err != nil {
		logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("缓存解析结果失败")
	}
}

// ParseSync 同步解析一段已解码的文档文本，不触碰任何存储
func (h *ResumeHandler) ParseSync(documentText, originalFilename string) *types.ParsedProfile {
	return h.extractor.Parse(documentText, originalFilename)
}

// ProfileResult 查询解析结果的响应
type ProfileResult struct {
	SubmissionUUID string               `json:"submission_uuid"`
	Status         string               `json:"status"`
	Profile        *types.ParsedProfile `json:"profile,omitempty"`
}

// GetProfile 查询一次提交的解析结果，优先走Redis缓存，未命中回源MySQL
func (h *ResumeHandler) GetProfile(ctx context.Context, submissionUUID string) (*ProfileResult, error) {
	ctx, span := handlerTracer.Start(ctx, "ResumeHandler.GetProfile",
		trace.WithAttributes(attribute.String("submission_uuid", submissionUUID)))
	defer span.End()

	if h.storage.Redis != nil {
		cached, err := h.storage.Redis.GetCachedProfile(ctx, submissionUUID)
		if err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("读取缓存失败，回源数据库")
		} else if cached != "" {
			var profile types.ParsedProfile
			if err := json.Unmarshal([]byte(cached), &profile); err == nil {
				return &ProfileResult{
					SubmissionUUID: submissionUUID,
					Status:         constants.StatusParsed,
					Profile:        &profile,
				}, nil
			}
		}
	}

	submission, err := h.storage.MySQL.GetSubmissionByUUID(ctx, submissionUUID)
	if err != nil {
		if !errors.Is(err, storage.ErrSubmissionNotFound) {
			tracing.RecordError(span, err, tracing.ErrorTypeDB)
		}
		return nil, err
	}

	result := &ProfileResult{
		SubmissionUUID: submission.SubmissionUUID,
		Status:         submission.ProcessingStatus,
	}
	if submission.ProcessingStatus != constants.StatusParsed {
		return result, nil
	}

	profile, err := profileFromModel(submission)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, fmt.Errorf("还原解析结果失败: %w", err)
	}
	result.Profile = profile

	h.cacheProfile(ctx, submissionUUID, profile)
	return result, nil
}

// GetDownloadURL 为原始简历生成预签名下载链接
func (h *ResumeHandler) GetDownloadURL(ctx context.Context, submissionUUID string) (string, error) {
	ctx, span := handlerTracer.Start(ctx, "ResumeHandler.GetDownloadURL",
		trace.WithAttributes(attribute.String("submission_uuid", submissionUUID)))
	defer span.End()

	submission, err := h.storage.MySQL.GetSubmissionByUUID(ctx, submissionUUID)
	if err != nil {
		if !errors.Is(err, storage.ErrSubmissionNotFound) {
			tracing.RecordError(span, err, tracing.ErrorTypeDB)
		}
		return "", err
	}

	url, err := h.storage.MinIO.GetPresignedURL(ctx, submission.OriginalFilePathOSS, downloadURLExpiry)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeStorage)
		return "", fmt.Errorf("生成下载链接失败: %w", err)
	}
	return url, nil
}

// GetParsedText 读取一次提交解码后的纯文本，提取完成前返回ErrTextNotReady
func (h *ResumeHandler) GetParsedText(ctx context.Context, submissionUUID string) (string, error) {
	ctx, span := handlerTracer.Start(ctx, "ResumeHandler.GetParsedText",
		trace.WithAttributes(attribute.String("submission_uuid", submissionUUID)))
	defer span.End()

	submission, err := h.storage.MySQL.GetSubmissionByUUID(ctx, submissionUUID)
	if err != nil {
		if !errors.Is(err, storage.ErrSubmissionNotFound) {
			tracing.RecordError(span, err, tracing.ErrorTypeDB)
		}
		return "", err
	}
	if submission.ParsedTextPathOSS == "" {
		return "", ErrTextNotReady
	}

	text, err := h.storage.MinIO.GetParsedText(ctx, submission.ParsedTextPathOSS)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeStorage)
		return "", fmt.Errorf("读取解析文本失败: %w", err)
	}
	return text, nil
}

// DeleteSubmission 删除一次提交：移除原始文件、MD5去重登记、缓存和数据库记录。
// 解析文本对象不单独删除，由存储桶的生命周期规则过期清理。
func (h *ResumeHandler) DeleteSubmission(ctx context.Context, submissionUUID string) error {
	ctx, span := handlerTracer.Start(ctx, "ResumeHandler.DeleteSubmission",
		trace.WithAttributes(attribute.String("submission_uuid", submissionUUID)))
	defer span.End()

	submission, err := h.storage.MySQL.GetSubmissionByUUID(ctx, submissionUUID)
	if err != nil {
		if !errors.Is(err, storage.ErrSubmissionNotFound) {
			tracing.RecordError(span, err, tracing.ErrorTypeDB)
		}
		return err
	}

	if submission.OriginalFilePathOSS != "" {
		if err := h.storage.MinIO.DeleteResumeFile(ctx, submission.OriginalFilePathOSS); err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeStorage)
			return fmt.Errorf("删除原始简历失败: %w", err)
		}
	}

	// MD5登记清掉后同一文件可以重新上传
	if h.storage.Redis != nil && submission.RawFileMD5 != "" {
		if err := h.storage.Redis.RemoveRawFileMD5(ctx, submission.RawFileMD5); err != nil {
			logger.Warn().Err(err).Str("md5", submission.RawFileMD5).Msg("移除文件MD5记录失败")
		}
	}

	if err := h.storage.MySQL.DeleteSubmission(ctx, submissionUUID); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return err
	}

	logger.Info().Str("submission_uuid", submissionUUID).Msg("提交记录已删除")
	return nil
}

// profileFromModel 从数据库行还原结构化解析结果
func profileFromModel(submission *models.ResumeSubmission) (*types.ParsedProfile, error) {
	profile := &types.ParsedProfile{
		FullName:             submission.FullName,
		Email:                submission.Email,
		Phone:                submission.Phone,
		LinkedInURL:          submission.LinkedInURL,
		Education:            []types.EducationResult{},
		Skills:               []string{},
		TotalExperienceYears: submission.TotalExperienceYears,
		ConfidenceScore:      submission.ConfidenceScore,
	}
	if len(submission.EducationJSON) > 0 {
		if err := json.Unmarshal(submission.EducationJSON, &profile.Education); err != nil {
			return nil, fmt.Errorf("反序列化学历结果失败: %w", err)
		}
	}
	if len(submission.SkillsJSON) > 0 {
		if err := json.Unmarshal(submission.SkillsJSON, &profile.Skills); err != nil {
			return nil, fmt.Errorf("反序列化技能列表失败: %w", err)
		}
	}
	return profile, nil
}
