package router

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"
	"go.opentelemetry.io/otel/trace"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/config"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/tracing"
)

// syncParseRequest 同步解析接口的请求体
type syncParseRequest struct {
	DocumentText     string `json:"document_text"`
	OriginalFilename string `json:"original_filename"`
}

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, cfg *config.Config, resumeHandler *handler.ResumeHandler) {
	// 健康检查不走鉴权
	h.GET("/api/v1/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	api := h.Group("/api/v1")

	if cfg.Server.APIKey != "" {
		api.Use(keyauth.New(
			keyauth.WithKeyLookUp("header:X-API-Key", ""),
			keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
				return key == cfg.Server.APIKey, nil
			}),
		))
	}

	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		sourceChannel := ctx.PostForm("source_channel")
		if sourceChannel == "" {
			sourceChannel = "web_upload"
		}

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := resumeHandler.HandleResumeUpload(c, file, fileHeader.Filename, sourceChannel)
		switch {
		case errors.Is(err, handler.ErrDuplicateFile):
			ctx.JSON(consts.StatusConflict, resp)
		case errors.Is(err, parser.ErrUnsupportedFormat):
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		case errors.Is(err, handler.ErrQueueUnavailable):
			ctx.JSON(consts.StatusServiceUnavailable, utils.H{"error": err.Error()})
		case err != nil:
			tracing.RecordHTTPError(trace.SpanFromContext(c), err, consts.StatusInternalServerError)
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		default:
			ctx.JSON(consts.StatusAccepted, resp)
		}
	})

	// 同步解析：输入已解码的文本，直接返回结构化结果
	api.POST("/resume/parse", func(c context.Context, ctx *app.RequestContext) {
		var req syncParseRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
			return
		}
		profile := resumeHandler.ParseSync(req.DocumentText, req.OriginalFilename)
		ctx.JSON(consts.StatusOK, profile)
	})

	api.GET("/resume/:submission_uuid/profile", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("submission_uuid")
		result, err := resumeHandler.GetProfile(c, submissionUUID)
		switch {
		case errors.Is(err, storage.ErrSubmissionNotFound):
			ctx.JSON(consts.StatusNotFound, utils.H{"error": "提交记录不存在"})
		case err != nil:
			tracing.RecordHTTPError(trace.SpanFromContext(c), err, consts.StatusInternalServerError)
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		default:
			ctx.JSON(consts.StatusOK, result)
		}
	})

	// 原始文件的预签名下载链接
	api.GET("/resume/:submission_uuid/download", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("submission_uuid")
		url, err := resumeHandler.GetDownloadURL(c, submissionUUID)
		switch {
		case errors.Is(err, storage.ErrSubmissionNotFound):
			ctx.JSON(consts.StatusNotFound, utils.H{"error": "提交记录不存在"})
		case err != nil:
			tracing.RecordHTTPError(trace.SpanFromContext(c), err, consts.StatusInternalServerError)
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		default:
			ctx.JSON(consts.StatusOK, utils.H{"url": url})
		}
	})

	// 解码后的纯文本，解析完成前返回404
	api.GET("/resume/:submission_uuid/text", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("submission_uuid")
		text, err := resumeHandler.GetParsedText(c, submissionUUID)
		switch {
		case errors.Is(err, storage.ErrSubmissionNotFound):
			ctx.JSON(consts.StatusNotFound, utils.H{"error": "提交记录不存在"})
		case errors.Is(err, handler.ErrTextNotReady):
			ctx.JSON(consts.StatusNotFound, utils.H{"error": err.Error()})
		case err != nil:
			tracing.RecordHTTPError(trace.SpanFromContext(c), err, consts.StatusInternalServerError)
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		default:
			ctx.JSON(consts.StatusOK, utils.H{"text": text})
		}
	})

	api.DELETE("/resume/:submission_uuid", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("submission_uuid")
		err := resumeHandler.DeleteSubmission(c, submissionUUID)
		switch {
		case errors.Is(err, storage.ErrSubmissionNotFound):
			ctx.JSON(consts.StatusNotFound, utils.H{"error": "提交记录不存在"})
		case err != nil:
			tracing.RecordHTTPError(trace.SpanFromContext(c), err, consts.StatusInternalServerError)
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		default:
			ctx.JSON(consts.StatusOK, utils.H{"submission_uuid": submissionUUID, "deleted": true})
		}
	})
}
