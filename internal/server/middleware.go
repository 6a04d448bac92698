package server

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainerrors "taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
)

const callerKey = "caller"

// requireAuth resolves the request's identity token and stores the caller on
// the context. Every task route and the profile route run behind it.
func (api *TaskAPI) requireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized to access this route",
			})
			return
		}

		user, err := api.auth.Authenticate(ctx.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domainerrors.ErrInfrastructure) {
				ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"success": false,
					"message": "Service temporarily unavailable",
				})
				return
			}
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized to access this route",
			})
			return
		}

		ctx.Set(callerKey, user)
		ctx.Next()
	}
}

// bearerToken reads the Authorization header, falling back to the jwt_token
// cookie set by older clients.
func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := ctx.Cookie("jwt_token"); err == nil {
		return cookie
	}
	return ""
}

func caller(ctx *gin.Context) *models.User {
	v, exists := ctx.Get(callerKey)
	if !exists {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

type dualCloser struct {
	io.Reader
	gzipReader io.Closer
	bodyCloser io.Closer
}

func (dc *dualCloser) Close() error {
	var err1, err2 error
	if dc.gzipReader != nil {
		err1 = dc.gzipReader.Close()
	}
	if dc.bodyCloser != nil {
		err2 = dc.bodyCloser.Close()
	}
	if err1 != nil {
		return err1
	}
	return err2
}

// GzipRequestDecompress transparently inflates request bodies sent with
// Content-Encoding: gzip.
func GzipRequestDecompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		encoding := strings.ToLower(ctx.GetHeader("Content-Encoding"))
		if strings.Contains(encoding, "gzip") {
			gr, err := gzip.NewReader(ctx.Request.Body)
			if err != nil {
				ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": domainerrors.ErrInvalidGzipRequest.Error(),
				})
				return
			}

			ctx.Request.Body = &dualCloser{
				Reader:     gr,
				gzipReader: gr,
				bodyCloser: ctx.Request.Body,
			}
			ctx.Request.Header.Del("Content-Encoding")
			ctx.Request.Header.Del("Content-Length")
		}
		ctx.Next()
	}
}

type gzipResponseWriter struct {
	gin.ResponseWriter
	gw      *gzip.Writer
	skipped bool
}

// Write lazily enables compression on the first body write, once the handler
// has settled the Content-Type.
func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	if w.gw == nil && !w.skipped {
		if isCompressibleContentType(w.Header().Get("Content-Type")) {
			w.Header().Del("Content-Length")
			w.Header().Set("Content-Encoding", "gzip")
			w.gw = gzip.NewWriter(w.ResponseWriter)
		} else {
			w.skipped = true
		}
	}
	if w.gw != nil {
		return w.gw.Write(data)
	}
	return w.ResponseWriter.Write(data)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// GzipResponseCompress compresses compressible response bodies for clients
// that advertise gzip support.
func GzipResponseCompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodHead {
			ctx.Next()
			return
		}

		acceptEnc := strings.ToLower(ctx.GetHeader("Accept-Encoding"))
		if !strings.Contains(acceptEnc, "gzip") {
			ctx.Next()
			return
		}

		vary := ctx.Writer.Header().Get("Vary")
		if vary == "" {
			ctx.Writer.Header().Set("Vary", "Accept-Encoding")
		} else if !strings.Contains(vary, "Accept-Encoding") {
			ctx.Writer.Header().Set("Vary", vary+", Accept-Encoding")
		}

		gw := &gzipResponseWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = gw

		ctx.Next()

		if gw.gw != nil {
			if err := gw.gw.Close(); err != nil {
				_ = ctx.Error(domainerrors.ErrGzipCompressionFailed)
			}
		}
	}
}

func isCompressibleContentType(ct string) bool {
	if ct == "" {
		return false
	}

	lower := strings.ToLower(ct)
	if strings.HasPrefix(lower, "text/event-stream") {
		return false
	}

	prefixes := []string{
		"application/json",
		"application/xml",
		"application/javascript",
		"text/html",
		"text/css",
		"text/plain",
		"text/xml",
		"text/javascript",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
