package opener

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"

	"planner_import/internal/ports"
)

// maxWorkbookBytes caps how much of a remote workbook we will pull in.
// Spreadsheets past this size are not plan workbooks.
const maxWorkbookBytes = 64 << 20

// WorkbookOpener resolves a stored workbook path to its bytes. Paths may be
// s3://bucket/key, https URLs, or a bare key in the default bucket.
type WorkbookOpener struct {
	HTTP *HTTPOpener
	S3   *S3Opener

	DefaultBucket string
}

func NewWorkbookOpener(httpOp *HTTPOpener, s3Op *S3Opener, defaultBucket string) *WorkbookOpener {
	return &WorkbookOpener{
		HTTP:          httpOp,
		S3:            s3Op,
		DefaultBucket: defaultBucket,
	}
}

func (c *WorkbookOpener) Open(ctx context.Context, filePath string) (io.ReadCloser, ports.Meta, error) {
	fp := strings.TrimSpace(filePath)

	switch {
	case strings.HasPrefix(fp, "http://") || strings.HasPrefix(fp, "https://"):
		if c.HTTP == nil {
			return nil, ports.Meta{}, errors.New("http opener not configured")
		}
		return c.HTTP.Open(ctx, fp)

	case strings.HasPrefix(fp, "s3://"):
		if c.S3 == nil {
			return nil, ports.Meta{}, errors.New("s3 opener not configured")
		}
		bkt, key, err := parseS3URL(fp)
		if err != nil {
			return nil, ports.Meta{}, err
		}
		return c.S3.Open(ctx, bkt, key)

	default:
		if c.S3 == nil || c.DefaultBucket == "" {
			return nil, ports.Meta{}, errors.New("missing bucket: pass s3://bucket/key or https url")
		}
		return c.S3.Open(ctx, c.DefaultBucket, fp)
	}
}

// ReadAll opens the path and drains it, enforcing the workbook size cap.
func (c *WorkbookOpener) ReadAll(ctx context.Context, filePath string) ([]byte, ports.Meta, error) {
	rc, meta, err := c.Open(ctx, filePath)
	if err != nil {
		return nil, meta, err
	}
	defer rc.Close()

	if meta.Size > maxWorkbookBytes {
		return nil, meta, errors.New("workbook too large")
	}
	content, err := io.ReadAll(io.LimitReader(rc, maxWorkbookBytes+1))
	if err != nil {
		return nil, meta, err
	}
	if len(content) > maxWorkbookBytes {
		return nil, meta, errors.New("workbook too large")
	}
	return content, meta, nil
}

func parseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", errors.New("scheme must be s3")
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	key = path.Clean(key)
	if bucket == "" || key == "" || key == "." || key == "/" {
		return "", "", errors.New("empty bucket or key")
	}
	return bucket, key, nil
}
