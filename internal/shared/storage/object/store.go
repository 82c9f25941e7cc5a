package object

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"

	"resume-screener/internal/shared/util"
)

// Object describes a stored original document.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStore keeps original uploads so a record can be traced back to its source file.
type ObjectStore interface {
	Put(ctx context.Context, fileName string, data []byte) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// NewKey returns "resumes/2024/05/17/<uuid>_<name>" for an upload received at now.
func NewKey(fileName string, now time.Time) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	now = now.UTC()
	return path.Join("resumes", now.Format("2006"), now.Format("01"), now.Format("02"), uuid.NewString()+"_"+name), nil
}

// ContentType sniffs data; ".docx" uploads are labelled explicitly since they sniff as zip.
func ContentType(fileName string, data []byte) string {
	if path.Ext(fileName) == ".docx" {
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return http.DetectContentType(data)
}
