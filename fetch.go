package scorecard

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

// Opener is an interface to a remote resource which can be Opened, yielding a
// ReadCloser over its content.
type Opener interface {
	Open() (io.ReadCloser, error)
}

// OpenStringer is an Opener which also names the resource being opened (a
// URL, S3 object, or file path).
type OpenStringer interface {
	fmt.Stringer
	Opener
}

// NewOpener turns a remote locator into an OpenStringer. Locators starting
// with "http" are fetched over HTTP, "s3://bucket/key" objects through the
// AWS SDK, and anything else is treated as a local file path.
func NewOpener(remote string) OpenStringer {
	switch {
	case strings.HasPrefix(remote, "s3://"):
		return s3Opener(remote)
	case strings.HasPrefix(remote, "http"):
		return urlOpener(remote)
	default:
		return fileOpener(remote)
	}
}

// urlOpener fetches a resource over HTTP.
type urlOpener string

func (u urlOpener) Open() (io.ReadCloser, error) {
	resp, err := http.Get(string(u))
	if err != nil {
		return nil, errors.Wrap(err, "getting via http")
	}
	if resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, errors.Errorf("getting '%s': %s", string(u), resp.Status)
	}
	return resp.Body, nil
}

func (u urlOpener) String() string { return string(u) }

// fileOpener reads a resource from the local filesystem.
type fileOpener string

func (f fileOpener) Open() (io.ReadCloser, error) {
	file, err := os.Open(string(f))
	return file, errors.Wrap(err, "opening file")
}

func (f fileOpener) String() string { return string(f) }

// s3Opener fetches an object of the form s3://bucket/key.
type s3Opener string

func (s s3Opener) Open() (io.ReadCloser, error) {
	trimmed := strings.TrimPrefix(string(s), "s3://")
	bucket, key, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || key == "" {
		return nil, errors.Errorf("malformed s3 locator '%s'", string(s))
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, errors.Wrap(err, "getting aws session")
	}
	obj, err := s3.New(sess).GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "getting object '%s'", string(s))
	}
	return obj.Body, nil
}

func (s s3Opener) String() string { return string(s) }

// Download streams the resource behind src into dst.
func Download(src Opener, dst io.Writer) error {
	content, err := src.Open()
	if err != nil {
		return errors.Wrap(err, "opening remote")
	}
	defer content.Close()
	_, err = io.Copy(dst, content)
	return errors.Wrap(err, "copying remote")
}

// DownloadTo fetches remote and writes it to a new file at dest, creating
// parent directories as needed.
func DownloadTo(remote, dest string) error {
	if err := EnsureDir(filepath.Dir(dest)); err != nil {
		return err
	}
	f, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, "creating '%s'", dest)
	}
	if err := Download(NewOpener(remote), f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing '%s'", dest)
}
