package app

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/external"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

var (
	ctorMu sync.Mutex
	ctors  = make(map[string]FileLoaderCtor)
)

func init() {
	RegisterFileLoaderCtor("", newLocalLoader)
	RegisterFileLoaderCtor("file", newLocalLoader)
	RegisterFileLoaderCtor("s3", newS3Loader)
}

// RegisterFileLoaderCtor registers a FileLoader for the specified scheme.
func RegisterFileLoaderCtor(scheme string, ctr FileLoaderCtor) {
	ctorMu.Lock()
	defer ctorMu.Unlock()

	_, exists := ctors[scheme]
	if exists {
		panic(fmt.Sprintf("FileLoader already registered for scheme '%s'", scheme))
	}

	ctors[scheme] = ctr
}

// FileLoaderCtor constructs a FileLoader.
type FileLoaderCtor func() (FileLoader, error)

// FileLoader loads files at a specified URL.
type FileLoader interface {
	Load(ctx context.Context, url *url.URL) ([]byte, error)
}

// LoadFile loads a file at the specified URL using the corresponding
// registered FileLoader. Paths without a scheme are read from local disk.
func LoadFile(ctx context.Context, fileURL string) ([]byte, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid file url %s", fileURL)
	}

	ctorMu.Lock()
	ctr, exists := ctors[u.Scheme]
	ctorMu.Unlock()
	if !exists {
		return nil, errors.Errorf("no file loader for %s", u.Scheme)
	}

	l, err := ctr()
	if err != nil {
		return nil, errors.Wrapf(err, "failed get loader for '%s'", fileURL)
	}

	return l.Load(ctx, u)
}

type localLoader struct{}

func newLocalLoader() (FileLoader, error) {
	return localLoader{}, nil
}

// Load implements FileLoader.Load
func (localLoader) Load(_ context.Context, u *url.URL) ([]byte, error) {
	path := u.Path
	if len(u.Host) > 0 {
		path = u.Host + path
	}
	return os.ReadFile(path)
}

type s3Loader struct {
	client *s3.Client
}

func newS3Loader() (FileLoader, error) {
	awsConfig, err := external.LoadDefaultAWSConfig()
	if err != nil {
		return nil, errors.Wrap(err, "error loading aws config")
	}

	return &s3Loader{
		client: s3.New(awsConfig),
	}, nil
}

// Load implements FileLoader.Load for s3://bucket/key URLs
func (l *s3Loader) Load(ctx context.Context, u *url.URL) ([]byte, error) {
	if len(u.Host) == 0 || len(u.Path) <= 1 {
		return nil, errors.Errorf("invalid s3 url %s", u.String())
	}

	req := l.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(u.Host),
		Key:    aws.String(u.Path[1:]),
	})

	resp, err := req.Send(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting s3 object %s", u.String())
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
