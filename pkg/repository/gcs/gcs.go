package gcs

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/charforge/pkg/domain/interfaces"
	"github.com/secmon-lab/charforge/pkg/utils/safe"
	"google.golang.org/api/option"
)

// GCS stores every item as a JSON object named <prefix><key>.json
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.Storage = &GCS{}

type Option func(*config)

type config struct {
	prefix        string
	clientOptions []option.ClientOption
}

// WithPrefix sets the object name prefix, e.g. "charforge/"
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithClientOptions passes options to the underlying storage client
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *config) {
		c.clientOptions = append(c.clientOptions, opts...)
	}
}

func New(ctx context.Context, bucket string, opts ...Option) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	client, err := storage.NewClient(ctx, cfg.clientOptions...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &GCS{
		client: client,
		bucket: bucket,
		prefix: cfg.prefix,
	}, nil
}

func (g *GCS) objectName(key string) string {
	return g.prefix + key + ".json"
}

func (g *GCS) GetItem(ctx context.Context, key string) (string, bool, error) {
	r, err := g.client.Bucket(g.bucket).Object(g.objectName(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return "", false, nil
		}
		return "", false, goerr.Wrap(err, "failed to open object",
			goerr.V("bucket", g.bucket),
			goerr.V("object", g.objectName(key)))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return "", false, goerr.Wrap(err, "failed to read object",
			goerr.V("bucket", g.bucket),
			goerr.V("object", g.objectName(key)))
	}
	return string(data), true, nil
}

func (g *GCS) SetItem(ctx context.Context, key, value string) error {
	w := g.client.Bucket(g.bucket).Object(g.objectName(key)).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := io.WriteString(w, value); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object",
			goerr.V("bucket", g.bucket),
			goerr.V("object", g.objectName(key)))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize object",
			goerr.V("bucket", g.bucket),
			goerr.V("object", g.objectName(key)))
	}
	return nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
