package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/charforge/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultCollection = "charforge_items"

// Firestore stores every item as one document whose ID is the item key
type Firestore struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.Storage = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

// item is the document layout
type item struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Firestore) collection() string {
	if f.collectionPrefix != "" {
		return f.collectionPrefix + "_" + defaultCollection
	}
	return defaultCollection
}

func (f *Firestore) GetItem(ctx context.Context, key string) (string, bool, error) {
	doc, err := f.client.Collection(f.collection()).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", false, nil
		}
		return "", false, goerr.Wrap(err, "failed to get item", goerr.V("key", key))
	}

	var it item
	if err := doc.DataTo(&it); err != nil {
		return "", false, goerr.Wrap(err, "failed to decode item", goerr.V("key", key))
	}
	return it.Value, true, nil
}

func (f *Firestore) SetItem(ctx context.Context, key, value string) error {
	it := &item{
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := f.client.Collection(f.collection()).Doc(key).Set(ctx, it); err != nil {
		return goerr.Wrap(err, "failed to set item", goerr.V("key", key))
	}
	return nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
