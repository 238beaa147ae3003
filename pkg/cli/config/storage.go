package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/charforge/pkg/domain/interfaces"
	"github.com/secmon-lab/charforge/pkg/repository/firestore"
	"github.com/secmon-lab/charforge/pkg/repository/gcs"
	"github.com/secmon-lab/charforge/pkg/repository/memory"
	"github.com/secmon-lab/charforge/pkg/repository/sqlite"
	"github.com/secmon-lab/charforge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Storage backend names
const (
	BackendMemory    = "memory"
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
	BackendGCS       = "gcs"
)

// Storage holds CLI flags for the storage backend
type Storage struct {
	backend          string
	sqlitePath       string
	projectID        string
	databaseID       string
	collectionPrefix string
	bucket           string
	objectPrefix     string
	credentialsFile  string
}

// Flags returns CLI flags for storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Storage backend (memory, sqlite, firestore, gcs)",
			Value:       BackendSQLite,
			Category:    "Storage",
			Sources:     cli.EnvVars("CHARFORGE_STORAGE_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "SQLite database file (sqlite backend)",
			Value:       "charforge.db",
			Category:    "Storage",
			Sources:     cli.EnvVars("CHARFORGE_SQLITE_PATH"),
			Destination: &s.sqlitePath,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("CHARFORGE_FIRESTORE_PROJECT_ID"),
			Destination: &s.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Storage",
			Sources:     cli.EnvVars("CHARFORGE_FIRESTORE_DATABASE_ID"),
			Destination: &s.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix for the Firestore collection name",
			Category:    "Storage",
			Sources:     cli.EnvVars("CHARFORGE_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &s.collectionPrefix,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket (required when using gcs backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("CHARFORGE_GCS_BUCKET"),
			Destination: &s.bucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the bucket",
			Category:    "Storage",
			Sources:     cli.EnvVars("CHARFORGE_GCS_PREFIX"),
			Destination: &s.objectPrefix,
		},
		&cli.StringFlag{
			Name:        "gcs-credentials-file",
			Usage:       "Service account key file for Cloud Storage (default: application default credentials)",
			Category:    "Storage",
			Sources:     cli.EnvVars("CHARFORGE_GCS_CREDENTIALS_FILE"),
			Destination: &s.credentialsFile,
		},
	}
}

// Backend returns the configured backend type
func (s *Storage) Backend() string {
	return s.backend
}

// LogAttrs returns log attributes for the storage configuration
func (s *Storage) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("backend", s.backend)}
	switch s.backend {
	case BackendSQLite:
		attrs = append(attrs, slog.String("path", s.sqlitePath))
	case BackendFirestore:
		attrs = append(attrs,
			slog.String("project_id", s.projectID),
			slog.String("database_id", s.databaseID),
			slog.String("collection_prefix", s.collectionPrefix),
		)
	case BackendGCS:
		attrs = append(attrs,
			slog.String("bucket", s.bucket),
			slog.String("prefix", s.objectPrefix),
		)
	}
	return attrs
}

// Configure initializes the storage for the configured backend. The caller is
// responsible for calling Close() on the returned storage.
func (s *Storage) Configure(ctx context.Context) (interfaces.Storage, error) {
	logger := logging.From(ctx)

	switch s.backend {
	case BackendMemory:
		logger.Warn("Using in-memory storage, custom fields are lost on exit")
		return memory.New(), nil

	case BackendSQLite:
		if s.sqlitePath == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "sqlite-path is required when using sqlite backend")
		}
		store, err := sqlite.New(ctx, s.sqlitePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize sqlite storage")
		}
		logger.Debug("Using SQLite storage", "path", s.sqlitePath)
		return store, nil

	case BackendFirestore:
		if s.projectID == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "firestore-project-id is required when using firestore backend")
		}
		store, err := firestore.New(ctx, s.projectID, s.databaseID, firestore.WithCollectionPrefix(s.collectionPrefix))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore storage")
		}
		logger.Debug("Using Firestore storage",
			"project_id", s.projectID,
			"database_id", s.databaseID,
		)
		return store, nil

	case BackendGCS:
		if s.bucket == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "gcs-bucket is required when using gcs backend")
		}
		opts := []gcs.Option{gcs.WithPrefix(s.objectPrefix)}
		if s.credentialsFile != "" {
			opts = append(opts, gcs.WithClientOptions(option.WithCredentialsFile(s.credentialsFile)))
		}
		store, err := gcs.New(ctx, s.bucket, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize gcs storage")
		}
		logger.Debug("Using Cloud Storage", "bucket", s.bucket, "prefix", s.objectPrefix)
		return store, nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid storage backend", goerr.V("backend", s.backend))
	}
}
