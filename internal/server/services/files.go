package services

import (
	"context"
	"errors"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dsmirnov/drivebox/internal/common"
	"github.com/dsmirnov/drivebox/internal/logging"
	"github.com/dsmirnov/drivebox/internal/server/config"
	"github.com/dsmirnov/drivebox/internal/server/models"
	"github.com/dsmirnov/drivebox/internal/server/repositories/nodes"
	"github.com/dsmirnov/drivebox/internal/server/storage"
)

// FileService orchestrates the metadata and blob stores. The two stores are
// not covered by a transaction; consistency rests on a fixed write order:
// blob before metadata on create, so metadata existence implies blob
// existence but not the converse. All authenticated users share one global
// namespace; operations are not scoped by the token subject.
type FileService struct {
	nodes        nodes.Repository
	blobs        storage.BlobStore
	logger       logging.Logger
	storeTimeout time.Duration
}

func NewFileService(nodeRepo nodes.Repository, blobs storage.BlobStore, logger logging.Logger, cfg *config.Config) *FileService {
	return &FileService{
		nodes:        nodeRepo,
		blobs:        blobs,
		logger:       logger.With("module", "file_service"),
		storeTimeout: cfg.StoreTimeout,
	}
}

func newNodeID() string {
	return bson.NewObjectID().Hex()
}

// CreateFolder inserts a folder node under the root namespace and returns
// its id. Duplicate folder names are permitted.
func (s *FileService) CreateFolder(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", common.ErrInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	node := &models.Node{
		ID:         newNodeID(),
		Filename:   name,
		IsFolder:   true,
		UploadDate: time.Now().UTC(),
		Folder:     common.RootFolder,
	}

	if err := s.nodes.Create(ctx, node); err != nil {
		s.logger.Error(ctx, "folder insert failed", "error", err)
		return "", storeErr(err)
	}

	s.logger.Info(ctx, "folder created", "node_id", node.ID, "name", name)
	return node.ID, nil
}

// Upload streams content into the blob store under a fresh id and only then
// inserts the metadata record. A blob failure leaves no metadata behind; a
// metadata failure after a successful blob write leaves an inert orphan blob
// that is never user-visible and can be swept out of band.
func (s *FileService) Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64, folder string) (string, error) {
	if filename == "" || size < 0 {
		return "", common.ErrInvalid
	}
	if folder == "" {
		folder = common.RootFolder
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	id := newNodeID()

	if err := s.blobs.Put(ctx, id, r, size, contentType); err != nil {
		s.logger.Error(ctx, "blob write failed", "node_id", id, "error", err)
		return "", storeErr(err)
	}

	node := &models.Node{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		UploadDate:  time.Now().UTC(),
		Folder:      folder,
	}

	if err := s.nodes.Create(ctx, node); err != nil {
		// Blob is already written; the orphan stays unreferenced.
		s.logger.Error(ctx, "metadata insert failed, blob orphaned", "node_id", id, "error", err)
		return "", storeErr(err)
	}

	s.logger.Info(ctx, "file uploaded", "node_id", id, "filename", filename, "size", size)
	return id, nil
}

// List returns the nodes whose parent equals folder exactly, in the store's
// natural order. An empty folder yields an empty slice.
func (s *FileService) List(ctx context.Context, folder string) ([]*models.Node, error) {
	if folder == "" {
		folder = common.RootFolder
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	result, err := s.nodes.ListByFolder(ctx, folder)
	if err != nil {
		s.logger.Error(ctx, "list failed", "folder", folder, "error", err)
		return nil, storeErr(err)
	}
	if result == nil {
		result = []*models.Node{}
	}

	return result, nil
}

// Rename updates the name of an existing node. When no record matches the id
// the store reports an update count of zero, surfaced as common.ErrNotFound.
func (s *FileService) Rename(ctx context.Context, id, newName string) error {
	if newName == "" {
		return common.ErrInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.nodes.Rename(ctx, id, newName); err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error(ctx, "rename failed", "node_id", id, "error", err)
		}
		return storeErr(err)
	}

	return nil
}

// Download looks the metadata up and opens the blob for streaming. The
// caller must close the returned reader. A node whose blob is missing
// (metadata present, content lost) yields common.ErrNotFound, same as a node
// that never existed. The blob is opened under the request context, not the
// store timeout, so the stream stays alive while the response is written.
func (s *FileService) Download(ctx context.Context, id string) (io.ReadCloser, *models.Node, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	node, err := s.nodes.Get(lookupCtx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error(ctx, "metadata lookup failed", "node_id", id, "error", err)
		}
		return nil, nil, storeErr(err)
	}

	if node.IsFolder {
		return nil, nil, common.ErrNotFound
	}

	rc, err := s.blobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "blob missing for existing metadata", "node_id", id)
			return nil, nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "blob open failed", "node_id", id, "error", err)
		return nil, nil, storeErr(err)
	}

	return rc, node, nil
}

// Delete removes the blob, then the metadata record; the second step runs
// regardless of the first. The two steps are not transactional: a crash
// between them leaves an orphan on one side. Any step failure, including an
// already-deleted record, is reported as common.ErrNotFound, except store
// timeouts which surface as common.ErrUnavailable.
func (s *FileService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	blobErr := s.blobs.Delete(ctx, id)
	if blobErr != nil {
		s.logger.Warn(ctx, "blob delete failed", "node_id", id, "error", blobErr)
	}

	metaErr := s.nodes.Delete(ctx, id)

	for _, err := range []error{blobErr, metaErr} {
		if err == nil {
			continue
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, common.ErrUnavailable) {
			return common.ErrUnavailable
		}
		return common.ErrNotFound
	}

	s.logger.Info(ctx, "node deleted", "node_id", id)
	return nil
}
