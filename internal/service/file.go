package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sakif/survivaldisc/internal/apperror"
	"github.com/sakif/survivaldisc/internal/drive"
	"github.com/sakif/survivaldisc/internal/model"
	"github.com/sakif/survivaldisc/internal/repository"
)

const (
	MaxFileNameLength = 255

	shareHost     = "https://survivaldisc.net/s/"
	shareTokenLen = 6
)

// FileService owns the per-account file tree: load-or-seed, atomic saves,
// validated creates, and deletes under the configured cascade policy.
type FileService struct {
	files  repository.FileRepository
	logger *slog.Logger

	// cascade: true removes a folder's descendants transitively on delete;
	// false preserves the legacy orphaning behavior (children keep a parent
	// reference that no longer resolves). Read-side code tolerates orphans
	// either way.
	cascade bool
}

// NewFileService creates a FileService with the given delete policy.
func NewFileService(files repository.FileRepository, cascade bool, logger *slog.Logger) *FileService {
	return &FileService{
		files:   files,
		cascade: cascade,
		logger:  logger,
	}
}

// Load returns the owner's file set, seeding the starter set on first use.
//
// The seed is persisted immediately so identifiers are stable across loads —
// the caller may hold ids from this result and mutate against them.
func (s *FileService) Load(ctx context.Context, owner string) ([]model.FileItem, error) {
	items, err := s.files.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("service/file: loading files for %s: %w", owner, err)
	}

	if len(items) > 0 {
		return items, nil
	}

	seed := drive.Seed(owner)
	if err := s.files.ReplaceAll(ctx, owner, seed); err != nil {
		return nil, fmt.Errorf("service/file: seeding files for %s: %w", owner, err)
	}

	s.logger.Info("seeded starter file set",
		slog.String("owner", owner),
		slog.Int("items", len(seed)),
	)

	return seed, nil
}

// Get returns one item from the owner's set.
func (s *FileService) Get(ctx context.Context, owner, id string) (*model.FileItem, error) {
	item, err := s.files.GetByID(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("service/file: fetching %s for %s: %w", id, owner, err)
	}
	return item, nil
}

// Save atomically replaces the owner's entire set. The write is
// all-or-nothing: a concurrent reader sees the old set or the new one,
// never a partial overwrite. Last writer wins between overlapping saves.
//
// The submitted set must be a well-formed forest: unique ids, every
// non-root parent resolving to a folder within the set, and no cycles in
// any parent chain. A whole-set replace is a mutation boundary like Create,
// so a payload that would corrupt the tree is rejected instead of stored.
func (s *FileService) Save(ctx context.Context, owner string, items []model.FileItem) error {
	byID := make(map[string]*model.FileItem, len(items))
	for i := range items {
		if items[i].ID == "" {
			return fmt.Errorf("service/file: %w", apperror.ValidationFailed("id", "every item needs an id"))
		}
		if byID[items[i].ID] != nil {
			return fmt.Errorf("service/file: %w", apperror.ValidationFailed("id",
				fmt.Sprintf("duplicate item id %s", items[i].ID)))
		}
		byID[items[i].ID] = &items[i]
		items[i].OwnerEmail = owner
	}

	for i := range items {
		if items[i].ParentID == model.RootFolder {
			continue
		}
		parent := byID[items[i].ParentID]
		if parent == nil {
			return fmt.Errorf("service/file: %w", apperror.DanglingReference(items[i].ID, items[i].ParentID))
		}
		if parent.Type != model.TypeFolder {
			return fmt.Errorf("service/file: %w", apperror.InvalidParent(items[i].ParentID))
		}
	}

	// Parents all resolve, so every chain either reaches the root or loops.
	// rooted memoizes items whose chain is known to terminate, keeping the
	// scan linear across the set.
	rooted := make(map[string]bool, len(items))
	for i := range items {
		walking := map[string]bool{}
		id := items[i].ID
		for id != model.RootFolder && !rooted[id] {
			if walking[id] {
				return fmt.Errorf("service/file: %w", apperror.ParentCycle(items[i].ID))
			}
			walking[id] = true
			id = byID[id].ParentID
		}
		for walked := range walking {
			rooted[walked] = true
		}
	}

	if err := s.files.ReplaceAll(ctx, owner, items); err != nil {
		return fmt.Errorf("service/file: saving files for %s: %w", owner, err)
	}

	return nil
}

// CreateParams carries a create request: an upload record or a new folder.
type CreateParams struct {
	ParentID string
	Name     string
	Type     model.FileType
	Size     int64
}

// Create validates and inserts one item into the owner's set.
//
// The parent must be the root sentinel or resolve to an existing folder in
// the same owner's set — creating under a file, a deleted folder, or another
// account's folder fails with apperror.ErrInvalidParent. This check is the
// mutation-boundary guard that keeps dangling references from being born
// here; delete under the orphan policy is the one sanctioned source.
func (s *FileService) Create(ctx context.Context, owner string, params CreateParams) (*model.FileItem, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("service/file: %w", apperror.ValidationFailed("name", "name is required"))
	}
	if len(name) > MaxFileNameLength {
		return nil, fmt.Errorf("service/file: %w", apperror.ValidationFailed("name",
			fmt.Sprintf("name must be at most %d characters", MaxFileNameLength)))
	}
	if !params.Type.Valid() {
		return nil, fmt.Errorf("service/file: %w", apperror.ValidationFailed("type",
			fmt.Sprintf("unknown file type %q", params.Type)))
	}
	if params.Size < 0 {
		return nil, fmt.Errorf("service/file: %w", apperror.ValidationFailed("size", "size must not be negative"))
	}

	size := params.Size
	if params.Type == model.TypeFolder {
		size = 0 // folders have no size of their own
	}

	if params.ParentID != model.RootFolder {
		parent, err := s.files.GetByID(ctx, owner, params.ParentID)
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			return nil, fmt.Errorf("service/file: %w", apperror.InvalidParent(params.ParentID))
		case err != nil:
			// An infrastructure failure is not the caller's mistake.
			return nil, fmt.Errorf("service/file: resolving parent %s: %w", params.ParentID, err)
		case parent.Type != model.TypeFolder:
			return nil, fmt.Errorf("service/file: %w", apperror.InvalidParent(params.ParentID))
		}
	}

	item := &model.FileItem{
		OwnerEmail: owner,
		Name:       name,
		Type:       params.Type,
		Size:       size,
		ParentID:   params.ParentID,
	}

	if err := s.files.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("service/file: creating %q for %s: %w", name, owner, err)
	}

	s.logger.Info("file created",
		slog.String("owner", owner),
		slog.String("id", item.ID),
		slog.String("type", string(item.Type)),
	)

	return item, nil
}

// Delete removes an item from the owner's set.
//
// With the cascade policy, deleting a folder removes every transitive
// descendant in the same operation. Without it, exactly one record is
// removed and any children are orphaned — their parent reference dangles
// until they are deleted themselves.
func (s *FileService) Delete(ctx context.Context, owner, id string) error {
	item, err := s.files.GetByID(ctx, owner, id)
	if err != nil {
		return fmt.Errorf("service/file: deleting %s for %s: %w", id, owner, err)
	}

	ids := []string{id}
	if s.cascade && item.Type == model.TypeFolder {
		all, err := s.files.ListByOwner(ctx, owner)
		if err != nil {
			return fmt.Errorf("service/file: loading set to cascade delete %s: %w", id, err)
		}
		ids = append(ids, descendants(all, id)...)
	}

	if err := s.files.Delete(ctx, owner, ids); err != nil {
		return fmt.Errorf("service/file: deleting %s for %s: %w", id, owner, err)
	}

	s.logger.Info("files deleted",
		slog.String("owner", owner),
		slog.String("root", id),
		slog.Int("count", len(ids)),
	)

	return nil
}

// ShareLink builds the cosmetic share URL for an item. The token is random
// filler to make the link look like a capability; it grants nothing and is
// not stored.
func (s *FileService) ShareLink(ctx context.Context, owner, id string) (string, error) {
	if _, err := s.files.GetByID(ctx, owner, id); err != nil {
		return "", fmt.Errorf("service/file: sharing %s for %s: %w", id, owner, err)
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:shareTokenLen]
	return shareHost + id + "_" + token, nil
}

// descendants collects every transitive child of rootID, breadth-first.
// A visited set guards against cycles in corrupted data.
func descendants(items []model.FileItem, rootID string) []string {
	children := map[string][]string{}
	for _, item := range items {
		if item.ParentID != model.RootFolder {
			children[item.ParentID] = append(children[item.ParentID], item.ID)
		}
	}

	var out []string
	visited := map[string]bool{rootID: true}
	queue := []string{rootID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, child := range children[id] {
			if visited[child] {
				continue
			}
			visited[child] = true
			out = append(out, child)
			queue = append(queue, child)
		}
	}

	return out
}
