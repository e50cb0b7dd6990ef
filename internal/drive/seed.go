package drive

import (
	"time"

	"github.com/rs/xid"

	"github.com/sakif/survivaldisc/internal/model"
)

// Seed builds the starter file set a brand-new account sees: two root-level
// folders and a document inside the first, so the drive isn't an empty wall
// on first login.
//
// Identifiers are freshly generated per call — seeds for different accounts
// never share ids.
func Seed(owner string) []model.FileItem {
	now := time.Now()

	identity := model.FileItem{
		ID:           xid.New().String(),
		OwnerEmail:   owner,
		Name:         "Identity Documents",
		Type:         model.TypeFolder,
		Size:         0,
		LastModified: now,
		ParentID:     model.RootFolder,
	}
	media := model.FileItem{
		ID:           xid.New().String(),
		OwnerEmail:   owner,
		Name:         "Archive Media",
		Type:         model.TypeFolder,
		Size:         0,
		LastModified: now,
		ParentID:     model.RootFolder,
	}
	manual := model.FileItem{
		ID:           xid.New().String(),
		OwnerEmail:   owner,
		Name:         "Survival_Manual.pdf",
		Type:         model.TypeDocument,
		Size:         2_400_000,
		LastModified: now,
		ParentID:     identity.ID,
	}

	return []model.FileItem{identity, media, manual}
}
