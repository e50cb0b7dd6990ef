// Package drive is the read-side projection over an account's file set.
//
// Everything here is a pure function over an in-memory slice: no mutation,
// no persistence, no I/O. The HTTP layer calls these on every browse
// request, which maps to the UI invoking them on every keystroke and
// navigation event — they must stay cheap and side-effect free.
package drive

import (
	"strings"

	"github.com/sakif/survivaldisc/internal/model"
)

// Section identifies which view of the drive is being browsed.
type Section string

const (
	SectionDrive  Section = "cloud-drive"
	SectionRecent Section = "recent"
)

// Browse filters items for display.
//
// Filtering rules:
//   - drive browsing: an item is visible when its parent equals folderID AND
//     its name contains the query (case-insensitive substring)
//   - recent view: the parent constraint is dropped; only non-folder items
//     matching the query are shown, regardless of depth
//   - any other section falls back to drive behavior
//
// Relative order of the input is preserved.
func Browse(items []model.FileItem, folderID, query string, section Section) []model.FileItem {
	q := strings.ToLower(query)

	visible := []model.FileItem{}
	for _, item := range items {
		matchesSearch := q == "" || strings.Contains(strings.ToLower(item.Name), q)
		if !matchesSearch {
			continue
		}

		if section == SectionRecent {
			if item.Type != model.TypeFolder {
				visible = append(visible, item)
			}
			continue
		}

		if item.ParentID == folderID {
			visible = append(visible, item)
		}
	}

	return visible
}

// Breadcrumbs resolves the folder chain from the root down to folderID.
//
// Starting at folderID it walks parent links upward, collecting folders, and
// returns them in root-to-leaf order. The walk tolerates corruption:
//
//   - a dangling parent reference (deleted folder) ends the walk and the
//     partial path is returned
//   - a cycle in the parent chain (never produced by our mutations, but
//     possible in data written by older versions) ends the walk rather
//     than looping forever
//
// folderID == model.RootFolder yields an empty path.
func Breadcrumbs(items []model.FileItem, folderID string) []model.FileItem {
	byID := make(map[string]model.FileItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	crumbs := []model.FileItem{}
	visited := map[string]bool{}

	for id := folderID; id != model.RootFolder; {
		if visited[id] {
			break // cycle — stop with what we have
		}
		visited[id] = true

		folder, ok := byID[id]
		if !ok {
			break // dangling reference — emit the partial path
		}

		crumbs = append([]model.FileItem{folder}, crumbs...)
		id = folder.ParentID
	}

	return crumbs
}
