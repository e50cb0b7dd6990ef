package model

// GlobalStats is the cross-account aggregate shown on the admin dashboard.
//
// Consistency is "read committed at call time": the numbers are computed by a
// single scan with no locking, so a write racing the scan may or may not be
// reflected. That is acceptable for a display-only dashboard.
//
// ActiveNodes and ServerStatus are decorative, fixed values carried over from
// the product UI — they are not measured from anything.
type GlobalStats struct {
	UserCount    int    `json:"userCount"`
	FileCount    int    `json:"fileCount"`
	TotalBytes   int64  `json:"totalBytes"`
	ActiveNodes  int    `json:"activeNodes"`
	ServerStatus string `json:"serverStatus"`
}
