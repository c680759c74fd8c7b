package model

import "time"

// Project is one Claude Code project directory under the data dir.
type Project struct {
	Path         string    `json:"path"`
	EncodedName  string    `json:"encodedName"`
	SessionCount int       `json:"sessionCount"`
	LastActivity time.Time `json:"lastActivity"`
}

// SessionInfo describes one session log file within a project.
type SessionInfo struct {
	SessionID  string    `json:"sessionId"`
	FilePath   string    `json:"filePath"`
	ModifiedAt time.Time `json:"modifiedAt"`
	SizeBytes  int64     `json:"sizeBytes"`
}
