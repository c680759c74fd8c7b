package model

import "fmt"

// Scope identifies one timeline: either a session log or a sub-agent log
// within a project. AgentID is empty for session scopes.
type Scope struct {
	ProjectPath string
	SessionID   string
	AgentID     string
}

// SessionScope builds a scope for a main session timeline.
func SessionScope(projectPath, sessionID string) Scope {
	return Scope{ProjectPath: projectPath, SessionID: sessionID}
}

// AgentScope builds a scope for a sub-agent timeline.
func AgentScope(projectPath, agentID string) Scope {
	return Scope{ProjectPath: projectPath, AgentID: agentID}
}

// IsAgent reports whether this scope addresses a sub-agent log.
func (s Scope) IsAgent() bool {
	return s.AgentID != ""
}

// IsZero reports whether no timeline is selected.
func (s Scope) IsZero() bool {
	return s.ProjectPath == "" && s.SessionID == "" && s.AgentID == ""
}

// Key returns the registry key used by the watcher and the notification
// bus. Notifications are matched on exact key equality.
func (s Scope) Key() string {
	if s.IsAgent() {
		return fmt.Sprintf("%s:agent:%s", s.ProjectPath, s.AgentID)
	}
	return fmt.Sprintf("%s:%s", s.ProjectPath, s.SessionID)
}
