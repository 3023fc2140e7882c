package filesystem

// BrowseQuery contains query parameters for the browse endpoint.
type BrowseQuery struct {
	Path       string `query:"path" json:"path,omitempty" validate:"relpath"`
	ShowHidden bool   `query:"show_hidden" json:"show_hidden,omitempty"`
	Limit      int    `query:"limit" json:"limit,omitempty" default:"100" validate:"min=1,max=500"`
	Offset     int    `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search     string `query:"search" json:"search,omitempty" mod:"trim"`
}

// OpenQuery contains query parameters for the open endpoint.
type OpenQuery struct {
	Path string `query:"path" json:"path" validate:"required,relpath"`
}

// Entry represents a filesystem entry (file or directory).
type Entry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	IsDir    bool   `json:"is_dir"`
	IsParent bool   `json:"is_parent,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// BrowseResponse contains the response for the browse endpoint. Paths are
// relative to the served root.
type BrowseResponse struct {
	CurrentPath string  `json:"current_path"`
	ParentPath  *string `json:"parent_path,omitempty"`
	Entries     []Entry `json:"entries"`
	Total       int     `json:"total"`
	HasMore     bool    `json:"has_more"`
}

// OpenResponse acknowledges a scheduled open.
const OpenResponse = "Opening in file browser..."
