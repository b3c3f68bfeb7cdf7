package scene

import (
	"sort"
	"strings"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

var builtInScenes = []SceneInfo{
	{
		ID:          "sphere-phantom",
		Description: "Soft tissue ball around a dense core above a checker floor",
		Group:       "Phantoms",
	},
	{
		ID:          "nested-shells",
		Description: "Three concentric shells with a clipped octant",
		Group:       "Phantoms",
	},
	{
		ID:          "homogeneous-cube",
		Description: "Constant-density participating medium lit from above",
		Group:       "Media",
	},
}

func init() {
	for i := range builtInScenes {
		name := titleCase(builtInScenes[i].ID)
		builtInScenes[i].Name = name
		builtInScenes[i].DisplayName = name
	}
}

// ListScenes returns every built-in scene sorted by display name
func ListScenes() []SceneInfo {
	scenes := append([]SceneInfo(nil), builtInScenes...)
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes
}

// ListSceneGroups returns the built-in scenes grouped by category, with the
// groups in alphabetical order
func ListSceneGroups() []SceneGroup {
	groupMap := make(map[string][]SceneInfo)
	for _, s := range ListScenes() {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	names := make([]string, 0, len(groupMap))
	for name := range groupMap {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]SceneGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return groups
}

func lookupInfo(id string) (SceneInfo, bool) {
	for _, s := range builtInScenes {
		if s.ID == id {
			return s, true
		}
	}
	return SceneInfo{}, false
}

// titleCase converts a filename-style string to title case
// e.g., "nested-shells" -> "Nested Shells"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
